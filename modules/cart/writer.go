package cart

import (
	"context"
	"sync"

	uuid "github.com/satori/go.uuid"
	"github.com/tryanzu/gomarketplace/core/events"
)

type write struct {
	id       uuid.UUID
	version  uint64
	seq      uint64
	products []Product
}

// writeQueue is an unbounded FIFO of snapshots feeding the single writer.
type writeQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pending  []write
	stopping bool

	queued   uint64
	written  uint64
	progress chan struct{}
}

func (q *writeQueue) init() {
	q.cond = sync.NewCond(&q.mu)
	q.progress = make(chan struct{})
}

func (q *writeQueue) push(w write) {
	q.mu.Lock()
	q.queued++
	w.seq = q.queued
	q.pending = append(q.pending, w)
	q.mu.Unlock()

	q.cond.Signal()
}

// next blocks until a write is available. It reports false once the queue is
// stopping and empty.
func (q *writeQueue) next() (write, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 {
		if q.stopping {
			return write{}, false
		}

		q.cond.Wait()
	}

	w := q.pending[0]
	q.pending[0] = write{}
	q.pending = q.pending[1:]
	return w, true
}

func (q *writeQueue) done(seq uint64) {
	q.mu.Lock()
	q.written = seq
	close(q.progress)
	q.progress = make(chan struct{})
	q.mu.Unlock()
}

func (q *writeQueue) last() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.queued
}

func (q *writeQueue) wait(ctx context.Context, seq uint64) error {
	for {
		q.mu.Lock()
		if q.written >= seq {
			q.mu.Unlock()
			return nil
		}
		progress := q.progress
		q.mu.Unlock()

		select {
		case <-progress:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *writeQueue) stop() {
	q.mu.Lock()
	q.stopping = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

func (module *Store) writer() {
	defer close(module.done)

	for {
		w, ok := module.writes.next()
		if !ok {
			return
		}

		module.persist(w)
		module.writes.done(w.seq)
	}
}

// persist writes one snapshot. Failures never reach the mutation caller: they
// are logged, reported and emitted as events, and the in-memory cart stays as is.
func (module *Store) persist(w write) {
	data, err := Encode(w.products)
	if err == nil {
		err = module.bucket.Set(context.Background(), module.key, data)
	}

	if module.recorder != nil {
		module.recorder.Persisted(err == nil)
	}

	if err != nil {
		module.log.Errorf("could not persist cart version %d (%s): %v", w.version, w.id, err)
		if module.reporter != nil {
			module.reporter.Capture(err, map[string]string{
				"key":      module.key,
				"write_id": w.id.String(),
			})
		}

		module.emit(events.CartPersistFailed(module.key, w.id.String(), w.version, err))
		return
	}

	module.emit(events.CartPersisted(module.key, w.id.String(), w.version))
}
