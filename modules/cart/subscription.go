package cart

import (
	"sync"

	uuid "github.com/satori/go.uuid"
)

// Snapshot is the cart as of one version.
type Snapshot struct {
	Version  uint64
	Products []Product
}

// Subscription delivers the latest cart snapshot on C. A slow reader skips
// intermediate versions but always ends up with the newest one.
type Subscription struct {
	ID uuid.UUID
	C  <-chan Snapshot

	c     chan Snapshot
	store *Store
	once  sync.Once
}

// Subscribe registers a reader. The current cart is delivered right away.
func (module *Store) Subscribe() *Subscription {
	module.lock()
	defer module.mu.Unlock()

	c := make(chan Snapshot, 1)
	sub := &Subscription{
		ID:    uuid.NewV4(),
		C:     c,
		c:     c,
		store: module,
	}

	module.subs[sub] = struct{}{}
	deliver(c, module.snapshot())

	return sub
}

// Close stops deliveries and closes C.
func (sub *Subscription) Close() {
	module := sub.store

	module.mu.Lock()
	if _, exists := module.subs[sub]; exists {
		delete(module.subs, sub)
		sub.close()
	}
	module.mu.Unlock()
}

func (sub *Subscription) close() {
	sub.once.Do(func() {
		close(sub.c)
	})
}

// snapshot is called with mu held.
func (module *Store) snapshot() Snapshot {
	return Snapshot{
		Version:  module.version,
		Products: clone(module.products),
	}
}

// publish is called with mu held.
func (module *Store) publish() {
	for sub := range module.subs {
		deliver(sub.c, module.snapshot())
	}
}

// deliver replaces whatever is buffered in c with snap. Only publish sends on
// c and it runs under mu, so the loop ends after at most one drain.
func deliver(c chan Snapshot, snap Snapshot) {
	for {
		select {
		case c <- snap:
			return
		default:
		}

		select {
		case <-c:
		default:
		}
	}
}
