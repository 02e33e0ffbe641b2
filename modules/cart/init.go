package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/op/go-logging"
	uuid "github.com/satori/go.uuid"
	"github.com/tryanzu/gomarketplace/core/events"
)

// DefaultKey is the storage key the cart snapshot lives under.
const DefaultKey = "@GoMarketplace-Cart"

// ErrOutsideProvider is raised when the cart is consumed outside the lifetime of its store.
var ErrOutsideProvider = errors.New("cart: store must be used within a provider")

// Emitter receives cart events.
type Emitter interface {
	Emit(events.Event)
}

// Reporter is told about storage failures the caller never sees.
type Reporter interface {
	Capture(err error, tags map[string]string)
}

// Recorder counts mutations and persistence outcomes.
type Recorder interface {
	Mutation(op string, changed bool)
	Persisted(ok bool)
}

// Store holds the cart in memory and mirrors every change to a Bucket.
//
// State transitions happen synchronously under a mutex and are published to
// subscribers before the snapshot is written; the write itself is queued to a
// single writer goroutine, so callers never wait on storage latency.
type Store struct {
	key      string
	bucket   Bucket
	log      *logging.Logger
	emitter  Emitter
	reporter Reporter
	recorder Recorder

	mu       sync.Mutex
	products []Product
	version  uint64
	closed   bool
	subs     map[*Subscription]struct{}

	bootOnce sync.Once
	ready    chan struct{}

	writes writeQueue
	done   chan struct{}
}

// New creates a store over bucket and starts its persistence writer.
// The cart starts empty until Boot loads the saved snapshot.
func New(bucket Bucket, options ...Option) *Store {
	module := &Store{
		key:      DefaultKey,
		bucket:   bucket,
		log:      logging.MustGetLogger("cart"),
		products: []Product{},
		subs:     map[*Subscription]struct{}{},
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, option := range options {
		option(module)
	}

	module.writes.init()
	go module.writer()

	return module
}

// Key is the storage key used for the snapshot.
func (module *Store) Key() string {
	return module.key
}

// Boot loads the saved cart once. Further calls do nothing.
//
// Load runs in the background. A mutation issued before Ready is closed works
// on the empty cart and is replaced wholesale if a saved snapshot turns up.
func (module *Store) Boot(ctx context.Context) {
	module.bootOnce.Do(func() {
		go module.load(ctx)
	})
}

// Ready is closed once the load started by Boot resolved, whatever its outcome.
func (module *Store) Ready() <-chan struct{} {
	return module.ready
}

// WaitReady blocks until the saved cart was loaded or ctx is done.
func (module *Store) WaitReady(ctx context.Context) error {
	select {
	case <-module.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (module *Store) load(ctx context.Context) {
	defer close(module.ready)

	data, found, err := module.bucket.Get(ctx, module.key)
	if err != nil {
		module.log.Warningf("could not read saved cart %s: %v", module.key, err)
		module.emit(events.CartLoadFailed(module.key, err))
		return
	}

	if !found || data == "" {
		module.log.Noticef("no saved cart under %s", module.key)
		module.emit(events.CartLoaded(module.key, 0))
		return
	}

	items, err := Decode(data)
	if err != nil {
		module.log.Warningf("discarding malformed cart snapshot %s: %v", module.key, err)
		module.emit(events.CartLoadFailed(module.key, err))
		return
	}

	module.mu.Lock()
	if module.closed {
		module.mu.Unlock()
		return
	}
	module.products = items
	module.version++
	module.publish()
	module.mu.Unlock()

	module.log.Noticef("restored %d cart items from %s", len(items), module.key)
	module.emit(events.CartLoaded(module.key, len(items)))
}

// Products returns a copy of the current cart.
func (module *Store) Products() []Product {
	module.lock()
	defer module.mu.Unlock()

	return clone(module.products)
}

// Count is the number of units in the cart.
func (module *Store) Count() int {
	count := 0
	for _, item := range module.Products() {
		count += item.Quantity
	}

	return count
}

// Total is the cart value, price times quantity over every item.
func (module *Store) Total() float64 {
	total := 0.0
	for _, item := range module.Products() {
		total += item.Price * float64(item.Quantity)
	}

	return total
}

// AddToCart appends the product with quantity 1 unless an item with the same
// id is already present, in which case nothing changes. Quantities are only
// raised through Increment. Products without an id or with a negative price
// are refused.
func (module *Store) AddToCart(ctx context.Context, product Product) bool {
	module.lock()

	if !product.valid() {
		module.mu.Unlock()
		module.log.Warningf("refusing cart product %q priced %v", product.ID, product.Price)
		module.track("add", false)
		return false
	}

	if indexOf(module.products, product.ID) != -1 {
		module.mu.Unlock()
		module.track("add", false)
		return false
	}

	item := Product{
		ID:       product.ID,
		Title:    product.Title,
		ImageURL: product.ImageURL,
		Price:    product.Price,
		Quantity: 1,
	}

	next := make([]Product, len(module.products), len(module.products)+1)
	copy(next, module.products)
	next = append(next, item)
	module.commit(next)

	module.log.Debugf("added %s to cart", item.ID)
	module.track("add", true)
	module.emit(events.CartItem(events.CART_ITEM_ADDED, item.ID, item.Quantity))
	return true
}

// Increment raises the quantity of the item with the given id by one, in place.
// Unknown ids are ignored.
func (module *Store) Increment(ctx context.Context, id string) bool {
	module.lock()

	index := indexOf(module.products, id)
	if index == -1 {
		module.mu.Unlock()
		module.track("increment", false)
		return false
	}

	next := clone(module.products)
	next[index] = next[index].IncQuantity(1)
	quantity := next[index].Quantity
	module.commit(next)

	module.log.Debugf("incremented %s to %d", id, quantity)
	module.track("increment", true)
	module.emit(events.CartItem(events.CART_ITEM_INCREMENTED, id, quantity))
	return true
}

// Decrement lowers the quantity of the item with the given id by one. An item
// reaching zero is removed from the cart. Unknown ids are ignored.
func (module *Store) Decrement(ctx context.Context, id string) bool {
	module.lock()

	index := indexOf(module.products, id)
	if index == -1 {
		module.mu.Unlock()
		module.track("decrement", false)
		return false
	}

	item := module.products[index].IncQuantity(-1)

	var next []Product
	if item.Quantity > 0 {
		next = clone(module.products)
		next[index] = item
	} else {
		next = make([]Product, 0, len(module.products)-1)
		next = append(next, module.products[:index]...)
		next = append(next, module.products[index+1:]...)
	}
	module.commit(next)

	module.track("decrement", true)
	if item.Quantity > 0 {
		module.log.Debugf("decremented %s to %d", id, item.Quantity)
		module.emit(events.CartItem(events.CART_ITEM_DECREMENTED, id, item.Quantity))
	} else {
		module.log.Debugf("removed %s from cart", id)
		module.emit(events.CartItem(events.CART_ITEM_REMOVED, id, 0))
	}

	return true
}

// Flush waits until every snapshot queued so far was written (or failed).
func (module *Store) Flush(ctx context.Context) error {
	return module.writes.wait(ctx, module.writes.last())
}

// Close drains pending writes, stops the writer and ends every subscription.
// Consuming the store afterwards panics with ErrOutsideProvider.
func (module *Store) Close() error {
	module.mu.Lock()
	if module.closed {
		module.mu.Unlock()
		return nil
	}
	module.closed = true
	for sub := range module.subs {
		delete(module.subs, sub)
		sub.close()
	}
	module.mu.Unlock()

	module.writes.stop()
	<-module.done
	return nil
}

// commit swaps in the next collection, publishes it and queues its snapshot.
// Called with mu held; releases it.
func (module *Store) commit(next []Product) {
	module.products = next
	module.version++
	module.publish()
	module.writes.push(write{
		id:       uuid.NewV4(),
		version:  module.version,
		products: next,
	})
	module.mu.Unlock()
}

// lock acquires mu, panicking when the store is not alive.
func (module *Store) lock() {
	if module == nil {
		panic(ErrOutsideProvider)
	}

	module.mu.Lock()
	if module.closed {
		module.mu.Unlock()
		panic(ErrOutsideProvider)
	}
}

func (module *Store) alive() bool {
	if module == nil {
		return false
	}

	module.mu.Lock()
	defer module.mu.Unlock()
	return !module.closed
}

func (module *Store) emit(event events.Event) {
	if module.emitter != nil {
		module.emitter.Emit(event)
	}
}

func (module *Store) track(op string, changed bool) {
	if module.recorder != nil {
		module.recorder.Mutation(op, changed)
	}
}
