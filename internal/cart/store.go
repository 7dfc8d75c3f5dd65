package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Store is the single source of truth for one shopper's cart. Mutations are
// applied one at a time; after each one that changes the state, every
// subscriber is called synchronously, in subscription order, with the new
// state. Subscribers must not mutate the store from inside the callback.
type Store struct {
	writeMu sync.Mutex

	mu     sync.RWMutex
	state  State
	reduce Reducer

	subMu  sync.Mutex
	subs   []subscriber
	nextID uint64
}

type subscriber struct {
	id uint64
	fn func(State)
}

type options struct {
	middleware []Middleware
	items      []Item
}

type Option func(*options)

// WithMiddleware wraps the transition function. The first middleware given
// is the outermost.
func WithMiddleware(m ...Middleware) Option {
	return func(o *options) { o.middleware = append(o.middleware, m...) }
}

// WithItems seeds the store. Duplicates are dropped and quantities reset to 1.
func WithItems(items []Item) Option {
	return func(o *options) { o.items = items }
}

func New(opts ...Option) *Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	reduce := Reducer(Reduce)
	for i := len(o.middleware) - 1; i >= 0; i-- {
		reduce = o.middleware[i](reduce)
	}

	return &Store{state: seed(State{}, o.items), reduce: reduce}
}

// seed rebuilds st with items, dropping duplicates and resetting quantities.
func seed(st State, items []Item) State {
	st.Items = []Item{}
	for _, it := range items {
		st = Reduce(st, AddItem{Product: it.Product})
	}
	return st
}

func (s *Store) AddItem(p Product) { s.dispatch(AddItem{Product: p}) }

func (s *Store) RemoveItem(productID string) { s.dispatch(RemoveItem{ProductID: productID}) }

func (s *Store) ClearCart() { s.dispatch(ClearCart{}) }

func (s *Store) OpenCart() { s.dispatch(OpenCart{}) }

func (s *Store) CloseCart() { s.dispatch(CloseCart{}) }

func (s *Store) ToggleCart() { s.dispatch(ToggleCart{}) }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Items: slices.Clone(s.state.Items), IsOpen: s.state.IsOpen}
}

func (s *Store) Items() []Item { return s.Snapshot().Items }

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsOpen
}

// ItemCount is the number of distinct products in the cart.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items)
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Subtotal(s.state.Items)
}

func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Total(s.state.Items)
}

// Subscribe registers fn for state changes and returns a function that
// removes it. The returned function is safe to call more than once.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

func (s *Store) dispatch(a Action) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	prev := s.state
	s.mu.RUnlock()

	next := s.reduce(prev, a)
	if next.IsOpen == prev.IsOpen && sameItems(next.Items, prev.Items) {
		return
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.notify(next)
}

// replaceItems swaps in items read from storage, bypassing the middleware.
// The caller holds writeMu.
func (s *Store) replaceItems(items []Item) {
	s.mu.RLock()
	prev := s.state
	s.mu.RUnlock()

	next := seed(State{IsOpen: prev.IsOpen}, items)
	if sameItems(next.Items, prev.Items) {
		return
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.notify(next)
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(State{Items: slices.Clone(st.Items), IsOpen: st.IsOpen})
	}
}
