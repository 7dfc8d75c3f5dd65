package cart

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Namespace prefixes every persisted cart record.
const Namespace = "rubi-cart-storage"

const (
	loadTimeout = 2 * time.Second
	saveTimeout = 2 * time.Second
)

var ErrNotFound = errors.New("cart record not found")

// Storage persists the item list of a cart. The open/closed flag is never
// persisted.
type Storage interface {
	Load(ctx context.Context, key string) ([]Item, error)
	Save(ctx context.Context, key string, items []Item) error
}

// Middleware decorates a Reducer, typically to add side effects.
type Middleware func(Reducer) Reducer

// Key returns the storage key of a shopper's cart.
func Key(cartID string) string {
	if cartID == "" {
		return Namespace
	}
	return Namespace + ":" + cartID
}

// Persist saves the item list after every transition that changed it.
// Failures are logged; the transition itself always succeeds.
func Persist(st Storage, key string, log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next Reducer) Reducer {
		return func(s State, a Action) State {
			out := next(s, a)
			if sameItems(s.Items, out.Items) {
				return out
			}

			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()

			if err := st.Save(ctx, key, out.Items); err != nil {
				log.Warn("persist cart failed", zap.String("key", key), zap.Error(err))
			}
			return out
		}
	}
}

// Open rehydrates the cart stored under key and returns a store that keeps
// it persisted. A missing record is an empty cart.
func Open(ctx context.Context, st Storage, key string, log *zap.Logger, opts ...Option) (*Store, error) {
	items, err := load(ctx, st, key)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithItems(items), WithMiddleware(Persist(st, key, log))}, opts...)
	return New(opts...), nil
}

// Reload replaces the items with the record stored under key, so that a
// change written by another process is seen before the next mutation. The
// open flag is kept; subscribers are notified when the items differ.
func (s *Store) Reload(ctx context.Context, st Storage, key string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, err := load(ctx, st, key)
	if err != nil {
		return err
	}
	s.replaceItems(items)
	return nil
}

func load(ctx context.Context, st Storage, key string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	items, err := st.Load(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return items, nil
}

// MemoryStorage keeps records in process memory.
type MemoryStorage struct {
	mu sync.RWMutex
	m  map[string][]Item
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string][]Item)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(items), nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = slices.Clone(items)
	return nil
}
