package storefront

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"Storefront/internal/cart"
)

const (
	cartCookie = "cart_id"

	defaultCartCacheSize = 10000
	defaultCartCacheIdle = 30 * time.Minute
)

// Carts hands out one cart.Store per shopper. Live stores are kept in a
// bounded cache that drops carts idle for longer than the configured period;
// storage remains the source of truth and is re-read on every Get. Carts
// watched by an event stream stay pinned until the last stream ends.
type Carts struct {
	storage cart.Storage
	log     *zap.Logger

	mu     sync.Mutex
	live   *expirable.LRU[string, *cart.Store]
	pinned map[string]*pinnedCart
}

type pinnedCart struct {
	store *cart.Store
	refs  int
}

// NewCarts caches at most size carts, each for idle after its last use.
// Non-positive values select the defaults.
func NewCarts(st cart.Storage, log *zap.Logger, size int, idle time.Duration) *Carts {
	if log == nil {
		log = zap.NewNop()
	}
	if size <= 0 {
		size = defaultCartCacheSize
	}
	if idle <= 0 {
		idle = defaultCartCacheIdle
	}
	return &Carts{
		storage: st,
		log:     log,
		live:    expirable.NewLRU[string, *cart.Store](size, nil, idle),
		pinned:  make(map[string]*pinnedCart),
	}
}

// Get returns the store for id with its items freshly read from storage.
func (c *Carts) Get(ctx context.Context, id string) (*cart.Store, error) {
	key := cart.Key(id)

	if s, ok := c.lookup(id); ok {
		if err := s.Reload(ctx, c.storage, key); err != nil {
			return nil, err
		}
		return s, nil
	}

	opened, err := cart.Open(ctx, c.storage, key, c.log.With(zap.String("cart_id", id)))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	s, raced := c.lookupLocked(id)
	if !raced {
		c.live.Add(id, opened)
	}
	c.mu.Unlock()

	if raced {
		if err := s.Reload(ctx, c.storage, key); err != nil {
			return nil, err
		}
		return s, nil
	}
	return opened, nil
}

// Watch is Get for long-lived readers: the store is kept out of eviction
// until release is called.
func (c *Carts) Watch(ctx context.Context, id string) (s *cart.Store, release func(), err error) {
	s, err = c.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	p, ok := c.pinned[id]
	if !ok {
		p = &pinnedCart{store: s}
		c.pinned[id] = p
	}
	p.refs++
	s = p.store
	c.mu.Unlock()

	var once sync.Once
	return s, func() { once.Do(func() { c.unpin(id) }) }, nil
}

// Len is the number of carts held in memory.
func (c *Carts) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.live.Len()
	for id := range c.pinned {
		if _, ok := c.live.Peek(id); !ok {
			n++
		}
	}
	return n
}

func (c *Carts) unpin(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pinned[id]
	if !ok {
		return
	}
	if p.refs--; p.refs > 0 {
		return
	}
	delete(c.pinned, id)
	c.live.Add(id, p.store)
}

func (c *Carts) lookup(id string) (*cart.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(id)
}

// lookupLocked also pushes back the idle deadline of a cached cart.
func (c *Carts) lookupLocked(id string) (*cart.Store, bool) {
	if p, ok := c.pinned[id]; ok {
		return p.store, true
	}
	s, ok := c.live.Get(id)
	if ok {
		c.live.Add(id, s)
	}
	return s, ok
}

// cartID reads the shopper's cart id from the request, issuing a new one via
// Set-Cookie when it is missing or malformed.
func cartID(w http.ResponseWriter, r *http.Request, ttl time.Duration) string {
	if c, err := r.Cookie(cartCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
