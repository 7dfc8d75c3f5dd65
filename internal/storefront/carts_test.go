package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
)

type failingStorage struct{}

func (failingStorage) Load(context.Context, string) ([]cart.Item, error) {
	return nil, errors.New("storage offline")
}

func (failingStorage) Save(context.Context, string, []cart.Item) error { return nil }

type flakyStorage struct {
	*cart.MemoryStorage
	down bool
}

func (f *flakyStorage) Load(ctx context.Context, key string) ([]cart.Item, error) {
	if f.down {
		return nil, errors.New("storage offline")
	}
	return f.MemoryStorage.Load(ctx, key)
}

func product(t *testing.T, id string) cart.Product {
	t.Helper()
	p, ok := catalog.Default().ByID(id)
	require.True(t, ok)
	return p
}

func TestCarts_GetIsStablePerID(t *testing.T) {
	carts := NewCarts(cart.NewMemoryStorage(), nil, 0, 0)
	ctx := context.Background()

	a, err := carts.Get(ctx, "a")
	require.NoError(t, err)
	again, err := carts.Get(ctx, "a")
	require.NoError(t, err)
	b, err := carts.Get(ctx, "b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
}

func TestCarts_RehydratesFromStorage(t *testing.T) {
	st := cart.NewMemoryStorage()
	p, ok := catalog.Default().ByID("prod_005")
	require.True(t, ok)

	first, err := NewCarts(st, nil, 0, 0).Get(context.Background(), "shopper")
	require.NoError(t, err)
	first.AddItem(p)

	// A fresh registry stands in for a process restart.
	second, err := NewCarts(st, nil, 0, 0).Get(context.Background(), "shopper")
	require.NoError(t, err)
	assert.Equal(t, 1, second.ItemCount())
	assert.False(t, second.IsOpen())
}

func TestCarts_StorageError(t *testing.T) {
	_, err := NewCarts(failingStorage{}, nil, 0, 0).Get(context.Background(), "x")
	assert.Error(t, err)
}

func TestCarts_Bounded(t *testing.T) {
	carts := NewCarts(cart.NewMemoryStorage(), nil, 10, time.Hour)
	h := (&Server{Carts: carts, CookieTTL: time.Hour}).Routes()

	for range 1000 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cart", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, 10, carts.Len())
}

func TestCarts_IdleCartsExpire(t *testing.T) {
	st := cart.NewMemoryStorage()
	carts := NewCarts(st, nil, 10, 50*time.Millisecond)
	ctx := context.Background()

	first, err := carts.Get(ctx, "idle")
	require.NoError(t, err)
	first.AddItem(product(t, "prod_005"))
	first.OpenCart()

	time.Sleep(150 * time.Millisecond)

	again, err := carts.Get(ctx, "idle")
	require.NoError(t, err)
	assert.NotSame(t, first, again)
	assert.Equal(t, 1, again.ItemCount(), "items come back from storage")
	assert.False(t, again.IsOpen())
}

func TestCarts_ReplicasShareStorage(t *testing.T) {
	st := cart.NewMemoryStorage()
	a := NewCarts(st, nil, 0, 0)
	b := NewCarts(st, nil, 0, 0)
	ctx := context.Background()

	// Both replicas hold the shopper's cart before either writes.
	_, err := a.Get(ctx, "shopper")
	require.NoError(t, err)
	_, err = b.Get(ctx, "shopper")
	require.NoError(t, err)

	ca, err := a.Get(ctx, "shopper")
	require.NoError(t, err)
	ca.AddItem(product(t, "prod_005"))

	cb, err := b.Get(ctx, "shopper")
	require.NoError(t, err)
	cb.AddItem(product(t, "prod_008"))

	ca, err = a.Get(ctx, "shopper")
	require.NoError(t, err)
	cb, err = b.Get(ctx, "shopper")
	require.NoError(t, err)
	assert.Equal(t, 2, ca.ItemCount())
	assert.Equal(t, 2, cb.ItemCount())

	persisted, err := st.Load(ctx, cart.Key("shopper"))
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestCarts_WatchPinsAgainstEviction(t *testing.T) {
	carts := NewCarts(cart.NewMemoryStorage(), nil, 1, time.Hour)
	ctx := context.Background()

	watched, release, err := carts.Watch(ctx, "a")
	require.NoError(t, err)

	_, err = carts.Get(ctx, "b")
	require.NoError(t, err)
	_, err = carts.Get(ctx, "c")
	require.NoError(t, err)

	got, err := carts.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, watched, got, "a streamed cart is never evicted")
	assert.Equal(t, 2, carts.Len())

	release()
	release()

	got, err = carts.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, watched, got)
	assert.Equal(t, 1, carts.Len())
}

func TestCarts_ReloadError(t *testing.T) {
	st := &flakyStorage{MemoryStorage: cart.NewMemoryStorage()}
	carts := NewCarts(st, nil, 0, 0)

	_, err := carts.Get(context.Background(), "x")
	require.NoError(t, err)

	st.down = true
	_, err = carts.Get(context.Background(), "x")
	assert.Error(t, err)
}

func TestCartID(t *testing.T) {
	t.Run("issues cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		id := cartID(rr, httptest.NewRequest(http.MethodGet, "/cart", nil), time.Hour)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cartCookie, cookies[0].Name)
		assert.Equal(t, id, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 3600, cookies[0].MaxAge)
	})

	t.Run("reuses valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: cartCookie, Value: "6f1c2a52-3a9e-4c39-9a51-1f0e6c0f3a10"})
		rr := httptest.NewRecorder()

		assert.Equal(t, "6f1c2a52-3a9e-4c39-9a51-1f0e6c0f3a10", cartID(rr, req, time.Hour))
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("replaces malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: cartCookie, Value: "../../etc"})
		rr := httptest.NewRecorder()

		id := cartID(rr, req, time.Hour)
		assert.NotEqual(t, "../../etc", id)
		assert.Len(t, rr.Result().Cookies(), 1)
	})
}

func TestViewOf_Empty(t *testing.T) {
	v := viewOf(cart.State{})
	assert.NotNil(t, v.Items)
	assert.Equal(t, "0.00", v.Subtotal)
	assert.Equal(t, "0.00", v.Total)
}
