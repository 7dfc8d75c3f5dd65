package storefront_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

type fakeSessions struct {
	mu   sync.Mutex
	reqs []checkout.SessionRequest
	ips  []string
	resp checkout.SessionResponse
	err  error
}

func (f *fakeSessions) CreateSession(_ context.Context, clientIP string, req checkout.SessionRequest) (checkout.SessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	f.ips = append(f.ips, clientIP)
	return f.resp, f.err
}

type shopper struct {
	t      *testing.T
	base   string
	client *http.Client
	// forwardedFor is sent as X-Forwarded-For, standing in for a load
	// balancer in front of the storefront.
	forwardedFor string
}

func newShopper(t *testing.T, h http.Handler) *shopper {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &shopper{t: t, base: ts.URL, client: &http.Client{Jar: jar, Timeout: 5 * time.Second}}
}

func (s *shopper) do(method, path string, body any) (int, []byte) {
	s.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.base+path, rd)
	require.NoError(s.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", s.forwardedFor)
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, out
}

func (s *shopper) cart(method, path string, body any) storefront.CartView {
	s.t.Helper()

	code, raw := s.do(method, path, body)
	require.Equal(s.t, http.StatusOK, code, string(raw))

	var v storefront.CartView
	require.NoError(s.t, json.Unmarshal(raw, &v))
	return v
}

func (s *shopper) add(id string) storefront.CartView {
	return s.cart(http.MethodPost, "/cart/items", map[string]string{"productId": id})
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	var er kit.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &er))
	return er.Error
}

func newServer(sessions storefront.SessionCreator, live bool) *storefront.Server {
	return &storefront.Server{
		Carts:        storefront.NewCarts(cart.NewMemoryStorage(), zap.NewNop(), 0, 0),
		Products:     storefront.LocalCatalog{Catalog: catalog.Default()},
		Sessions:     sessions,
		Log:          zap.NewNop(),
		LiveCheckout: live,
		CookieTTL:    time.Hour,
	}
}

func TestCartScenario(t *testing.T) {
	s := newShopper(t, newServer(nil, false).Routes())

	v := s.cart(http.MethodGet, "/cart", nil)
	assert.Equal(t, 0, v.ItemCount)

	s.add("prod_005")
	v = s.add("prod_008")
	assert.Equal(t, 2, v.ItemCount)
	assert.Equal(t, "62.98", v.Subtotal)
	assert.Equal(t, v.Subtotal, v.Total)

	v = s.add("prod_005")
	assert.Equal(t, 2, v.ItemCount, "re-adding is a no-op")

	v = s.cart(http.MethodDelete, "/cart/items/prod_005", nil)
	assert.Equal(t, 1, v.ItemCount)
	assert.Equal(t, "32.99", v.Subtotal)
	assert.Equal(t, "prod_008", v.Items[0].Product.ID)
	assert.Equal(t, 1, v.Items[0].Quantity)

	v = s.cart(http.MethodDelete, "/cart/items/prod_404", nil)
	assert.Equal(t, 1, v.ItemCount, "removing an absent item is a no-op")

	v = s.cart(http.MethodDelete, "/cart", nil)
	assert.Equal(t, 0, v.ItemCount)
	assert.Equal(t, "0.00", v.Subtotal)
	assert.Equal(t, "0.00", v.Total)
}

func TestCartVisibility(t *testing.T) {
	s := newShopper(t, newServer(nil, false).Routes())

	assert.True(t, s.cart(http.MethodPost, "/cart/open", nil).IsOpen)
	assert.False(t, s.cart(http.MethodPost, "/cart/toggle", nil).IsOpen)
	assert.True(t, s.cart(http.MethodPost, "/cart/toggle", nil).IsOpen)
	assert.False(t, s.cart(http.MethodPost, "/cart/close", nil).IsOpen)
}

func TestCartsAreIsolatedPerShopper(t *testing.T) {
	h := newServer(nil, false).Routes()
	alice := newShopper(t, h)
	bob := newShopper(t, h)

	alice.add("prod_001")

	assert.Equal(t, 1, alice.cart(http.MethodGet, "/cart", nil).ItemCount)
	assert.Equal(t, 0, bob.cart(http.MethodGet, "/cart", nil).ItemCount)
}

func TestAddItem_Errors(t *testing.T) {
	s := newShopper(t, newServer(nil, false).Routes())

	code, raw := s.do(http.MethodPost, "/cart/items", map[string]string{"productId": "prod_404"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "product not found", errorMessage(t, raw))

	code, _ = s.do(http.MethodPost, "/cart/items", map[string]string{"sku": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckout_Validation(t *testing.T) {
	s := newShopper(t, newServer(&fakeSessions{}, true).Routes())

	code, raw := s.do(http.MethodPost, "/checkout", map[string]string{"email": "  "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please enter your email address.", errorMessage(t, raw))

	code, raw = s.do(http.MethodPost, "/checkout", map[string]string{"email": "buyer@example"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please enter a valid email address.", errorMessage(t, raw))

	code, raw = s.do(http.MethodPost, "/checkout", map[string]string{"email": "buyer@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Your cart is empty.", errorMessage(t, raw))
}

func TestCheckout_DemoMode(t *testing.T) {
	srv := newServer(nil, false)
	srv.DemoDelay = 10 * time.Millisecond
	s := newShopper(t, srv.Routes())
	s.add("prod_005")

	code, raw := s.do(http.MethodPost, "/checkout", map[string]string{"email": "buyer@example.com"})
	require.Equal(t, http.StatusOK, code)

	var got struct{ URL string }
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, strings.HasPrefix(got.URL, "/success?session_id=demo_"), got.URL)
	assert.Equal(t, 1, s.cart(http.MethodGet, "/cart", nil).ItemCount, "cart kept until success")
}

func TestCheckout_Live(t *testing.T) {
	sessions := &fakeSessions{resp: checkout.SessionResponse{SessionID: "cs_1", URL: "https://pay.test/cs_1"}}
	s := newShopper(t, newServer(sessions, true).Routes())
	s.add("prod_005")
	s.add("prod_008")

	code, raw := s.do(http.MethodPost, "/checkout", map[string]string{"email": " buyer@example.com "})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"url":"https://pay.test/cs_1","sessionId":"cs_1"}`, string(raw))

	require.Len(t, sessions.reqs, 1)
	req := sessions.reqs[0]
	assert.Equal(t, "buyer@example.com", req.Email)
	require.Len(t, req.Items, 2)
	assert.Equal(t, checkout.SessionItem{
		ID:         "prod_005",
		Name:       "First-Time Homebuyer Workbook Volume 1",
		Price:      29.99,
		CoverImage: req.Items[0].CoverImage,
	}, req.Items[0])
	assert.Equal(t, []string{"127.0.0.1"}, sessions.ips)
}

func TestCheckout_LiveNamesShopperBehindProxy(t *testing.T) {
	sessions := &fakeSessions{resp: checkout.SessionResponse{SessionID: "cs_1", URL: "https://pay.test/cs_1"}}
	srv := newServer(sessions, true)
	srv.Proxies = kit.TrustedProxies{netip.MustParsePrefix("127.0.0.0/8")}

	s := newShopper(t, srv.Routes())
	s.forwardedFor = "203.0.113.50"
	s.add("prod_005")

	code, _ := s.do(http.MethodPost, "/checkout", map[string]string{"email": "buyer@example.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"203.0.113.50"}, sessions.ips)
}

func TestCheckout_LiveFailureKeepsCart(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		resp     checkout.SessionResponse
		wantCode int
		wantMsg  string
	}{
		{
			name:     "upstream not configured",
			err:      &storefront.UpstreamError{Status: http.StatusServiceUnavailable, Message: "Stripe is not configured."},
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "Stripe is not configured.",
		},
		{
			name:     "transport",
			err:      errors.New("connection refused"),
			wantCode: http.StatusBadGateway,
			wantMsg:  "An unexpected error occurred. Please try again.",
		},
		{
			name:     "no url",
			resp:     checkout.SessionResponse{SessionID: "cs_1"},
			wantCode: http.StatusBadGateway,
			wantMsg:  "No checkout URL returned.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newShopper(t, newServer(&fakeSessions{err: tc.err, resp: tc.resp}, true).Routes())
			s.add("prod_005")

			code, raw := s.do(http.MethodPost, "/checkout", map[string]string{"email": "buyer@example.com"})
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantMsg, errorMessage(t, raw))
			assert.Equal(t, 1, s.cart(http.MethodGet, "/cart", nil).ItemCount)
		})
	}
}

func TestSuccess_ClearsCart(t *testing.T) {
	s := newShopper(t, newServer(nil, false).Routes())
	s.add("prod_005")
	s.add("prod_008")

	code, raw := s.do(http.MethodGet, "/success?session_id=cs_test_a1b2c3d4e5f6g7h8", nil)
	require.Equal(t, http.StatusOK, code)

	var got struct {
		Confirmation string      `json:"confirmation"`
		Items        []cart.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "RBD-E5F6G7H8", got.Confirmation)
	assert.Len(t, got.Items, 2)

	assert.Equal(t, 0, s.cart(http.MethodGet, "/cart", nil).ItemCount)

	code, raw = s.do(http.MethodGet, "/success", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, strings.HasPrefix(got.Confirmation, "RBD-"))
	assert.Empty(t, got.Items)
}

func TestCartEvents(t *testing.T) {
	s := newShopper(t, newServer(nil, false).Routes())
	s.cart(http.MethodGet, "/cart", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/cart/events", nil)
	require.NoError(t, err)
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := bufio.NewReader(resp.Body)
	next := func() storefront.CartView {
		t.Helper()
		for {
			line, err := events.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var v storefront.CartView
				require.NoError(t, json.Unmarshal([]byte(data), &v))
				return v
			}
		}
	}

	assert.Equal(t, 0, next().ItemCount)

	s.add("prod_005")
	assert.Equal(t, 1, next().ItemCount)

	s.cart(http.MethodPost, "/cart/open", nil)
	assert.True(t, next().IsOpen)
}
