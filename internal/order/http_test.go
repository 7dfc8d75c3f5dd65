package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"Storefront/internal/order"
)

func newOrderServer(t *testing.T, passwordHash string) (*order.Server, *order.MemStore, *order.LinkIssuer) {
	t.Helper()

	store := order.NewMemStore()
	links := order.NewLinkIssuer([]byte("test-secret"), "", time.Hour)

	_, err := store.Create(context.Background(), order.Order{
		ID:         "o_1",
		SessionID:  "cs_1",
		Email:      "buyer@example.com",
		ProductIDs: []string{"prod_005"},
		Status:     order.StatusPaid,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	return &order.Server{
		Store:             store,
		Links:             links,
		AssetBaseURL:      "http://cdn.test/files",
		Log:               zap.NewNop(),
		AdminUser:         "admin",
		AdminPasswordHash: passwordHash,
	}, store, links
}

func TestDownload_RedirectsToAsset(t *testing.T) {
	srv, _, links := newOrderServer(t, "")
	l, err := links.Issue("o_1", "prod_005")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, l.URL, nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "http://cdn.test/files/prod_005", rr.Header().Get("Location"))
}

func TestDownload_Rejections(t *testing.T) {
	srv, _, links := newOrderServer(t, "")

	notBought, err := links.Issue("o_1", "prod_001")
	require.NoError(t, err)
	unknownOrder, err := links.Issue("o_404", "prod_005")
	require.NoError(t, err)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"garbage token", "/downloads/not-a-token", http.StatusUnauthorized},
		{"product not in order", notBought.URL, http.StatusNotFound},
		{"unknown order", unknownOrder.URL, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestAdmin_NotConfigured(t *testing.T) {
	srv, _, _ := newOrderServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.SetBasicAuth("admin", "anything")
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdmin_Orders(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	srv, _, _ := newOrderServer(t, string(hash))
	h := srv.Routes()

	t.Run("no credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.SetBasicAuth("admin", "nope")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/orders?limit=10", nil)
		req.SetBasicAuth("admin", "s3cret")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var got []order.Order
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "cs_1", got[0].SessionID)
	})

	t.Run("bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/orders?limit=-3", nil)
		req.SetBasicAuth("admin", "s3cret")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/orders/o_1", nil)
		req.SetBasicAuth("admin", "s3cret")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), `"product_ids":["prod_005"]`))
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/orders/o_9", nil)
		req.SetBasicAuth("admin", "s3cret")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
