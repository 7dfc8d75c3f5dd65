package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/pkg/kit"
)

const (
	maxCartBody      = 4 << 10
	eventsKeepAlive  = 25 * time.Second
	eventStreamRetry = 3000
)

type addItemRequest struct {
	ProductID string `json:"productId"`
}

// withCart resolves the shopper's cart and answers 500 when storage cannot
// be read.
func (s *Server) withCart(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	id := cartID(w, r, s.CookieTTL)

	c, err := s.Carts.Get(r.Context(), id)
	if err != nil {
		s.cartFailed(w, r, id, err)
		return nil, false
	}
	return c, true
}

func (s *Server) cartFailed(w http.ResponseWriter, r *http.Request, id string, err error) {
	s.log().Error("open cart failed", zap.String("cart_id", id), zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.withCart(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCartBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request", nil)
		return
	}

	c, ok := s.withCart(w, r)
	if !ok {
		return
	}

	p, err := s.Products.GetProduct(r.Context(), strings.TrimSpace(req.ProductID))
	switch {
	case err == nil:
	case errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"productId": req.ProductID})
		return
	default:
		s.log().Warn("catalog lookup failed", zap.String("product_id", req.ProductID), zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, "catalog unavailable", nil)
		return
	}

	c.AddItem(p)
	kit.WriteJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(c *cart.Store) { c.RemoveItem(chi.URLParam(r, "productId")) })
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*cart.Store).ClearCart)
}

func (s *Server) openCart(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*cart.Store).OpenCart)
}

func (s *Server) closeCart(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*cart.Store).CloseCart)
}

func (s *Server) toggleCart(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*cart.Store).ToggleCart)
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*cart.Store)) {
	c, ok := s.withCart(w, r)
	if !ok {
		return
	}
	fn(c)
	kit.WriteJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

// events streams the cart as server-sent events: the current state first,
// then one event per mutation. A slow reader only ever sees the latest state.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	id := cartID(w, r, s.CookieTTL)
	c, release, err := s.Carts.Watch(r.Context(), id)
	if err != nil {
		s.cartFailed(w, r, id, err)
		return
	}
	defer release()

	updates := make(chan cart.State, 1)
	unsubscribe := c.Subscribe(func(st cart.State) {
		select {
		case updates <- st:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- st
		}
	})
	defer unsubscribe()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: %d\n\n", eventStreamRetry)

	if err := writeEvent(w, c.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(eventsKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-kit.ShuttingDown(r.Context()):
			return
		case st := <-updates:
			if err := writeEvent(w, st); err != nil {
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, st cart.State) error {
	data, err := json.Marshal(viewOf(st))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data)
	return err
}
