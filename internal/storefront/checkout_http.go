package storefront

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/checkout"
	"Storefront/internal/order"
	"Storefront/pkg/kit"
)

const (
	msgEmailRequired = "Please enter your email address."
	msgEmailInvalid  = "Please enter a valid email address."
	msgCartEmpty     = "Your cart is empty."
	msgNoCheckoutURL = "No checkout URL returned."
	msgUnexpected    = "An unexpected error occurred. Please try again."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type checkoutRequest struct {
	Email string `json:"email"`
}

type checkoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId,omitempty"`
}

type successResponse struct {
	Confirmation string      `json:"confirmation"`
	SessionID    string      `json:"sessionId,omitempty"`
	Items        []cart.Item `json:"items"`
}

// startCheckout validates the email form and either creates a hosted session
// or, in demo mode, pretends to after a short delay. On any failure the cart
// is left untouched.
func (s *Server) startCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCartBody)).Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request", nil)
		return
	}

	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		kit.WriteError(w, r, http.StatusBadRequest, msgEmailRequired, nil)
		return
	case !emailPattern.MatchString(email):
		kit.WriteError(w, r, http.StatusBadRequest, msgEmailInvalid, nil)
		return
	}

	c, ok := s.withCart(w, r)
	if !ok {
		return
	}
	items := c.Items()
	if len(items) == 0 {
		kit.WriteError(w, r, http.StatusBadRequest, msgCartEmpty, nil)
		return
	}

	if !s.LiveCheckout {
		s.demoCheckout(w, r)
		return
	}

	sess, err := s.Sessions.CreateSession(r.Context(), s.Proxies.ClientIP(r), checkout.SessionRequest{
		Items: sessionItems(items),
		Email: email,
	})
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			kit.WriteError(w, r, ue.Status, ue.Message, nil)
			return
		}
		s.log().Error("checkout session request failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, msgUnexpected, nil)
		return
	}
	if sess.URL == "" {
		kit.WriteError(w, r, http.StatusBadGateway, msgNoCheckoutURL, nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, checkoutResponse{URL: sess.URL, SessionID: sess.SessionID})
}

func (s *Server) demoCheckout(w http.ResponseWriter, r *http.Request) {
	if s.DemoDelay > 0 {
		t := time.NewTimer(s.DemoDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}
	}

	id := "demo_" + strconv.FormatInt(s.clock().UnixMilli(), 10)
	kit.WriteJSON(w, http.StatusOK, checkoutResponse{URL: "/success?session_id=" + id})
}

// success captures the purchased items for display and clears the cart so
// the same order cannot be placed twice.
func (s *Server) success(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	c, ok := s.withCart(w, r)
	if !ok {
		return
	}

	items := c.Items()
	if items == nil {
		items = []cart.Item{}
	}
	c.ClearCart()

	kit.WriteJSON(w, http.StatusOK, successResponse{
		Confirmation: order.ConfirmationCode(sessionID, s.clock()),
		SessionID:    sessionID,
		Items:        items,
	})
}
