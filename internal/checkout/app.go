package checkout

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/order"
	"Storefront/pkg/kit"
)

const (
	msgNotConfigured        = "Stripe is not configured. Please set STRIPE_SECRET_KEY in your environment variables."
	msgWebhookNotConfigured = "Stripe webhook is not configured"
	msgNoItems              = "No items provided"
	msgSessionFailed        = "Failed to create checkout session"
)

// Server hosts the checkout session endpoint and the payment webhook. A nil
// Processor or Verifier means the corresponding endpoint is not configured.
type Server struct {
	Processor Processor
	Verifier  Verifier
	Fulfiller Fulfiller
	BaseURL   string
	Log       *zap.Logger
	Metrics   *Metrics
	Limiter   *kit.IPRateLimiter

	// Orders, when set, serves downloads and the admin listing on the same router.
	Orders *order.Server
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Group(func(cr chi.Router) {
		if s.Limiter != nil {
			cr.Use(s.Limiter.Middleware)
		}
		cr.Post("/api/checkout", s.createSession)
	})
	r.Post("/api/webhooks/stripe", s.webhook)

	if s.Orders != nil {
		r.Mount("/", s.Orders.Routes())
	}

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.Orders == nil || s.Orders.Store == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Orders.Store.Ping(ctx); err != nil {
		s.log().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	if s.Processor == nil {
		s.Metrics.session(resultNotConfigured)
		kit.WriteError(w, r, http.StatusServiceUnavailable, msgNotConfigured, nil)
		return
	}

	req, err := decodeSessionRequest(w, r)
	if err != nil {
		s.Metrics.session(resultInvalid)

		var ve *ValidationError
		switch {
		case errors.Is(err, ErrNoItems):
			kit.WriteError(w, r, http.StatusBadRequest, msgNoItems, nil)
		case errors.As(err, &ve):
			kit.WriteError(w, r, http.StatusBadRequest, "invalid request", ve.Fields)
		default:
			kit.WriteError(w, r, http.StatusBadRequest, "invalid request", nil)
		}
		return
	}

	sess, err := s.Processor.CreateSession(r.Context(), BuildSessionParams(req, s.BaseURL))
	if err != nil {
		s.Metrics.session(resultProcessorError)
		s.log().Error("checkout session failed", zap.Error(err), zap.Int("items", len(req.Items)))

		msg := msgSessionFailed
		var pe *ProcessorError
		if errors.As(err, &pe) && pe.Message != "" {
			msg = pe.Message
		}
		kit.WriteError(w, r, http.StatusInternalServerError, msg, nil)
		return
	}

	s.Metrics.session(resultOK)
	s.log().Info("checkout session created", zap.String("session_id", sess.ID), zap.Int("items", len(req.Items)))
	kit.WriteJSON(w, http.StatusOK, SessionResponse{SessionID: sess.ID, URL: sess.URL})
}

// webhook answers 200 for every verified event, whatever happens downstream,
// so the processor stops redelivering it.
func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	if s.Verifier == nil {
		s.Metrics.webhook("", resultNotConfigured)
		kit.WriteError(w, r, http.StatusServiceUnavailable, msgWebhookNotConfigured, nil)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		s.Metrics.webhook("", resultInvalid)
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid payload", nil)
		return
	}

	sig := r.Header.Get(signatureHeader)
	if sig == "" {
		s.Metrics.webhook("", resultInvalid)
		kit.WriteError(w, r, http.StatusBadRequest, "No signature", nil)
		return
	}

	ev, err := s.Verifier.Verify(payload, sig)
	if err != nil {
		s.Metrics.webhook("", resultInvalidSignature)
		s.log().Warn("webhook signature verification failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid signature", nil)
		return
	}

	s.Metrics.webhook(ev.Type, s.handleEvent(r.Context(), ev))
	kit.WriteJSON(w, http.StatusOK, WebhookResponse{Received: true})
}

func (s *Server) handleEvent(ctx context.Context, ev Event) string {
	log := s.log().With(zap.String("event_id", ev.ID), zap.String("event_type", ev.Type))

	switch ev.Type {
	case EventCheckoutCompleted:
		p, err := purchaseFromSession(ev.Object)
		if err != nil {
			log.Error("webhook payload unreadable", zap.Error(err))
			return resultDecodeError
		}

		log.Info("payment successful",
			zap.String("session_id", p.SessionID),
			zap.String("customer_email", p.Email),
			zap.Int64("amount_total", p.AmountTotal),
			zap.Strings("product_ids", p.ProductIDs),
		)

		if s.Fulfiller == nil {
			return resultOK
		}
		if err := s.Fulfiller.Fulfill(ctx, p); err != nil {
			log.Error("fulfillment failed", zap.String("session_id", p.SessionID), zap.Error(err))
			return resultFulfillmentFailed
		}
		return resultOK

	case EventPaymentFailed:
		id, err := paymentIntentID(ev.Object)
		if err != nil {
			log.Error("webhook payload unreadable", zap.Error(err))
			return resultDecodeError
		}
		log.Info("payment failed", zap.String("payment_intent_id", id))
		return resultOK

	default:
		log.Debug("unhandled event type")
		return resultIgnored
	}
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
