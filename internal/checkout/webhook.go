package checkout

import (
	"context"
	"encoding/json"
	"errors"

	"Storefront/internal/order"
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentFailed     = "payment_intent.payment_failed"

	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 64 << 10
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is a verified processor notification. Object is the raw data.object
// payload.
type Event struct {
	ID     string
	Type   string
	Object json.RawMessage
}

type Verifier interface {
	Verify(payload []byte, header string) (Event, error)
}

// Fulfiller acts on a completed purchase. It must tolerate being called more
// than once for the same session.
type Fulfiller interface {
	Fulfill(ctx context.Context, p order.Purchase) error
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
