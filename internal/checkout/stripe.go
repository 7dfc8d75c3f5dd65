package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"Storefront/internal/order"
)

const paymentMethodCard = "card"

// StripeProcessor creates hosted checkout sessions through the Stripe API.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor returns a processor for secretKey. A nil backends value
// uses the live Stripe endpoints.
func NewStripeProcessor(secretKey string, backends *stripe.Backends) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, backends)}
}

func (p *StripeProcessor) CreateSession(ctx context.Context, sp SessionParams) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{paymentMethodCard}),
		SuccessURL:         stripe.String(sp.SuccessURL),
		CancelURL:          stripe.String(sp.CancelURL),
		LineItems:          make([]*stripe.CheckoutSessionLineItemParams, 0, len(sp.LineItems)),
	}
	params.Context = ctx

	if sp.Email != "" {
		params.CustomerEmail = stripe.String(sp.Email)
	}

	for _, li := range sp.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(li.Name),
			Description: stripe.String(li.Description),
		}
		if li.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{li.ImageURL})
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(li.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	for k, v := range sp.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return Session{}, &ProcessorError{Message: se.Msg, Err: err}
		}
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}

	return Session{ID: s.ID, URL: s.URL}, nil
}

// StripeVerifier checks the Stripe-Signature header against the endpoint
// secret. Events produced under other API versions are accepted; only the
// fields read below are relied on.
type StripeVerifier struct {
	Secret string
}

func (v StripeVerifier) Verify(payload []byte, header string) (Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, header, v.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil {
		out.Object = ev.Data.Raw
	}
	return out, nil
}

func purchaseFromSession(raw json.RawMessage) (order.Purchase, error) {
	var s stripe.CheckoutSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return order.Purchase{}, fmt.Errorf("decode checkout session: %w", err)
	}

	email := s.CustomerEmail
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		email = s.CustomerDetails.Email
	}

	return order.Purchase{
		SessionID:   s.ID,
		Email:       email,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
		ProductIDs:  order.ParseProductIDs(s.Metadata[metadataProductIDs]),
	}, nil
}

func paymentIntentID(raw json.RawMessage) (string, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(raw, &pi); err != nil {
		return "", fmt.Errorf("decode payment intent: %w", err)
	}
	return pi.ID, nil
}
