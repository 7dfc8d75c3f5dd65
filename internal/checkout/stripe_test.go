package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
)

// mockBackend answers Stripe API calls in-process.
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(int64) {}

func newMockProcessor(handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) *StripeProcessor {
	b := &mockBackend{handler: handler}
	return NewStripeProcessor("sk_test_123", &stripe.Backends{API: b, Connect: b, Uploads: b})
}

func TestStripeProcessor_CreateSession(t *testing.T) {
	var got *stripe.CheckoutSessionParams

	p := newMockProcessor(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		if method != "POST" || path != "/v1/checkout/sessions" {
			return nil, fmt.Errorf("unexpected call: %s %s", method, path)
		}
		got = params.(*stripe.CheckoutSessionParams)
		return json.Marshal(&stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"})
	})

	sp := BuildSessionParams(SessionRequest{
		Email: "buyer@example.com",
		Items: []SessionItem{
			{ID: "prod_005", Name: "Kit", Price: 29.99, CoverImage: "https://cdn.test/kit.png"},
			{ID: "prod_008", Name: "Planner", Price: 32.99},
		},
	}, "http://shop.test")

	s, err := p.CreateSession(context.Background(), sp)
	require.NoError(t, err)
	assert.Equal(t, Session{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, s)

	require.NotNil(t, got)
	assert.Equal(t, "payment", stripe.StringValue(got.Mode))
	assert.Equal(t, []string{"card"}, stripe.StringValueSlice(got.PaymentMethodTypes))
	assert.Equal(t, "buyer@example.com", stripe.StringValue(got.CustomerEmail))
	assert.Equal(t, "http://shop.test/success?session_id={CHECKOUT_SESSION_ID}", stripe.StringValue(got.SuccessURL))
	assert.Equal(t, "http://shop.test/cart", stripe.StringValue(got.CancelURL))
	assert.Equal(t, "prod_005,prod_008", got.Metadata["productIds"])

	require.Len(t, got.LineItems, 2)
	first := got.LineItems[0]
	assert.Equal(t, int64(1), stripe.Int64Value(first.Quantity))
	assert.Equal(t, int64(2999), stripe.Int64Value(first.PriceData.UnitAmount))
	assert.Equal(t, "usd", stripe.StringValue(first.PriceData.Currency))
	assert.Equal(t, "Digital Download - Kit", stripe.StringValue(first.PriceData.ProductData.Description))
	assert.Equal(t, []string{"https://cdn.test/kit.png"}, stripe.StringValueSlice(first.PriceData.ProductData.Images))
	assert.Nil(t, got.LineItems[1].PriceData.ProductData.Images)
}

func TestStripeProcessor_NoEmail(t *testing.T) {
	var got *stripe.CheckoutSessionParams
	p := newMockProcessor(func(_, _ string, params stripe.ParamsContainer) ([]byte, error) {
		got = params.(*stripe.CheckoutSessionParams)
		return json.Marshal(&stripe.CheckoutSession{ID: "cs_2"})
	})

	_, err := p.CreateSession(context.Background(), SessionParams{LineItems: []LineItem{{Name: "x", Currency: "usd", Quantity: 1}}})
	require.NoError(t, err)
	assert.Nil(t, got.CustomerEmail)
}

func TestStripeProcessor_Errors(t *testing.T) {
	t.Run("stripe error message", func(t *testing.T) {
		p := newMockProcessor(func(string, string, stripe.ParamsContainer) ([]byte, error) {
			return nil, &stripe.Error{Msg: "Invalid email address: nope"}
		})

		_, err := p.CreateSession(context.Background(), SessionParams{})
		var pe *ProcessorError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "Invalid email address: nope", pe.Message)
	})

	t.Run("transport error", func(t *testing.T) {
		p := newMockProcessor(func(string, string, stripe.ParamsContainer) ([]byte, error) {
			return nil, errors.New("dial tcp: timeout")
		})

		_, err := p.CreateSession(context.Background(), SessionParams{})
		require.Error(t, err)
		var pe *ProcessorError
		assert.False(t, errors.As(err, &pe))
	})
}

func TestPurchaseFromSession_EmailFallback(t *testing.T) {
	p, err := purchaseFromSession([]byte(`{"id":"cs_1","customer_email":"a@example.com","metadata":{"productIds":"prod_001"}}`))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", p.Email)
	assert.Equal(t, []string{"prod_001"}, p.ProductIDs)

	_, err = purchaseFromSession([]byte(`[`))
	assert.Error(t, err)
}
