package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Storefront/internal/checkout"
	"Storefront/pkg/kit"
)

const maxUpstreamBody = 1 << 20

// SessionCreator starts a hosted checkout for a list of cart lines on behalf
// of the shopper at clientIP.
type SessionCreator interface {
	CreateSession(ctx context.Context, clientIP string, req checkout.SessionRequest) (checkout.SessionResponse, error)
}

// UpstreamError is a non-2xx answer of the checkout service. Status and
// Message are relayed to the shopper as they are.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("checkout service status=%d: %s", e.Status, e.Message)
}

type CheckoutClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCheckoutClient(baseURL string) *CheckoutClient {
	return &CheckoutClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateSession names the shopper in X-Forwarded-For so the checkout
// service rate limits per shopper rather than per storefront.
func (c *CheckoutClient) CreateSession(ctx context.Context, clientIP string, in checkout.SessionRequest) (checkout.SessionResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return checkout.SessionResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/checkout", bytes.NewReader(body))
	if err != nil {
		return checkout.SessionResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return checkout.SessionResponse{}, fmt.Errorf("checkout service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return checkout.SessionResponse{}, fmt.Errorf("read checkout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return checkout.SessionResponse{}, &UpstreamError{
			Status:  resp.StatusCode,
			Message: kit.DecodeErrorMessage(raw, "Something went wrong."),
		}
	}

	var out checkout.SessionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return checkout.SessionResponse{}, fmt.Errorf("decode checkout response: %w", err)
	}
	return out, nil
}
