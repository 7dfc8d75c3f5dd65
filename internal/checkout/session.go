package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	currency             = "usd"
	sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
	metadataProductIDs   = "productIds"
)

var ErrNoItems = errors.New("no items provided")

// SessionItem is one cart line as sent by the storefront. It is deliberately
// not a full catalog product.
type SessionItem struct {
	ID         string  `json:"id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	CoverImage string  `json:"coverImage"`
}

type SessionRequest struct {
	Items []SessionItem `json:"items" validate:"required,min=1,dive"`
	Email string        `json:"email" validate:"omitempty,email"`
}

type SessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	Currency    string
	UnitAmount  int64
	Quantity    int64
}

// SessionParams is a processor-neutral hosted checkout request.
type SessionParams struct {
	Email      string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type Session struct {
	ID  string
	URL string
}

type Processor interface {
	CreateSession(ctx context.Context, p SessionParams) (Session, error)
}

// ProcessorError carries the message the payment processor gave for a
// rejected request.
type ProcessorError struct {
	Message string
	Err     error
}

func (e *ProcessorError) Error() string { return e.Message }
func (e *ProcessorError) Unwrap() error { return e.Err }

// BuildSessionParams maps cart lines to one-time payment line items priced in
// cents. Every line has quantity 1.
func BuildSessionParams(req SessionRequest, baseURL string) SessionParams {
	baseURL = strings.TrimRight(baseURL, "/")

	p := SessionParams{
		Email:      strings.TrimSpace(req.Email),
		LineItems:  make([]LineItem, 0, len(req.Items)),
		SuccessURL: baseURL + "/success?session_id=" + sessionIDPlaceholder,
		CancelURL:  baseURL + "/cart",
	}

	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		p.LineItems = append(p.LineItems, LineItem{
			Name:        it.Name,
			Description: "Digital Download - " + it.Name,
			ImageURL:    resolveImage(baseURL, it.CoverImage),
			Currency:    currency,
			UnitAmount:  ToCents(it.Price),
			Quantity:    1,
		})
		ids = append(ids, it.ID)
	}
	p.Metadata = map[string]string{metadataProductIDs: strings.Join(ids, ",")}

	return p
}

// ToCents rounds a dollar price to the nearest cent, half away from zero.
func ToCents(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}

// resolveImage makes site-relative cover images absolute so the hosted
// checkout page can load them.
func resolveImage(baseURL, img string) string {
	img = strings.TrimSpace(img)
	if img == "" {
		return ""
	}

	ref, err := url.Parse(img)
	if err != nil || ref.IsAbs() {
		return img
	}
	base, err := url.Parse(baseURL + "/")
	if err != nil || !base.IsAbs() {
		return img
	}
	return base.ResolveReference(ref).String()
}
