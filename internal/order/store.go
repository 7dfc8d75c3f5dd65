package order

import (
	"context"
	"errors"
	"time"
)

const (
	StatusPaid = "PAID"
	// StatusPendingEmail is a paid order whose confirmation has not been
	// delivered yet. The next delivery of the same session retries it.
	StatusPendingEmail = "PENDING_EMAIL"
)

// Purchase is what the payment processor reports for a completed session.
type Purchase struct {
	SessionID   string
	Email       string
	AmountTotal int64
	Currency    string
	ProductIDs  []string
}

type Order struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Email       string    `json:"email"`
	AmountTotal int64     `json:"amount_total"`
	Currency    string    `json:"currency"`
	ProductIDs  []string  `json:"product_ids"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidPurchase = errors.New("purchase without session id")
	ErrOrderNotFound   = errors.New("order not found")
)

// Store records orders. Create is idempotent on SessionID: it reports false
// and leaves the existing order untouched when the session is already known.
type Store interface {
	Create(ctx context.Context, o Order) (bool, error)
	Get(ctx context.Context, id string) (Order, bool, error)
	GetBySession(ctx context.Context, sessionID string) (Order, bool, error)
	List(ctx context.Context, limit int) ([]Order, error)
	SetStatus(ctx context.Context, id, status string) error
	Ping(ctx context.Context) error
}
