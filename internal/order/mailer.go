package order

import (
	"context"

	"go.uber.org/zap"
)

// Confirmation is the message sent to the purchaser once an order is recorded.
type Confirmation struct {
	OrderID          string
	Email            string
	ConfirmationCode string
	Links            []DownloadLink
}

type Mailer interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

// LogMailer writes confirmations to the log instead of sending them.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) SendConfirmation(_ context.Context, c Confirmation) error {
	urls := make([]string, 0, len(c.Links))
	for _, l := range c.Links {
		urls = append(urls, l.URL)
	}

	m.Log.Info("order confirmation",
		zap.String("order_id", c.OrderID),
		zap.String("email", c.Email),
		zap.String("confirmation", c.ConfirmationCode),
		zap.Strings("download_urls", urls),
	)
	return nil
}
