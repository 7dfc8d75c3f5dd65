package order

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service turns completed payments into orders. It is safe against webhook
// redelivery: a session is fulfilled at most once.
type Service struct {
	Store  Store
	Links  *LinkIssuer
	Mailer Mailer
	Log    *zap.Logger

	now func() time.Time
}

func NewService(store Store, links *LinkIssuer, mailer Mailer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Links: links, Mailer: mailer, Log: log, now: time.Now}
}

// Fulfill records the order for p and mails the download links. A
// redelivered session is not recorded again; its confirmation is only resent
// when the earlier attempt did not get through.
func (s *Service) Fulfill(ctx context.Context, p Purchase) error {
	if strings.TrimSpace(p.SessionID) == "" {
		return ErrInvalidPurchase
	}

	status := StatusPaid
	if s.Mailer != nil && p.Email != "" {
		status = StatusPendingEmail
	}

	o := Order{
		ID:          "o_" + uuid.NewString(),
		SessionID:   p.SessionID,
		Email:       p.Email,
		AmountTotal: p.AmountTotal,
		Currency:    p.Currency,
		ProductIDs:  compactIDs(p.ProductIDs),
		Status:      status,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.Store.Create(ctx, o)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	if !created {
		existing, found, err := s.Store.GetBySession(ctx, p.SessionID)
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if !found || existing.Status != StatusPendingEmail {
			s.Log.Info("order already recorded", zap.String("session_id", p.SessionID))
			return nil
		}
		s.Log.Info("retrying order confirmation",
			zap.String("order_id", existing.ID),
			zap.String("session_id", existing.SessionID),
		)
		return s.confirm(ctx, existing)
	}

	s.Log.Info("order recorded",
		zap.String("order_id", o.ID),
		zap.String("session_id", o.SessionID),
		zap.Int("products", len(o.ProductIDs)),
	)

	if o.Status != StatusPendingEmail {
		return nil
	}
	return s.confirm(ctx, o)
}

// confirm mails the links of o and marks it paid once the mail is out.
func (s *Service) confirm(ctx context.Context, o Order) error {
	if s.Mailer == nil || o.Email == "" {
		return nil
	}

	links := make([]DownloadLink, 0, len(o.ProductIDs))
	for _, pid := range o.ProductIDs {
		l, err := s.Links.Issue(o.ID, pid)
		if err != nil {
			return fmt.Errorf("issue download link: %w", err)
		}
		links = append(links, l)
	}

	err := s.Mailer.SendConfirmation(ctx, Confirmation{
		OrderID:          o.ID,
		Email:            o.Email,
		ConfirmationCode: ConfirmationCode(o.SessionID, o.CreatedAt),
		Links:            links,
	})
	if err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	if err := s.Store.SetStatus(ctx, o.ID, StatusPaid); err != nil {
		return fmt.Errorf("mark order confirmed: %w", err)
	}
	return nil
}

// ParseProductIDs splits the comma-joined id list carried in session metadata.
func ParseProductIDs(s string) []string {
	if s == "" {
		return nil
	}
	return compactIDs(strings.Split(s, ","))
}

func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
