package order

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
	pgUniqueCode = "23505"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schemaSQL)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Create(ctx context.Context, o Order) (bool, error) {
	var created bool

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, session_id, email, amount_total, currency, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (session_id) DO NOTHING
		`, o.ID, o.SessionID, o.Email, o.AmountTotal, o.Currency, o.Status, o.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil
			}
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id)
			VALUES ($1, $2, $3)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, pid := range o.ProductIDs {
			if _, err := stmt.ExecContext(ctx, o.ID, i, pid); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		created = true
		return nil
	})

	return created, err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, bool, error) {
	return s.getOne(ctx, `
		SELECT id, session_id, email, amount_total, currency, status, created_at
		FROM orders
		WHERE id = $1
	`, id)
}

func (s *PostgresStore) GetBySession(ctx context.Context, sessionID string) (Order, bool, error) {
	return s.getOne(ctx, `
		SELECT id, session_id, email, amount_total, currency, status, created_at
		FROM orders
		WHERE session_id = $1
	`, sessionID)
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Order, error) {
	var out []Order

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, session_id, email, amount_total, currency, status, created_at
			FROM orders
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Order, 0, limit)
		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			out = append(out, o)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range out {
			if out[i].ProductIDs, err = s.loadItems(ctx, out[i].ID); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id, status string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

func (s *PostgresStore) getOne(ctx context.Context, query, arg string) (Order, bool, error) {
	var o Order

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		if o, err = scanOrder(s.db.QueryRowContext(ctx, query, arg)); err != nil {
			return err
		}
		o.ProductIDs, err = s.loadItems(ctx, o.ID)
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, orderID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0, 4)
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return nil, err
		}
		ids = append(ids, pid)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.SessionID, &o.Email, &o.AmountTotal, &o.Currency, &o.Status, &o.CreatedAt)
	return o, err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
