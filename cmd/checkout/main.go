package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/checkout"
	"Storefront/internal/config"
	"Storefront/internal/order"
	"Storefront/pkg/kit"
)

const migrateTimeout = 10 * time.Second

func main() {
	service := "checkout"
	cfg := config.LoadCheckout()

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openOrderStore(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("open order store failed", zap.Error(err))
	}
	defer closeStore()

	proxies, err := kit.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	limiter := kit.NewIPRateLimiter(cfg.RateLimitPerMin, time.Minute)
	limiter.Proxies = proxies

	links := order.NewLinkIssuer(downloadSecret(cfg.DownloadSecret, log), cfg.BaseURL, cfg.DownloadTTL)

	s := &checkout.Server{
		BaseURL:   cfg.BaseURL,
		Log:       log,
		Fulfiller: order.NewService(store, links, order.LogMailer{Log: log}, log),
		Limiter:   limiter,
		Orders: &order.Server{
			Store:             store,
			Links:             links,
			AssetBaseURL:      cfg.AssetBaseURL,
			Log:               log,
			AdminUser:         cfg.AdminUser,
			AdminPasswordHash: cfg.AdminPasswordHash,
		},
	}

	if cfg.Stripe.SecretKey != "" {
		s.Processor = checkout.NewStripeProcessor(cfg.Stripe.SecretKey, nil)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set; checkout sessions are disabled")
	}
	if cfg.Stripe.SecretKey != "" && cfg.Stripe.WebhookSecret != "" {
		s.Verifier = checkout.StripeVerifier{Secret: cfg.Stripe.WebhookSecret}
	} else {
		log.Warn("Stripe webhook secret not set; webhook endpoint is disabled")
	}

	h := checkout.NewHandler(s, checkout.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsToken != "",
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openOrderStore uses Postgres when a DSN is configured and process memory
// otherwise.
func openOrderStore(dsn string, log *zap.Logger) (order.Store, func(), error) {
	if dsn == "" {
		log.Warn("DATABASE_URL not set; orders are kept in memory")
		return order.NewMemStore(), func() {}, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	store := order.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return store, func() { _ = db.Close() }, nil
}

func downloadSecret(configured string, log *zap.Logger) []byte {
	if configured != "" {
		return []byte(configured)
	}
	log.Warn("DOWNLOAD_SECRET not set; download links will not survive a restart")
	return []byte(rand.Text())
}
