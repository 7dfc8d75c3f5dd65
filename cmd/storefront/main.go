package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/config"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

func main() {
	service := "storefront"
	cfg := config.LoadStorefront()

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	proxies, err := kit.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	storage, closeStorage := openCartStorage(cfg, log)
	defer closeStorage()

	s := &storefront.Server{
		Carts:        storefront.NewCarts(storage, log, cfg.CartCacheSize, cfg.CartCacheIdle),
		Products:     storefront.NewCatalogClient(cfg.CatalogURL),
		Sessions:     storefront.NewCheckoutClient(cfg.CheckoutURL),
		Log:          log,
		LiveCheckout: cfg.Stripe.PublishableKey != "",
		DemoDelay:    cfg.DemoDelay,
		CookieTTL:    cfg.CartTTL,
		CatalogURL:   cfg.CatalogURL,
		CheckoutURL:  cfg.CheckoutURL,
		Proxies:      proxies,
	}
	if !s.LiveCheckout {
		log.Info("STRIPE_PUBLISHABLE_KEY not set; checkout runs in demo mode")
	}

	h, err := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsToken != "",
		MetricsToken:   cfg.MetricsToken,
	})
	if err != nil {
		log.Fatal("init storefront handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openCartStorage uses Redis when REDIS_ADDR is set. An unreachable Redis is
// logged, not fatal: cart writes fail soft and are retried on the next change.
func openCartStorage(cfg config.Storefront, log *zap.Logger) (cart.Storage, func()) {
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS_ADDR not set; carts are kept in memory")
		return cart.NewMemoryStorage(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rs := cart.NewRedisStorage(client, cfg.CartTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	return rs, func() { _ = client.Close() }
}
