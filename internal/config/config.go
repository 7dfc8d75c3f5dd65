// Package config reads process configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:3000"

// Common is shared by every binary.
type Common struct {
	Port         string
	LogLevel     string
	MetricsToken string
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For header is believed.
	TrustedProxies string
}

// Stripe holds the processor credentials. Any of them may be empty; the
// services degrade to "not configured" or demo mode instead of failing.
type Stripe struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
}

type Catalog struct {
	Common
}

type Checkout struct {
	Common
	Stripe Stripe

	BaseURL           string
	DatabaseURL       string
	DownloadSecret    string
	DownloadTTL       time.Duration
	AssetBaseURL      string
	AdminUser         string
	AdminPasswordHash string
	RateLimitPerMin   int
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Storefront struct {
	Common
	Stripe Stripe

	CatalogURL  string
	CheckoutURL string
	Redis       Redis
	CartTTL     time.Duration
	DemoDelay   time.Duration

	// CartCacheSize and CartCacheIdle bound the live carts a process keeps.
	CartCacheSize int
	CartCacheIdle time.Duration
}

func LoadCatalog() Catalog {
	loadDotEnv()
	return Catalog{Common: loadCommon("8082")}
}

func LoadCheckout() Checkout {
	loadDotEnv()
	return Checkout{
		Common:            loadCommon("8083"),
		Stripe:            loadStripe(),
		BaseURL:           strings.TrimRight(getEnv("BASE_URL", defaultBaseURL), "/"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DownloadSecret:    os.Getenv("DOWNLOAD_SECRET"),
		DownloadTTL:       getEnvAsDuration("DOWNLOAD_TTL", 72*time.Hour),
		AssetBaseURL:      strings.TrimRight(getEnv("ASSET_BASE_URL", defaultBaseURL+"/files"), "/"),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		RateLimitPerMin:   getEnvAsInt("CHECKOUT_RATE_LIMIT", 10),
	}
}

func LoadStorefront() Storefront {
	loadDotEnv()
	return Storefront{
		Common:      loadCommon("8080"),
		Stripe:      loadStripe(),
		CatalogURL:  getEnv("CATALOG_URL", "http://localhost:8082"),
		CheckoutURL: getEnv("CHECKOUT_URL", "http://localhost:8083"),
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		CartTTL:   getEnvAsDuration("CART_TTL", 30*24*time.Hour),
		DemoDelay: getEnvAsDuration("CHECKOUT_DEMO_DELAY", 1500*time.Millisecond),

		CartCacheSize: getEnvAsInt("CART_CACHE_SIZE", 10000),
		CartCacheIdle: getEnvAsDuration("CART_CACHE_IDLE", 30*time.Minute),
	}
}

func loadDotEnv() {
	_ = godotenv.Load()
}

func loadCommon(defaultPort string) Common {
	return Common{
		Port:         getEnv("PORT", defaultPort),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MetricsToken: os.Getenv("METRICS_TOKEN"),

		TrustedProxies: os.Getenv("TRUSTED_PROXIES"),
	}
}

func loadStripe() Stripe {
	return Stripe{
		SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
	}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(k string, def int) int {
	if v, err := strconv.Atoi(getEnv(k, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(k, "")); err == nil {
		return v
	}
	return def
}
