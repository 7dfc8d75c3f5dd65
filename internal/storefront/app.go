// Package storefront is the shopper-facing edge. It owns the per-shopper
// carts, drives the checkout page flow and proxies catalog and checkout
// traffic to their services.
package storefront

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Server struct {
	Carts    *Carts
	Products ProductSource
	Sessions SessionCreator
	Log      *zap.Logger

	// LiveCheckout sends shoppers to the hosted payment page. Without it the
	// checkout is simulated after DemoDelay.
	LiveCheckout bool
	DemoDelay    time.Duration
	CookieTTL    time.Duration

	CatalogURL  string
	CheckoutURL string

	// Proxies are the load balancers in front of the storefront.
	Proxies kit.TrustedProxies

	now func() time.Time
}

// Routes serves the cart API and the checkout page flow.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", s.getCart)
		cr.Delete("/", s.clearCart)
		cr.Post("/items", s.addItem)
		cr.Delete("/items/{productId}", s.removeItem)
		cr.Post("/open", s.openCart)
		cr.Post("/close", s.closeCart)
		cr.Post("/toggle", s.toggleCart)
		cr.Get("/events", s.events)
	})

	r.Post("/checkout", s.startCheckout)
	r.Get("/success", s.success)

	return r
}

func NewHandler(s *Server, deps HTTPDeps) (http.Handler, error) {
	catalogProxy, err := NewReverseProxy(s.CatalogURL, deps.Log)
	if err != nil {
		return nil, err
	}
	checkoutProxy, err := NewReverseProxy(s.CheckoutURL, deps.Log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz([]upstream{
		{name: "catalog", url: strings.TrimRight(s.CatalogURL, "/")},
		{name: "checkout", url: strings.TrimRight(s.CheckoutURL, "/")},
	}, deps.Log))

	r.Handle("/products", catalogProxy)
	r.Handle("/products/*", catalogProxy)
	r.Handle("/categories", catalogProxy)

	r.Handle("/api/*", checkoutProxy)
	r.Handle("/downloads/*", checkoutProxy)
	r.Handle("/admin/*", checkoutProxy)

	r.Mount("/", s.Routes())
	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
