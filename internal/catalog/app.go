package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type Server struct {
	Catalog *Catalog
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/products", s.list)
	r.Get("/products/id/{id}", s.getByID)
	r.Get("/products/{slug}", s.getBySlug)
	r.Get("/categories", s.categories)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var products []Product
	switch {
	case q.Get("category") != "":
		products = s.Catalog.ByCategory(q.Get("category"))
	case isTrue(q.Get("featured")):
		products = s.Catalog.Featured()
	case isTrue(q.Get("bestseller")):
		products = s.Catalog.Bestsellers()
	default:
		products = s.Catalog.All()
	}

	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) getBySlug(w http.ResponseWriter, r *http.Request) {
	slug := normalizeSlug(chi.URLParam(r, "slug"))

	p, ok := s.Catalog.BySlug(slug)
	if !ok {
		if s.Log != nil {
			s.Log.Debug("unknown product slug", zap.String("slug", slug))
		}
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"slug": slug})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) getByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Catalog.ByID(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Categories())
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
