package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves download links and the read-only admin order listing.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/downloads/{token}", s.download)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(RequireAdmin(s.AdminUser, s.AdminPasswordHash))
		ar.Get("/orders", s.list)
		ar.Get("/orders/{id}", s.get)
	})

	return r
}
