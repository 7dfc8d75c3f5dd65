package order

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Server struct {
	Store        Store
	Links        *LinkIssuer
	AssetBaseURL string
	Log          *zap.Logger

	AdminUser         string
	AdminPasswordHash string
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	claims, err := s.Links.Parse(chi.URLParam(r, "token"))
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid or expired link", nil)
		return
	}

	o, found, err := s.Store.Get(r.Context(), claims.OrderID)
	if err != nil {
		s.logError("store get order failed", err, zap.String("order_id", claims.OrderID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found || !slices.Contains(o.ProductIDs, claims.ProductID) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
		return
	}

	http.Redirect(w, r, s.AssetBaseURL+"/"+url.PathEscape(claims.ProductID), http.StatusFound)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad limit", map[string]any{"limit": v})
			return
		}
		limit = min(n, maxListLimit)
	}

	orders, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.logError("store list orders failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.logError("store get order failed", err, zap.String("order_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) logError(msg string, err error, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Error(msg, append(fields, zap.Error(err))...)
	}
}
