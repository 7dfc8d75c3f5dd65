package order

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"Storefront/pkg/kit"
)

// RequireAdmin checks HTTP basic credentials against a bcrypt hash.
// With no hash configured every request is refused.
func RequireAdmin(user, passwordHash string) func(http.Handler) http.Handler {
	hash := []byte(passwordHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(hash) == 0 {
				kit.WriteError(w, r, http.StatusForbidden, "admin not configured", nil)
				return
			}

			u, p, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r)
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
			passOK := bcrypt.CompareHashAndPassword(hash, []byte(p)) == nil
			if !userOK || !passOK {
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
	kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
}
