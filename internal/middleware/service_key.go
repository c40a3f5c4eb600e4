package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/httpx"
)

// ServiceKey guards the endpoints meant for the external scheduler. The key
// bypasses user sessions entirely; an empty configured key disables the guard
// (local dev).
func ServiceKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get("X-Service-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid service key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
