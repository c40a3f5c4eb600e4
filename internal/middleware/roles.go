package middleware

import (
	"net/http"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/httpx"
	"github.com/baharkarakas/pocketmoney-backend/internal/session"
)

// RequireRole allows only sessions carrying the given role.
func RequireRole(need string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.IsAuthenticated() {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
				return
			}
			if sess.Role() != need {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
