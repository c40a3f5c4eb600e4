package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/httpx"
	"github.com/baharkarakas/pocketmoney-backend/internal/auth"
	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	repo "github.com/baharkarakas/pocketmoney-backend/internal/repository"
	"github.com/baharkarakas/pocketmoney-backend/internal/session"
)

type SessionMiddleware struct {
	TM       *auth.TokenManager
	Profiles repo.Profiles
}

func NewSessionMiddleware(tm *auth.TokenManager, profiles repo.Profiles) *SessionMiddleware {
	return &SessionMiddleware{TM: tm, Profiles: profiles}
}

// Auth verifies the hosted-auth bearer token, loads the caller's profile row
// and attaches a populated session to the request context. A missing profile
// row is fine (new users); anything else from the store is a 500.
func (m *SessionMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		claims, err := m.TM.Verify(strings.TrimSpace(ah[len("Bearer "):]))
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token", nil)
			return
		}

		var profile *models.Profile
		p, err := m.Profiles.GetByID(r.Context(), claims.UserID())
		switch {
		case err == nil:
			profile = &p
		case errors.Is(err, repo.ErrNotFound):
			// profile row not created yet, token role applies
		default:
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
			return
		}

		sess := session.New()
		sess.Set(claims, profile)
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}
