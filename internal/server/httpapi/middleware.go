package httpapi

import (
	"context"
	"net/http"

	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// withSession resolves the session cookie to a user ID and attaches it to the
// request context. The handler chain halts with 401 before business logic on
// a missing or invalid credential.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			s.writeError(r.Context(), w, common.ErrorUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(cookie.Value, s.jwtSecret)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// userIDFromContext returns the authenticated user ID attached by withSession.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
