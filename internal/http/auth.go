package httpapi

import (
	"context"
	"net/http"
	"strings"

	"portfolio-backend-go/internal/services"
)

type contextKey string

const (
	ctxSession contextKey = "session"

	sessionCookie = "portfolio_session"

	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden - Admin access required"
)

// WithSession attaches the caller's session when the request carries a valid
// access token, as a bearer header or the session cookie. It never rejects.
func WithSession(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}
			session, err := tokens.ParseAccessToken(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxSession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func CurrentSession(r *http.Request) (services.Session, bool) {
	session, ok := r.Context().Value(ctxSession).(services.Session)
	return session, ok
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentSession(r); !ok {
			writeServiceError(w, services.ErrUnauthorized(msgUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 401 without a session and 403 for a session that is
// not an administrator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := CurrentSession(r)
		if !ok {
			writeServiceError(w, services.ErrUnauthorized(msgUnauthorized))
			return
		}
		if !session.IsAdmin {
			writeServiceError(w, services.ErrForbidden(msgForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}
