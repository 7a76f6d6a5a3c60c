// Package middleware holds the HTTP middleware of the web frontend.
package middleware

import (
	"context"
	"net/http"

	"github.com/handson-community/handson-web/internal/usersession"
)

type sessionContextKey string

const sessionKey sessionContextKey = "user_session"

// WithSession resolves (or creates) the browser-session aggregate and puts
// it in the request context. Everything below it can assume a session.
func WithSession(m *usersession.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := m.Get(w, r)
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the aggregate placed by WithSession, nil when
// the middleware did not run.
func SessionFromContext(r *http.Request) *usersession.UserSession {
	sess, _ := r.Context().Value(sessionKey).(*usersession.UserSession)
	return sess
}
