package middleware

import (
	"net/http"

	"picfolio/internal/session"
)

type Middleware struct {
	Sessions *session.Manager
}

func NewMiddleware(sessions *session.Manager) *Middleware {
	return &Middleware{Sessions: sessions}
}

// RequireLogin redirects anonymous visitors to the login page instead of
// running next.
func (m *Middleware) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.Sessions.Get(r).IsLoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
