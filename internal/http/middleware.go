package http

import (
	"context"
	"net/http"

	"bankdash/internal/middleware/security"
	"bankdash/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

func withSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionFrom returns the authenticated session set by requireSession.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// lookupSession resolves the session cookie, if any.
func (s *Server) lookupSession(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, false
	}
	sess, err := s.sessions.Get(c.Value)
	if err != nil || !sess.Authenticated {
		return nil, false
	}
	return sess, true
}

// requireSession rejects requests without an authenticated session: API
// routes get a 401, pages are redirected to the login form.
func (s *Server) requireSession(next http.Handler, api bool) http.Handler {
	next = security.NoStoreMiddleware(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookupSession(r)
		if !ok {
			if api {
				JSONError(http.StatusUnauthorized, "authentication required").Write(w)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}
