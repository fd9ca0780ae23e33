package http

import (
	"errors"
	"net/http"

	"bankdash/internal/core"
	"bankdash/internal/log"
	"bankdash/internal/session"
)

type loginPage struct {
	Title    string
	Username string
	Error    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.lookupSession(r); ok {
		http.Redirect(w, r, sectionURL(core.Sections()[0], nil), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.lookupSession(r); ok {
		http.Redirect(w, r, sectionURL(core.Sections()[0], nil), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", loginPage{Title: "Login to Banking Dashboard"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := ParseLoginForm(w, r)
	if err != nil && !errors.Is(err, errEmptyCredentials) {
		s.render(w, r, http.StatusBadRequest, "login.html", loginPage{Title: "Login to Banking Dashboard", Error: "Invalid login form."})
		return
	}

	store, err := s.provider.Current()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Login with no dataset loaded", log.FieldError, err)
		s.render(w, r, http.StatusServiceUnavailable, "login.html", loginPage{
			Title: "Login to Banking Dashboard", Username: form.Username, Error: "The dataset is not available yet.",
		})
		return
	}

	sess, err := s.sessions.Login(form.Username, form.Password, store)
	if errors.Is(err, session.ErrInvalidCredentials) {
		s.logger.WarnContext(r.Context(), "Login rejected",
			log.FieldOperation, log.OpLogin,
			log.FieldClientIP, s.detector.ExtractClientIP(r))
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{
			Title: "Login to Banking Dashboard", Username: form.Username, Error: "Invalid credentials.",
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.InfoContext(r.Context(), "Login successful",
		log.FieldOperation, log.OpLogin,
		log.FieldUsername, sess.Username,
		log.FieldGeneration, store.Generation())
	http.Redirect(w, r, sectionURL(core.Sections()[0], nil), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(session.CookieName); err == nil {
		s.sessions.Logout(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) onLoginLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	s.render(w, r, http.StatusTooManyRequests, "login.html", loginPage{
		Title: "Login to Banking Dashboard", Error: "Too many login attempts. Please try again later.",
	})
}
