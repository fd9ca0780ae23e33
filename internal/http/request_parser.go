package http

import (
	"errors"
	"net/http"

	"bankdash/internal/filter"
)

const maxFormBytes = 16 << 10

// LoginForm holds the submitted credentials.
type LoginForm struct {
	Username string
	Password string
}

var errEmptyCredentials = errors.New("username and password are required")

// ParseLoginForm reads the login form with a bounded body size. The password
// is not trimmed.
func ParseLoginForm(w http.ResponseWriter, r *http.Request) (LoginForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return LoginForm{}, err
	}
	form := LoginForm{
		Username: sanitizeInput(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	if form.Username == "" || form.Password == "" {
		return form, errEmptyCredentials
	}
	return form, nil
}

// ParseSelection reads the facet selection from the query string against
// the options observed in the current dataset.
func ParseSelection(r *http.Request, opts filter.Options) filter.Selection {
	return filter.FromValues(r.URL.Query(), opts)
}
