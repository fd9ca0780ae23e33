// Package http serves the dashboard pages and the JSON API.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"bankdash/internal/dashboard"
	"bankdash/internal/dataset"
	"bankdash/internal/log"
	"bankdash/internal/middleware/ratelimit"
	"bankdash/internal/middleware/security"
	"bankdash/internal/middleware/trace"
	"bankdash/internal/session"
	appweb "bankdash/web"
)

// Deps are the services the server is built on.
type Deps struct {
	Provider  *dataset.Provider
	Sessions  *session.Manager
	Dashboard *dashboard.Service
	Logger    *log.Logger

	// LoginAttemptsPerMinute bounds POST /login per client IP.
	LoginAttemptsPerMinute int
	// TrustedProxies are CIDRs added to the private ranges whose
	// X-Forwarded-For is honored.
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template
	provider  *dataset.Provider
	sessions  *session.Manager
	dashboard *dashboard.Service
	logger    *log.Logger

	loginLimiter *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	started      time.Time
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. Templates are parsed from the
// embedded filesystem; a parse failure leaves the server not ready.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		provider:  deps.Provider,
		sessions:  deps.Sessions,
		dashboard: deps.Dashboard,
		logger:    logger,
		loginLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.LoginAttemptsPerMinute,
		}),
		detector: security.NewDetector(),
		started:  time.Now(),
	}
	for _, cidr := range deps.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", "cidr", cidr, log.FieldError, err)
		}
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.Handle("POST /login", s.loginLimiter.Middleware(s.detector.ExtractClientIP, s.onLoginLimited)(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.Handle("GET /sections/{section}", s.requireSession(http.HandlerFunc(s.handleSectionPage), false))
	mux.Handle("GET /api/sections", s.requireSession(http.HandlerFunc(s.handleAllSectionsAPI), true))
	mux.Handle("GET /api/sections/{section}", s.requireSession(http.HandlerFunc(s.handleSectionAPI), true))
	mux.Handle("GET /api/facets", s.requireSession(http.HandlerFunc(s.handleFacets), true))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(
		log.ComponentMiddleware(log.ComponentHTTP)(
			headers.Middleware(s.flagSuspicious(mux))))
	return s
}

// flagSuspicious logs requests that look like scanner probes. They are
// still routed normally and usually end in a 404.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request",
				log.FieldRequestID, trace.GetRequestID(r.Context()),
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops accepting requests and releases background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.loginLimiter.Stop()
	})
	return s.Server.Shutdown(ctx)
}
