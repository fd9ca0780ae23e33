package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"bankdash/internal/log"
	"bankdash/internal/middleware/trace"
)

var errTemplatesMissing = errors.New("templates not loaded")

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports ready once templates are parsed and a dataset is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if !s.provider.Ready() {
		checks["dataset"] = "not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else if store, err := s.provider.Current(); err == nil {
		checks["dataset"] = map[string]any{
			"source":     store.Source(),
			"records":    store.Len(),
			"generation": store.Generation(),
			"loaded_at":  store.LoadedAt().Format(time.RFC3339),
		}
	}
	checks["sessions"] = s.sessions.Count()

	traffic := s.tracer.GetMetrics()
	limits := s.loginLimiter.GetMetrics()
	metrics := map[string]any{
		"requests_total":        traffic.TotalRequests,
		"last_response_time_us": traffic.LastResponseTimeUs,
		"login_rate_limited":    limits.TotalHits,
		"login_clients_tracked": limits.ClientCount,
		"suspicious_requests":   s.detector.GetMetrics().SuspiciousRequests,
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":  status,
		"checks":  checks,
		"metrics": metrics,
	}).Write(w)
}

// render executes a template into a buffer so a failure can still become a
// clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		s.serverError(w, r, errTemplatesMissing)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template render failed",
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err)
		s.serverError(w, r, err)
		return
	}
	NewResponse().Status(status).HTML(buf.Bytes()).Write(w)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "Request failed",
		log.FieldRequestID, trace.GetRequestID(r.Context()),
		log.FieldPath, r.URL.Path,
		log.FieldError, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
