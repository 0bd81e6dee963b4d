// Package api exposes the HTTP interface for the audit service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/flowopt/siteaudit/internal/audit"
	"github.com/flowopt/siteaudit/internal/config"
	"github.com/flowopt/siteaudit/internal/metrics"
)

// Server wires HTTP handlers to the auditor.
type Server struct {
	router  chi.Router
	auditor *audit.Auditor
	cfg     config.Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewServer constructs a Server with middleware and routes.
func NewServer(auditor *audit.Auditor, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	s := &Server{
		auditor: auditor,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(timeoutMiddleware(90 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/audits", s.runAudit)
		r.Post("/audits/batch", s.runBatch)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, s.logger)
}

type auditRequest struct {
	URL string `json:"url"`
}

type auditResponse struct {
	GeneratedAt string       `json:"generated_at"`
	Report      audit.Report `json:"report"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

type batchOutcome struct {
	URL    string        `json:"url"`
	Report *audit.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (s *Server) runAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", s.logger)
		return
	}

	start := s.now()
	report, err := s.auditor.Audit(r.Context(), req.URL)
	if err != nil {
		// Input validation is the only error the auditor surfaces.
		metrics.ObserveInvalidInput()
		writeError(w, http.StatusBadRequest, err.Error(), s.logger)
		return
	}
	metrics.ObserveAudit(outcomeOf(report), report.Score, s.now().Sub(start))

	writeJSON(w, http.StatusOK, auditResponse{
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Report:      report,
	}, s.logger)
}

func (s *Server) runBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls required", s.logger)
		return
	}
	if len(req.URLs) > s.cfg.Audit.MaxBatchURLs {
		writeError(w, http.StatusBadRequest, "too many urls", s.logger)
		return
	}

	start := s.now()
	outcomes := audit.RunBatch(r.Context(), s.auditor, req.URLs, s.cfg.Audit.BatchConcurrency)

	results := make([]batchOutcome, len(outcomes))
	for i, o := range outcomes {
		results[i] = batchOutcome{URL: o.URL}
		if o.Err != nil {
			metrics.ObserveInvalidInput()
			results[i].Error = o.Err.Error()
			continue
		}
		report := o.Report
		metrics.ObserveAudit(outcomeOf(report), report.Score, s.now().Sub(start))
		results[i].Report = &report
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": s.now().UTC().Format(time.RFC3339),
		"results":      results,
	}, s.logger)
}

// outcomeOf distinguishes a degraded unreachable-site report from a normal
// one for metrics purposes.
func outcomeOf(r audit.Report) string {
	if r.HTTPStatus == nil {
		return metrics.OutcomeUnreachable
	}
	return metrics.OutcomeCompleted
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger *zap.Logger) {
	writeJSON(w, status, map[string]string{"error": msg}, logger)
}
