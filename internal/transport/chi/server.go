// Package chi exposes the match service over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
	logpkg "github.com/kailas-cloud/resumatch/internal/logger"
	"github.com/kailas-cloud/resumatch/internal/report"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/resumatch/internal/usecase/match"
	usageuc "github.com/kailas-cloud/resumatch/internal/usecase/usage"
)

// maxBodyBytes bounds request bodies; a batch of extracted resumes fits easily.
const maxBodyBytes = 8 << 20

// Server serves the scoring API.
type Server struct {
	match         *matchuc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	match *matchuc.Service, health *healthuc.Service, usage *usageuc.Service, logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		match:         match,
		health:        health,
		usage:         usage,
		logger:        logger,
		validate:      newValidator(),
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r gochi.Router) {
		r.Post("/score", s.Score)
		r.Post("/score/batch", s.ScoreBatch)
		r.Get("/usage", s.GetUsage)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Score handles POST /v1/score.
func (s *Server) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts, err := req.options()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	a, err := s.match.Analyze(ctx, req.Resume, req.Job, opts...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := ScoreResponse{Scores: a.Scores}
	if req.Explain {
		resp.MatchedKeywords = a.MatchedKeywords
		resp.MissingKeywords = a.MissingKeywords
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, resp)
}

// ScoreBatch handles POST /v1/score/batch. With ?format=table the response
// is a plain-text table instead of JSON.
func (s *Server) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if !s.decode(w, r, &req) {
		return
	}

	if limit := s.match.MaxBatchSize(); len(req.Resumes) > limit {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("resumes count must be between 1 and %d", limit))
		return
	}

	opts, err := req.options()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	candidates := make([]matchuc.Candidate, len(req.Resumes))
	for i, item := range req.Resumes {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		candidates[i] = matchuc.Candidate{ID: id, Text: item.Text}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results := s.match.ScoreBatch(ctx, req.Job, candidates, opts...)
	setEmbeddingHeaders(w, usage)

	s.requestLogger(r).Debug("Batch scored",
		zap.Int("resumes", len(results)),
		zap.Int("embedding_tokens", usage.TotalTokens()),
	)

	if r.URL.Query().Get("format") == "table" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := report.Table(w, dombatch.Rows(results)); err != nil {
			s.requestLogger(r).Warn("write table", zap.Error(err))
		}
		return
	}

	resp := BatchScoreResponse{Items: make([]BatchResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = batchResultToDTO(res)
		if res.Status() == dombatch.StatusOK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	hr := s.health.Check(r.Context())

	checks := make(map[string]string, len(hr.Checks))
	for k, v := range hr.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if hr.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(hr.Status),
		Checks: checks,
	})
}

// GetUsage handles GET /v1/usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usageReportToDTO(s.usage.GetReport(r.Context(), period)))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads and validates a JSON body. It writes the error response and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l := logpkg.FromContext(r.Context()); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}
