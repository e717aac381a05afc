package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/taxodex/internal/domain"
	"github.com/kailas-cloud/taxodex/internal/domain/record"
	logpkg "github.com/kailas-cloud/taxodex/internal/logger"
	"github.com/kailas-cloud/taxodex/internal/transport/api"
	healthuc "github.com/kailas-cloud/taxodex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/taxodex/internal/usecase/search"
)

const defaultReadyTimeout = 30 * time.Second

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

type searchService interface {
	Search(ctx context.Context, kind record.Kind, query string) ([]record.Record, error)
	Stats(ctx context.Context) (searchuc.Stats, error)
}

type idService interface {
	Generate(ctx context.Context, kind record.Kind) (string, error)
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the query API.
type Server struct {
	search        searchService
	ids           idService
	health        healthService
	logger        *zap.Logger
	readyTimeout  time.Duration
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searchService, ids idService, health healthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:       search,
		ids:          ids,
		health:       health,
		logger:       logger,
		readyTimeout: defaultReadyTimeout,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownKind, http.StatusNotFound, api.ErrorResponseCodeCollectionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, api.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, api.ErrorResponseCodeNotReady),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusBadGateway, api.ErrorResponseCodeSourceUnavailable),
	}
	return s
}

// WithReadyTimeout bounds how long a request waits for records to load.
func (s *Server) WithReadyTimeout(d time.Duration) *Server {
	if d > 0 {
		s.readyTimeout = d
	}
	return s
}

// SearchCollection handles GET /api/{collection}?search=.
func (s *Server) SearchCollection(w http.ResponseWriter, r *http.Request) {
	var collection string
	err := runtime.BindStyledParameterWithOptions("simple", "collection", chi.URLParam(r, "collection"), &collection,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid format for parameter collection")
		return
	}

	var query *string
	if err := runtime.BindQueryParameter("form", true, false, api.QuerySearch, r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid format for parameter search")
		return
	}

	kind, err := record.ParseKind(collection)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.readyTimeout)
	defer cancel()

	recs, err := s.search.Search(ctx, kind, deref(query))
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	if recs == nil {
		recs = []record.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// GenerateID handles GET /api/generate-id/{type}.
func (s *Server) GenerateID(w http.ResponseWriter, r *http.Request) {
	var typ string
	err := runtime.BindStyledParameterWithOptions("simple", "type", chi.URLParam(r, "type"), &typ,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid format for parameter type")
		return
	}

	kind, err := record.ParseKind(typ)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid type")
		return
	}

	id, err := s.ids.Generate(r.Context(), kind)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GenerateIDResponse{ID: id})
}

// GetStats handles GET /api/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.readyTimeout)
	defer cancel()

	st, err := s.search.Stats(ctx)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.StatsResponse{
		LiteratureCount: st.Literature,
		TaxonomyCount:   st.Taxonomy,
		SampleCount:     st.Samples,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: api.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownKind,
		domain.ErrNotFound,
		domain.ErrNotReady,
		domain.ErrSourceUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logpkg.FromContextOr(ctx, s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
