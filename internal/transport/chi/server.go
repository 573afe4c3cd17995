package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
	"github.com/kailas-cloud/esquery/internal/esdsl"
	healthuc "github.com/kailas-cloud/esquery/internal/usecase/health"
)

const (
	maxBodyBytes     = 1 << 20
	maxPipelineBatch = 32
)

// searchService is the consumer interface for search operations (ISP).
type searchService interface {
	Query(ctx context.Context, index string, f query.Filter) (result.Page, error)
	Aggregate(ctx context.Context, index string, p aggregation.Pipeline) ([]bucket.Bucket, error)
	AggregateMany(ctx context.Context, index string, ps []aggregation.Pipeline) ([][]bucket.Bucket, error)
	CompileQuery(f query.Filter) (esdsl.SearchRequest, error)
	CompileAggregation(p aggregation.Pipeline) (esdsl.AggregationRequest, error)
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the esquery HTTP API.
type Server struct {
	search        searchService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searchService, health healthService, logger *zap.Logger) *Server {
	return &Server{
		search: search,
		health: health,
		logger: logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery, true),
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeIndexNotFound, false),
			sentinelHandler(domain.ErrEngine, http.StatusBadGateway, ErrorCodeEngineError, false),
		},
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/indexes/{index}", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/aggregate", s.Aggregate)
		r.Post("/aggregate/many", s.AggregateMany)
	})

	r.Post("/compile/query", s.CompileQuery)
	r.Post("/compile/aggregation", s.CompileAggregation)
}

// Search handles POST /indexes/{index}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var f query.Filter
	if !s.decode(w, r, &f) {
		return
	}

	page, err := s.search.Query(r.Context(), chi.URLParam(r, "index"), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse(page))
}

// Aggregate handles POST /indexes/{index}/aggregate.
func (s *Server) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if !s.decode(w, r, &req) {
		return
	}

	buckets, err := s.search.Aggregate(r.Context(), chi.URLParam(r, "index"), req.Stages)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AggregateResponse{Buckets: buckets})
}

// AggregateMany handles POST /indexes/{index}/aggregate/many.
func (s *Server) AggregateMany(w http.ResponseWriter, r *http.Request) {
	var req AggregateManyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Pipelines) == 0 || len(req.Pipelines) > maxPipelineBatch {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
			"pipelines must hold between 1 and 32 entries")
		return
	}

	ps := make([]aggregation.Pipeline, len(req.Pipelines))
	for i, p := range req.Pipelines {
		ps[i] = p.Stages
	}

	out, err := s.search.AggregateMany(r.Context(), chi.URLParam(r, "index"), ps)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := AggregateManyResponse{Results: make([]AggregateResponse, len(out))}
	for i, b := range out {
		resp.Results[i] = AggregateResponse{Buckets: b}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CompileQuery handles POST /compile/query.
func (s *Server) CompileQuery(w http.ResponseWriter, r *http.Request) {
	var f query.Filter
	if !s.decode(w, r, &f) {
		return
	}

	body, err := s.search.CompileQuery(f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, body)
}

// CompileAggregation handles POST /compile/aggregation.
func (s *Server) CompileAggregation(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if !s.decode(w, r, &req) {
		return
	}

	body, err := s.search.CompileAggregation(req.Stages)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, body)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// decode reads a JSON body into v. Malformed bodies get a 400 response,
// algebra errors found while decoding are reported as invalid_query.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isAlgebraError(err) {
			writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
			return false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func isAlgebraError(err error) bool {
	return errors.Is(err, domain.ErrMalformedSpec) ||
		errors.Is(err, domain.ErrUnsupportedOperator) ||
		errors.Is(err, domain.ErrUnsupportedStage)
}

func searchResponse(page result.Page) SearchResponse {
	results := page.Results()
	hits := make([]Hit, len(results))
	for i := range results {
		hits[i] = Hit{
			ID:     results[i].ID(),
			Score:  results[i].Score(),
			Source: results[i].Source(),
		}
	}
	return SearchResponse{Total: page.Total(), Exact: page.Exact(), Hits: hits}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler maps a sentinel to a status. Only caller-caused errors
// expose their full message; the rest report the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode, detailed bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if detailed {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
