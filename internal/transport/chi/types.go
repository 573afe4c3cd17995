package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
)

// ErrorCode is the machine readable error code in API error responses.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest    ErrorCode = "bad_request"
	ErrorCodeInvalidQuery  ErrorCode = "invalid_query"
	ErrorCodeIndexNotFound ErrorCode = "index_not_found"
	ErrorCodeEngineError   ErrorCode = "engine_error"
	ErrorCodeUnauthorized  ErrorCode = "unauthorized"
	ErrorCodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Hit is one matching document.
type Hit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source,omitempty"`
}

// SearchResponse is the body of POST /indexes/{index}/search.
type SearchResponse struct {
	Total int64 `json:"total"`
	Exact bool  `json:"exact"`
	Hits  []Hit `json:"hits"`
}

// AggregateRequest is the body of aggregation endpoints.
type AggregateRequest struct {
	Stages aggregation.Pipeline `json:"stages"`
}

// AggregateResponse is the body returned by POST /indexes/{index}/aggregate.
type AggregateResponse struct {
	Buckets []bucket.Bucket `json:"buckets"`
}

// AggregateManyRequest runs several independent pipelines in one call.
type AggregateManyRequest struct {
	Pipelines []AggregateRequest `json:"pipelines"`
}

// AggregateManyResponse holds one result per pipeline, in request order.
type AggregateManyResponse struct {
	Results []AggregateResponse `json:"results"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
