package esquery

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/esdsl"
)

type (
	// SearchBody is a compiled search request body.
	SearchBody = esdsl.SearchRequest
	// AggregationBody is a compiled aggregation-only request body.
	AggregationBody = esdsl.AggregationRequest
)

// CompileQuery compiles f into a search body. fm may be nil.
func CompileQuery(f Filter, fm FieldMap) (SearchBody, error) {
	body, err := esdsl.CompileQuery(f, fm)
	if err != nil {
		return SearchBody{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return body, nil
}

// CompileAggregation compiles p into an aggregation body. fm may be nil.
func CompileAggregation(p Pipeline, fm FieldMap) (AggregationBody, error) {
	body, err := esdsl.CompileAggregationRequest(p, fm)
	if err != nil {
		return AggregationBody{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return body, nil
}

// DecodeBuckets decodes the "aggregations" object of a search response.
// Absent or null aggregations decode to an empty tree.
func DecodeBuckets(aggregations []byte) ([]Bucket, error) {
	return esdsl.DecodeAggregations(json.RawMessage(aggregations))
}
