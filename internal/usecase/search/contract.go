package search

import (
	"context"

	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
	"github.com/kailas-cloud/esquery/internal/esdsl"
)

// Searcher runs compiled search bodies against an index.
type Searcher interface {
	Query(ctx context.Context, index string, req esdsl.SearchRequest) (result.Page, error)
}

// Aggregator runs compiled aggregation bodies and returns decoded buckets.
type Aggregator interface {
	Aggregate(ctx context.Context, index string, req esdsl.AggregationRequest) ([]bucket.Bucket, error)
}
