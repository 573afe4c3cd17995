package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/esquery/internal/db"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
	"github.com/kailas-cloud/esquery/internal/esdsl"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte) (*db.SearchResult, error)
}

// Repo implements usecase/search.Searcher and usecase/search.Aggregator.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Query runs a compiled search body and returns one page of hits.
func (r *Repo) Query(ctx context.Context, index string, req esdsl.SearchRequest) (result.Page, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return result.Page{}, fmt.Errorf("encode query: %w", err)
	}

	sr, err := r.store.Search(ctx, index, body)
	if err != nil {
		return result.Page{}, fmt.Errorf("search %s: %w", index, err)
	}

	return toPage(sr), nil
}

// Aggregate runs a compiled aggregation body and decodes its buckets.
func (r *Repo) Aggregate(ctx context.Context, index string, req esdsl.AggregationRequest) ([]bucket.Bucket, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode aggregation: %w", err)
	}

	sr, err := r.store.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", index, err)
	}

	buckets, err := esdsl.DecodeAggregations(sr.Aggregations)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", index, err)
	}
	return buckets, nil
}

func toPage(sr *db.SearchResult) result.Page {
	if sr == nil {
		return result.NewPage(0, true, nil)
	}
	results := make([]result.Result, 0, len(sr.Hits))
	for _, h := range sr.Hits {
		results = append(results, result.New(h.ID, h.Index, h.Score, h.Source))
	}
	return result.NewPage(sr.Total, sr.TotalRelation != "gte", results)
}
