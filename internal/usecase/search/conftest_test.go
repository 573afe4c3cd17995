package search

import (
	"context"

	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
	"github.com/kailas-cloud/esquery/internal/esdsl"
)

type mockSearcher struct {
	queryFn func(ctx context.Context, index string, req esdsl.SearchRequest) (result.Page, error)
}

func (m *mockSearcher) Query(ctx context.Context, index string, req esdsl.SearchRequest) (result.Page, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, index, req)
	}
	return result.NewPage(0, true, nil), nil
}

type mockAggregator struct {
	aggregateFn func(ctx context.Context, index string, req esdsl.AggregationRequest) ([]bucket.Bucket, error)
}

func (m *mockAggregator) Aggregate(
	ctx context.Context, index string, req esdsl.AggregationRequest,
) ([]bucket.Bucket, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, index, req)
	}
	return []bucket.Bucket{}, nil
}

func newTestService(limits Limits) (*Service, *mockSearcher, *mockAggregator) {
	ms := &mockSearcher{}
	ma := &mockAggregator{}
	return New(ms, ma, nil, limits), ms, ma
}
