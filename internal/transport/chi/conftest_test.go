package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
	"github.com/kailas-cloud/esquery/internal/esdsl"
	healthuc "github.com/kailas-cloud/esquery/internal/usecase/health"
)

type mockSearch struct {
	queryFn         func(ctx context.Context, index string, f query.Filter) (result.Page, error)
	aggregateFn     func(ctx context.Context, index string, p aggregation.Pipeline) ([]bucket.Bucket, error)
	aggregateManyFn func(ctx context.Context, index string, ps []aggregation.Pipeline) ([][]bucket.Bucket, error)
	compileQueryFn  func(f query.Filter) (esdsl.SearchRequest, error)
	compileAggsFn   func(p aggregation.Pipeline) (esdsl.AggregationRequest, error)
}

func (m *mockSearch) Query(ctx context.Context, index string, f query.Filter) (result.Page, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, index, f)
	}
	return result.NewPage(0, true, nil), nil
}

func (m *mockSearch) Aggregate(ctx context.Context, index string, p aggregation.Pipeline) ([]bucket.Bucket, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, index, p)
	}
	return []bucket.Bucket{}, nil
}

func (m *mockSearch) AggregateMany(
	ctx context.Context, index string, ps []aggregation.Pipeline,
) ([][]bucket.Bucket, error) {
	if m.aggregateManyFn != nil {
		return m.aggregateManyFn(ctx, index, ps)
	}
	return make([][]bucket.Bucket, len(ps)), nil
}

func (m *mockSearch) CompileQuery(f query.Filter) (esdsl.SearchRequest, error) {
	if m.compileQueryFn != nil {
		return m.compileQueryFn(f)
	}
	return esdsl.SearchRequest{}, nil
}

func (m *mockSearch) CompileAggregation(p aggregation.Pipeline) (esdsl.AggregationRequest, error) {
	if m.compileAggsFn != nil {
		return m.compileAggsFn(p)
	}
	return esdsl.AggregationRequest{}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestRouter(t *testing.T, search searchService, health healthService) http.Handler {
	t.Helper()
	if health == nil {
		health = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	r := chi.NewRouter()
	NewServer(search, health, zap.NewNop()).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
