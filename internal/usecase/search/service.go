package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/esquery/internal/db"
	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
	"github.com/kailas-cloud/esquery/internal/esdsl"
	"github.com/kailas-cloud/esquery/internal/logger"
	"github.com/kailas-cloud/esquery/internal/metrics"
)

const (
	kindQuery     = "query"
	kindAggregate = "aggregate"
)

// Limits bounds query page sizes and aggregation fan-out.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	MaxParallel  int
}

func (l Limits) withDefaults() Limits {
	if l.DefaultLimit <= 0 {
		l.DefaultLimit = 20
	}
	if l.MaxLimit <= 0 {
		l.MaxLimit = 1000
	}
	if l.MaxParallel <= 0 {
		l.MaxParallel = 4
	}
	return l
}

// Service compiles filters and pipelines and runs them against the engine.
type Service struct {
	searcher   Searcher
	aggregator Aggregator
	fields     fieldmap.Func
	limits     Limits
}

// New creates a search service. A nil fields func leaves field ids untouched.
func New(searcher Searcher, aggregator Aggregator, fields fieldmap.Func, limits Limits) *Service {
	return &Service{
		searcher:   searcher,
		aggregator: aggregator,
		fields:     fields,
		limits:     limits.withDefaults(),
	}
}

// CompileQuery compiles f into a search body without contacting the engine.
// A zero limit takes the configured default; larger limits are clamped.
func (s *Service) CompileQuery(f query.Filter) (esdsl.SearchRequest, error) {
	req, err := esdsl.CompileQuery(f.WithLimit(s.clampLimit(f.Limit())), s.fields)
	if err != nil {
		metrics.CompileErrorsTotal.WithLabelValues(kindQuery).Inc()
		return esdsl.SearchRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return req, nil
}

// CompileAggregation compiles p into an aggregation body without contacting the engine.
func (s *Service) CompileAggregation(p aggregation.Pipeline) (esdsl.AggregationRequest, error) {
	req, err := esdsl.CompileAggregationRequest(p, s.fields)
	if err != nil {
		metrics.CompileErrorsTotal.WithLabelValues(kindAggregate).Inc()
		return esdsl.AggregationRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return req, nil
}

// Query compiles f and returns one page of matching documents from index.
func (s *Service) Query(ctx context.Context, index string, f query.Filter) (result.Page, error) {
	log := logger.FromContext(ctx).With(zap.String("index", index))

	req, err := s.CompileQuery(f)
	if err != nil {
		log.Warn("Query rejected", zap.Error(err))
		return result.Page{}, err
	}
	debugBody(log, "Compiled query", req)

	start := time.Now()
	page, err := s.searcher.Query(ctx, index, req)
	observe(kindQuery, start, err)
	if err != nil {
		return result.Page{}, mapEngineErr(err)
	}
	return page, nil
}

// Aggregate compiles p and returns the bucket tree computed over index.
func (s *Service) Aggregate(ctx context.Context, index string, p aggregation.Pipeline) ([]bucket.Bucket, error) {
	log := logger.FromContext(ctx).With(zap.String("index", index))

	req, err := s.CompileAggregation(p)
	if err != nil {
		log.Warn("Aggregation rejected", zap.Error(err))
		return nil, err
	}
	debugBody(log, "Compiled aggregation", req)

	start := time.Now()
	buckets, err := s.aggregator.Aggregate(ctx, index, req)
	observe(kindAggregate, start, err)
	if err != nil {
		return nil, mapEngineErr(err)
	}
	return buckets, nil
}

// AggregateMany runs independent pipelines concurrently, at most
// MaxParallel at a time. Results keep the order of ps. The first failure
// cancels the remaining pipelines.
func (s *Service) AggregateMany(
	ctx context.Context, index string, ps []aggregation.Pipeline,
) ([][]bucket.Bucket, error) {
	out := make([][]bucket.Bucket, len(ps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limits.MaxParallel)
	for i, p := range ps {
		g.Go(func() error {
			buckets, err := s.Aggregate(gctx, index, p)
			if err != nil {
				return fmt.Errorf("pipeline %d: %w", i, err)
			}
			out[i] = buckets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.limits.DefaultLimit
	case limit > s.limits.MaxLimit:
		return s.limits.MaxLimit
	default:
		return limit
	}
}

func debugBody(log *zap.Logger, msg string, body any) {
	ce := log.Check(zap.DebugLevel, msg)
	if ce == nil {
		return
	}
	data, err := json.Marshal(body)
	if err != nil {
		ce.Write(zap.Error(err))
		return
	}
	ce.Write(zap.Int("body_bytes", len(data)), zap.ByteString("body", data))
}

func observe(kind string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(kind, status).Inc()
	metrics.SearchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// mapEngineErr translates storage failures into domain errors.
func mapEngineErr(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, domain.ErrEngine):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrEngine, err)
	}
}
