package aggcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery/internal/db"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/esdsl"
)

const cacheKeyPrefix = "esquery:agg_cache:"

// store is the consumer interface for the aggregation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// aggregator is the decorated aggregation source.
type aggregator interface {
	Aggregate(ctx context.Context, index string, req esdsl.AggregationRequest) ([]bucket.Bucket, error)
}

// CachedAggregator caches decoded bucket trees in a key-value store.
type CachedAggregator struct {
	inner      aggregator
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. A non-positive ttl stores entries without expiry.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner aggregator,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedAggregator {
	return &CachedAggregator{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Aggregate returns cached buckets or calls the inner aggregator.
// Cache failures are logged and fall through to the inner aggregator.
func (c *CachedAggregator) Aggregate(
	ctx context.Context, index string, req esdsl.AggregationRequest,
) ([]bucket.Bucket, error) {
	key, err := c.cacheKey(index, req)
	if err != nil {
		return nil, err
	}

	if buckets, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return buckets, nil
	}

	c.incCache("miss")

	buckets, err := c.inner.Aggregate(ctx, index, req)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, buckets)
	return buckets, nil
}

func (c *CachedAggregator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the index together with the compiled body.
func (c *CachedAggregator) cacheKey(index string, req esdsl.AggregationRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode aggregation: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(index))
	h.Write([]byte{0})
	h.Write(body)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedAggregator) getFromCache(ctx context.Context, key string) ([]bucket.Bucket, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached aggregation", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var buckets []bucket.Bucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		c.logger.Warn("Failed to parse cached aggregation", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return normalize(buckets), true
}

func (c *CachedAggregator) putToCache(ctx context.Context, key string, buckets []bucket.Bucket) {
	data, err := json.Marshal(buckets)
	if err != nil {
		c.logger.Warn("Failed to encode aggregation for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache aggregation", zap.String("key", key), zap.Error(err))
	}
}

// normalize replaces nil child slices left by JSON null with empty ones.
func normalize(bs []bucket.Bucket) []bucket.Bucket {
	if bs == nil {
		return []bucket.Bucket{}
	}
	for i := range bs {
		bs[i].Buckets = normalize(bs[i].Buckets)
	}
	return bs
}
