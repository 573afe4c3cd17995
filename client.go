package esquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery/internal/db"
	"github.com/kailas-cloud/esquery/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/esquery/internal/db/redis"
	"github.com/kailas-cloud/esquery/internal/repository/aggcache"
	searchrepo "github.com/kailas-cloud/esquery/internal/repository/search"
	searchuc "github.com/kailas-cloud/esquery/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeywordSuffix    = "keyword"
)

// indexStore is the consumer interface for index management (ISP).
type indexStore interface {
	Ping(ctx context.Context) error
	CreateIndex(ctx context.Context, name string, m *db.Mapping) error
	PutMapping(ctx context.Context, name string, m *db.Mapping) error
	DeleteIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Close()
}

// Client is the esquery SDK entry point.
type Client struct {
	store  indexStore
	cache  *dbRedis.Store
	search *searchuc.Service
	fields FieldMap
}

// New creates a Client and waits for the cluster to answer.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
		suffix:           defaultKeywordSuffix,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("esquery: elasticsearch address required (use WithAddresses)")
	}

	store, err := elastic.NewStore(elastic.Config{
		Addrs:     cfg.addrs,
		Username:  cfg.username,
		Password:  cfg.password,
		APIKey:    cfg.apiKey,
		Transport: cfg.transport,
	})
	if err != nil {
		return nil, fmt.Errorf("esquery: create store: %w", err)
	}

	if cfg.readinessTimeout > 0 {
		if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("esquery: cluster not ready: %w", err)
		}
	}

	return wireClient(store, cfg)
}

func wireClient(store *elastic.Store, cfg *clientConfig) (*Client, error) {
	repo := searchrepo.New(store)
	var aggregator searchuc.Aggregator = repo

	var cache *dbRedis.Store
	if len(cfg.cacheAddrs) > 0 {
		var err error
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("esquery: create cache: %w", err)
		}
		aggregator = aggcache.New(repo, cache, cfg.cacheTTL, cacheCounter(cfg.metricsReg), cfg.logger)
	}

	fields := cfg.fieldMap()
	return &Client{
		store: store,
		cache: cache,
		search: searchuc.New(repo, aggregator, fields, searchuc.Limits{
			DefaultLimit: cfg.defaultLimit,
			MaxLimit:     cfg.maxLimit,
			MaxParallel:  cfg.maxParallel,
		}),
		fields: fields,
	}, nil
}

// cacheCounter returns a per-client hit/miss counter, registered on reg when given.
func cacheCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esquery",
		Subsystem: "sdk",
		Name:      "aggregation_cache_total",
		Help:      "Aggregation cache hits and misses",
	}, []string{"result"})
	if reg != nil {
		var are prometheus.AlreadyRegisteredError
		if err := reg.Register(c); errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

// Close releases all connections.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	c.store.Close()
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// FieldMap returns the field mapping applied to every compiled request.
func (c *Client) FieldMap() FieldMap { return c.fields }

// Query runs f against index and returns one page of hits.
func (c *Client) Query(ctx context.Context, index string, f Filter) (Page, error) {
	return c.search.Query(ctx, index, f)
}

// Aggregate runs p against index and returns the decoded bucket tree.
func (c *Client) Aggregate(ctx context.Context, index string, p Pipeline) ([]Bucket, error) {
	return c.search.Aggregate(ctx, index, p)
}

// AggregateMany runs independent pipelines concurrently; results keep input order.
func (c *Client) AggregateMany(ctx context.Context, index string, ps ...Pipeline) ([][]Bucket, error) {
	return c.search.AggregateMany(ctx, index, ps)
}

// CompileQuery compiles f with the client's field map and limits.
func (c *Client) CompileQuery(f Filter) (SearchBody, error) {
	return c.search.CompileQuery(f)
}

// CompileAggregation compiles p with the client's field map.
func (c *Client) CompileAggregation(p Pipeline) (AggregationBody, error) {
	return c.search.CompileAggregation(p)
}

// CreateIndex creates index name with mapping m. Fails with ErrIndexExists
// when the index is already there.
func (c *Client) CreateIndex(ctx context.Context, name string, m *Mapping) error {
	if err := c.store.CreateIndex(ctx, name, m); err != nil {
		return fmt.Errorf("create index %q: %w", name, err)
	}
	return nil
}

// EnsureIndex creates index name unless it exists.
func (c *Client) EnsureIndex(ctx context.Context, name string, m *Mapping) error {
	err := c.CreateIndex(ctx, name, m)
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

// PutMapping adds fields to an existing index.
func (c *Client) PutMapping(ctx context.Context, name string, m *Mapping) error {
	if err := c.store.PutMapping(ctx, name, m); err != nil {
		return fmt.Errorf("put mapping %q: %w", name, err)
	}
	return nil
}

// DeleteIndex removes an index.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if err := c.store.DeleteIndex(ctx, name); err != nil {
		return fmt.Errorf("delete index %q: %w", name, err)
	}
	return nil
}

// IndexExists reports whether the index exists.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	ok, err := c.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists %q: %w", name, err)
	}
	return ok, nil
}
