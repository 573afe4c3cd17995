package esquery

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string
	apiKey   string

	transport        http.RoundTripper
	readinessTimeout time.Duration

	fields   FieldMap
	keywords []string
	suffix   string

	defaultLimit int
	maxLimit     int
	maxParallel  int

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithAddresses sets the Elasticsearch node URLs.
func WithAddresses(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = append([]string(nil), addrs...)
	}
}

// WithCredentials enables basic authentication.
func WithCredentials(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithAPIKey authenticates with an Elasticsearch API key.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithTransport overrides the HTTP transport used to reach the cluster.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) {
		c.transport = rt
	}
}

// WithReadinessTimeout bounds how long New waits for the cluster. Zero skips the wait.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.readinessTimeout = d
	}
}

// WithKeywordFields maps the listed text fields to their ".keyword" sub-field.
func WithKeywordFields(fields ...string) Option {
	return func(c *clientConfig) {
		c.keywords = append(c.keywords, fields...)
	}
}

// WithKeywordSuffix changes the keyword sub-field name (default "keyword").
func WithKeywordSuffix(suffix string) Option {
	return func(c *clientConfig) {
		c.suffix = suffix
	}
}

// WithFieldMap applies fm after keyword mapping.
func WithFieldMap(fm FieldMap) Option {
	return func(c *clientConfig) {
		c.fields = fm
	}
}

// WithLimits sets the default and maximum page size.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	}
}

// WithMaxParallel bounds concurrent pipelines in AggregateMany.
func WithMaxParallel(n int) Option {
	return func(c *clientConfig) {
		c.maxParallel = n
	}
}

// WithCache caches decoded aggregation results in Redis. A zero ttl keeps entries forever.
func WithCache(addr, password string, ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger used for cache warnings. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithMetrics registers the client's cache counter on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.metricsReg = reg
	}
}

func (c *clientConfig) fieldMap() FieldMap {
	kw := KeywordFields(c.suffix, c.keywords...)
	if c.fields == nil {
		return kw
	}
	return fieldmap.Chain(kw, c.fields)
}
