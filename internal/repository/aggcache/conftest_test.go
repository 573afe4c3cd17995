package aggcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery/internal/db"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/esdsl"
)

type mockAggregator struct {
	result []bucket.Bucket
	err    error
	calls  int
}

func (m *mockAggregator) Aggregate(_ context.Context, _ string, _ esdsl.AggregationRequest) ([]bucket.Bucket, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setFn        func(ctx context.Context, key string, value []byte) error
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedAggregator(t *testing.T, inner *mockAggregator, ttl time.Duration) (*CachedAggregator, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ca := New(inner, ms, ttl, nil, zap.NewNop())
	return ca, ms
}

func sampleRequest() esdsl.AggregationRequest {
	return esdsl.AggregationRequest{Aggs: &esdsl.Node{Group: &esdsl.Group{
		Terms: &esdsl.Terms{Field: "assignedTo", Size: 10},
	}}}
}
