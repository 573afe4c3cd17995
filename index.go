package esquery

import (
	"context"
	"fmt"
)

// Index is a typed handle on one index. Hits are decoded into T from _source.
type Index[T any] struct {
	name   string
	client *Client
}

// NewIndex creates a typed handle for index name.
func NewIndex[T any](client *Client, name string) *Index[T] {
	return &Index[T]{name: name, client: client}
}

// Name returns the index name.
func (idx *Index[T]) Name() string { return idx.name }

// Ensure creates the index with mapping m if it does not exist (idempotent).
func (idx *Index[T]) Ensure(ctx context.Context, m *Mapping) error {
	if err := idx.client.EnsureIndex(ctx, idx.name, m); err != nil {
		return fmt.Errorf("ensure %q: %w", idx.name, err)
	}
	return nil
}

// Hits is one decoded page of an Index query.
type Hits[T any] struct {
	Total int64
	Exact bool
	IDs   []string
	Items []T
}

// Find runs f and decodes every hit into T.
func (idx *Index[T]) Find(ctx context.Context, f Filter) (Hits[T], error) {
	page, err := idx.client.Query(ctx, idx.name, f)
	if err != nil {
		return Hits[T]{}, err
	}

	results := page.Results()
	out := Hits[T]{
		Total: page.Total(),
		Exact: page.Exact(),
		IDs:   make([]string, len(results)),
		Items: make([]T, len(results)),
	}
	for i := range results {
		out.IDs[i] = results[i].ID()
		if err := results[i].Decode(&out.Items[i]); err != nil {
			return Hits[T]{}, fmt.Errorf("find %q: hit %s: %w", idx.name, results[i].ID(), err)
		}
	}
	return out, nil
}

// Aggregate runs p against the index.
func (idx *Index[T]) Aggregate(ctx context.Context, p Pipeline) ([]Bucket, error) {
	return idx.client.Aggregate(ctx, idx.name, p)
}
