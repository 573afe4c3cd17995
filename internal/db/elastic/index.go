package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esquery/internal/db"
)

// CreateIndex creates an index with the given mapping.
// An existing index yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, name string, m *db.Mapping) error {
	if !db.IsValidIndexName(name) {
		return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("invalid index name %q", name)}
	}

	opts := []func(*esapi.IndicesCreateRequest){s.client.Indices.Create.WithContext(ctx)}
	if m != nil {
		if err := m.Validate(); err != nil {
			return &db.Error{Op: db.OpCreateIndex, Err: err}
		}
		body, err := json.Marshal(map[string]any{"mappings": m})
		if err != nil {
			return &db.Error{Op: db.OpCreateIndex, Err: err}
		}
		opts = append(opts, s.client.Indices.Create.WithBody(bytes.NewReader(body)))
	}

	res, err := s.client.Indices.Create(name, opts...)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpCreateIndex, res)
	}
	return nil
}

// PutMapping adds fields to the mapping of an existing index.
func (s *Store) PutMapping(ctx context.Context, name string, m *db.Mapping) error {
	if m == nil {
		return &db.Error{Op: db.OpPutMapping, Err: fmt.Errorf("mapping is required")}
	}
	if err := m.Validate(); err != nil {
		return &db.Error{Op: db.OpPutMapping, Err: err}
	}
	body, err := json.Marshal(m)
	if err != nil {
		return &db.Error{Op: db.OpPutMapping, Err: err}
	}

	res, err := s.client.Indices.PutMapping(
		[]string{name},
		bytes.NewReader(body),
		s.client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpPutMapping, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpPutMapping, res)
	}
	return nil
}

// DeleteIndex removes an index. A missing index yields db.ErrIndexNotFound.
func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	res, err := s.client.Indices.Delete([]string{name}, s.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpDeleteIndex, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(db.OpDeleteIndex, res)
	}
	return nil
}

// IndexExists reports whether an index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.client.Indices.Exists([]string{name}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpIndexExists, Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError(db.OpIndexExists, res)
	}
}
