package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/esquery/internal/db"
)

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total totalHits `json:"total"`
		Hits  []struct {
			Index  string          `json:"_index"`
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations"`
}

// totalHits accepts both {"value": n, "relation": "eq"} and a bare number.
type totalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

func (t *totalHits) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value, t.Relation = n, "eq"
		return nil
	}
	type plain totalHits
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = totalHits(p)
	return nil
}

// Search runs a compiled body against index.
func (s *Store) Search(ctx context.Context, index string, body []byte) (*db.SearchResult, error) {
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(db.OpSearch, res)
	}

	var raw searchResponse
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode response: %w", err)}
	}

	out := &db.SearchResult{
		Total:         raw.Hits.Total.Value,
		TotalRelation: raw.Hits.Total.Relation,
		Hits:          make([]db.SearchHit, 0, len(raw.Hits.Hits)),
		TookMillis:    raw.Took,
	}
	if len(raw.Aggregations) > 0 && !bytes.Equal(raw.Aggregations, []byte("null")) {
		out.Aggregations = raw.Aggregations
	}
	for _, h := range raw.Hits.Hits {
		hit := db.SearchHit{ID: h.ID, Index: h.Index, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
