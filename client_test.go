package esquery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func TestNew_NoAddress(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{suffix: defaultKeywordSuffix}

	WithAddresses("http://a:9200", "http://b:9200")(cfg)
	WithCredentials("elastic", "secret")(cfg)
	WithKeywordFields("name")(cfg)
	WithKeywordFields("title")(cfg)
	WithLimits(15, 200)(cfg)
	WithMaxParallel(3)(cfg)

	if len(cfg.addrs) != 2 {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.username != "elastic" || cfg.password != "secret" {
		t.Errorf("credentials = %q/%q", cfg.username, cfg.password)
	}
	if !reflect.DeepEqual(cfg.keywords, []string{"name", "title"}) {
		t.Errorf("keywords = %v", cfg.keywords)
	}
	if cfg.defaultLimit != 15 || cfg.maxLimit != 200 || cfg.maxParallel != 3 {
		t.Errorf("limits = %d/%d/%d", cfg.defaultLimit, cfg.maxLimit, cfg.maxParallel)
	}
}

func TestClientFieldMap_Chained(t *testing.T) {
	c, _ := newTestClient(t,
		WithKeywordFields("name"),
		WithFieldMap(func(id string) string { return "doc." + id }),
	)

	fm := c.FieldMap()
	if got := fm.Apply("name"); got != "doc.name.keyword" {
		t.Errorf("name -> %q, want doc.name.keyword", got)
	}
	if got := fm.Apply("age"); got != "doc.age" {
		t.Errorf("age -> %q, want doc.age", got)
	}
}

func TestClient_Query(t *testing.T) {
	c, fc := newTestClient(t, WithKeywordFields("name"), WithLimits(10, 50))
	fc.on(http.MethodPost, "/people/_search", http.StatusOK, `{
		"took": 2,
		"hits": {
			"total": {"value": 1, "relation": "eq"},
			"hits": [{"_index": "people", "_id": "p1", "_score": 1.0, "_source": {"name": "Ann"}}]
		}
	}`)

	page, err := c.Query(context.Background(), "people", Match(Where("name", Eq("Ann"))))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if page.Total() != 1 || len(page.Results()) != 1 || page.Results()[0].ID() != "p1" {
		t.Errorf("unexpected page: total=%d results=%d", page.Total(), len(page.Results()))
	}

	sent := fc.body(http.MethodPost, "/people/_search")
	if !strings.Contains(sent, `"name.keyword":"Ann"`) || !strings.Contains(sent, `"size":10`) {
		t.Errorf("unexpected request body: %s", sent)
	}
}

func TestClient_Query_IndexNotFound(t *testing.T) {
	c, fc := newTestClient(t)
	fc.on(http.MethodPost, "/missing/_search", http.StatusNotFound,
		`{"error":{"type":"index_not_found_exception","reason":"no such index [missing]"},"status":404}`)

	_, err := c.Query(context.Background(), "missing", Match())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Aggregate(t *testing.T) {
	c, fc := newTestClient(t)
	fc.on(http.MethodPost, "/tasks/_search", http.StatusOK, `{
		"hits": {"total": {"value": 3, "relation": "eq"}, "hits": []},
		"aggregations": {"group": {"buckets": [
			{"key": "me", "doc_count": 2},
			{"key": "you", "doc_count": 1}
		]}}
	}`)

	buckets, err := c.Aggregate(context.Background(), "tasks", Pipeline{
		Buckets(BucketsSpec{FieldID: "assignedTo"}),
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := []Bucket{
		{ID: "me", Value: 2, Buckets: []Bucket{}},
		{ID: "you", Value: 1, Buckets: []Bucket{}},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Errorf("got %+v, want %+v", buckets, want)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(fc.body(http.MethodPost, "/tasks/_search")), &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent["size"] != float64(0) {
		t.Errorf("expected size 0, got %v", sent["size"])
	}
}

func TestClient_EnsureIndex(t *testing.T) {
	c, fc := newTestClient(t)
	fc.on(http.MethodPut, "/tasks", http.StatusBadRequest,
		`{"error":{"type":"resource_already_exists_exception","reason":"index [tasks] already exists"},"status":400}`)

	m := NewMapping().Keyword("status").Nested("vacancies", func(b *MappingBuilder) {
		b.Keyword("id").Object("stage", func(b *MappingBuilder) { b.Keyword("id") })
	}).MustBuild()

	err := c.CreateIndex(context.Background(), "tasks", m)
	if !errors.Is(err, ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
	if err := c.EnsureIndex(context.Background(), "tasks", m); err != nil {
		t.Fatalf("EnsureIndex should tolerate an existing index: %v", err)
	}
}

type person struct {
	Name string `json:"name"`
}

func TestIndex_Find(t *testing.T) {
	c, fc := newTestClient(t)
	fc.on(http.MethodPost, "/people/_search", http.StatusOK, `{
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_index": "people", "_id": "p1", "_score": 1.0, "_source": {"name": "Ann"}},
				{"_index": "people", "_id": "p2", "_score": 0.5, "_source": {"name": "Bob"}}
			]
		}
	}`)

	idx := NewIndex[person](c, "people")
	hits, err := idx.Find(context.Background(), Match())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if hits.Total != 2 || !hits.Exact {
		t.Errorf("total=%d exact=%v", hits.Total, hits.Exact)
	}
	if !reflect.DeepEqual(hits.IDs, []string{"p1", "p2"}) {
		t.Errorf("ids = %v", hits.IDs)
	}
	if hits.Items[1].Name != "Bob" {
		t.Errorf("items = %+v", hits.Items)
	}
}

func TestMappingFieldMap(t *testing.T) {
	m := NewMapping().TextWithKeyword("name").Keyword("status").MustBuild()

	fm := MappingFieldMap(m)
	if got := fm.Apply("name"); got != "name.keyword" {
		t.Errorf("name -> %q", got)
	}
	if got := fm.Apply("status"); got != "status" {
		t.Errorf("status -> %q", got)
	}
}
