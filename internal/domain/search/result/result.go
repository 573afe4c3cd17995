package result

import "encoding/json"

// Result is a single search hit.
type Result struct {
	id     string
	index  string
	score  float64
	source json.RawMessage
}

// New creates a search result.
func New(id, index string, score float64, source json.RawMessage) Result {
	return Result{id: id, index: index, score: score, source: source}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Index returns the index the hit came from.
func (r *Result) Index() string { return r.index }

// Score returns the relevance score (zero when sorting on fields).
func (r *Result) Score() float64 { return r.score }

// Source returns the raw stored document.
func (r *Result) Source() json.RawMessage { return r.source }

// Decode unmarshals the stored document into v.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.source, v)
}

// Page is one page of hits together with the total match count.
type Page struct {
	total   int64
	exact   bool
	results []Result
}

// NewPage creates a page. exact is false when total is a lower bound.
func NewPage(total int64, exact bool, results []Result) Page {
	if results == nil {
		results = []Result{}
	}
	return Page{total: total, exact: exact, results: results}
}

// Total returns the number of matching documents.
func (p Page) Total() int64 { return p.total }

// Exact reports whether Total is exact rather than a lower bound.
func (p Page) Exact() bool { return p.exact }

// Results returns the hits of this page.
func (p Page) Results() []Result { return p.results }
