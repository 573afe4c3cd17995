// Package esdsl compiles query and aggregation algebra into the Elasticsearch
// JSON DSL and decodes aggregation results back into uniform buckets.
package esdsl

// Query is one Elasticsearch query clause, e.g. {"term": {"status": "open"}}.
type Query map[string]any

// Fragment is a partial bool query. Fragments produced for sibling
// conditions are combined with Merge.
type Fragment struct {
	Filter             []Query `json:"filter,omitempty"`
	MustNot            []Query `json:"must_not,omitempty"`
	Should             []Query `json:"should,omitempty"`
	MinimumShouldMatch *int    `json:"minimum_should_match,omitempty"`
}

// Merge returns f combined with o. Clause lists are concatenated, f first;
// a scalar set on o wins. Neither input is modified.
func (f Fragment) Merge(o Fragment) Fragment {
	out := Fragment{
		Filter:  concat(f.Filter, o.Filter),
		MustNot: concat(f.MustNot, o.MustNot),
		Should:  concat(f.Should, o.Should),
	}
	switch {
	case o.MinimumShouldMatch != nil:
		out.MinimumShouldMatch = intPtr(*o.MinimumShouldMatch)
	case f.MinimumShouldMatch != nil:
		out.MinimumShouldMatch = intPtr(*f.MinimumShouldMatch)
	}
	return out
}

// MergeAll folds fragments left to right with Merge.
func MergeAll(fragments ...Fragment) Fragment {
	var out Fragment
	for _, f := range fragments {
		out = out.Merge(f)
	}
	return out
}

// IsEmpty reports whether the fragment carries no clauses.
func (f Fragment) IsEmpty() bool {
	return len(f.Filter) == 0 && len(f.MustNot) == 0 && len(f.Should) == 0
}

// Bool wraps the fragment as a bool query.
func (f Fragment) Bool() Query {
	return Query{"bool": f}
}

func concat(a, b []Query) []Query {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]Query, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func matchAll() Query  { return Query{"match_all": map[string]any{}} }
func matchNone() Query { return Query{"match_none": map[string]any{}} }

func intPtr(n int) *int { return &n }
