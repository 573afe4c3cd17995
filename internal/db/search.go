package db

import "encoding/json"

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total int64
	// TotalRelation is "eq" for exact totals and "gte" for lower bounds.
	TotalRelation string
	Hits          []SearchHit
	// Aggregations is the raw "aggregations" object, nil when absent.
	Aggregations json.RawMessage
	TookMillis   int64
}

// SearchHit is a single document hit.
type SearchHit struct {
	ID     string
	Index  string
	Score  float64
	Source json.RawMessage
}
