package esdsl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
)

// ResultNode is one node of an aggregation result: the root "aggregations"
// object or a bucket inside a group.
type ResultNode struct {
	Key           json.RawMessage `json:"key,omitempty"`
	KeyAsString   string          `json:"key_as_string,omitempty"`
	DocCount      int64           `json:"doc_count"`
	Group         *GroupResult    `json:"group,omitempty"`
	WithNested    *ResultNode     `json:"with_nested,omitempty"`
	WithFilter    *ResultNode     `json:"with_filter,omitempty"`
	WithoutNested *ResultNode     `json:"without_nested,omitempty"`
}

// GroupResult holds the buckets of a group aggregation.
type GroupResult struct {
	Buckets []ResultNode `json:"buckets"`
}

// DecodeAggregations decodes a raw "aggregations" object. Absent or null
// input decodes to no buckets.
func DecodeAggregations(raw json.RawMessage) ([]bucket.Bucket, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []bucket.Bucket{}, nil
	}
	var root ResultNode
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("%w: decode aggregations: %w", domain.ErrEngine, err)
	}
	return DecodeBuckets(&root), nil
}

// DecodeBuckets reads the buckets below n, looking through nested, filter
// and reverse nested wrappers. Only group buckets become output buckets.
func DecodeBuckets(n *ResultNode) []bucket.Bucket {
	raw := groupBuckets(n)
	out := make([]bucket.Bucket, len(raw))
	for i := range raw {
		out[i] = bucket.Bucket{
			ID:      keyString(&raw[i]),
			Value:   raw[i].DocCount,
			Buckets: DecodeBuckets(&raw[i]),
		}
	}
	return out
}

func groupBuckets(n *ResultNode) []ResultNode {
	switch {
	case n == nil:
		return nil
	case n.Group != nil:
		return n.Group.Buckets
	case n.WithNested != nil:
		return groupBuckets(n.WithNested)
	case n.WithFilter != nil:
		return groupBuckets(n.WithFilter)
	case n.WithoutNested != nil:
		return groupBuckets(n.WithoutNested)
	default:
		return nil
	}
}

// keyString renders a bucket key as a string. Date histograms report
// key_as_string; numeric keys are printed without exponent.
func keyString(n *ResultNode) string {
	if n.KeyAsString != "" {
		return n.KeyAsString
	}
	if len(n.Key) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(n.Key, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(n.Key, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return string(n.Key)
}
