package esdsl

// Aggregation names. Each compiled level is a single named aggregation whose
// name tells the decoder how to read the matching result node.
const (
	AggGroup         = "group"
	AggWithNested    = "with_nested"
	AggWithoutNested = "without_nested"
	AggWithFilter    = "with_filter"
)

// Node is an "aggs" object holding exactly one named aggregation.
type Node struct {
	Group         *Group         `json:"group,omitempty"`
	WithNested    *NestedAgg     `json:"with_nested,omitempty"`
	WithoutNested *ReverseNested `json:"without_nested,omitempty"`
	WithFilter    *FilterAgg     `json:"with_filter,omitempty"`
}

// Name returns the name of the aggregation the node holds.
func (n *Node) Name() string {
	switch {
	case n == nil:
		return ""
	case n.Group != nil:
		return AggGroup
	case n.WithNested != nil:
		return AggWithNested
	case n.WithoutNested != nil:
		return AggWithoutNested
	case n.WithFilter != nil:
		return AggWithFilter
	default:
		return ""
	}
}

// Child returns the sub-aggregations of the node's aggregation.
func (n *Node) Child() *Node {
	switch {
	case n == nil:
		return nil
	case n.Group != nil:
		return n.Group.Aggs
	case n.WithNested != nil:
		return n.WithNested.Aggs
	case n.WithoutNested != nil:
		return n.WithoutNested.Aggs
	case n.WithFilter != nil:
		return n.WithFilter.Aggs
	default:
		return nil
	}
}

// Group is a bucketing aggregation: exactly one of Terms, Histogram or DateHistogram.
type Group struct {
	Terms         *Terms         `json:"terms,omitempty"`
	Histogram     *Histogram     `json:"histogram,omitempty"`
	DateHistogram *DateHistogram `json:"date_histogram,omitempty"`
	Aggs          *Node          `json:"aggs,omitempty"`
}

// Terms groups by distinct value. Documents without the field land in the "" bucket.
type Terms struct {
	Field   string   `json:"field"`
	Include []string `json:"include,omitempty"`
	Missing string   `json:"missing"`
	Size    int      `json:"size"`
}

// Histogram groups numbers into fixed-width buckets.
type Histogram struct {
	Field    string  `json:"field"`
	Interval float64 `json:"interval"`
}

// DateHistogram groups dates by a calendar or fixed interval.
type DateHistogram struct {
	Field            string `json:"field"`
	CalendarInterval string `json:"calendar_interval,omitempty"`
	FixedInterval    string `json:"fixed_interval,omitempty"`
}

// NestedAgg enters the nested scope at Nested.Path.
type NestedAgg struct {
	Nested NestedPath `json:"nested"`
	Aggs   *Node      `json:"aggs,omitempty"`
}

// NestedPath names a nested scope.
type NestedPath struct {
	Path string `json:"path"`
}

// ReverseNested leaves the current nested scope for an ancestor; an empty path means the root.
type ReverseNested struct {
	ReverseNested ReversePath `json:"reverse_nested"`
	Aggs          *Node       `json:"aggs,omitempty"`
}

// ReversePath names the ancestor scope of a reverse_nested aggregation.
type ReversePath struct {
	Path string `json:"path,omitempty"`
}

// FilterAgg narrows the documents seen by Aggs.
type FilterAgg struct {
	Filter Query `json:"filter"`
	Aggs   *Node `json:"aggs,omitempty"`
}

// AggregationRequest is an aggregation-only search body.
type AggregationRequest struct {
	Aggs *Node `json:"aggs,omitempty"`
	Size int   `json:"size"`
}
