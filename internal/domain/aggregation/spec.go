package aggregation

import (
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/scope"
)

// DefaultBucketCount is the bucket ceiling when no size, values or sub-field ids are given.
const DefaultBucketCount = 10

// BucketsSpec describes one grouping level, optionally continued by SubBuckets.
type BucketsSpec struct {
	FieldID string `json:"fieldId"`
	// Interval groups a numeric field into fixed-width buckets.
	Interval float64 `json:"interval,omitempty"`
	// DateInterval groups a date field by a calendar unit (month, week, 1d, ...).
	DateInterval string `json:"dateInterval,omitempty"`
	// Values restricts buckets to an explicit allow-list.
	Values []string `json:"values,omitempty"`
	Size   int      `json:"size,omitempty"`
	// SubFieldProp marks FieldID as a nested collection grouped by this element property.
	SubFieldProp string `json:"subFieldProp,omitempty"`
	// SubFieldIDs restricts nested grouping to the elements with these ids.
	SubFieldIDs []string     `json:"subFieldIds,omitempty"`
	SubBuckets  *BucketsSpec `json:"subBuckets,omitempty"`
}

// Validate checks the spec and every sub-bucket level.
func (s *BucketsSpec) Validate() error {
	for level, cur := 0, s; cur != nil; level, cur = level+1, cur.SubBuckets {
		if cur.FieldID == "" {
			return fmt.Errorf("%w: buckets level %d: fieldId is required", domain.ErrMalformedSpec, level)
		}
		if cur.Interval < 0 {
			return fmt.Errorf("%w: buckets level %d: interval must be positive", domain.ErrMalformedSpec, level)
		}
		if cur.Size < 0 {
			return fmt.Errorf("%w: buckets level %d: size must be non-negative", domain.ErrMalformedSpec, level)
		}
		if cur.Interval > 0 && cur.DateInterval != "" {
			return fmt.Errorf("%w: buckets level %d: interval and dateInterval are exclusive",
				domain.ErrMalformedSpec, level)
		}
	}
	return nil
}

// IsNested reports whether this level groups on a property of nested elements.
func (s *BucketsSpec) IsNested() bool { return s.SubFieldProp != "" }

// GroupField returns the logical field grouped on, including the nested sub-property.
func (s *BucketsSpec) GroupField() string {
	if s.IsNested() {
		return s.FieldID + "." + s.SubFieldProp
	}
	return s.FieldID
}

// BucketCount returns the bucket ceiling: explicit size, else the length of
// the value allow-list, else the length of the sub-field id allow-list, else
// DefaultBucketCount. An allow-list shorter than the real cardinality drops buckets.
func (s *BucketsSpec) BucketCount() int {
	switch {
	case s.Size > 0:
		return s.Size
	case len(s.Values) > 0:
		return len(s.Values)
	case len(s.SubFieldIDs) > 0:
		return len(s.SubFieldIDs)
	default:
		return DefaultBucketCount
	}
}

// ExitScope returns the nesting context left behind after this level and all
// its sub-buckets, starting from inherited.
func (s *BucketsSpec) ExitScope(inherited scope.Path) scope.Path {
	ctx := inherited
	for cur := s; cur != nil; cur = cur.SubBuckets {
		ctx = cur.NextScope(ctx)
	}
	return ctx
}

// NextScope returns the nesting context handed to the next level.
func (s *BucketsSpec) NextScope(inherited scope.Path) scope.Path {
	if s.IsNested() {
		return scope.Path(s.FieldID)
	}
	return scope.SharedPrefix(scope.Path(s.FieldID), inherited)
}
