// Package aggregation holds aggregation pipeline stages: filters and groupings.
package aggregation

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/query"
)

// Kind tags a pipeline stage.
type Kind string

// Stage kinds.
const (
	KindFilter  Kind = "filter"
	KindBuckets Kind = "buckets"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindFilter || k == KindBuckets
}

// Stage is one step of an aggregation pipeline.
type Stage struct {
	kind       Kind
	buckets    *BucketsSpec
	statements [][]query.Statement
}

// Buckets creates a grouping stage.
func Buckets(spec BucketsSpec) Stage {
	return Stage{kind: KindBuckets, buckets: &spec}
}

// Filter creates a filter stage: groups are AND-ed, statements inside a group OR-ed.
func Filter(groups ...[]query.Statement) Stage {
	return Stage{kind: KindFilter, statements: groups}
}

// FilterWhere creates a filter stage from statements that must all hold.
func FilterWhere(statements ...query.Statement) Stage {
	groups := make([][]query.Statement, len(statements))
	for i, s := range statements {
		groups[i] = []query.Statement{s}
	}
	return Stage{kind: KindFilter, statements: groups}
}

// Kind returns the stage tag.
func (s Stage) Kind() Kind { return s.kind }

// BucketsSpec returns the grouping spec of a buckets stage.
func (s Stage) BucketsSpec() (BucketsSpec, bool) {
	if s.buckets == nil {
		return BucketsSpec{}, false
	}
	return *s.buckets, true
}

// Statements returns the statement groups of a filter stage.
func (s Stage) Statements() [][]query.Statement {
	return s.statements
}

// Validate checks the stage shape.
func (s Stage) Validate() error {
	switch s.kind {
	case KindBuckets:
		if s.buckets == nil {
			return fmt.Errorf("%w: buckets stage without spec", domain.ErrMalformedSpec)
		}
		return s.buckets.Validate()
	case KindFilter:
		return nil
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedStage, s.kind)
	}
}

type stageJSON struct {
	Type       Kind                `json:"type"`
	Statements [][]query.Statement `json:"statements,omitempty"`
	*BucketsSpec
}

// UnmarshalJSON decodes {"type": "filter", "statements": [[...]]} or
// {"type": "buckets", "fieldId": ..., ...}.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw stageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: stage: %w", domain.ErrMalformedSpec, err)
	}
	switch raw.Type {
	case KindBuckets:
		if raw.BucketsSpec == nil {
			return fmt.Errorf("%w: buckets stage: fieldId is required", domain.ErrMalformedSpec)
		}
		if err := raw.BucketsSpec.Validate(); err != nil {
			return err
		}
		*s = Buckets(*raw.BucketsSpec)
	case KindFilter:
		*s = Filter(raw.Statements...)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedStage, raw.Type)
	}
	return nil
}

// MarshalJSON encodes the stage in the same shape UnmarshalJSON reads.
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(stageJSON{Type: s.kind, Statements: s.statements, BucketsSpec: s.buckets})
}

// Pipeline is an ordered list of stages, outermost first.
type Pipeline []Stage

// Validate checks every stage.
func (p Pipeline) Validate() error {
	for i, s := range p {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return nil
}
