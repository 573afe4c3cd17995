package esdsl

import (
	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/scope"
)

var calendarUnits = map[string]struct{}{
	"second": {}, "1s": {},
	"minute": {}, "1m": {},
	"hour": {}, "1h": {},
	"day": {}, "1d": {},
	"week": {}, "1w": {},
	"month": {}, "1M": {},
	"quarter": {}, "1q": {},
	"year": {}, "1y": {},
}

// CompileBuckets compiles a grouping spec around inner, the already compiled
// rest of the pipeline. ctx is the nesting scope inherited from the caller.
func CompileBuckets(inner *Node, spec aggregation.BucketsSpec, ctx scope.Path, fm fieldmap.Func) (*Node, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return compileBuckets(inner, &spec, ctx, fm), nil
}

func compileBuckets(inner *Node, spec *aggregation.BucketsSpec, ctx scope.Path, fm fieldmap.Func) *Node {
	field := fm.Apply(spec.GroupField())
	shared := scope.SharedPrefix(scope.Path(spec.FieldID), ctx)

	sub := inner
	if spec.SubBuckets != nil {
		sub = compileBuckets(inner, spec.SubBuckets, spec.NextScope(ctx), fm)
	}

	node := &Node{Group: groupFor(spec, field, sub)}

	if spec.IsNested() {
		if len(spec.SubFieldIDs) > 0 {
			node = &Node{WithFilter: &FilterAgg{
				Filter: Query{"terms": map[string]any{fm.Apply(spec.FieldID + ".id"): spec.SubFieldIDs}},
				Aggs:   node,
			}}
		}
		node = &Node{WithNested: &NestedAgg{
			Nested: NestedPath{Path: spec.FieldID},
			Aggs:   node,
		}}
	}

	// Exit after entering so one level can leave an old scope and enter a new one.
	if scope.Exits(ctx, shared) {
		node = &Node{WithoutNested: &ReverseNested{
			ReverseNested: ReversePath{Path: shared.String()},
			Aggs:          node,
		}}
	}
	return node
}

func groupFor(spec *aggregation.BucketsSpec, field string, sub *Node) *Group {
	switch {
	case spec.DateInterval != "":
		h := &DateHistogram{Field: field}
		if _, ok := calendarUnits[spec.DateInterval]; ok {
			h.CalendarInterval = spec.DateInterval
		} else {
			h.FixedInterval = spec.DateInterval
		}
		return &Group{DateHistogram: h, Aggs: sub}
	case spec.Interval > 0:
		return &Group{Histogram: &Histogram{Field: field, Interval: spec.Interval}, Aggs: sub}
	default:
		return &Group{
			Terms: &Terms{
				Field:   field,
				Include: spec.Values,
				Missing: "",
				Size:    spec.BucketCount(),
			},
			Aggs: sub,
		}
	}
}
