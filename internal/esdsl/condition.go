package esdsl

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/domain/scope"
)

// CompileCondition compiles a condition on fieldID into a bool fragment.
// fm maps every field reference, including those inside nested statements.
func CompileCondition(fieldID string, c query.Condition, fm fieldmap.Func) (Fragment, error) {
	field := fm.Apply(fieldID)

	switch c.Op() {
	case query.OpEQ:
		if c.IsNull() {
			return Fragment{MustNot: []Query{exists(field)}}, nil
		}
		return Fragment{Filter: []Query{term(field, c.Value())}}, nil
	case query.OpNEQ:
		if c.IsNull() {
			return Fragment{Filter: []Query{exists(field)}}, nil
		}
		return Fragment{MustNot: []Query{term(field, c.Value())}}, nil
	case query.OpLT, query.OpGT, query.OpLTE, query.OpGTE:
		if c.IsNull() {
			return Fragment{}, fmt.Errorf("%w: %s on %q requires a value", domain.ErrMalformedSpec, c.Op(), fieldID)
		}
		return Fragment{Filter: []Query{rangeQuery(field, c)}}, nil
	case query.OpPrefix:
		return Fragment{Filter: []Query{{"prefix": map[string]any{field: c.Value()}}}}, nil
	case query.OpAll:
		return compileAll(fieldID, c.Children(), fm)
	case query.OpAny:
		return compileAny(fieldID, c.Children(), fm)
	case query.OpFind, query.OpNFind:
		return compileFind(fieldID, c, fm)
	default:
		return Fragment{}, domain.NewUnsupportedOperator(string(c.Op()))
	}
}

func compileAll(fieldID string, children []query.Condition, fm fieldmap.Func) (Fragment, error) {
	var out Fragment
	for _, child := range children {
		f, err := CompileCondition(fieldID, child, fm)
		if err != nil {
			return Fragment{}, err
		}
		out = out.Merge(f)
	}
	return out, nil
}

// compileAny turns each child into one alternative: its only filter clause
// when that is all it holds, otherwise the whole child as a bool query.
func compileAny(fieldID string, children []query.Condition, fm fieldmap.Func) (Fragment, error) {
	if len(children) == 0 {
		return Fragment{Filter: []Query{matchNone()}}, nil
	}
	alternatives := make([]Query, 0, len(children))
	for _, child := range children {
		f, err := CompileCondition(fieldID, child, fm)
		if err != nil {
			return Fragment{}, err
		}
		if len(f.Filter) == 1 && len(f.MustNot) == 0 && len(f.Should) == 0 {
			alternatives = append(alternatives, f.Filter[0])
			continue
		}
		alternatives = append(alternatives, f.Bool())
	}
	return Fragment{Filter: []Query{{"dis_max": map[string]any{"queries": alternatives}}}}, nil
}

func compileFind(fieldID string, c query.Condition, fm fieldmap.Func) (Fragment, error) {
	s, ok := c.Nested()
	if !ok {
		return Fragment{}, fmt.Errorf("%w: %s on %q without a nested statement", domain.ErrMalformedSpec, c.Op(), fieldID)
	}
	inner, err := CompileStatement(s, fm, scope.Path(fieldID))
	if err != nil {
		return Fragment{}, err
	}
	nested := Query{"nested": map[string]any{
		"path":  fm.Apply(fieldID),
		"query": inner,
	}}
	if c.Op() == query.OpNFind {
		return Fragment{MustNot: []Query{nested}}, nil
	}
	return Fragment{Filter: []Query{nested}}, nil
}

func rangeQuery(field string, c query.Condition) Query {
	var value any = c.Value()
	if d, ok := c.DaysAgo(); ok {
		value = fmt.Sprintf("now-%dd/d", d.Days)
	}
	return Query{"range": map[string]any{
		field: map[string]any{strings.ToLower(string(c.Op())): value},
	}}
}

func term(field string, value any) Query {
	return Query{"term": map[string]any{field: value}}
}

func exists(field string) Query {
	return Query{"exists": map[string]any{"field": field}}
}
