package esdsl

import (
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/domain/scope"
)

// SearchRequest is a complete search body.
type SearchRequest struct {
	Query Query        `json:"query"`
	Size  int          `json:"size,omitempty"`
	Sort  []SortClause `json:"sort"`
}

// CompileQuery compiles a filter into a search body.
func CompileQuery(f query.Filter, fm fieldmap.Func) (SearchRequest, error) {
	q, err := CompileStatements(f.Statements(), fm)
	if err != nil {
		return SearchRequest{}, err
	}
	return SearchRequest{
		Query: q,
		Size:  f.Limit(),
		Sort:  CompileSort(f.Order(), fm),
	}, nil
}

// CompileStatements compiles statement groups into one query. Groups are
// AND-ed; the statements of one group are alternatives. No groups match all.
func CompileStatements(groups [][]query.Statement, fm fieldmap.Func) (Query, error) {
	filters := make([]Query, 0, len(groups))
	for i, group := range groups {
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: statement group %d is empty", domain.ErrMalformedSpec, i)
		}
		should := make([]Query, 0, len(group))
		for _, s := range group {
			q, err := CompileStatement(s, fm, scope.Root)
			if err != nil {
				return nil, err
			}
			should = append(should, q)
		}
		if len(should) == 1 {
			filters = append(filters, should[0])
			continue
		}
		filters = append(filters, Fragment{Should: should, MinimumShouldMatch: intPtr(1)}.Bool())
	}

	switch len(filters) {
	case 0:
		return matchAll(), nil
	case 1:
		return filters[0], nil
	default:
		return Fragment{Filter: filters}.Bool(), nil
	}
}

// CompileStatement compiles one statement into a bool query. Field ids are
// resolved below prefix, which is the nested path for FIND conditions.
func CompileStatement(s query.Statement, fm fieldmap.Func, prefix scope.Path) (Query, error) {
	f, err := mergeStatement(Fragment{}, s, fm, prefix)
	if err != nil {
		return nil, err
	}
	return f.Bool(), nil
}

func mergeStatement(acc Fragment, s query.Statement, fm fieldmap.Func, prefix scope.Path) (Fragment, error) {
	for _, clause := range s.Clauses() {
		f, err := CompileCondition(prefix.Child(clause.Field).String(), clause.Condition, fm)
		if err != nil {
			return Fragment{}, fmt.Errorf("field %q: %w", clause.Field, err)
		}
		acc = acc.Merge(f)
	}
	return acc, nil
}
