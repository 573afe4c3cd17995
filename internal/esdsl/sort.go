package esdsl

import (
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
)

const missingLast = "_last"

// SortClause sorts on one field: {"<field>": {"order": "asc", ...}}.
type SortClause map[string]SortOrder

// SortOrder is the body of a sort clause.
type SortOrder struct {
	Order   string      `json:"order"`
	Missing string      `json:"missing,omitempty"`
	Nested  *NestedSort `json:"nested,omitempty"`
}

// NestedSort restricts a sort on a nested field to matching elements.
type NestedSort struct {
	Path   string `json:"path"`
	Filter Query  `json:"filter,omitempty"`
}

// CompileSort compiles an ordering into sort clauses. The identity field
// is always the last clause so equal sort values still order deterministically.
func CompileSort(o query.OrderCondition, fm fieldmap.Func) []SortClause {
	order := o.Direction().Engine()
	sort := make([]SortClause, 0, 2)

	field := o.FieldID()
	switch {
	case field == "" || field == query.IdentityField:
	case o.IsNested():
		sort = append(sort, SortClause{
			fm.Apply(field + "." + o.SubProp()): {
				Order:   order,
				Missing: missingLast,
				Nested: &NestedSort{
					Path:   fm.Apply(field),
					Filter: term(fm.Apply(field+"."+query.IdentityField), o.SubID()),
				},
			},
		})
	default:
		sort = append(sort, SortClause{fm.Apply(field): {Order: order, Missing: missingLast}})
	}

	return append(sort, SortClause{query.IdentityField: {Order: order}})
}
