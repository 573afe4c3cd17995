package esdsl

import (
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
)

// CompileFilterAggregation wraps inner in a filter aggregation over the statement groups.
func CompileFilterAggregation(inner *Node, groups [][]query.Statement, fm fieldmap.Func) (*Node, error) {
	q, err := CompileStatements(groups, fm)
	if err != nil {
		return nil, err
	}
	return &Node{WithFilter: &FilterAgg{Filter: q, Aggs: inner}}, nil
}
