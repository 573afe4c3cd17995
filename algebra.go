package esquery

import (
	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/bucket"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/domain/search/result"
)

type (
	// Condition is a predicate on one field.
	Condition = query.Condition
	// Op is a condition operator.
	Op = query.Op
	// DaysAgo is a relative date: midnight N days before now.
	DaysAgo = query.DaysAgo
	// Clause pairs a field with a condition.
	Clause = query.Clause
	// Statement is an ordered conjunction of clauses.
	Statement = query.Statement
	// Filter is a full query: statement groups, ordering and a limit.
	Filter = query.Filter
	// Order describes result ordering.
	Order = query.OrderCondition
	// Direction is ASC or DESC.
	Direction = query.Direction

	// Pipeline is an ordered list of aggregation stages, outermost first.
	Pipeline = aggregation.Pipeline
	// Stage is one aggregation step.
	Stage = aggregation.Stage
	// BucketsSpec describes one grouping level.
	BucketsSpec = aggregation.BucketsSpec

	// Bucket is one group of the decoded aggregation tree.
	Bucket = bucket.Bucket
	// Page is one page of search hits.
	Page = result.Page
	// Result is one search hit.
	Result = result.Result

	// FieldMap maps logical field ids to engine field names.
	FieldMap = fieldmap.Func
)

// Operators.
const (
	OpEQ     = query.OpEQ
	OpNEQ    = query.OpNEQ
	OpLT     = query.OpLT
	OpGT     = query.OpGT
	OpLTE    = query.OpLTE
	OpGTE    = query.OpGTE
	OpPrefix = query.OpPrefix
	OpAll    = query.OpAll
	OpAny    = query.OpAny
	OpFind   = query.OpFind
	OpNFind  = query.OpNFind
)

// Sort directions.
const (
	Asc  = query.Asc
	Desc = query.Desc
)

// Condition constructors.
var (
	Eq      = query.Eq
	Neq     = query.Neq
	Lt      = query.Lt
	Gt      = query.Gt
	Lte     = query.Lte
	Gte     = query.Gte
	Prefix  = query.Prefix
	All     = query.All
	Any     = query.Any
	Find    = query.Find
	NotFind = query.NotFind
)

// NewCondition validates and creates a condition from an operator and value.
func NewCondition(op Op, value any) (Condition, error) { return query.New(op, value) }

// Where starts a statement with one clause.
func Where(field string, c Condition) Statement { return query.Where(field, c) }

// Match creates a filter that requires every statement.
func Match(statements ...Statement) Filter { return query.Match(statements...) }

// NewFilter validates and creates a filter. Groups are AND-ed, the statements
// inside a group are alternatives.
func NewFilter(groups [][]Statement, order Order, limit int) (Filter, error) {
	return query.NewFilter(groups, order, limit)
}

// OrderBy orders on a top-level field.
func OrderBy(fieldID string, dir Direction) Order { return query.OrderBy(fieldID, dir) }

// Buckets creates a grouping stage.
func Buckets(spec BucketsSpec) Stage { return aggregation.Buckets(spec) }

// FilterStage creates a filtering stage; groups follow Filter semantics.
func FilterStage(groups ...[]Statement) Stage { return aggregation.Filter(groups...) }

// KeywordFields maps the listed fields to their keyword sub-field.
func KeywordFields(suffix string, fields ...string) FieldMap {
	return fieldmap.Keyword(suffix, fields...)
}
