package query

import (
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
)

// Filter is a complete query: statement groups plus ordering and a result limit.
// Groups are AND-ed together; the statements inside one group are alternatives (OR).
type Filter struct {
	groups [][]Statement
	order  OrderCondition
	limit  int
}

// NewFilter validates and creates a Filter.
func NewFilter(groups [][]Statement, order OrderCondition, limit int) (Filter, error) {
	if limit < 0 {
		return Filter{}, fmt.Errorf("%w: limit must be non-negative, got %d", domain.ErrMalformedSpec, limit)
	}
	if order.direction != "" && !order.direction.IsValid() {
		return Filter{}, fmt.Errorf("%w: invalid sort direction %q", domain.ErrMalformedSpec, order.direction)
	}
	for i, g := range groups {
		if len(g) == 0 {
			return Filter{}, fmt.Errorf("%w: statement group %d is empty", domain.ErrMalformedSpec, i)
		}
	}
	cp := make([][]Statement, len(groups))
	for i, g := range groups {
		cp[i] = append([]Statement(nil), g...)
	}
	return Filter{groups: cp, order: order, limit: limit}, nil
}

// Match creates a Filter with one group per statement (all must hold).
func Match(statements ...Statement) Filter {
	groups := make([][]Statement, len(statements))
	for i, s := range statements {
		groups[i] = []Statement{s}
	}
	return Filter{groups: groups}
}

// Statements returns the statement groups.
func (f Filter) Statements() [][]Statement {
	cp := make([][]Statement, len(f.groups))
	for i, g := range f.groups {
		cp[i] = append([]Statement(nil), g...)
	}
	return cp
}

// Order returns the ordering.
func (f Filter) Order() OrderCondition { return f.order }

// Limit returns the result size limit.
func (f Filter) Limit() int { return f.limit }

// WithLimit returns a copy of f with a different limit.
func (f Filter) WithLimit(limit int) Filter {
	f.limit = limit
	return f
}

// WithOrder returns a copy of f with a different ordering.
func (f Filter) WithOrder(o OrderCondition) Filter {
	f.order = o
	return f
}
