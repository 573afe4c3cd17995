package query

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/esquery/internal/domain"
)

// DaysAgo is a relative date value: midnight N days before now.
type DaysAgo struct {
	Days int
}

// Condition is an immutable predicate on one logical field.
// The zero value has no operator and fails compilation.
type Condition struct {
	op       Op
	value    any
	children []Condition
	nested   *Statement
}

// New validates and creates a condition from an operator and its value.
// ALL/ANY take []Condition, FIND/NFIND take Statement, the rest take a scalar.
func New(op Op, value any) (Condition, error) {
	if !op.IsValid() {
		return Condition{}, domain.NewUnsupportedOperator(string(op))
	}
	switch {
	case op.IsComposite():
		children, ok := value.([]Condition)
		if !ok {
			return Condition{}, fmt.Errorf("%w: %s expects a list of conditions, got %T", domain.ErrMalformedSpec, op, value)
		}
		return Condition{op: op, children: append([]Condition(nil), children...)}, nil
	case op.IsNested():
		switch s := value.(type) {
		case Statement:
			return Condition{op: op, nested: &s}, nil
		case *Statement:
			if s == nil {
				return Condition{}, fmt.Errorf("%w: %s expects a statement", domain.ErrMalformedSpec, op)
			}
			cp := *s
			return Condition{op: op, nested: &cp}, nil
		default:
			return Condition{}, fmt.Errorf("%w: %s expects a statement, got %T", domain.ErrMalformedSpec, op, value)
		}
	}

	if err := validateScalar(op, value); err != nil {
		return Condition{}, err
	}
	return Condition{op: op, value: value}, nil
}

func validateScalar(op Op, value any) error {
	switch value.(type) {
	case nil:
		if op != OpEQ && op != OpNEQ {
			return fmt.Errorf("%w: %s requires a value", domain.ErrMalformedSpec, op)
		}
	case DaysAgo:
		if !op.IsRange() {
			return fmt.Errorf("%w: days-ago value is only valid for range operators, got %s", domain.ErrMalformedSpec, op)
		}
	case string, bool, json.Number, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
	default:
		return fmt.Errorf("%w: unsupported %s value type %T", domain.ErrMalformedSpec, op, value)
	}
	if op == OpPrefix {
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: PREFIX expects a string, got %T", domain.ErrMalformedSpec, value)
		}
	}
	return nil
}

// Eq matches a field equal to v. A nil v matches documents without the field.
func Eq(v any) Condition { return Condition{op: OpEQ, value: v} }

// Neq matches a field not equal to v. A nil v matches documents that have the field.
func Neq(v any) Condition { return Condition{op: OpNEQ, value: v} }

// Lt matches values below v.
func Lt(v any) Condition { return Condition{op: OpLT, value: v} }

// Gt matches values above v.
func Gt(v any) Condition { return Condition{op: OpGT, value: v} }

// Lte matches values at or below v.
func Lte(v any) Condition { return Condition{op: OpLTE, value: v} }

// Gte matches values at or above v.
func Gte(v any) Condition { return Condition{op: OpGTE, value: v} }

// Prefix matches string values starting with p.
func Prefix(p string) Condition { return Condition{op: OpPrefix, value: p} }

// All matches when every child matches.
func All(children ...Condition) Condition {
	return Condition{op: OpAll, children: append([]Condition(nil), children...)}
}

// Any matches when at least one child matches.
func Any(children ...Condition) Condition {
	return Condition{op: OpAny, children: append([]Condition(nil), children...)}
}

// Find matches when some element of a nested collection satisfies s.
func Find(s Statement) Condition { return Condition{op: OpFind, nested: &s} }

// NotFind matches when no element of a nested collection satisfies s.
func NotFind(s Statement) Condition { return Condition{op: OpNFind, nested: &s} }

// Op returns the operator.
func (c Condition) Op() Op { return c.op }

// Value returns the scalar value (nil for composite and nested operators).
func (c Condition) Value() any { return c.value }

// IsNull reports whether a leaf condition carries no value.
func (c Condition) IsNull() bool { return c.value == nil }

// DaysAgo returns the relative date value, if the condition carries one.
func (c Condition) DaysAgo() (DaysAgo, bool) {
	d, ok := c.value.(DaysAgo)
	return d, ok
}

// Children returns the child conditions of ALL/ANY.
func (c Condition) Children() []Condition {
	return append([]Condition(nil), c.children...)
}

// Nested returns the statement of FIND/NFIND.
func (c Condition) Nested() (Statement, bool) {
	if c.nested == nil {
		return Statement{}, false
	}
	return *c.nested, true
}

func (c Condition) String() string {
	switch {
	case c.op.IsComposite():
		return fmt.Sprintf("%s%v", c.op, c.children)
	case c.op.IsNested():
		return fmt.Sprintf("%s(%v)", c.op, c.nested)
	default:
		return fmt.Sprintf("%s(%v)", c.op, c.value)
	}
}
