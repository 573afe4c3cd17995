package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperator signals a condition operator outside the recognized set.
	ErrUnsupportedOperator = errors.New("unsupported condition operator")
	// ErrUnsupportedStage signals an aggregation stage kind outside the recognized set.
	ErrUnsupportedStage = errors.New("unsupported aggregation stage")
	// ErrMalformedSpec signals a structurally invalid condition or grouping spec.
	ErrMalformedSpec = errors.New("malformed spec")

	// ErrInvalidQuery signals a query or pipeline that cannot be compiled.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound signals a missing resource (index).
	ErrNotFound = errors.New("not found")
	// ErrEngine signals a search engine failure.
	ErrEngine = errors.New("search engine error")
)

// OperatorError wraps ErrUnsupportedOperator with the offending operator.
type OperatorError struct {
	Op string
}

func (e *OperatorError) Error() string {
	if e.Op == "" {
		return ErrUnsupportedOperator.Error() + ": <empty>"
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedOperator.Error(), e.Op)
}

func (e *OperatorError) Unwrap() error { return ErrUnsupportedOperator }

// NewUnsupportedOperator creates an unsupported-operator error for op.
func NewUnsupportedOperator(op string) error {
	return &OperatorError{Op: op}
}
