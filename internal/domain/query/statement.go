package query

import "fmt"

// Clause binds a condition to a field.
type Clause struct {
	Field     string
	Condition Condition
}

// Statement is one conjunctive row: every clause must hold.
// Clauses keep their insertion order and a field may repeat.
type Statement struct {
	clauses []Clause
}

// NewStatement creates a statement from clauses.
func NewStatement(clauses ...Clause) Statement {
	return Statement{clauses: append([]Clause(nil), clauses...)}
}

// Where creates a statement with a single clause.
func Where(field string, c Condition) Statement {
	return Statement{clauses: []Clause{{Field: field, Condition: c}}}
}

// And returns a copy of s with one more clause.
func (s Statement) And(field string, c Condition) Statement {
	clauses := make([]Clause, len(s.clauses), len(s.clauses)+1)
	copy(clauses, s.clauses)
	return Statement{clauses: append(clauses, Clause{Field: field, Condition: c})}
}

// Clauses returns the clauses in order.
func (s Statement) Clauses() []Clause {
	return append([]Clause(nil), s.clauses...)
}

// Len returns the number of clauses.
func (s Statement) Len() int { return len(s.clauses) }

// IsEmpty reports whether the statement has no clauses.
func (s Statement) IsEmpty() bool { return len(s.clauses) == 0 }

func (s Statement) String() string {
	return fmt.Sprintf("%v", s.clauses)
}
