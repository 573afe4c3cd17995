package query

// Op is a condition operator.
type Op string

// Leaf operators.
const (
	OpEQ     Op = "EQ"
	OpNEQ    Op = "NEQ"
	OpLT     Op = "LT"
	OpGT     Op = "GT"
	OpLTE    Op = "LTE"
	OpGTE    Op = "GTE"
	OpPrefix Op = "PREFIX"
	// OpFind matches documents with at least one nested element satisfying a statement.
	OpFind  Op = "FIND"
	OpNFind Op = "NFIND"
)

// Composite operators.
const (
	OpAll Op = "ALL"
	OpAny Op = "ANY"
)

// IsValid checks if the operator is one of the supported values.
func (o Op) IsValid() bool {
	switch o {
	case OpEQ, OpNEQ, OpLT, OpGT, OpLTE, OpGTE, OpPrefix, OpFind, OpNFind, OpAll, OpAny:
		return true
	}
	return false
}

// IsRange reports whether the operator is an ordering comparison.
func (o Op) IsRange() bool {
	return o == OpLT || o == OpGT || o == OpLTE || o == OpGTE
}

// IsComposite reports whether the operator holds child conditions.
func (o Op) IsComposite() bool {
	return o == OpAll || o == OpAny
}

// IsNested reports whether the operator holds a nested statement.
func (o Op) IsNested() bool {
	return o == OpFind || o == OpNFind
}
