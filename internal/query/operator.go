package query

// Operator is the comparison written between a field and its quoted value.
type Operator string

const (
	// OpFuzzy matches when the field contains the value (server-side ILIKE).
	OpFuzzy Operator = "="
	// OpExact matches when the field equals the value.
	OpExact Operator = "=="
	// OpNotEqual matches when the field differs from the value.
	OpNotEqual Operator = "!="
)

// operators is ordered longest first so prefix matching picks "==" over "=".
var operators = []Operator{OpExact, OpNotEqual, OpFuzzy}

// ParseOperator returns the operator spelled exactly as s.
func ParseOperator(s string) (Operator, bool) {
	for _, op := range operators {
		if string(op) == s {
			return op, true
		}
	}
	return "", false
}

// Kind returns the symbolic name of the operator (FUZZY, EXACT, NOT_EQUAL).
func (o Operator) Kind() string {
	switch o {
	case OpFuzzy:
		return "FUZZY"
	case OpExact:
		return "EXACT"
	case OpNotEqual:
		return "NOT_EQUAL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	_, ok := ParseOperator(string(o))
	return ok
}

// LogicalOp links a condition to the one before it.
type LogicalOp string

const (
	And LogicalOp = "AND"
	Or  LogicalOp = "OR"
)
