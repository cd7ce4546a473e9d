package query

import (
	"strconv"
	"strings"
)

// Condition is one `field OP "value"` unit extracted from an expression.
//
// Raw is the exact substring that matched and Start/End are its byte offsets
// in the scanned input. Value never includes the delimiting quotes.
type Condition struct {
	Field    string    `json:"field" yaml:"field" toml:"field"`
	Operator Operator  `json:"operator" yaml:"operator" toml:"operator"`
	Value    string    `json:"value" yaml:"value" toml:"value"`
	Raw      string    `json:"raw" yaml:"raw" toml:"raw"`
	Join     LogicalOp `json:"join" yaml:"join" toml:"join"`
	Start    int       `json:"start" yaml:"start" toml:"start"`
	End      int       `json:"end" yaml:"end" toml:"end"`
}

// String renders the canonical form of the condition.
func (c Condition) String() string {
	return c.Field + string(c.Operator) + `"` + c.Value + `"`
}

// Label is a short human form used for filter badges, e.g. `host ~ api`.
func (c Condition) Label() string {
	sym := "~"
	switch c.Operator {
	case OpExact:
		sym = "="
	case OpNotEqual:
		sym = "≠"
	}
	return c.Field + " " + sym + " " + strconv.Quote(c.Value)
}

// Render re-serialises conditions to their raw form joined by single spaces.
// Whitespace between conditions reads as AND, so Scan(Render(c)) yields the
// same field/operator/value triples as c.
func Render(conds []Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, c.Raw)
	}
	return strings.Join(parts, " ")
}

// Fields returns the distinct field names of conds in first-seen order.
func Fields(conds []Condition) []string {
	seen := make(map[string]bool, len(conds))
	out := make([]string, 0, len(conds))
	for _, c := range conds {
		if seen[c.Field] {
			continue
		}
		seen[c.Field] = true
		out = append(out, c.Field)
	}
	return out
}
