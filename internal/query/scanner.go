// Package query extracts `field OP "value"` conditions from free-form filter
// expressions such as `host="api" && status=="200" || tech="nginx"`.
//
// The scanner is a best-effort extractor: it never fails, it skips text it
// does not understand, and logical connectives are only recorded, never
// evaluated. Evaluation is the search backend's job.
package query

import (
	"regexp"
	"strings"
)

// conditionPattern matches <identifier><operator><quoted-string>. Identifiers
// are letters, digits and underscores in any script. Operators are listed
// longest first; a backslash escapes the next character inside quotes.
var conditionPattern = regexp.MustCompile(`(?s)([\p{L}\p{N}_]+)(==|!=|=)"((?:[^"\\]|\\.)*)"`)

// connectivePattern finds logical connectives in the text between conditions.
var connectivePattern = regexp.MustCompile(`(?i)\|\||&&|\b(?:and|or)\b`)

// Scan returns the conditions found in input, left to right and without
// overlap. Malformed or unterminated text yields no condition and no error.
func Scan(input string) []Condition {
	matches := conditionPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return []Condition{}
	}

	conds := make([]Condition, 0, len(matches))
	prevEnd := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		c := Condition{
			Field:    input[m[2]:m[3]],
			Operator: Operator(input[m[4]:m[5]]),
			Value:    input[m[6]:m[7]],
			Raw:      input[start:end],
			Join:     And,
			Start:    start,
			End:      end,
		}
		if len(conds) > 0 {
			c.Join = connective(input[prevEnd:start])
		}
		conds = append(conds, c)
		prevEnd = end
	}
	return conds
}

// connective returns the last logical operator written in gap. Bare
// whitespace means AND.
func connective(gap string) LogicalOp {
	found := connectivePattern.FindAllString(gap, -1)
	if len(found) == 0 {
		return And
	}
	last := strings.ToLower(found[len(found)-1])
	if last == "||" || last == "or" {
		return Or
	}
	return And
}
