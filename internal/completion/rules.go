package completion

import (
	"regexp"
	"strings"
	"unicode"
)

// RuleKind names a suggestion rule. Rules are evaluated in the order of Rules.
type RuleKind int

const (
	RuleNone RuleKind = iota
	RuleContinuation
	RuleFieldName
	RuleExactField
	RuleLogical
	RuleNegation
	RuleOperatorQuote
	RuleHistoryValue
	RuleConditionComplete
)

// Rules is the evaluation order.
var Rules = []RuleKind{
	RuleContinuation,
	RuleFieldName,
	RuleExactField,
	RuleLogical,
	RuleNegation,
	RuleOperatorQuote,
	RuleHistoryValue,
	RuleConditionComplete,
}

var ruleNames = map[RuleKind]string{
	RuleNone:              "none",
	RuleContinuation:      "continuation",
	RuleFieldName:         "field_name",
	RuleExactField:        "exact_field",
	RuleLogical:           "logical",
	RuleNegation:          "negation",
	RuleOperatorQuote:     "operator_quote",
	RuleHistoryValue:      "history_value",
	RuleConditionComplete: "condition_complete",
}

func (k RuleKind) String() string {
	if name, ok := ruleNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the rule name.
func (k RuleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseRuleKind maps a rule name back to its kind.
func ParseRuleKind(name string) (RuleKind, bool) {
	for k, n := range ruleNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return RuleNone, false
}

const (
	continuationText = "&& "
	completeText     = " && "
	openValue        = `="`
	quote            = `"`
)

// identifier is a field name: letters, digits and underscores in any script.
const identifier = `[\p{L}\p{N}_]+`

var (
	negationToken = regexp.MustCompile(`^` + identifier + `!$`)
	operatorToken = regexp.MustCompile(`^` + identifier + `(?:==|!=|=)$`)
	openValueTok  = regexp.MustCompile(`(?s)^(` + identifier + `)(?:==|!=|=)"((?:[^"\\]|\\.)*\\?)$`)
	closedValue   = regexp.MustCompile(`(?s)^` + identifier + `(?:==|!=|=)"((?:[^"\\]|\\.)+)"$`)
)

var logicalOperators = []string{"&&", "||", "and", "or"}

func continuation(c ruleContext) string {
	if c.token == "" && strings.HasSuffix(strings.TrimSpace(c.input), quote) {
		return continuationText
	}
	return ""
}

// fieldName also fires on an empty token, offering the first catalog key
// after a connective or on an empty bar.
func fieldName(c ruleContext) string {
	if strings.ContainsAny(c.token, "=!") {
		return ""
	}
	for _, f := range c.fields {
		if rest, ok := trimPrefixFold(f.Key, c.token); ok && rest != "" {
			return rest + openValue
		}
	}
	return ""
}

func exactField(c ruleContext) string {
	if c.token == "" {
		return ""
	}
	for _, f := range c.fields {
		if strings.EqualFold(f.Key, c.token) {
			return openValue
		}
	}
	return ""
}

func logical(c ruleContext) string {
	if c.token == "" {
		return ""
	}
	wordsAllowed := !c.keyHasPrefix(c.token)
	for _, op := range logicalOperators {
		word := op[0] != '&' && op[0] != '|'
		if word && !wordsAllowed {
			continue
		}
		rest, ok := trimPrefixFold(op, c.token)
		if !ok {
			continue
		}
		if word && isUpperASCII(c.token[len(c.token)-1]) {
			rest = strings.ToUpper(rest)
		}
		// A fully typed connective still gets its trailing space.
		return rest + " "
	}
	return ""
}

func negation(c ruleContext, stepwise bool) string {
	if !negationToken.MatchString(c.token) {
		return ""
	}
	if stepwise {
		return "="
	}
	return openValue
}

func operatorQuote(c ruleContext) string {
	if operatorToken.MatchString(c.token) {
		return quote
	}
	return ""
}

func historyValue(c ruleContext) string {
	m := openValueTok.FindStringSubmatch(c.token)
	if m == nil {
		return ""
	}
	field, partial := m[1], m[2]
	if rest := completeFromHistory(c.lookup(field), partial); rest != "" {
		return rest + quote
	}
	if partial != "" {
		return quote
	}
	return ""
}

// completeFromHistory returns the remainder of the first entry that extends
// partial, comparing case-insensitively.
func completeFromHistory(entries []string, partial string) string {
	pr := []rune(partial)
	for _, entry := range entries {
		er := []rune(entry)
		if len(er) > len(pr) && strings.EqualFold(string(er[:len(pr)]), partial) {
			return string(er[len(pr):])
		}
	}
	return ""
}

func conditionComplete(c ruleContext) string {
	if closedValue.MatchString(c.token) {
		return completeText
	}
	return ""
}

func isUpperASCII(b byte) bool {
	return b < 0x80 && unicode.IsUpper(rune(b))
}
