// Package completion computes the single-token ghost text offered while a
// filter expression is typed.
//
// The engine is a pure function of the input, the field catalog and a history
// snapshot. Rules are tried in a fixed order and the first non-empty result
// wins; accepting a suggestion means appending it verbatim.
package completion

import (
	"strings"

	"github.com/oakwood-commons/aqx/internal/catalog"
)

// History supplies remembered values for a field, most recent first.
type History interface {
	Lookup(field string) []string
}

// Suggestion is the ghost text plus the rule that produced it.
type Suggestion struct {
	Text string   `json:"suggestion" yaml:"suggestion"`
	Rule RuleKind `json:"rule" yaml:"rule"`
}

// Empty reports whether there is nothing to offer.
func (s Suggestion) Empty() bool { return s.Text == "" }

// Engine evaluates the suggestion rules. The zero value uses the default
// single-step negation form.
type Engine struct {
	stepwiseNegation bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStepwiseNegation makes `field!` complete to `=` instead of `="`, leaving
// the quote to the operator rule on the next keystroke.
func WithStepwiseNegation() Option {
	return func(e *Engine) { e.stepwiseNegation = true }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Suggest returns the ghost text for input using the default engine.
func Suggest(input string, caretAtEnd bool, fields []catalog.Field, history History) string {
	return defaultEngine.Suggest(input, caretAtEnd, fields, history)
}

// Suggest returns the ghost text for input, or "" when nothing applies or the
// caret is not at the end of the input.
func (e *Engine) Suggest(input string, caretAtEnd bool, fields []catalog.Field, history History) string {
	return e.Explain(input, caretAtEnd, fields, history).Text
}

// Explain is Suggest plus the winning rule.
func (e *Engine) Explain(input string, caretAtEnd bool, fields []catalog.Field, history History) Suggestion {
	if !caretAtEnd {
		return Suggestion{Rule: RuleNone}
	}
	ctx := newRuleContext(input, fields, history)
	for _, kind := range Rules {
		if text := e.apply(kind, ctx); text != "" {
			return Suggestion{Text: text, Rule: kind}
		}
	}
	return Suggestion{Rule: RuleNone}
}

// Apply evaluates a single rule against input as if the caret were at the end.
func (e *Engine) Apply(kind RuleKind, input string, fields []catalog.Field, history History) string {
	return e.apply(kind, newRuleContext(input, fields, history))
}

func (e *Engine) apply(kind RuleKind, ctx ruleContext) string {
	switch kind {
	case RuleContinuation:
		return continuation(ctx)
	case RuleFieldName:
		return fieldName(ctx)
	case RuleExactField:
		return exactField(ctx)
	case RuleLogical:
		return logical(ctx)
	case RuleNegation:
		return negation(ctx, e.stepwiseNegation)
	case RuleOperatorQuote:
		return operatorQuote(ctx)
	case RuleHistoryValue:
		return historyValue(ctx)
	case RuleConditionComplete:
		return conditionComplete(ctx)
	default:
		return ""
	}
}

type ruleContext struct {
	input   string
	token   string
	fields  []catalog.Field
	history History
}

func newRuleContext(input string, fields []catalog.Field, history History) ruleContext {
	return ruleContext{
		input:   input,
		token:   CurrentToken(input),
		fields:  fields,
		history: history,
	}
}

// keyHasPrefix reports whether any field key starts with token, ignoring case.
func (c ruleContext) keyHasPrefix(token string) bool {
	for _, f := range c.fields {
		if _, ok := trimPrefixFold(f.Key, token); ok {
			return true
		}
	}
	return false
}

func (c ruleContext) lookup(field string) []string {
	if c.history == nil {
		return nil
	}
	return c.history.Lookup(strings.ToLower(field))
}

// trimPrefixFold strips prefix from s ignoring case, comparing rune by rune.
func trimPrefixFold(s, prefix string) (string, bool) {
	sr, pr := []rune(s), []rune(prefix)
	if len(sr) < len(pr) || !strings.EqualFold(string(sr[:len(pr)]), prefix) {
		return "", false
	}
	return string(sr[len(pr):]), true
}
