// Package querybar exposes the aqx query bar core to other Go programs.
//
// The query bar edits a free-text filter expression of the form
//
//	host="api" && status=="200" || title!="login"
//
// and offers one inline completion at a time, drawn from a catalog of field
// keys and from values the user submitted before.
//
// # Basic Usage
//
//	cat, err := querybar.NewCatalog("assets", []querybar.Field{
//		{Key: "host", Label: "Host"},
//		{Key: "status", Label: "Status code"},
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hist := querybar.NewMemoryHistory()
//	s := querybar.Suggest(`ho`, cat, hist)
//	fmt.Println(s.Text) // st="
//
// Scan is advisory; the raw string is always what gets submitted.
package querybar

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/completion"
	"github.com/oakwood-commons/aqx/internal/controller"
	"github.com/oakwood-commons/aqx/internal/history"
	"github.com/oakwood-commons/aqx/internal/query"
)

// Condition is one field/operator/value triple recognized in the input.
type Condition = query.Condition

// Operator is the comparison of a condition.
type Operator = query.Operator

// Operators
const (
	OpFuzzy    = query.OpFuzzy
	OpExact    = query.OpExact
	OpNotEqual = query.OpNotEqual
)

// Field is one filterable key of a catalog.
type Field = catalog.Field

// Example is a ready-made expression shown in the panel.
type Example = catalog.Example

// Catalog is an ordered set of fields plus examples.
type Catalog = catalog.Catalog

// Suggestion is a single ghost-text completion.
type Suggestion = completion.Suggestion

// RuleKind names the rule that produced a suggestion.
type RuleKind = completion.RuleKind

// History is a field-keyed store of recently submitted values.
type History = history.Store

// Controller owns the editing state of a query bar.
type Controller = controller.Controller

// ControllerOption configures a Controller.
type ControllerOption = controller.Option

// SubmitFunc receives the scanned conditions and the raw text.
type SubmitFunc = controller.SubmitFunc

// NewCatalog builds a catalog, rejecting duplicate or malformed keys.
func NewCatalog(name string, fields []Field, examples []Example) (*Catalog, error) {
	return catalog.New(name, fields, examples)
}

// Scan extracts the conditions of input in order. Malformed fragments are skipped.
func Scan(input string) []Condition {
	return query.Scan(input)
}

// Validate reports why input cannot be submitted, or nil.
func Validate(input string) error {
	return query.Validate(input)
}

// Suggest returns the completion for input with the caret at its end.
// A nil hist is treated as empty.
func Suggest(input string, cat *Catalog, hist *History) Suggestion {
	return engine.Explain(input, true, cat.Fields(), historyOf(hist))
}

var engine = completion.NewEngine()

// NewMemoryHistory returns a history store that lives only in this process.
func NewMemoryHistory() *History {
	return history.New(history.NewMemoryKV())
}

// NewFileHistory returns a history store persisted as JSON files under dir.
func NewFileHistory(dir string, lgr logr.Logger) (*History, error) {
	kv, err := history.NewFileKV(dir)
	if err != nil {
		return nil, err
	}
	return history.New(kv, history.WithLogger(lgr)), nil
}

// NewController returns a query bar controller over cat. A non-nil hist is
// used both for value suggestions and for recording submissions.
func NewController(cat *Catalog, hist *History, onSubmit SubmitFunc, opts ...ControllerOption) *Controller {
	base := []controller.Option{controller.WithSubmit(onSubmit)}
	if hist != nil {
		base = append(base, controller.WithHistory(hist))
	}
	return controller.New(cat, append(base, opts...)...)
}

func historyOf(h *History) completion.History {
	if h == nil {
		return nil
	}
	return h
}
