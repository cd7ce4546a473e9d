// Package controller owns the editing state of a query bar: the raw text, the
// caret, the Idle/Editing state and the suggestion panel. It has no rendering;
// front ends forward events to it and draw what it reports.
package controller

import (
	"strings"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/completion"
	"github.com/oakwood-commons/aqx/internal/query"
)

// State is the focus state of the query bar.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// SubmitFunc receives the scanned conditions and the raw text, unmodified.
type SubmitFunc func(conds []query.Condition, raw string)

// History is what the controller needs from a history store.
type History interface {
	completion.History
	RecordConditions(conds []query.Condition)
}

// Controller is not safe for concurrent use; drive it from one event loop.
type Controller struct {
	catalog  *catalog.Catalog
	engine   *completion.Engine
	history  History
	onSubmit SubmitFunc
	log      logr.Logger

	state     State
	input     string
	caret     int // in runes
	panelOpen bool
	scroll    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithEngine replaces the default suggestion engine.
func WithEngine(e *completion.Engine) Option {
	return func(c *Controller) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithHistory sets the store used for value suggestions and submit bookkeeping.
func WithHistory(h History) Option {
	return func(c *Controller) { c.history = h }
}

// WithSubmit sets the submit callback.
func WithSubmit(fn SubmitFunc) Option {
	return func(c *Controller) { c.onSubmit = fn }
}

// WithLogger sets the logger.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Controller) { c.log = lgr }
}

// WithValue seeds the controlled value.
func WithValue(v string) Option {
	return func(c *Controller) { c.SetValue(v) }
}

// New returns an idle controller over cat.
func New(cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog: cat,
		engine:  completion.NewEngine(),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State              { return c.state }
func (c *Controller) Input() string             { return c.input }
func (c *Controller) Caret() int                { return c.caret }
func (c *Controller) PanelOpen() bool           { return c.panelOpen }
func (c *Controller) ScrollOffset() int         { return c.scroll }
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// SetCatalog switches the field catalog and resets the panel scroll.
func (c *Controller) SetCatalog(cat *catalog.Catalog) {
	c.catalog = cat
	c.scroll = 0
}

// Focus enters Editing and opens the panel.
func (c *Controller) Focus() {
	c.state = Editing
	c.panelOpen = true
}

// Blur leaves Editing unless focus moved into the panel.
func (c *Controller) Blur(intoPanel bool) {
	if intoPanel {
		return
	}
	c.state = Idle
	c.panelOpen = false
}

// SetInput records a keystroke's result. The first keystroke while idle
// behaves like Focus.
func (c *Controller) SetInput(s string, caret int) {
	c.input = s
	c.caret = clamp(caret, 0, utf8.RuneCountInString(s))
	if c.state == Idle {
		c.Focus()
	}
}

// SetValue replaces the text from outside, caret at the end. State is kept.
func (c *Controller) SetValue(s string) {
	c.input = s
	c.caret = utf8.RuneCountInString(s)
}

// MoveCaret sets the caret, clamped to the text.
func (c *Controller) MoveCaret(pos int) {
	c.caret = clamp(pos, 0, utf8.RuneCountInString(c.input))
}

// CaretAtEnd reports whether the caret sits after the last rune.
func (c *Controller) CaretAtEnd() bool {
	return c.caret == utf8.RuneCountInString(c.input)
}

// Suggestion returns the current ghost text.
func (c *Controller) Suggestion() string {
	return c.Explain().Text
}

// Explain returns the ghost text with the rule that produced it.
func (c *Controller) Explain() completion.Suggestion {
	var h completion.History
	if c.history != nil {
		h = c.history
	}
	return c.engine.Explain(c.input, c.CaretAtEnd(), c.catalog.Fields(), h)
}

// Conditions is the live preview of the text.
func (c *Controller) Conditions() []query.Condition {
	return query.Scan(c.input)
}

// Accept appends the suggestion and moves the caret to the new end.
func (c *Controller) Accept() bool {
	s := c.Suggestion()
	if s == "" {
		return false
	}
	c.log.V(2).Info("suggestion accepted", "input", c.input, "suggestion", s)
	c.SetValue(c.input + s)
	return true
}

// AcceptRight is the right-arrow behaviour: accept at the end, otherwise move
// the caret one rune right.
func (c *Controller) AcceptRight() bool {
	if !c.CaretAtEnd() {
		c.caret++
		return false
	}
	return c.Accept()
}

// Submit scans the text, hands it to the submit callback, records history and
// goes idle. It runs for any input, empty included.
func (c *Controller) Submit() []query.Condition {
	raw := c.input
	conds := query.Scan(raw)
	c.log.V(1).Info("query submitted", "raw", raw, "conditions", len(conds))
	if c.onSubmit != nil {
		c.onSubmit(conds, raw)
	}
	if c.history != nil {
		c.history.RecordConditions(conds)
	}
	c.state = Idle
	c.panelOpen = false
	return conds
}

// Escape closes the panel and keeps the text.
func (c *Controller) Escape() {
	c.panelOpen = false
}

// TogglePanel opens or closes the panel.
func (c *Controller) TogglePanel() {
	c.panelOpen = !c.panelOpen
}

// SelectField replaces the current token with `key="`, closes the panel and
// goes idle.
func (c *Controller) SelectField(key string) {
	if f, ok := c.catalog.Lookup(key); ok {
		key = f.Key
	}
	start := completion.TokenStart(c.input)
	c.SetValue(c.input[:start] + key + `="`)
	c.finishSelection()
}

// SelectExample appends a whole example, joined with ` && ` to existing text,
// closes the panel and goes idle.
func (c *Controller) SelectExample(expr string) {
	c.SetValue(joinExample(c.input, expr))
	c.finishSelection()
}

// SelectPanelItem selects the item under the panel highlight.
func (c *Controller) SelectPanelItem() bool {
	items := c.PanelItems()
	if len(items) == 0 {
		return false
	}
	item := items[clamp(c.scroll, 0, len(items)-1)]
	switch item.Kind {
	case PanelField:
		c.SelectField(item.Field.Key)
	case PanelExample:
		c.SelectExample(item.Example.Expression)
	}
	return true
}

// ScrollPanel moves the panel highlight by delta, clamped to the items.
func (c *Controller) ScrollPanel(delta int) {
	n := len(c.PanelItems())
	if n == 0 {
		c.scroll = 0
		return
	}
	c.scroll = clamp(c.scroll+delta, 0, n-1)
}

func (c *Controller) finishSelection() {
	c.panelOpen = false
	c.state = Idle
}

func joinExample(input, expr string) string {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return expr
	case endsWithConnective(trimmed):
		return trimmed + " " + expr
	default:
		return trimmed + " && " + expr
	}
}

func endsWithConnective(s string) bool {
	if strings.HasSuffix(s, "&&") || strings.HasSuffix(s, "||") {
		return true
	}
	fields := strings.Fields(s)
	last := strings.ToLower(fields[len(fields)-1])
	return last == "and" || last == "or"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
