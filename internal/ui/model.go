// Package ui is the terminal front end of the query bar. It forwards key
// presses to a controller.Controller and renders the text, the ghost
// suggestion, the condition badges and the field/example panel.
package ui

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/completion"
	"github.com/oakwood-commons/aqx/internal/controller"
	"github.com/oakwood-commons/aqx/internal/query"
)

const (
	defaultPanelHeight = 8
	defaultWidth       = 80
	inputCharLimit     = 1000
)

// Options configures a Model. Zero values pick the defaults.
type Options struct {
	AppName     string
	Catalog     *catalog.Catalog
	History     controller.History
	Engine      *completion.Engine
	Value       string
	Placeholder string
	PanelHeight int
	Theme       *Theme
	Keys        *KeyMap
	NoColor     bool
	Debug       bool
	Width       int
	Height      int
	Logger      logr.Logger
	OnSubmit    controller.SubmitFunc
}

// Model is the bubbletea model of the query bar.
type Model struct {
	opts  Options
	ctrl  *controller.Controller
	input textinput.Model
	keys  KeyMap
	st    styles

	width  int
	height int

	submitted []string
	lastConds []query.Condition
	status    string
	quitting  bool
}

// NewModel builds a focused query bar.
func NewModel(opts Options) *Model {
	if opts.PanelHeight <= 0 {
		opts.PanelHeight = defaultPanelHeight
	}
	theme := fallbackTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	m := &Model{
		opts:   opts,
		keys:   keys,
		st:     newStyles(theme),
		width:  opts.Width,
		height: opts.Height,
	}

	ctrlOpts := []controller.Option{
		controller.WithLogger(opts.Logger),
		controller.WithSubmit(m.handleSubmit),
		controller.WithValue(opts.Value),
	}
	if opts.History != nil {
		ctrlOpts = append(ctrlOpts, controller.WithHistory(opts.History))
	}
	if opts.Engine != nil {
		ctrlOpts = append(ctrlOpts, controller.WithEngine(opts.Engine))
	}
	m.ctrl = controller.New(opts.Catalog, ctrlOpts...)

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = opts.Placeholder
	ti.CharLimit = inputCharLimit
	ti.SetWidth(m.inputWidth())
	ti.SetValue(opts.Value)
	ti.SetCursor(len([]rune(opts.Value)))
	ti.Focus()
	m.input = ti

	m.ctrl.Focus()
	return m
}

// Controller exposes the underlying controller.
func (m *Model) Controller() *controller.Controller { return m.ctrl }

// Submitted returns every raw query submitted this session, oldest first.
func (m *Model) Submitted() []string { return append([]string(nil), m.submitted...) }

// LastSubmitted returns the most recent submission, or "".
func (m *Model) LastSubmitted() string {
	if len(m.submitted) == 0 {
		return ""
	}
	return m.submitted[len(m.submitted)-1]
}

// Quitting reports whether the quit key was pressed.
func (m *Model) Quitting() bool { return m.quitting }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(m.inputWidth())
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	action := m.keys.Lookup(key)
	if m.opts.Debug {
		m.opts.Logger.V(2).Info("key", "key", key, "action", string(action))
	}

	switch action {
	case ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case ActionAccept:
		m.ctrl.MoveCaret(m.input.Position())
		if m.ctrl.Accept() {
			m.pullFromController()
		}
		return m, nil
	case ActionAcceptRight:
		m.ctrl.MoveCaret(m.input.Position())
		m.ctrl.AcceptRight()
		m.pullFromController()
		return m, nil
	case ActionSubmit:
		m.ctrl.Submit()
		return m, nil
	case ActionEscape:
		m.ctrl.Escape()
		return m, nil
	case ActionTogglePanel:
		m.ctrl.TogglePanel()
		return m, nil
	case ActionPanelUp, ActionPanelDown:
		if !m.ctrl.PanelOpen() {
			return m, nil
		}
		// Moving inside the panel keeps the bar in Editing.
		m.ctrl.Blur(true)
		if action == ActionPanelUp {
			m.ctrl.ScrollPanel(-1)
		} else {
			m.ctrl.ScrollPanel(1)
		}
		return m, nil
	case ActionSelect:
		if m.ctrl.PanelOpen() && m.ctrl.SelectPanelItem() {
			m.pullFromController()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value(), m.input.Position())
	return m, cmd
}

func (m *Model) handleSubmit(conds []query.Condition, raw string) {
	m.submitted = append(m.submitted, raw)
	m.lastConds = conds
	if err := query.Validate(raw); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("searching %d condition(s)", len(conds))
	}
	if m.opts.OnSubmit != nil {
		m.opts.OnSubmit(conds, raw)
	}
}

func (m *Model) pullFromController() {
	m.input.SetValue(m.ctrl.Input())
	m.input.SetCursor(m.ctrl.Caret())
}

func (m *Model) inputWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if w -= 4; w < 10 {
		w = 10
	}
	return w
}
