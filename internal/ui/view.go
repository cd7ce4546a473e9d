package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/aqx/internal/controller"
	"github.com/oakwood-commons/aqx/internal/query"
)

const prompt = "❯ "

func (m *Model) View() tea.View {
	v := tea.NewView(m.render(true))
	v.AltScreen = true
	return v
}

// Snapshot renders the current frame without a caret.
func (m *Model) Snapshot() string {
	return m.render(false)
}

func (m *Model) render(live bool) string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	lines := []string{
		m.renderTitle(),
		m.st.rule.Render(strings.Repeat("─", width)),
		m.st.prompt.Render(prompt) + m.renderInput(live),
		m.renderBadges(),
	}
	if m.ctrl.PanelOpen() {
		lines = append(lines, m.st.rule.Render(strings.Repeat("─", width)))
		lines = append(lines, m.renderPanel(width)...)
	}
	if m.status != "" {
		style := m.st.detail
		if query.Validate(m.LastSubmitted()) != nil {
			style = m.st.err
		}
		lines = append(lines, style.Render(m.status))
	}
	lines = append(lines, m.renderFooter())

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "…")
	}
	out := strings.Join(lines, "\n")
	if m.opts.NoColor {
		out = ansi.Strip(out)
	}
	return out
}

func (m *Model) renderTitle() string {
	name := strings.TrimSpace(m.opts.AppName)
	if name == "" {
		name = "aqx"
	}
	title := name
	if cat := m.ctrl.Catalog().Name(); cat != "" {
		title += " · " + cat
	}
	out := m.st.title.Render(title)
	if m.opts.Debug {
		ex := m.ctrl.Explain()
		out += m.st.detail.Render(fmt.Sprintf("  [%s rule=%s]", m.ctrl.State(), ex.Rule))
	}
	return out
}

func (m *Model) renderInput(live bool) string {
	value := m.ctrl.Input()
	ghost := m.ctrl.Suggestion()

	if value == "" && ghost == "" {
		placeholder := m.opts.Placeholder
		if live {
			return m.st.caret.Render(" ") + m.st.ghost.Render(placeholder)
		}
		return m.st.ghost.Render(placeholder)
	}

	runes := []rune(value)
	caret := m.ctrl.Caret()
	if caret > len(runes) {
		caret = len(runes)
	}

	var b strings.Builder
	b.WriteString(m.st.input.Render(string(runes[:caret])))
	switch {
	case !live:
		b.WriteString(m.st.input.Render(string(runes[caret:])))
		b.WriteString(m.st.ghost.Render(ghost))
	case caret < len(runes):
		b.WriteString(m.st.caret.Render(string(runes[caret])))
		b.WriteString(m.st.input.Render(string(runes[caret+1:])))
	case ghost != "":
		g := []rune(ghost)
		b.WriteString(m.st.caret.Render(string(g[0])))
		b.WriteString(m.st.ghost.Render(string(g[1:])))
	default:
		b.WriteString(m.st.caret.Render(" "))
	}
	return b.String()
}

func (m *Model) renderBadges() string {
	conds := m.ctrl.Conditions()
	if len(conds) == 0 {
		return m.st.detail.Render("no conditions")
	}
	parts := make([]string, 0, len(conds))
	for i, c := range conds {
		if i > 0 && c.Join == query.Or {
			parts = append(parts, m.st.join.Render("or")+" "+m.st.orBadge.Render(c.Label()))
			continue
		}
		parts = append(parts, m.st.badge.Render(c.Label()))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderPanel(width int) []string {
	items := m.ctrl.PanelItems()
	if len(items) == 0 {
		return []string{m.st.detail.Render("no fields in this catalog")}
	}
	height := m.opts.PanelHeight
	offset := m.ctrl.ScrollOffset()
	start := 0
	if offset >= height {
		start = offset - height + 1
	}
	end := start + height
	if end > len(items) {
		end = len(items)
	}

	lines := make([]string, 0, end-start+1)
	lines = append(lines, m.st.detail.Render(fmt.Sprintf("fields & examples %d/%d", offset+1, len(items))))
	titleWidth := 0
	for _, item := range items {
		if w := runewidth.StringWidth(item.Title()); w > titleWidth {
			titleWidth = w
		}
	}
	if limit := width / 2; titleWidth > limit {
		titleWidth = limit
	}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderPanelItem(items[i], i == offset, titleWidth))
	}
	return lines
}

func (m *Model) renderPanelItem(item controller.PanelItem, selected bool, titleWidth int) string {
	title := runewidth.FillRight(runewidth.Truncate(item.Title(), titleWidth, "…"), titleWidth)
	marker := "  "
	if selected {
		marker = "▸ "
	}
	if selected {
		return m.st.selected.Render(marker + title + "  " + item.Detail())
	}
	titleStyle := m.st.chip
	if item.Kind == controller.PanelExample {
		titleStyle = m.st.example
	}
	return marker + titleStyle.Render(title) + "  " + m.st.detail.Render(item.Detail())
}

func (m *Model) renderFooter() string {
	entries := []struct {
		action Action
		desc   string
	}{
		{ActionAccept, "accept"},
		{ActionSubmit, "search"},
		{ActionEscape, "close"},
		{ActionTogglePanel, "panel"},
		{ActionSelect, "select"},
		{ActionQuit, "quit"},
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		label := m.keys.Label(e.action)
		if label == "" {
			continue
		}
		parts = append(parts, m.st.helpKey.Render(label)+" "+m.st.helpVal.Render(e.desc))
	}
	return strings.Join(parts, "  ")
}
