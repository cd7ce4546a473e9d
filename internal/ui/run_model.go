package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Run starts the query bar and returns the last submitted raw query, or ""
// when the user quit without submitting. Extra ProgramOptions (e.g. custom IO)
// are passed through to tea.NewProgram.
func Run(m *Model, opts ...tea.ProgramOption) (string, error) {
	if m.width > 0 && m.height > 0 {
		opts = append(opts, tea.WithWindowSize(m.width, m.height))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm.LastSubmitted(), err
	}
	return m.LastSubmitted(), err
}

// RenderSnapshot renders a single frame for opts without a terminal.
func RenderSnapshot(opts Options) string {
	if opts.Width <= 0 || opts.Height <= 0 {
		w, h := TerminalSize()
		if opts.Width <= 0 {
			opts.Width = w
		}
		if opts.Height <= 0 {
			opts.Height = h
		}
	}
	return NewModel(opts).Snapshot()
}

// TerminalSize reports the size of stdout, falling back to 80x24.
func TerminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, 24
	}
	return w, h
}

// IsTerminal reports whether both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
