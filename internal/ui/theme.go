package ui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/aqx/internal/config"
)

// Theme defines the colors used by the query bar.
type Theme struct {
	InputFG    color.Color // Typed text
	PromptFG   color.Color // Prompt glyph
	GhostFG    color.Color // Ghost/suggestion text after the caret
	BadgeFG    color.Color // Condition badge text
	BadgeBG    color.Color // Condition badge background
	OrBadgeBG  color.Color // Badge background for OR-joined conditions
	ChipFG     color.Color // Field chips in the panel
	ExampleFG  color.Color // Worked examples in the panel
	SelectedFG color.Color // Highlighted panel row foreground
	SelectedBG color.Color // Highlighted panel row background
	Border     color.Color // Separators
	HelpKey    color.Color // Footer key labels
	HelpValue  color.Color // Footer descriptions
	Error      color.Color // Validation messages
}

// fallbackTheme is used for any color a theme leaves unset.
func fallbackTheme() Theme {
	return Theme{
		InputFG:    lipgloss.Color("252"),
		PromptFG:   lipgloss.Color("81"),
		GhostFG:    lipgloss.Color("242"),
		BadgeFG:    lipgloss.Color("235"),
		BadgeBG:    lipgloss.Color("81"),
		OrBadgeBG:  lipgloss.Color("179"),
		ChipFG:     lipgloss.Color("81"),
		ExampleFG:  lipgloss.Color("246"),
		SelectedFG: lipgloss.Color("250"),
		SelectedBG: lipgloss.Color("24"),
		Border:     lipgloss.Color("238"),
		HelpKey:    lipgloss.Color("81"),
		HelpValue:  lipgloss.Color("245"),
		Error:      lipgloss.Color("203"),
	}
}

// ThemeFromConfig builds a theme; empty entries keep the fallback color.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	th := fallbackTheme()
	set := func(v string, dst *color.Color) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(cfg.InputFG, &th.InputFG)
	set(cfg.PromptFG, &th.PromptFG)
	set(cfg.GhostFG, &th.GhostFG)
	set(cfg.BadgeFG, &th.BadgeFG)
	set(cfg.BadgeBG, &th.BadgeBG)
	set(cfg.OrBadgeBG, &th.OrBadgeBG)
	set(cfg.ChipFG, &th.ChipFG)
	set(cfg.ExampleFG, &th.ExampleFG)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.Border, &th.Border)
	set(cfg.HelpKey, &th.HelpKey)
	set(cfg.HelpValue, &th.HelpValue)
	set(cfg.Error, &th.Error)
	return th
}

// ThemeByName picks a named theme from the config.
func ThemeByName(cfg config.Config, name string) (Theme, error) {
	if name == "" {
		name = cfg.UI.Theme
	}
	tc, ok := cfg.UI.Themes[name]
	if !ok {
		return fallbackTheme(), fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(cfg.ThemeNames(), ", "))
	}
	return ThemeFromConfig(tc), nil
}

type styles struct {
	input    lipgloss.Style
	caret    lipgloss.Style
	prompt   lipgloss.Style
	ghost    lipgloss.Style
	badge    lipgloss.Style
	orBadge  lipgloss.Style
	join     lipgloss.Style
	chip     lipgloss.Style
	example  lipgloss.Style
	detail   lipgloss.Style
	selected lipgloss.Style
	rule     lipgloss.Style
	helpKey  lipgloss.Style
	helpVal  lipgloss.Style
	err      lipgloss.Style
	title    lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		input:    lipgloss.NewStyle().Foreground(th.InputFG),
		caret:    lipgloss.NewStyle().Reverse(true),
		prompt:   lipgloss.NewStyle().Foreground(th.PromptFG).Bold(true),
		ghost:    lipgloss.NewStyle().Foreground(th.GhostFG).Faint(true),
		badge:    lipgloss.NewStyle().Foreground(th.BadgeFG).Background(th.BadgeBG).Padding(0, 1),
		orBadge:  lipgloss.NewStyle().Foreground(th.BadgeFG).Background(th.OrBadgeBG).Padding(0, 1),
		join:     lipgloss.NewStyle().Foreground(th.HelpValue).Italic(true),
		chip:     lipgloss.NewStyle().Foreground(th.ChipFG).Bold(true),
		example:  lipgloss.NewStyle().Foreground(th.ExampleFG),
		detail:   lipgloss.NewStyle().Foreground(th.HelpValue),
		selected: lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG),
		rule:     lipgloss.NewStyle().Foreground(th.Border),
		helpKey:  lipgloss.NewStyle().Foreground(th.HelpKey).Bold(true),
		helpVal:  lipgloss.NewStyle().Foreground(th.HelpValue),
		err:      lipgloss.NewStyle().Foreground(th.Error),
		title:    lipgloss.NewStyle().Foreground(th.PromptFG).Bold(true),
	}
}
