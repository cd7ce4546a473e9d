// Package config holds the aqx configuration schema, the embedded defaults and
// the merge of a user file on top of them.
package config

import (
	"time"

	"github.com/oakwood-commons/aqx/internal/catalog"
)

// History backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the merged configuration.
type Config struct {
	App            AppConfig       `yaml:"app"`
	History        HistoryConfig   `yaml:"history"`
	Suggest        SuggestConfig   `yaml:"suggest"`
	Server         ServerConfig    `yaml:"server"`
	UI             UIConfig        `yaml:"ui"`
	DefaultCatalog string          `yaml:"default_catalog"`
	Catalogs       []CatalogConfig `yaml:"catalogs"`
}

// AppConfig is shown in the UI header and `aqx version`.
type AppConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// HistoryConfig selects and tunes the history backend. An empty Path means the
// per-user cache directory.
type HistoryConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
	Capacity  int    `yaml:"capacity"`
}

// SuggestConfig tunes the suggestion engine.
type SuggestConfig struct {
	StepwiseNegation *bool `yaml:"stepwise_negation,omitempty"`
}

// ServerConfig configures `aqx serve`.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// UIConfig configures the terminal front end.
type UIConfig struct {
	Theme       string                 `yaml:"theme"`
	Placeholder string                 `yaml:"placeholder"`
	PanelHeight int                    `yaml:"panel_height"`
	Keys        map[string][]string    `yaml:"keys"`
	Themes      map[string]ThemeConfig `yaml:"themes"`
}

// ThemeConfig holds colors as lipgloss color strings (ANSI index or hex).
type ThemeConfig struct {
	InputFG    string `yaml:"input_fg,omitempty"`
	PromptFG   string `yaml:"prompt_fg,omitempty"`
	GhostFG    string `yaml:"ghost_fg,omitempty"`
	BadgeFG    string `yaml:"badge_fg,omitempty"`
	BadgeBG    string `yaml:"badge_bg,omitempty"`
	OrBadgeBG  string `yaml:"or_badge_bg,omitempty"`
	ChipFG     string `yaml:"chip_fg,omitempty"`
	ExampleFG  string `yaml:"example_fg,omitempty"`
	SelectedFG string `yaml:"selected_fg,omitempty"`
	SelectedBG string `yaml:"selected_bg,omitempty"`
	Border     string `yaml:"border,omitempty"`
	HelpKey    string `yaml:"help_key,omitempty"`
	HelpValue  string `yaml:"help_value,omitempty"`
	Error      string `yaml:"error,omitempty"`
}

// CatalogConfig declares one field catalog.
type CatalogConfig struct {
	Name     string            `yaml:"name"`
	Fields   []catalog.Field   `yaml:"fields"`
	Examples []catalog.Example `yaml:"examples,omitempty"`
}

// StepwiseNegationEnabled reports the suggest.stepwise_negation setting.
func (c Config) StepwiseNegationEnabled() bool {
	return c.Suggest.StepwiseNegation != nil && *c.Suggest.StepwiseNegation
}
