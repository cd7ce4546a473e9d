package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/aqx/internal/catalog"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded default config. It is the single source of
// default settings, themes and catalogs.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	if embeddedConfigErr != nil {
		return Config{}, embeddedConfigErr
	}
	return embeddedConfig.clone(), nil
}

// Load returns the defaults with the file at path merged on top. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var user Config
	if err := yaml.Unmarshal(data, &user); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg = Merge(cfg, user)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath returns explicit when set, otherwise
// $XDG_CONFIG_HOME/aqx/config.yaml or ~/.config/aqx/config.yaml if one exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, "aqx", "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", "aqx", "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Merge overlays the non-zero parts of override onto base. Themes and catalogs
// are merged by name; a catalog in override replaces the one it names.
func Merge(base, override Config) Config {
	out := base.clone()

	if override.App.Name != "" {
		out.App.Name = override.App.Name
	}
	if override.App.Description != "" {
		out.App.Description = override.App.Description
	}

	if override.History.Backend != "" {
		out.History.Backend = override.History.Backend
	}
	if override.History.Path != "" {
		out.History.Path = override.History.Path
	}
	if override.History.Namespace != "" {
		out.History.Namespace = override.History.Namespace
	}
	if override.History.Capacity > 0 {
		out.History.Capacity = override.History.Capacity
	}

	if override.Suggest.StepwiseNegation != nil {
		v := *override.Suggest.StepwiseNegation
		out.Suggest.StepwiseNegation = &v
	}

	if override.Server.Addr != "" {
		out.Server.Addr = override.Server.Addr
	}
	if override.Server.ReadHeaderTimeout > 0 {
		out.Server.ReadHeaderTimeout = override.Server.ReadHeaderTimeout
	}
	if override.Server.ShutdownTimeout > 0 {
		out.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.UI.Theme != "" {
		out.UI.Theme = override.UI.Theme
	}
	if override.UI.Placeholder != "" {
		out.UI.Placeholder = override.UI.Placeholder
	}
	if override.UI.PanelHeight > 0 {
		out.UI.PanelHeight = override.UI.PanelHeight
	}
	for action, keys := range override.UI.Keys {
		if out.UI.Keys == nil {
			out.UI.Keys = map[string][]string{}
		}
		out.UI.Keys[action] = append([]string(nil), keys...)
	}
	for name, th := range override.UI.Themes {
		if out.UI.Themes == nil {
			out.UI.Themes = map[string]ThemeConfig{}
		}
		out.UI.Themes[name] = mergeTheme(out.UI.Themes[name], th)
	}

	if override.DefaultCatalog != "" {
		out.DefaultCatalog = override.DefaultCatalog
	}
	for _, cc := range override.Catalogs {
		replaced := false
		for i := range out.Catalogs {
			if strings.EqualFold(out.Catalogs[i].Name, cc.Name) {
				out.Catalogs[i] = cc
				replaced = true
				break
			}
		}
		if !replaced {
			out.Catalogs = append(out.Catalogs, cc)
		}
	}
	return out
}

func mergeTheme(base, override ThemeConfig) ThemeConfig {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&base.InputFG, override.InputFG)
	pick(&base.PromptFG, override.PromptFG)
	pick(&base.GhostFG, override.GhostFG)
	pick(&base.BadgeFG, override.BadgeFG)
	pick(&base.BadgeBG, override.BadgeBG)
	pick(&base.OrBadgeBG, override.OrBadgeBG)
	pick(&base.ChipFG, override.ChipFG)
	pick(&base.ExampleFG, override.ExampleFG)
	pick(&base.SelectedFG, override.SelectedFG)
	pick(&base.SelectedBG, override.SelectedBG)
	pick(&base.Border, override.Border)
	pick(&base.HelpKey, override.HelpKey)
	pick(&base.HelpValue, override.HelpValue)
	pick(&base.Error, override.Error)
	return base
}

// Validate checks the settings that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.History.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown history backend %q (want memory, file or sqlite)", c.History.Backend)
	}
	if _, ok := c.UI.Themes[c.UI.Theme]; !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", c.UI.Theme, strings.Join(c.ThemeNames(), ", "))
	}
	if _, err := c.CatalogSet(); err != nil {
		return err
	}
	return nil
}

// ThemeNames returns the configured theme names, sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.UI.Themes))
	for name := range c.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CatalogSet builds the field catalogs and marks the default one.
func (c Config) CatalogSet() (*catalog.Set, error) {
	cats := make([]*catalog.Catalog, 0, len(c.Catalogs))
	for _, cc := range c.Catalogs {
		cat, err := catalog.New(cc.Name, cc.Fields, cc.Examples)
		if err != nil {
			return nil, fmt.Errorf("catalog %q: %w", cc.Name, err)
		}
		cats = append(cats, cat)
	}
	set, err := catalog.NewSet(cats...)
	if err != nil {
		return nil, err
	}
	if c.DefaultCatalog != "" {
		if err := set.SetDefault(c.DefaultCatalog); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// HistoryPath returns the configured history location, or the per-user cache
// location for the backend when none is set.
func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	switch c.History.Backend {
	case BackendSQLite:
		return filepath.Join(dir, "aqx", "history.db"), nil
	default:
		return filepath.Join(dir, "aqx", "history"), nil
	}
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c Config) clone() Config {
	out := c
	if c.Suggest.StepwiseNegation != nil {
		v := *c.Suggest.StepwiseNegation
		out.Suggest.StepwiseNegation = &v
	}
	out.UI.Keys = make(map[string][]string, len(c.UI.Keys))
	for k, v := range c.UI.Keys {
		out.UI.Keys[k] = append([]string(nil), v...)
	}
	out.UI.Themes = make(map[string]ThemeConfig, len(c.UI.Themes))
	for k, v := range c.UI.Themes {
		out.UI.Themes[k] = v
	}
	out.Catalogs = make([]CatalogConfig, len(c.Catalogs))
	for i, cc := range c.Catalogs {
		out.Catalogs[i] = CatalogConfig{
			Name:     cc.Name,
			Fields:   append([]catalog.Field(nil), cc.Fields...),
			Examples: append([]catalog.Example(nil), cc.Examples...),
		}
	}
	return out
}
