package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "aqx", cfg.App.Name)
	assert.Equal(t, BackendFile, cfg.History.Backend)
	assert.Equal(t, "aqx.search.history", cfg.History.Namespace)
	assert.Equal(t, 10, cfg.History.Capacity)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, []string{"tab"}, cfg.UI.Keys["accept"])
	assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())
	assert.False(t, cfg.StepwiseNegationEnabled())

	set, err := cfg.CatalogSet()
	require.NoError(t, err)
	assert.Equal(t, "assets", set.Default())
	assets, err := set.Get("")
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "url", "title", "tech", "status", "body", "header"}, assets.Keys())
	assert.NotEmpty(t, assets.Examples())
	assert.ElementsMatch(t, []string{"assets", "vulnerabilities", "endpoints"}, set.Names())
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	a.UI.Keys["accept"][0] = "x"
	a.Catalogs[0].Fields[0].Key = "changed"

	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "tab", b.UI.Keys["accept"][0])
	assert.Equal(t, "host", b.Catalogs[0].Fields[0].Key)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, _ := Default()
	assert.Equal(t, def, cfg)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfig(t, `
history:
  backend: sqlite
  capacity: 5
suggest:
  stepwise_negation: true
ui:
  theme: light
  keys:
    accept: [tab, ctrl+f]
  themes:
    light:
      ghost_fg: "#999999"
default_catalog: services
catalogs:
  - name: services
    fields:
      - key: port
        label: Port
  - name: assets
    fields:
      - key: ip
        label: IP
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.History.Backend)
	assert.Equal(t, 5, cfg.History.Capacity)
	assert.Equal(t, "aqx.search.history", cfg.History.Namespace)
	assert.True(t, cfg.StepwiseNegationEnabled())
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, []string{"tab", "ctrl+f"}, cfg.UI.Keys["accept"])
	assert.Equal(t, []string{"enter"}, cfg.UI.Keys["submit"])
	assert.Equal(t, "#999999", cfg.UI.Themes["light"].GhostFG)
	assert.Equal(t, "25", cfg.UI.Themes["light"].PromptFG)

	set, err := cfg.CatalogSet()
	require.NoError(t, err)
	assert.Equal(t, "services", set.Default())
	assets, err := set.Get("assets")
	require.NoError(t, err)
	assert.Equal(t, []string{"ip"}, assets.Keys())
	assert.Len(t, set.Names(), 4)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "history: [not, a, map]"))
	assert.ErrorContains(t, err, "decode config")

	_, err = Load(writeConfig(t, "history:\n  backend: redis\n"))
	assert.ErrorContains(t, err, "unknown history backend")

	_, err = Load(writeConfig(t, "ui:\n  theme: neon\n"))
	assert.ErrorContains(t, err, "unknown theme")

	_, err = Load(writeConfig(t, "default_catalog: nope\n"))
	assert.ErrorContains(t, err, "unknown catalog")

	_, err = Load(writeConfig(t, "catalogs:\n  - name: bad\n    fields:\n      - key: a-b\n"))
	assert.ErrorContains(t, err, `catalog "bad"`)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Empty(t, ResolvePath(""))

	dir := filepath.Join(xdg, "aqx")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: x\n"), 0o600))
	assert.Equal(t, path, ResolvePath(""))
}

func TestHistoryPath(t *testing.T) {
	cfg := Config{History: HistoryConfig{Backend: BackendFile, Path: "/tmp/h"}}
	p, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h", p)

	t.Setenv("XDG_CACHE_HOME", "/cache")
	t.Setenv("HOME", "/home/test")
	cfg.History.Path = ""
	cfg.History.Backend = BackendSQLite
	p, err = cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "history.db", filepath.Base(p))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	data, err := cfg.Marshal()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg.Server, back.Server)
	assert.Equal(t, cfg.Catalogs, back.Catalogs)
}

func TestDefaultYAMLIsCopy(t *testing.T) {
	a := DefaultYAML()
	a[0] = '#'
	assert.NotEqual(t, a[0], DefaultYAML()[0])
}
