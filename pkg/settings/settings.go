// Package settings provides build metadata and the per-invocation settings of
// the aqx CLI.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "aqx"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// HistorySettings are the history flags of one invocation. Empty values defer
// to the config file.
type HistorySettings struct {
	Backend string
	Path    string
}

// Run holds the settings of a single execution: logging, where configuration
// and history come from, and output behaviour.
type Run struct {
	MinLogLevel int8
	ConfigFile  string
	LogFile     string
	Catalog     string
	History     HistorySettings
	Interactive bool
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults for a CLI invocation.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}
