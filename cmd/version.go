package cmd

import (
	"fmt"
	"runtime"
	rdebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/pkg/settings"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print aqx version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}

// versionString reports the ldflags version, falling back to the module
// version recorded in the binary.
func versionString() string {
	v := settings.VersionInformation
	version := v.BuildVersion
	if version == "" || version == "v0.0.0-nightly" {
		if info, ok := rdebug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, version, v.Commit, v.BuildTime, runtime.Version())
}
