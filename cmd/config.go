package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		defaults bool
		path     bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as YAML",
		Long: `Print the embedded defaults merged with the user config file and the
history flags. Redirect it to a file to start a custom configuration:

  aqx config --defaults > ~/.config/aqx/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case path:
				p := config.ResolvePath(a.run.ConfigFile)
				if p == "" {
					p = "(none; using embedded defaults)"
				}
				fmt.Fprintln(out, p)
				return nil
			case defaults:
				_, err := out.Write(config.DefaultYAML())
				return err
			}
			data, err := a.cfg.Marshal()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprint(out, strings.TrimRight(string(data), "\n")+"\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the embedded default config instead")
	cmd.Flags().BoolVar(&path, "path", false, "print the config file in use")
	return cmd
}
