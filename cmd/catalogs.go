package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/formatter"
)

type catalogSummary struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Default  bool   `json:"default" yaml:"default" toml:"default"`
	Fields   int    `json:"fields" yaml:"fields" toml:"fields"`
	Examples int    `json:"examples" yaml:"examples" toml:"examples"`
}

type catalogDetail struct {
	Name     string            `json:"name" yaml:"name" toml:"name"`
	Fields   []catalog.Field   `json:"fields" yaml:"fields" toml:"fields"`
	Examples []catalog.Example `json:"examples" yaml:"examples" toml:"examples"`
}

func newCatalogsCmd(a *app) *cobra.Command {
	var format outputFormat
	cmd := &cobra.Command{
		Use:     "catalogs [NAME]",
		Aliases: []string{"catalog"},
		Short:   "List field catalogs or show one",
		Example: `  aqx catalogs
  aqx catalogs vulnerabilities -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				cat, err := a.catalogs.Get(args[0])
				if err != nil {
					return err
				}
				detail := catalogDetail{Name: cat.Name(), Fields: cat.Fields(), Examples: cat.Examples()}
				if format != formatTable {
					return encode(out, format, detail)
				}
				printCatalog(cmd, detail, a.run.NoColor)
				return nil
			}

			var summaries []catalogSummary
			for _, name := range a.catalogs.Names() {
				cat, err := a.catalogs.Get(name)
				if err != nil {
					return err
				}
				summaries = append(summaries, catalogSummary{
					Name:     name,
					Default:  name == a.catalogs.Default(),
					Fields:   cat.Len(),
					Examples: len(cat.Examples()),
				})
			}
			if format != formatTable {
				return encode(out, format, map[string][]catalogSummary{"catalogs": summaries})
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				def := ""
				if s.Default {
					def = "*"
				}
				rows = append(rows, []string{s.Name, def, strconv.Itoa(s.Fields), strconv.Itoa(s.Examples)})
			}
			fmt.Fprint(out, formatter.RenderColumnarTable(
				[]string{"NAME", "DEFAULT", "FIELDS", "EXAMPLES"},
				rows,
				formatter.ColumnarOptions{NoColor: a.run.NoColor, RowNumberStyle: "none", RightAlign: []string{"FIELDS", "EXAMPLES"}},
			))
			return nil
		},
	}
	addOutputFlag(cmd.Flags(), &format)
	return cmd
}

func printCatalog(cmd *cobra.Command, c catalogDetail, noColor bool) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		rows = append(rows, []string{f.Key, f.Label, f.Description})
	}
	fmt.Fprint(out, formatter.RenderColumnarTable([]string{"KEY", "LABEL", "DESCRIPTION"}, rows, formatter.ColumnarOptions{NoColor: noColor, RowNumberStyle: "none"}))
	if len(c.Examples) == 0 {
		return
	}
	fmt.Fprintln(out)
	ex := make([][]string, 0, len(c.Examples))
	for _, e := range c.Examples {
		ex = append(ex, []string{e.Expression, e.Description})
	}
	fmt.Fprint(out, formatter.RenderRows(ex, noColor, formatter.TerminalWidth()))
}
