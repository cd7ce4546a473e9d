package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/internal/formatter"
	"github.com/oakwood-commons/aqx/internal/query"
)

type parseResult struct {
	Raw        string            `json:"raw" yaml:"raw" toml:"raw"`
	Conditions []query.Condition `json:"conditions" yaml:"conditions" toml:"conditions"`
}

func newParseCmd(a *app) *cobra.Command {
	var (
		format outputFormat
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "parse EXPR...",
		Short: "Scan an expression into its conditions",
		Long: `Scan an expression into field/operator/value conditions.

Scanning is lenient: malformed fragments are skipped and unknown fields are
kept. Use --strict to fail the way a search backend would reject the query.`,
		Example: `  aqx parse 'host="api" && status=="200"'
  aqx parse 'title!="login" || tech="nginx"' -o yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			if strict {
				if err := query.Validate(raw); err != nil {
					return err
				}
			}
			res := parseResult{Raw: raw, Conditions: query.Scan(raw)}
			if res.Conditions == nil {
				res.Conditions = []query.Condition{}
			}

			if format != formatTable {
				return encode(cmd.OutOrStdout(), format, res)
			}
			if len(res.Conditions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conditions")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), conditionsTable(res.Conditions, a.run.NoColor))

			if cat, err := a.catalog(""); err == nil {
				var unknown []string
				for _, f := range query.Fields(res.Conditions) {
					if _, ok := cat.Lookup(f); !ok {
						unknown = append(unknown, f)
					}
				}
				if len(unknown) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "fields not in catalog %q: %s\n", cat.Name(), strings.Join(unknown, ", "))
				}
			}
			return nil
		},
	}
	addOutputFlag(cmd.Flags(), &format)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the expression is blank or has no condition")
	return cmd
}

func conditionsTable(conds []query.Condition, noColor bool) string {
	rows := make([][]string, 0, len(conds))
	for i, c := range conds {
		join := ""
		if i > 0 {
			join = string(c.Join)
		}
		rows = append(rows, []string{join, c.Field, string(c.Operator), c.Operator.Kind(), strconv.Quote(c.Value)})
	}
	return formatter.RenderColumnarTable(
		[]string{"JOIN", "FIELD", "OP", "KIND", "VALUE"},
		rows,
		formatter.ColumnarOptions{NoColor: noColor, RowNumberStyle: "numbered"},
	)
}
