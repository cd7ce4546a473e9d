package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/internal/formatter"
	"github.com/oakwood-commons/aqx/internal/limiter"
	"github.com/oakwood-commons/aqx/internal/query"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		format outputFormat
		window limiter.Config
	)
	cmd := &cobra.Command{
		Use:   "history [FIELD]",
		Short: "Show remembered values, most recent first",
		Long: `Show remembered values, most recent first. With FIELD only that field's
values are listed; --limit, --offset and --tail select a window of them.
Without FIELD the window applies to the list of fields.`,
		Example: `  aqx history
  aqx history host --limit 3
  aqx history host -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := window.Validate(); err != nil {
				return err
			}
			hist, closeHist, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHist()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				values := limiter.Apply(window, hist.Lookup(args[0]))
				if values == nil {
					values = []string{}
				}
				if format != formatTable {
					return encode(out, format, map[string][]string{strings.ToLower(args[0]): values})
				}
				for _, v := range values {
					fmt.Fprintln(out, v)
				}
				return nil
			}

			snap := hist.Snapshot()
			fields := make([]string, 0, len(snap))
			for f := range snap {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			fields = limiter.Apply(window, fields)
			if window.IsActive() {
				kept := make(map[string][]string, len(fields))
				for _, f := range fields {
					kept[f] = snap[f]
				}
				snap = kept
			}
			if format != formatTable {
				return encode(out, format, snap)
			}
			if len(snap) == 0 {
				fmt.Fprintln(out, "no history")
				return nil
			}
			rows := make([][]string, 0, len(snap))
			for _, field := range fields {
				rows = append(rows, []string{field, strings.Join(snap[field], ", ")})
			}
			fmt.Fprint(out, formatter.RenderColumnarTable([]string{"FIELD", "VALUES"}, rows, formatter.ColumnarOptions{NoColor: a.run.NoColor, RowNumberStyle: "none"}))
			return nil
		},
	}
	addOutputFlag(cmd.Flags(), &format)
	cmd.Flags().IntVar(&window.Limit, "limit", 0, "show only this many entries")
	cmd.Flags().IntVar(&window.Offset, "offset", 0, "skip the first N entries")
	cmd.Flags().IntVar(&window.Tail, "tail", 0, "show only the last N entries (mutually exclusive with --limit)")
	cmd.AddCommand(newHistoryRecordCmd(a))
	return cmd
}

func newHistoryRecordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "record EXPR...",
		Short:   "Record the values of an expression as if it had been submitted",
		Example: `  aqx history record 'host="api" && status=="200"'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			if err := query.Validate(raw); err != nil {
				return err
			}
			hist, closeHist, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHist()

			conds := query.Scan(raw)
			hist.RecordConditions(conds)
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %d condition(s)\n", len(conds))
			return nil
		},
	}
}
