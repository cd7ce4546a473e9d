package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type suggestResult struct {
	Input      string `json:"input" yaml:"input" toml:"input"`
	Suggestion string `json:"suggestion" yaml:"suggestion" toml:"suggestion"`
	Rule       string `json:"rule" yaml:"rule" toml:"rule"`
	Completed  string `json:"completed" yaml:"completed" toml:"completed"`
}

func newSuggestCmd(a *app) *cobra.Command {
	var (
		format  outputFormat
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "suggest INPUT",
		Short: "Print the inline suggestion for INPUT",
		Long: `Print the ghost text the query bar would offer with the caret at the end
of INPUT. Values come from the configured history backend. Quote INPUT so
trailing spaces are kept.`,
		Example: `  aqx suggest ho
  aqx suggest 'host="a' --explain
  aqx suggest 'host="api" ' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog("")
			if err != nil {
				return err
			}
			hist, closeHist, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHist()

			input := args[0]
			s := a.engine().Explain(input, true, cat.Fields(), hist)
			res := suggestResult{
				Input:      input,
				Suggestion: s.Text,
				Rule:       s.Rule.String(),
				Completed:  input + s.Text,
			}

			out := cmd.OutOrStdout()
			switch {
			case format != formatTable:
				return encode(out, format, res)
			case explain:
				fmt.Fprintf(out, "input:      %s\n", res.Input)
				fmt.Fprintf(out, "suggestion: %s\n", res.Suggestion)
				fmt.Fprintf(out, "rule:       %s\n", res.Rule)
				fmt.Fprintf(out, "completed:  %s\n", res.Completed)
			default:
				fmt.Fprintln(out, res.Suggestion)
			}
			return nil
		},
	}
	addOutputFlag(cmd.Flags(), &format)
	cmd.Flags().BoolVar(&explain, "explain", false, "also print the rule that produced the suggestion")
	return cmd
}
