package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/olympus/internal/tui"
)

// AddPatternsCommand adds the patterns command.
func AddPatternsCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "patterns",
		Short: "List mined task patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				patterns, err := a.hub.Memory().Semantic.ListPatterns(ctx)
				if err != nil {
					return err
				}
				return render(out, flags.Output, patterns, func() { renderPatterns(out, patterns) })
			})
		},
	})
}

// AddRulesCommand adds the rules command.
func AddRulesCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "List collaboration rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				rules, err := a.hub.Memory().Semantic.GetAllRules(ctx)
				if err != nil {
					return err
				}
				return render(out, flags.Output, rules, func() { renderRules(out, rules) })
			})
		},
	})
}
