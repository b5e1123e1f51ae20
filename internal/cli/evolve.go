package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/olympus/internal/tui"
)

// AddEvolveCommand adds the evolve command group. Each subcommand triggers
// one evolution engine operation against the persisted episodic memory.
func AddEvolveCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Mine patterns, optimize rules and inspect evolution history",
	}

	var minSuccesses int
	patterns := &cobra.Command{
		Use:   "patterns",
		Short: "Mine task patterns from successful episodic records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				found, err := a.hub.Evolution().DiscoverPatterns(ctx, minSuccesses)
				if err != nil {
					return err
				}
				return render(out, flags.Output, found, func() {
					out.Success(fmt.Sprintf("%d pattern(s) discovered", len(found)))
					renderPatterns(out, found)
				})
			})
		},
	}
	patterns.Flags().IntVar(&minSuccesses, "min-successes", 0, "successful tasks a category needs (default evolution.min_successes)")

	rules := &cobra.Command{
		Use:   "rules",
		Short: "Derive collaboration rules from recorded exceptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				updated, err := a.hub.Evolution().OptimizeRules(ctx)
				if err != nil {
					return err
				}
				return render(out, flags.Output, updated, func() {
					out.Success(fmt.Sprintf("%d rule(s) updated", len(updated)))
					renderRules(out, updated)
				})
			})
		},
	}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show the newest evolution log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				entries, err := a.hub.Evolution().History(ctx, limit)
				if err != nil {
					return err
				}
				return render(out, flags.Output, entries, func() { renderHistory(out, entries) })
			})
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 20, "entries to show, 0 for all")

	cmd.AddCommand(patterns, rules, history)
	root.AddCommand(cmd)
}
