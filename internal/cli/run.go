package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	"github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/signal"
	"github.com/mrz1836/olympus/internal/tui"
)

type runOptions struct {
	priority string
	userID   string
	feedback string
}

// AddRunCommand adds the run command.
func AddRunCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <description>",
		Short: "Take one task through the whole lifecycle",
		Long: `Run receives the task, decomposes it, forms a claw, executes every
subtask and delivers the result. Feedback containing the failure keyword
marks the delivery as unsuccessful.`,
		Example: `  olympus run "为一个小型创业团队生成一周的社交媒体内容计划"
  olympus run --priority high --feedback "很好" "写一份市场研究报告"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := signal.NewHandler(cmd.Context())
			defer h.Stop()
			return runTask(h.Context(), cmd, flags, opts, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", string(constants.PriorityNormal), "task priority (low|normal|high|urgent)")
	cmd.Flags().StringVar(&opts.userID, "user", "", "submitting user id")
	cmd.Flags().StringVarP(&opts.feedback, "feedback", "f", "", "delivery feedback")
	root.AddCommand(cmd)
}

func runTask(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, opts *runOptions, description string) error {
	tui.CheckNoColor()
	out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)

	return withApp(ctx, flags, func(ctx context.Context, a *app) error {
		res, err := a.hub.Run(ctx, domain.TaskRequest{
			Description: description,
			UserID:      opts.userID,
			Priority:    constants.Priority(opts.priority),
		}, opts.feedback)
		if err != nil {
			return err
		}
		if err := render(out, flags.Output, res, func() { renderRun(out, res) }); err != nil {
			return err
		}
		if res.Claw.Error != "" {
			return fmt.Errorf("task %s: %w", res.TaskID, errors.ErrNoMatchedAgents)
		}
		return nil
	})
}
