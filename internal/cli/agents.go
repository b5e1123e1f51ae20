package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/olympus/internal/domain"
	"github.com/mrz1836/olympus/internal/tui"
)

// AddAgentsCommand adds the agents command group.
func AddAgentsCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect and register agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listAgents(cmd, flags)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listAgents(cmd, flags)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <agent-id>",
		Short: "Show one agent profile with its evolved stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				p, err := a.hub.Memory().Semantic.GetAgentProfile(ctx, args[0])
				if err != nil {
					return err
				}
				return render(out, flags.Output, p, func() { renderAgent(out, p) })
			})
		},
	})

	cmd.AddCommand(newRegisterAgentCmd(flags))
	root.AddCommand(cmd)
}

func listAgents(cmd *cobra.Command, flags *GlobalFlags) error {
	tui.CheckNoColor()
	out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
	return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
		agents, err := a.hub.Memory().Semantic.ListAgents(ctx)
		if err != nil {
			return err
		}
		return render(out, flags.Output, agents, func() { renderAgents(out, agents) })
	})
}

func newRegisterAgentCmd(flags *GlobalFlags) *cobra.Command {
	var p domain.AgentProfile
	cmd := &cobra.Command{
		Use:     "register <agent-id>",
		Short:   "Register or replace an agent",
		Example: `  olympus agents register iris --name Iris --role messenger --skills translation,localization`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				sem := a.hub.Memory().Semantic
				if err := sem.RegisterAgent(ctx, args[0], p); err != nil {
					return err
				}
				stored, err := sem.GetAgentProfile(ctx, args[0])
				if err != nil {
					return err
				}
				return render(out, flags.Output, stored, func() {
					out.Success("registered " + stored.ID)
					renderAgent(out, stored)
				})
			})
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "display name")
	cmd.Flags().StringVar(&p.Role, "role", "", "role")
	cmd.Flags().StringVar(&p.Description, "description", "", "free-text description")
	cmd.Flags().StringSliceVar(&p.Skills, "skills", nil, "comma-separated skill tags")
	return cmd
}
