package commands

import (
	"github.com/spf13/cobra"
	"go.lanes.dev/lanes/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the expanded lanes and steps without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			only, _ := cmd.Flags().GetStringArray("only")

			return c.app.Plan(cmd.Context(), cmd.OutOrStdout(), app.PlanOptions{
				Only: only,
			})
		},
	}
	cmd.Flags().StringArray("only", nil, "Only include lanes matching axis=value (repeatable)")
	return cmd
}
