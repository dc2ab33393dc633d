package commands

import (
	"github.com/spf13/cobra"
	"go.lanes.dev/lanes/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove archived runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				All: all,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Remove the whole .lanes metadata directory")

	return cmd
}
