package commands

import (
	"github.com/spf13/cobra"
	"go.lanes.dev/lanes/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Expand the matrix and run every lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			parallelism, _ := cmd.Flags().GetInt("parallelism")
			only, _ := cmd.Flags().GetStringArray("only")
			noArchive, _ := cmd.Flags().GetBool("no-archive")
			watch, _ := cmd.Flags().GetBool("watch")

			// --ci is shorthand for --output-mode=linear
			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				OutputMode:  outputMode,
				Parallelism: parallelism,
				Only:        only,
				NoArchive:   noArchive,
				Watch:       watch,
			})
		},
	}
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().IntP("parallelism", "p", 0, "Maximum lanes running at once (0 = number of CPUs)")
	cmd.Flags().StringArray("only", nil, "Only run lanes matching axis=value (repeatable)")
	cmd.Flags().Bool("no-archive", false, "Do not persist the run under .lanes/runs")
	cmd.Flags().BoolP("watch", "w", false, "Re-run the pipeline when the working tree changes")
	return cmd
}
