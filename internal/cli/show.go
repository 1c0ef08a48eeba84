package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline/sink"
)

// showCommand creates the show command for drawing a chart in the terminal.
func (c *CLI) showCommand() *cobra.Command {
	var (
		chart    chartFlags
		rows     int
		noLegend bool
	)

	cmd := &cobra.Command{
		Use:   "show [loads.csv]",
		Short: "Draw a lane chart in the terminal",
		Long: `Draw a lane chart in the terminal.

Each column is a lane and each line a slice of time. A cell is filled with
the color of the load running in that lane during the slice.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCSV,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chart.apply(cmd, c.Config.Chart)
			if err != nil {
				return err
			}
			l, err := c.buildLayout(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}

			opts := []sink.TerminalOption{sink.WithRows(rows)}
			if noLegend {
				opts = append(opts, sink.WithoutTerminalLegend())
			}
			fmt.Fprint(cmd.OutOrStdout(), sink.RenderTerminal(l, opts...))
			return nil
		},
	}

	chart.register(cmd)
	cmd.Flags().IntVar(&rows, "rows", sink.DefaultTerminalRows, "number of lines for the time axis")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "omit the row count legend")

	return cmd
}

// buildLayout loads input and lays it out without rendering or caching.
func (c *CLI) buildLayout(ctx context.Context, input string, cfg timeline.Config) (*timeline.Layout, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	records, err := runner.Load(ctx, source.NewFile(input))
	if err != nil {
		return nil, err
	}
	return runner.Layout(ctx, records, cfg)
}
