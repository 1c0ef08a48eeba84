package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/internal/inspect"
)

// inspectCommand creates the inspect command for browsing loads.
func (c *CLI) inspectCommand() *cobra.Command {
	var chart chartFlags

	cmd := &cobra.Command{
		Use:   "inspect [loads.csv]",
		Short: "Browse loads and their details interactively",
		Long: `Browse loads and their details interactively.

Loads are listed in start order next to the terminal chart. Move with j/k or
the arrow keys to see each load's buyer, table, times, row count and lane.`,
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

			err = inspect.Run(cmd.Context(), l)
			if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			return err
		},
	}

	chart.register(cmd)

	return cmd
}
