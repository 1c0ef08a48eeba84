package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/generate"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	pkgio "github.com/DavidBetteridge/TaskVisualiser/pkg/io"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
)

// defaultDataset is where generate writes when -o is not given.
const defaultDataset = "data.csv"

// generateCommand creates the generate command for writing synthetic data.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts   generate.Options
		start  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic load dataset",
		Long: `Write a synthetic load dataset.

Every table/buyer pair becomes one load. Loads are scheduled onto a fixed
number of lanes, each starting as soon as a lane frees up, so the result
always fits a chart with the same number of lanes. The same seed always
produces the same file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if start != "" {
				t, err := time.Parse(pkgio.DateFormat, start)
				if err != nil {
					return fmt.Errorf("invalid --start %q (want %s): %w", start, pkgio.DateFormat, err)
				}
				opts.Start = t
			}

			prog := newProgress(c.Logger)
			records, err := generate.Records(opts)
			if err != nil {
				return err
			}
			if err := writeRecords(records, output); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Generated %d records", len(records)))

			if output != source.Stdin {
				printSuccess("Dataset written")
				printFile(output)
				printNewline()
				printNextStep("Render", appName+" render "+output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultDataset, `output file ("-" for standard output)`)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&opts.Tables, "tables", generate.DefaultTables, "number of tables")
	cmd.Flags().IntVar(&opts.Buyers, "buyers", generate.DefaultBuyers, "number of buyers")
	cmd.Flags().IntVar(&opts.Lanes, "lanes", generate.DefaultLanes, "number of concurrent loads")
	cmd.Flags().IntVar(&opts.MaxSeconds, "max-seconds", generate.DefaultMaxSeconds, "longest load in seconds")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", generate.DefaultMaxRows, "largest row count")
	cmd.Flags().StringVar(&start, "start", "", "start of the first load (default "+generate.DefaultStart.Format(pkgio.DateFormat)+")")
	cmd.Flags().BoolVar(&opts.LongLoad, "long-load", false, "stretch one load to ten minutes")

	return cmd
}

// writeRecords writes records as CSV to path, or to standard output for "-".
func writeRecords(records []interval.Record, path string) error {
	if path == source.Stdin {
		return pkgio.WriteCSV(records, stdout)
	}
	return pkgio.ExportCSV(records, path)
}
