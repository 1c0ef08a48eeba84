package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
)

// defaultBase names the output files when reading from standard input.
const defaultBase = "chart"

// renderFlags holds the output flags of the render command.
type renderFlags struct {
	output   string
	formats  string
	scale    float64
	title    string
	details  bool
	noLegend bool
	noCache  bool
	refresh  bool
	redisURL string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		chart chartFlags
		flags renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [loads.csv]",
		Short: "Render a load CSV file to a lane chart",
		Long: `Render a load CSV file to a lane chart.

The input has a header row and the columns Start, End, Buyer, Table and
Rows. Use "-" to read from standard input.

With one format the chart is written to -o (default: <input>.<format>, or
"-" for standard output). With several formats -o is a base path and each
file gets its format's extension.

Rendered charts are cached by dataset and options, so rendering the same
file again is instant. Use --refresh to re-render anyway.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCSV,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.renderOptions(cmd, args[0], &chart, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("redis-url") {
				c.Config.Cache.RedisURL = flags.redisURL
			}
			return c.runRender(cmd.Context(), args[0], opts, flags.output, flags.noCache)
		},
	}

	chart.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().StringVar(&flags.title, "title", "", "chart title (default: input file name)")
	cmd.Flags().BoolVar(&flags.details, "details", false, "embed the hover detail panel (svg)")
	cmd.Flags().BoolVar(&flags.noLegend, "no-legend", false, "omit the row count legend")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached charts and render again")
	cmd.Flags().StringVar(&flags.redisURL, "redis-url", "", "cache charts in Redis instead of on disk")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// renderOptions merges the config file with the flags the user set.
func (c *CLI) renderOptions(cmd *cobra.Command, input string, chart *chartFlags, flags *renderFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats: c.Config.Render.Formats,
		Scale:   c.Config.Render.Scale,
		Details: c.Config.Render.Details,
		Title:   flags.title,
		Refresh: flags.refresh,
		Logger:  c.Logger,
	}

	var err error
	if opts.Chart, err = chart.apply(cmd, c.Config.Chart); err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("format") {
		opts.Formats = pipeline.ParseFormats(flags.formats)
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = flags.scale
	}
	if cmd.Flags().Changed("details") {
		opts.Details = flags.details
	}
	if flags.noLegend {
		legend := false
		opts.Legend = &legend
	}
	if opts.Title == "" && input != source.Stdin {
		opts.Title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return opts, opts.Validate()
}

// runRender loads the input, lays it out, renders every format, and writes
// the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", displayName(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, source.NewFile(input), opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(ctx, result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	if output == source.Stdin {
		return nil
	}

	printSuccess("Chart rendered")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit())
	printLaneHint(result.Stats)
	printNewline()
	printNextStep("Inspect", appName+" inspect "+input)

	return nil
}

// writeArtifacts writes one file per format and returns the paths written.
// An output of "-" writes the single artifact to standard output.
func writeArtifacts(ctx context.Context, artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	logger := loggerFromContext(ctx)

	if output == source.Stdin {
		if len(formats) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"standard output takes exactly one format, got %d", len(formats))
		}
		_, err := stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		data := artifacts[format]
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write output %s: %w", path, err)
		}
		logger.Debug("wrote artifact", "path", path, "bytes", len(data))
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == source.Stdin {
			return defaultBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func displayName(input string) string {
	if input == source.Stdin {
		return "standard input"
	}
	return input
}
