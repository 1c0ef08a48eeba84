package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	pkgio "github.com/DavidBetteridge/TaskVisualiser/pkg/io"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
)

// importFlags holds the flags shared by the import subcommands.
type importFlags struct {
	output string
	from   string
	to     string
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", source.Stdin, `output CSV file ("-" for standard output)`)
	cmd.Flags().StringVar(&f.from, "from", "", "only loads starting at or after this time")
	cmd.Flags().StringVar(&f.to, "to", "", "only loads starting before this time")
}

func (f *importFlags) window() (source.Window, error) {
	var (
		w   source.Window
		err error
	)
	if w.From, err = parseInstant("from", f.from); err != nil {
		return w, err
	}
	if w.To, err = parseInstant("to", f.to); err != nil {
		return w, err
	}
	if !w.From.IsZero() && !w.To.IsZero() && !w.From.Before(w.To) {
		return w, errors.New(errors.ErrCodeInvalidInput, "--from must be before --to")
	}
	return w, nil
}

// parseInstant accepts the CSV date format or RFC 3339. An empty value is
// the zero time.
func parseInstant(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{pkgio.DateFormat, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidInput,
		"invalid --%s %q (want %q or RFC 3339)", flag, value, pkgio.DateFormat)
}

// importCommand creates the import command and its database subcommands.
func (c *CLI) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy loads from a database into a CSV file",
		Long: `Copy loads from a database into a CSV file.

Connection settings come from the [mongo] and [postgres] sections of the
config file; flags override them. --from and --to limit the loads to those
starting inside the window.`,
	}

	cmd.AddCommand(c.importMongoCommand())
	cmd.AddCommand(c.importPostgresCommand())

	return cmd
}

func (c *CLI) importMongoCommand() *cobra.Command {
	var (
		flags importFlags
		cfg   source.MongoConfig
	)

	cmd := &cobra.Command{
		Use:   "mongo",
		Short: "Import loads from a MongoDB collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := c.Config.Mongo
			if cmd.Flags().Changed("uri") {
				merged.URI = cfg.URI
			}
			if cmd.Flags().Changed("database") {
				merged.Database = cfg.Database
			}
			if cmd.Flags().Changed("collection") {
				merged.Collection = cfg.Collection
			}
			merged.Timeout = cfg.Timeout

			w, err := flags.window()
			if err != nil {
				return err
			}
			src, err := source.NewMongo(merged, w)
			if err != nil {
				return err
			}
			return c.runImport(cmd.Context(), src, flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&cfg.URI, "uri", "", "MongoDB connection string")
	cmd.Flags().StringVar(&cfg.Database, "database", "", "database name")
	cmd.Flags().StringVar(&cfg.Collection, "collection", "", "collection name")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "connect and query timeout")

	return cmd
}

func (c *CLI) importPostgresCommand() *cobra.Command {
	var (
		flags importFlags
		cfg   source.PostgresConfig
	)

	cmd := &cobra.Command{
		Use:   "postgres",
		Short: "Import loads from a PostgreSQL table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := c.Config.Postgres
			if cmd.Flags().Changed("dsn") {
				merged.DSN = cfg.DSN
			}
			if cmd.Flags().Changed("table") {
				merged.Table = cfg.Table
			}

			w, err := flags.window()
			if err != nil {
				return err
			}
			src, err := source.NewPostgres(merged, w)
			if err != nil {
				return err
			}
			return c.runImport(cmd.Context(), src, flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&cfg.DSN, "dsn", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&cfg.Table, "table", source.DefaultPostgresTable, "table holding the loads")

	return cmd
}

// runImport loads every record from src and writes them as CSV.
func (c *CLI) runImport(ctx context.Context, src source.Source, output string) error {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Reading %s...", src.Name()))
	spinner.Start()

	prog := newProgress(c.Logger)
	records, err := src.Load(ctx)
	if err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.Stop()

	if err := writeRecords(records, output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Imported %d records from %s", len(records), src.Name()))

	if output != source.Stdin {
		printSuccess("Loads imported")
		printFile(output)
		printNewline()
		printNextStep("Render", appName+" render "+output)
	}
	return nil
}
