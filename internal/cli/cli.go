package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/buildinfo"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/cache"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/config"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/observability"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config starts as the built-in defaults and is replaced by the loaded
	// file before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "taskvis draws load intervals as lane-based timeline charts",
		Long: `taskvis reads timed loads (buyer, table, start, end, row count) and draws
them as a vertical timeline. Each load is a bar in one of a fixed number of
lanes, placed so that loads sharing a lane never overlap, and colored from
green to red by how many rows it moved.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/taskvis/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and installs the debug-logging hooks.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := logHooks{logger: c.Logger}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r, nil
}

// newCache picks Redis when a URL is configured, the file cache otherwise.
// A missing home directory silently disables the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		c.Logger.Debug("using redis cache", "url", url)
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
