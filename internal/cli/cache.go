package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart cache",
		Long: `Manage the chart cache.

Rendered charts are cached on disk under the cache directory. A Redis cache
configured with [cache] redis_url is not touched by these commands; entries
there expire on their own.`,
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// openFileCache returns the on-disk cache, or nil when nothing has been
// cached yet.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := c.Config.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what the chart cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}
			u, err := fc.Usage()
			if err != nil {
				return err
			}

			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprintf("%d (%d expired)", u.Entries, u.Expired))
			printKeyValue("Size", formatBytes(u.Bytes))
			printKeyValue("TTL", c.Config.Cache.TTL.String())
			if c.Config.Cache.RedisURL != "" {
				printDetail("Renders use Redis at %s; this directory is not in use.", c.Config.Cache.RedisURL)
			}
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached charts", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// formatBytes renders n with a binary unit, for example "1.5 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
