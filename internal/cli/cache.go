package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ocasazza/graphlayouts/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}

			count, _, err := fc.Size(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			if err := fc.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}

			count, size, err := fc.Size(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan cache: %w", err)
			}

			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprintf("%d", count))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

// openFileCache opens the file cache at the standard location.
func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// formatBytes renders a byte count in a human unit.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
