package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetcanvas/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage rendered Graphviz diagrams",
	}

	cmd.AddCommand(c.cacheSweepCommand("prune", "Remove expired diagrams", (*cache.FileCache).Prune))
	cmd.AddCommand(c.cacheSweepCommand("clear", "Remove all cached diagrams", (*cache.FileCache).Clear))
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheSweepCommand builds a subcommand that runs sweep over the diagram
// cache directory.
func (c *CLI) cacheSweepCommand(use, short string, sweep func(*cache.FileCache, context.Context) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := diagramCacheDir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := sweep(fc, cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Removed %d cached %s", n, plural("diagram", n))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the diagram cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := diagramCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// diagramCacheDir is where rendered diagrams live.
func diagramCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "diagrams"), nil
}
