package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered-image cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached rendered images",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.resolveCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			removed, err := clearEntries(dir)
			if err != nil {
				return err
			}
			if removed == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %d cached entries", removed)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// clearEntries deletes cache entry files under dir and prunes the hash
// shard directories, leaving dir itself and any foreign files intact.
func clearEntries(dir string) (int, error) {
	shards, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		shardPath := filepath.Join(dir, shard.Name())
		entries, err := os.ReadDir(shardPath)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".entry") {
				continue
			}
			if os.Remove(filepath.Join(shardPath, e.Name())) == nil {
				removed++
			}
		}
		// Succeeds only once the shard is empty.
		_ = os.Remove(shardPath)
	}
	return removed, nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.resolveCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// resolveCacheDir returns the file cache directory, honoring the
// configured override.
func (c *CLI) resolveCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}
