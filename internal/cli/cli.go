// Package cli implements the protouml command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/protouml/protouml/pkg/buildinfo"
	"github.com/protouml/protouml/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "protouml"
)

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
	Config *Config
}

// New creates a new CLI instance with a default logger and configuration
// loaded from the default path.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := LoadConfig(DefaultConfigPath())
	if err != nil {
		c.Logger.Warnf("Config ignored: %v", err)
		cfg = DefaultConfig()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfigFile replaces the configuration with the file at path.
// Unlike the default-path load, a missing or malformed explicit file is an
// error.
func (c *CLI) LoadConfigFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "protouml",
		Short:        "Protouml turns protobuf schemas into PlantUML class diagrams",
		Long:         `Protouml is a CLI tool that parses protobuf schema files, generates PlantUML class-diagram text from their messages, enums, and services, and encodes the result into URL-safe tokens for a PlantUML rendering server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache builds the render cache selected by configuration. The "none"
// backend and any construction failure fall back to a no-op cache so
// rendering still works without one.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Backend == cacheBackendNone {
		return cache.NewNullCache()
	}
	if c.Config.Cache.Backend == cacheBackendRedis {
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warnf("Redis cache unavailable, continuing without cache: %v", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warnf("File cache unavailable, continuing without cache: %v", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/protouml/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/protouml/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
