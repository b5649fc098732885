// Package cli implements the timestack command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/buildinfo"
	"github.com/matzehuels/timestack/pkg/cache"
	"github.com/matzehuels/timestack/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "timestack"

	// redisConnectTimeout bounds the initial Redis ping.
	redisConnectTimeout = 5 * time.Second
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Timestack builds calendar-aware, two-row time axis ticks",
		Long: `Timestack picks a tick cadence for a time range and axis width, labels the
ticks in any locale and time zone, and adds a second row of date context.
It renders axes as text or SVG and serves ticks over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.ticksCommand())
	root.AddCommand(c.generatorsCommand())
	root.AddCommand(c.measureCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openCache opens the response cache a configuration selects. A file cache
// without a directory lives in the user cache directory.
func (c *CLI) openCache(ctx context.Context, cc config.CacheConfig) (cache.Cache, error) {
	switch cc.Backend {
	case "", config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		dir := cc.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		spinner := newSpinnerWithContext(ctx, "Connecting to Redis...")
		spinner.Start()
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL)
		spinner.Stop()
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("connected to redis", "url", cc.RedisURL)
		return rc, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cc.Backend)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/timestack/).
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

// configDir returns the config directory using XDG standard (~/.config/timestack/).
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
