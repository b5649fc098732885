package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the tick response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Without a
// configured backend it clears the default file cache.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var configPath, redisURL string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached tick responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cc := cfg.Cache
			switch {
			case redisURL != "":
				cc = config.CacheConfig{Backend: config.CacheRedis, RedisURL: redisURL}
			case cc.Backend == "" || cc.Backend == config.CacheNone:
				cc.Backend = config.CacheFile
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					printInfo("Cache is empty")
					return nil
				}
			}

			store, err := c.openCache(cmd.Context(), cc)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Cache: %s", describeCache(cc))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "clear a redis cache instead")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
