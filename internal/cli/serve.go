package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/internal/server"
	"github.com/matzehuels/timestack/pkg/cache"
	"github.com/matzehuels/timestack/pkg/config"
	"github.com/matzehuels/timestack/pkg/measure"
)

// serveOpts holds the command-line flags for the serve command. Set flags
// override the configuration file.
type serveOpts struct {
	config   string
	addr     string
	backend  string
	dir      string
	redisURL string
	ttl      string
	scope    string
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ticks over HTTP",
		Long: `Serve the tick engine over HTTP.

Endpoints:
  GET /healthz          liveness and build info
  GET /v1/ticks         ?min=&max=&width=[&locale=&zone=&font=...]
  GET /v1/generators    the generator set
  GET /v1/measure       ?format=[&locale=&zone=&font=]
  GET /v1/label         ?value=[&locale=&zone=&format=]`,
		Example: `  timestack serve --addr :8080
  timestack serve --cache redis --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			opts.apply(&cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd, cfg, opts.scope)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.backend, "cache", "", "response cache: none, file, redis")
	cmd.Flags().StringVar(&opts.dir, "cache-dir", "", "file cache directory (default user cache dir)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "redis URL for --cache redis")
	cmd.Flags().StringVar(&opts.ttl, "ttl", "", "cache entry lifetime (default 24h)")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "prefix for cache keys shared between deployments")

	return cmd
}

func (o serveOpts) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.backend != "" {
		cfg.Cache.Backend = o.backend
	}
	if o.dir != "" {
		cfg.Cache.Dir = o.dir
	}
	if o.redisURL != "" {
		cfg.Cache.RedisURL = o.redisURL
	}
	if o.ttl != "" {
		cfg.Cache.TTL = o.ttl
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = config.DefaultAddr
	}
}

func (c *CLI) runServe(cmd *cobra.Command, cfg config.Config, scope string) error {
	ctx := cmd.Context()
	axisOpts, err := cfg.AxisOptions()
	if err != nil {
		return err
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		return err
	}
	store, err := c.openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if scope != "" {
		keyer = cache.NewScopedKeyer(keyer, scope+":")
	}

	srv, err := server.New(
		server.WithAxisOptions(axisOpts, config.Fingerprint(cfg)),
		server.WithCache(cache.WithHooks(store), ttl),
		server.WithKeyer(keyer),
		server.WithFont(cfg.Font),
		server.WithEstimator(measure.NewEstimator(0)),
		server.WithLogger(c.Logger),
	)
	if err != nil {
		return err
	}

	printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("cache: %s", describeCache(cfg.Cache))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func describeCache(cc config.CacheConfig) string {
	switch cc.Backend {
	case config.CacheFile:
		if cc.Dir == "" {
			if dir, err := cacheDir(); err == nil {
				return "file " + dir
			}
		}
		return "file " + cc.Dir
	case config.CacheRedis:
		return "redis " + cc.RedisURL
	}
	return "none"
}
