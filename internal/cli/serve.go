package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/poimap/internal/server"
	"github.com/matzehuels/poimap/pkg/cache"
	"github.com/matzehuels/poimap/pkg/config"
	"github.com/matzehuels/poimap/pkg/observability"
	"github.com/matzehuels/poimap/pkg/pipeline"
	"github.com/matzehuels/poimap/pkg/source"
)

// serveCommand creates the preview server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve overlay renders over HTTP",
		Long: `Serve overlay renders over HTTP.

POST a JSON array of POIs to /v1/render?format=png|svg|json to render them on
the configured map. Artifacts are cached in redis when cache.redis_url is set,
otherwise in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Frame().Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			var cc cache.Cache = cache.NewMemoryCache()
			switch {
			case cfg.Cache.Disabled:
				cc = cache.NewNullCache()
			case cfg.Cache.RedisURL != "":
				if cc, err = cache.NewRedisCache(ctx, cfg.Cache.RedisURL); err != nil {
					return err
				}
			}
			runner := pipeline.NewRunner(cc, keyerFor(cfg), c.Logger)
			defer runner.Close()

			observability.SetServerHooks(observability.NewLogHooks(c.Logger))

			printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			printKeyValue("  Cache", cacheName(cfg))
			printKeyValue("  Icons", cfg.Paths.Icons)
			return server.New(runner, pipeline.FromConfig(cfg), c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :8080)")

	return cmd
}

// cacheName describes the server's cache backend for the startup banner.
func cacheName(cfg config.Config) string {
	switch {
	case cfg.Cache.Disabled:
		return "disabled"
	case cfg.Cache.RedisURL != "":
		return "redis " + source.Redact(cfg.Cache.RedisURL)
	default:
		return "memory"
	}
}
