package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargen/internal/api"
	"github.com/matzehuels/stargen/pkg/cache"
	"github.com/matzehuels/stargen/pkg/observability"
	"github.com/matzehuels/stargen/pkg/pipeline"
	"github.com/matzehuels/stargen/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Galaxies are stored in MongoDB when store.mongo_uri is set and in the SQLite
file otherwise. Results are cached in Redis when cache.redis_url is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	var cc cache.Cache
	err := c.waitFor(ctx, "cache", func() error {
		var err error
		cc, err = c.newCache(ctx, false)
		return err
	})
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "api"), c.Logger)
	defer runner.Close()

	var st store.Store
	err = c.waitFor(ctx, "store", func() error {
		var err error
		if st, err = c.openStore(ctx); err != nil && c.cfg.Store.MongoURI != "" {
			return cache.Retryable(err)
		}
		return err
	})
	if err != nil {
		return err
	}
	defer st.Close()

	s := c.cfg.Server
	srv := api.New(runner, st, c.Logger, api.Config{
		Addr:         s.Addr,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		CORSOrigins:  s.CORSOrigins,
		RateLimit:    s.RateLimit,
		Burst:        s.Burst,
		MaxAttempts:  c.cfg.Generate.MaxAttempts,
	})
	c.note("Serving on %s", StyleLink.Render(s.Addr))
	return srv.ListenAndServe(ctx)
}
