package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodedesign/internal/metrics"
	"github.com/matzehuels/nodedesign/internal/server"
	"github.com/matzehuels/nodedesign/pkg/buildinfo"
	"github.com/matzehuels/nodedesign/pkg/cache"
	"github.com/matzehuels/nodedesign/pkg/config"
	"github.com/matzehuels/nodedesign/pkg/observability"
	"github.com/matzehuels/nodedesign/pkg/session"
)

// cleanupInterval is how often expired sessions are dropped.
const cleanupInterval = 10 * time.Minute

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	redisAddr  string
	sessionDir string
	ttl        time.Duration
	metrics    bool
	noCache    bool
}

// serveCommand creates the serve command that runs the HTTP session API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve editing sessions over HTTP.

Each session holds one workflow and its undo history. Documents are kept in
memory by default, in redis with --redis, or as files with --session-dir.
Undo history always stays in this process. --metrics exposes layout,
history and request counters for Prometheus at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for sessions and previews (default from config)")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "store sessions as files in this directory")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", session.DefaultTTL, "session lifetime after the last change")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the preview cache")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "serve Prometheus metrics at /metrics")
	cmd.MarkFlagsMutuallyExclusive("redis", "session-dir")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debug("build info\n" + buildinfo.String())
	cfg, _, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr == "" {
		opts.addr = cfg.Server.Addr
	}
	if opts.redisAddr == "" && opts.sessionDir == "" {
		opts.redisAddr = cfg.Server.RedisAddr
	}

	store, previews, err := openBackends(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()
	defer previews.Close()

	reg := session.NewRegistry(store, session.Options{
		Layout:   cfg.LayoutConfig(),
		Capacity: cfg.History.Capacity,
		TTL:      opts.ttl,
		Logger:   logger,
	})
	go cleanupLoop(ctx, reg)

	srvOpts := server.Options{Cache: previews, Logger: logger}
	if opts.metrics {
		m := metrics.New()
		m.Install()
		defer observability.Reset()
		srvOpts.Metrics = m.Handler()
	}
	srv := server.New(reg, srvOpts)
	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	return srv.ListenAndServe(ctx, opts.addr)
}

// openBackends picks the session store and preview cache.
func openBackends(ctx context.Context, opts serveOpts) (session.Store, cache.Cache, error) {
	logger := loggerFromContext(ctx)
	switch {
	case opts.redisAddr != "":
		store, err := session.DialRedisStore(ctx, opts.redisAddr)
		if err != nil {
			return nil, nil, err
		}
		if opts.noCache {
			return store, cache.NewNullCache(), nil
		}
		previews, err := cache.DialRedisCache(ctx, opts.redisAddr, "nodedesign:preview:")
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connect preview cache: %w", err)
		}
		logger.Info("using redis", "addr", opts.redisAddr)
		return store, previews, nil

	case opts.sessionDir != "":
		store, err := session.NewFileStore(opts.sessionDir)
		if err != nil {
			return nil, nil, err
		}
		previews, err := newCache(opts.noCache)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storing sessions on disk", "dir", store.Path())
		return store, previews, nil

	default:
		previews, err := newCache(opts.noCache)
		if err != nil {
			return nil, nil, err
		}
		return session.NewMemoryStore(), previews, nil
	}
}

func cleanupLoop(ctx context.Context, reg *session.Registry) {
	logger := loggerFromContext(ctx)
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := reg.Cleanup(ctx); err != nil {
				logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
