package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devhelpr/ocif-generator/internal/server"
	"github.com/devhelpr/ocif-generator/pkg/cache"
	"github.com/devhelpr/ocif-generator/pkg/pipeline"
	"github.com/devhelpr/ocif-generator/pkg/store"
)

// serveCommand creates the serve command for running the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

The server exposes a layout endpoint that accepts a canvas document and
returns it with positions resolved. When a document store is configured,
positioned documents can be persisted and fetched by id.

By default results are cached on disk and documents are stored in
memory. Pass --redis to share the layout cache across instances, and
--mongo-uri to persist documents in MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis address for the shared layout cache (e.g. localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb connection URI for document persistence")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout result caching")

	return cmd
}

// runServe builds the cache, store, and runner, then serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI string, noCache bool) error {
	layoutCache, err := c.serveCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}

	docStore, err := c.serveStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := docStore.Close(context.Background()); cerr != nil {
			c.Logger.Warn("Failed to close store", "error", cerr)
		}
	}()

	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, docStore, c.Logger)
	c.Logger.Info("Starting layout API", "addr", addr)
	return srv.ListenAndServe(ctx, addr)
}

func (c *CLI) serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisURL})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Debug("Using redis cache", "addr", redisURL)
		return rc, nil
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		c.Logger.Debug("Using mongodb store", "uri", mongoURI)
		return ms, nil
	}
	return store.NewMemoryStore(), nil
}
