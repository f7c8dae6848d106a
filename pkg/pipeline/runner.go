package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/devhelpr/ocif-generator/pkg/cache"
	"github.com/devhelpr/ocif-generator/pkg/layout"
	"github.com/devhelpr/ocif-generator/pkg/observability"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete import → layout → export pipeline.
func (r *Runner) Execute(ctx context.Context, input, output string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	doc, err := ocif.ImportFile(input)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	result, err := r.layoutWithCache(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	if err := ocif.ExportFile(result.Document, output); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.OutputPath = output

	r.Logger.Info("laid out document",
		"nodes", result.Stats.NodeCount,
		"relations", result.Stats.RelationCount,
		"cached", result.CacheHit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// LayoutDocument runs the layout engine over doc with caching and returns
// the positioned document plus whether the result came from cache.
// The returned document is doc itself on a cache miss, or a freshly
// decoded document on a hit.
func (r *Runner) LayoutDocument(ctx context.Context, doc *ocif.Document, opts Options) (*ocif.Document, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	result, err := r.layoutWithCache(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	return result.Document, result.CacheHit, nil
}

// layoutWithCache is the shared cache-aware layout stage.
func (r *Runner) layoutWithCache(ctx context.Context, doc *ocif.Document, opts Options) (*Result, error) {
	result := &Result{Document: doc}
	if doc != nil {
		result.Stats.NodeCount = len(doc.Nodes)
		result.Stats.RelationCount = len(doc.Relations)
	}

	key, docHash := r.cacheKey(doc, opts)
	result.DocumentHash = docHash

	if key != "" && !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached ocif.Document
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				r.Logger.Debug("layout cache hit", "hash", docHash)
				result.Document = &cached
				result.CacheHit = true
				return result, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, result.Stats.NodeCount, result.Stats.RelationCount)

	engine := layout.New(opts.EngineConfig(),
		layout.WithRand(rand.New(rand.NewSource(*opts.Seed))))
	err := engine.Layout(doc)

	result.Stats.LayoutTime = time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, result.Stats.NodeCount, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}

	if key != "" && !opts.NoCache {
		if data, err := json.Marshal(doc); err == nil {
			if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}

	return result, nil
}

// cacheKey computes the cache key and content hash for doc. A document
// that cannot be marshaled is simply not cached.
func (r *Runner) cacheKey(doc *ocif.Document, opts Options) (key, docHash string) {
	if doc == nil {
		return "", ""
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", ""
	}
	docHash = cache.Hash(data)
	key = r.Keyer.LayoutKey(docHash, cache.LayoutKeyOpts{
		Width:      opts.Width,
		Height:     opts.Height,
		Padding:    opts.Padding,
		Iterations: opts.Iterations,
		Gravity:    opts.Gravity,
		MaxStep:    opts.MaxStep,
		Seed:       *opts.Seed,
	})
	return key, docHash
}
