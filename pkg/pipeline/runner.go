package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/cache"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/layout"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/observability"
)

// Result is the outcome of [Runner.Execute].
type Result struct {
	Galaxy *galaxy.Galaxy
	Stats  galaxy.Stats

	// Key is the cache key of the galaxy, empty when the run was not
	// reproducible and therefore not cached.
	Key      string
	CacheHit bool
	Duration time.Duration
}

// Runner encapsulates generation with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
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

// Execute generates a galaxy, serving it from the cache when the same
// reproducible options were generated before.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	var key string
	if Cacheable(&opts) {
		key = r.Keyer.GalaxyKey(opts.GalaxyKeyOpts())
	}

	if key != "" && !opts.Refresh {
		if g, ok := r.lookup(ctx, key); ok {
			return &Result{Galaxy: g, Stats: g.Stats(), Key: key, CacheHit: true, Duration: time.Since(start)}, nil
		}
	}

	gc, err := NewGenerationContext(&opts)
	if err != nil {
		return nil, err
	}
	g, err := gc.Run(ctx)
	if err != nil {
		return nil, err
	}

	if key != "" {
		r.store(ctx, key, g)
	}
	return &Result{Galaxy: g, Stats: g.Stats(), Key: key, Duration: time.Since(start)}, nil
}

// Cacheable reports whether opts always produce the same galaxy. A time
// seed, clock-seeded elliptical jitter, or custom tables and catalogs
// rule caching out.
func Cacheable(opts *Options) bool {
	if opts.Seed == 0 || opts.Tables != nil || opts.Catalog != nil {
		return false
	}
	return opts.shape != layout.ShapeElliptical || opts.ReproducibleJitter
}

func (r *Runner) lookup(ctx context.Context, key string) (*galaxy.Galaxy, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "galaxy")
		return nil, false
	}
	g, err := galaxyio.Unmarshal(data)
	if err != nil {
		// Stale format; regenerate and overwrite.
		r.Logger.Debug("discarding cached galaxy", "key", key, "err", err)
		hooks.OnCacheMiss(ctx, "galaxy")
		return nil, false
	}
	hooks.OnCacheHit(ctx, "galaxy")
	r.Logger.Debug("galaxy served from cache", "key", key)
	return g, true
}

func (r *Runner) store(ctx context.Context, key string, g *galaxy.Galaxy) {
	data, err := galaxyio.Marshal(g)
	if err != nil {
		r.Logger.Warn("encode galaxy for cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.GalaxyTTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "galaxy", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
