package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ocasazza/graphlayouts/pkg/cache"
	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/layout"
	"github.com/ocasazza/graphlayouts/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Execute runs the complete load → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	// Compute graph hash for cache keys and API responses
	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("loaded graph",
		"input", opts.Input,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutResult, layoutHit, err := r.ComputeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.LayoutResult = layoutResult
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"algorithm", opts.Algorithm.Name,
		"converged", layoutResult.Converged,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	if opts.Output != "" {
		if err := graphio.ExportFile(g, opts.Output); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		r.Logger.Info("wrote graph", "output", opts.Output)
	}

	return result, nil
}

// Load imports the input graph. An explicit Format overrides detection
// from the file extension.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Format == "" {
		return graphio.ImportFile(opts.Input)
	}
	format, err := graphio.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", opts.Input)
	}
	defer f.Close()
	return graphio.Import(f, format)
}

// ComputeWithCacheInfo runs the layout stage on g in place with caching and
// returns cache hit info. Entries are keyed by the graph content hash and
// the full algorithm options, so any change to either recomputes.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return layout.Result{}, false, err
	}

	// Compute cache key
	cacheKey := ""
	if graphData, err := graph.MarshalGraph(g); err == nil {
		cacheKey = r.Keyer.LayoutKey(cache.Hash(graphData), cache.LayoutKeyOpts{Algorithm: opts.Algorithm})
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, ok := applyCachedLayout(g, data); ok {
				observability.Cache().OnCacheHit(ctx, "layout")
				return res, true, nil // Cache hit
			}
			// Stale or undecodable entry, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Run the engine
	res, err := Apply(ctx, g, opts.Algorithm)
	if err != nil {
		return layout.Result{}, false, err
	}

	// Cache the result
	if cacheKey != "" {
		if data, err := marshalCachedLayout(g, res); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil // Cache miss
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, g *graph.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeWithCacheInfo(ctx, g, opts)
	return res, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
