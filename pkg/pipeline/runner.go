package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/opmtools/opdflow/pkg/cache"
	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP service use it so caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger; it doesn't
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

// Execute runs analyze → render.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Analyze(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.logger(opts).Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze validates d and builds its execution graph, reporting to the
// analysis hooks.
func (r *Runner) Analyze(ctx context.Context, d *diagram.Diagram) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, count := "", 0
	if d != nil {
		name, count = d.Name, d.Len()
	}
	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, name, count)

	start := time.Now()
	result, err := Analyze(d)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnAnalyzeComplete(ctx, name, 0, 0, elapsed, err)
		return nil, err
	}
	result.Stats.AnalyzeTime = elapsed
	hooks.OnAnalyzeComplete(ctx, name, result.Stats.BandCount, result.Stats.EdgeCount, elapsed, nil)

	r.Logger.Info("analyzed diagram",
		"diagram", name,
		"processes", result.Stats.ProcessCount,
		"bands", result.Stats.BandCount,
		"edges", result.Stats.EdgeCount,
		"duration", elapsed)

	return result, nil
}

// RenderWithCacheInfo renders artifacts with caching and reports whether all
// of them came from cache. Graph JSON is stored under the graph key; DOT and
// SVG under artifact keys.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)

	hooks := observability.Analysis()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key, kind := r.key(result.DiagramHash, format, opts)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, kind)
			artifacts[format] = data
			continue
		} else if err != nil {
			logger.Warn("cache read failed", "format", format, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, kind)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, result.Graph, sub)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key, kind := r.key(result.DiagramHash, format, opts)
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, kind, len(data))
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, result, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func (r *Runner) key(diagramHash, format string, opts Options) (key, kind string) {
	if format == FormatJSON {
		return r.Keyer.GraphKey(diagramHash), "graph"
	}
	return r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format)), "artifact"
}
