package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/cache"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/observability"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// Runner executes the pipeline with artifact caching. It holds no per-run
// state, so one Runner can serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached.
	TTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// selects the default keyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.TTLArtifact}
}

// Execute loads records from src and runs the rest of the pipeline.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := r.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(start)

	result, err := r.ExecuteRecords(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// Load reads records from src.
func (r *Runner) Load(ctx context.Context, src source.Source) ([]interval.Record, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Name())

	start := time.Now()
	records, err := src.Load(ctx)
	hooks.OnLoadComplete(ctx, src.Name(), len(records), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded records",
		"source", src.Name(),
		"records", len(records),
		"duration", time.Since(start))
	return records, nil
}

// ExecuteRecords lays out and renders records that are already in memory.
func (r *Runner) ExecuteRecords(ctx context.Context, records []interval.Record, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:          uuid.New(),
		DatasetHash: cache.DatasetHash(records),
	}

	start := time.Now()
	l, err := r.Layout(ctx, records, opts.Chart)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.Records = len(records)
	result.Stats.Lanes = l.Config.LaneCount
	result.Stats.Overlaps = l.Overlaps
	result.Stats.LayoutTime = time.Since(start)

	start = time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, l, result.DatasetHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"id", result.ID,
		"formats", opts.Formats,
		"cached", info.Hits,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Layout builds the chart layout for records.
func (r *Runner) Layout(ctx context.Context, records []interval.Record, cfg timeline.Config) (*timeline.Layout, error) {
	cfg = cfg.WithDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(records), cfg.LaneCount)

	start := time.Now()
	l, err := timeline.Build(records, cfg)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, len(l.Shapes), l.Overlaps, time.Since(start), nil)

	r.Logger.Info("computed layout",
		"records", len(records),
		"lanes", cfg.LaneCount,
		"span", l.Total,
		"duration", time.Since(start))
	if l.Overlaps > 0 {
		r.Logger.Warn("lanes overflowed; some shapes overlap", "overlaps", l.Overlaps)
	}
	return l, nil
}

// RenderWithCacheInfo renders every format in opts.Formats, serving what it
// can from the cache. Cache failures are logged and treated as misses.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *timeline.Layout, datasetHash string, opts Options) (map[string][]byte, CacheInfo, error) {
	if err := opts.Validate(); err != nil {
		return nil, CacheInfo{}, err
	}

	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var info CacheInfo

	for _, format := range opts.Formats {
		if opts.Refresh {
			info.Misses = append(info.Misses, format)
			continue
		}
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format)))
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
			hooks.OnCacheError(ctx, "get", err)
		}
		if err == nil && hit {
			hooks.OnCacheHit(ctx, format)
			artifacts[format] = data
			info.Hits = append(info.Hits, format)
			continue
		}
		hooks.OnCacheMiss(ctx, format)
		info.Misses = append(info.Misses, format)
	}

	if len(info.Misses) == 0 {
		return artifacts, info, nil
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnRenderStart(ctx, info.Misses)
	start := time.Now()
	rendered, err := RenderAll(ctx, l, info.Misses, opts)
	pipelineHooks.OnRenderComplete(ctx, info.Misses, time.Since(start), err)
	if err != nil {
		return nil, info, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			hooks.OnCacheError(ctx, "set", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}
	return artifacts, info, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
