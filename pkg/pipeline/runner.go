package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/render/preview"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout  = "layout"
	keyTypePreview = "preview"
)

// Runner runs the pipeline with caching.
//
// The Runner holds only a cache and a logger. Multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching, and a nil logger means log.Default().
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

// Layout normalizes req and computes its layout, consulting the cache first.
// Every result gets a fresh ID.
func (r *Runner) Layout(ctx context.Context, req layout.Request, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	start := time.Now()
	in := Normalize(req)
	if in.Coerced != nil {
		logger.Debug("coerced input", "detail", in.Coerced)
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(in.Items))

	l, hash, hit, err := r.LayoutWithCacheInfo(ctx, in, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, "", 0, 0, time.Since(start), err)
		return nil, err
	}
	l.ID = uuid.NewString()

	res := &Result{
		RequestHash: hash,
		Layout:      l,
		Coerced:     in.Coerced,
		Duration:    time.Since(start),
		CacheHit:    hit,
	}
	hooks.OnLayoutComplete(ctx, l.Strategy, l.Stats.Placed, l.Stats.Dropped, res.Duration, nil)

	logger.Info("computed layout",
		"strategy", l.Strategy,
		"items", l.Stats.Items,
		"placed", l.Stats.Placed,
		"dropped", l.Stats.Dropped,
		"overlaps", l.Stats.Overlaps,
		"cached", hit,
		"duration", res.Duration)
	if l.Stats.Overlaps > 0 {
		logger.Warn("layout has overlapping items", "pairs", l.Stats.Overlaps)
	}
	return res, nil
}

// LayoutWithCacheInfo computes the layout for a normalized input and reports
// the request hash and whether the cache was hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, in Input, opts Options) (layout.Layout, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, "", false, err
	}

	hash, err := in.Hash()
	if err != nil {
		return layout.Layout{}, "", false, fmt.Errorf("hash request: %w", err)
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			if cached, err := layout.UnmarshalMsgpack(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached, hash, true, nil
			}
			opts.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	l := Compute(in, opts)

	if data, err := layout.MarshalMsgpack(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return l, hash, false, nil
}

// Preview renders a floor-plan image of l, consulting the cache first.
func (r *Runner) Preview(ctx context.Context, l layout.Layout, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPreview(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	// The ID changes on every run, so it is excluded from the key.
	l.ID = ""
	data, err := layout.MarshalMsgpack(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	key := r.Keyer.PreviewKey(cache.Hash(data), opts.PreviewKeyOpts())

	if !opts.Refresh {
		if img, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypePreview)
			return img, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypePreview)
	}

	img, err := preview.Render(l, opts.Format, opts.PreviewOptions()...)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, img, cache.TTLPreview); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypePreview, len(img))
	}
	opts.Logger.Debug("rendered preview", "format", opts.Format, "bytes", len(img))
	return img, false, nil
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
