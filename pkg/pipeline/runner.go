package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/poimap/pkg/cache"
	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/observability"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/poi"
	"github.com/matzehuels/poimap/pkg/render/icons"
	"github.com/matzehuels/poimap/pkg/render/sink"
	"github.com/matzehuels/poimap/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// Besides the cache, a Runner keeps one icon store per icon directory so
// decoded and scaled icons are reused across runs. It is safe for
// concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu     sync.Mutex
	stores map[string]*icons.Store
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
		stores: make(map[string]*icons.Store),
	}
}

// Icons returns the memoized icon store for dir.
func (r *Runner) Icons(dir string) *icons.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[dir]; ok {
		return s
	}
	s := icons.NewStore(dir)
	r.stores[dir] = s
	return s
}

// Execute runs the complete load → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	if opts.Scene != nil {
		result.Scene = *opts.Scene
	} else {
		// Stage 1: Load
		loadStart := time.Now()
		pois, hit, err := r.LoadWithCacheInfo(ctx, opts)
		if err != nil {
			return nil, err
		}
		result.POIs = pois
		result.Stats.POICount = len(pois)
		result.Stats.LoadTime = time.Since(loadStart)
		result.CacheInfo.SourceHit = hit
		r.Logger.Info("loaded POIs", "count", len(pois), "duration", result.Stats.LoadTime)

		// Stage 2: Build
		buildStart := time.Now()
		scene, err := overlay.Build(opts.Frame, opts.Style, opts.Layout, pois)
		result.Stats.BuildTime = time.Since(buildStart)
		observability.Pipeline().OnBuildComplete(ctx, len(scene.Marks), result.Stats.BuildTime, err)
		if err != nil {
			return nil, err
		}
		result.Scene = scene
	}
	result.Stats.MarkCount = len(result.Scene.Marks)

	sceneData, err := sink.RenderJSON(result.Scene)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	result.SceneHash = cache.Hash(sceneData)

	store := r.Icons(opts.IconDir)
	result.Stats.MissingIcons = store.Missing(result.Scene.Icons())
	if missing := result.Stats.MissingIcons; len(missing) > 0 {
		if needsIcons(opts.Formats) {
			return nil, errors.New(errors.ErrCodeIconNotFound, "%d icon(s) missing from %s: %s",
				len(missing), store.Dir(), strings.Join(missing, ", "))
		}
		r.Logger.Warn("missing icons", "count", len(missing), "icons", missing)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Scene, result.SceneHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo returns the POIs for opts and whether they came from
// cache. Inline POIs are validated and returned as is; remote sources are
// cached for cache.TTLSource.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (pois []poi.POI, hit bool, err error) {
	label := source.Redact(opts.Source)
	if opts.POIs != nil {
		label = "inline"
	}
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, label)
	defer func() {
		observability.Pipeline().OnLoadComplete(ctx, label, len(pois), time.Since(start), err)
	}()

	if opts.POIs != nil {
		if err := poi.ValidateAll(opts.POIs); err != nil {
			return nil, false, err
		}
		return opts.POIs, false, nil
	}

	src, err := source.Open(opts.Source, opts.SourceOpts)
	if err != nil {
		return nil, false, err
	}
	if !src.Remote() {
		pois, err := src.Load(ctx)
		if err != nil {
			return nil, false, err
		}
		if err := poi.ValidateAll(pois); err != nil {
			return nil, false, err
		}
		return pois, false, nil
	}

	key := r.Keyer.SourceKey(opts.Source, cache.SourceKeyOpts{
		Collection: opts.SourceOpts.Collection,
		Table:      opts.SourceOpts.Table,
	})
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var cached []poi.POI
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	pois, err = src.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := poi.ValidateAll(pois); err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(pois); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLSource); err != nil {
			r.Logger.Debug("cache set failed", "key", "source", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "source", len(data))
		}
	}
	return pois, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]poi.POI, error) {
	pois, _, err := r.LoadWithCacheInfo(ctx, opts)
	return pois, err
}

// RenderWithCacheInfo renders every requested format, serving each from
// cache when possible. The hit flag is true only when every format was
// cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s overlay.Scene, sceneHash string, opts Options) (artifacts map[string][]byte, allHit bool, err error) {
	if err := sink.ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	if sceneHash == "" {
		data, err := sink.RenderJSON(s)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
		}
		sceneHash = cache.Hash(data)
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	store := r.Icons(opts.IconDir)
	artifacts = make(map[string][]byte, len(opts.Formats))
	allHit = true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format, s))
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := RenderFormat(s, store, format, opts.LinkBackground)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache set failed", "key", "artifact", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allHit, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// needsIcons reports whether any format draws icon pixels.
func needsIcons(formats []string) bool {
	for _, f := range formats {
		if f != sink.FormatJSON {
			return true
		}
	}
	return false
}
