package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/facetgrid/pkg/cache"
	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/observability"
	"github.com/matzehuels/facetgrid/pkg/render"
	"github.com/matzehuels/facetgrid/pkg/session"
)

// cacheKindDataset is the cache hook key type of parsed datasets; figure
// artifacts report their format instead.
const cacheKindDataset = "dataset"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can use the same Runner
// with different options, since every Execute builds its own session.
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

// Load reads a dataset file. Parsed datasets are cached under the hash of
// the file content and extension, so an unchanged file skips parsing.
func (r *Runner) Load(ctx context.Context, path string) (ds *dataset.Dataset, err error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	defer func() {
		rows := 0
		if ds != nil {
			rows = ds.Len()
		}
		hooks.OnLoadComplete(ctx, path, rows, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if raw, err := os.ReadFile(path); err == nil {
		key = r.Keyer.DatasetKey(cache.Hash(append(raw, strings.ToLower(filepath.Ext(path))...)))
		if ds := r.cachedDataset(ctx, key); ds != nil {
			r.Logger.Info("loaded cached dataset", "path", path, "rows", ds.Len(), "columns", len(ds.Columns()))
			return ds, nil
		}
	}

	ds, err = dataset.Load(path)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("loaded dataset", "path", path, "rows", ds.Len(), "columns", len(ds.Columns()))
	if key != "" {
		r.storeDataset(ctx, key, ds)
	}
	return ds, nil
}

// Execute runs the facet and render stages with caching.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	if ds == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		DatasetHash: ds.Hash(),
		Artifacts:   make(map[string][]byte),
		Stats:       Stats{Rows: ds.Len()},
	}

	if !opts.Refresh {
		if cached, ok := r.cached(ctx, result.DatasetHash, &opts); ok {
			result.Artifacts = cached
			result.CacheHit = true
			r.Logger.Info("using cached figure", "formats", opts.Formats)
			return result, nil
		}
	}

	facetStart := time.Now()
	s, err := r.Facet(ctx, ds, &opts, result)
	if err != nil {
		return nil, err
	}
	result.Stats.FacetTime = time.Since(facetStart)

	renderStart := time.Now()
	if err := r.Render(ctx, s, &opts, result); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered figure",
		"layers", len(result.Reports),
		"formats", opts.Formats,
		"facet", result.Stats.FacetTime.Round(time.Millisecond),
		"render", result.Stats.RenderTime.Round(time.Millisecond))
	return result, nil
}

// Facet plots every layer of opts into a new session and appends the
// layer reports to result.
func (r *Runner) Facet(ctx context.Context, ds *dataset.Dataset, opts *Options, result *Result) (*session.Session, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	s := session.New(opts.SessionConfig(), opts.Logger)
	for i, layer := range opts.Layers {
		hooks.OnFacetStart(ctx, i, layer.Kind.String())
		start := time.Now()
		rep, err := s.Plot(ctx, ds, opts.Request, layer)
		cells := 0
		if rep != nil {
			cells = len(rep.Targets) - len(rep.EmptyCells)
		}
		hooks.OnFacetComplete(ctx, i, cells, time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layer %d (%s)", i, layer.Kind)
		}
		result.Reports = append(result.Reports, rep)
	}
	return s, nil
}

// Render finalizes the session's legends, encodes every format and stores
// the artifacts in result and the cache.
func (r *Runner) Render(ctx context.Context, s *session.Session, opts *Options, result *Result) (err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	plan, err := s.Finalize()
	if err != nil {
		return err
	}
	result.Plan = plan

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := s.Encode(&buf, format, render.WithDPI(opts.DPI), render.WithPadding(vg.Points(opts.Padding))); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "encode %s", format)
		}
		result.Artifacts[format] = buf.Bytes()
		r.store(ctx, result.DatasetHash, opts, format, buf.Bytes())
	}
	return nil
}

// cached returns every requested artifact, or false if any is missing.
func (r *Runner) cached(ctx context.Context, hash string, opts *Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.FigureKey(hash, opts.FigureKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, format)
			return nil, false
		}
		hooks.OnCacheHit(ctx, format)
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, hash string, opts *Options, format string, data []byte) {
	key := r.Keyer.FigureKey(hash, opts.FigureKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, format, len(data))
}

func (r *Runner) cachedDataset(ctx context.Context, key string) *dataset.Dataset {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", cacheKindDataset, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, cacheKindDataset)
		return nil
	}
	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		r.Logger.Warn("ignoring corrupt cached dataset", "err", err)
		hooks.OnCacheMiss(ctx, cacheKindDataset)
		return nil
	}
	hooks.OnCacheHit(ctx, cacheKindDataset)
	return &ds
}

func (r *Runner) storeDataset(ctx context.Context, key string, ds *dataset.Dataset) {
	data, err := json.Marshal(ds)
	if err != nil {
		r.Logger.Warn("encode dataset for cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache write failed", "kind", cacheKindDataset, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKindDataset, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
