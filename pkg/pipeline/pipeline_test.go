package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/facetgrid/pkg/cache"
	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/legend"
	"github.com/matzehuels/facetgrid/pkg/observability"
	"github.com/matzehuels/facetgrid/pkg/render"
	"github.com/matzehuels/facetgrid/pkg/session"
	"github.com/matzehuels/facetgrid/pkg/theme"
)

func runs(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.MustNew("metric", "model", "step", "value")
	n := 0
	for _, metric := range []string{"loss", "acc"} {
		for _, model := range []string{"A", "B"} {
			for step := 1; step <= 3; step++ {
				n++
				if err := ds.Append(metric, model, strconv.Itoa(step), strconv.Itoa(n)); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}
		}
	}
	return ds
}

func options() Options {
	return Options{
		Request: facet.Request{RowsBy: "metric", SeriesBy: "model", X: "step", Y: "value"},
		Layers:  []session.Layer{{Kind: render.Line}, {Kind: render.Scatter}},
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Request: facet.Request{ColsBy: "metric", X: "step", Y: "value"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Layers) != 1 || opts.Layers[0].Kind != render.Scatter {
		t.Errorf("Layers = %+v, want one scatter layer", opts.Layers)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight || opts.DPI != render.DefaultDPI {
		t.Errorf("size = %vx%v @%d", opts.Width, opts.Height, opts.DPI)
	}
	if opts.Padding != float64(render.DefaultPadding) {
		t.Errorf("Padding = %v, want %v", opts.Padding, render.DefaultPadding)
	}
	if opts.Legend != legend.DefaultConfig() {
		t.Errorf("Legend = %+v, want default", opts.Legend)
	}
	if opts.Logger == nil {
		t.Error("Logger is nil")
	}
	if cfg := opts.SessionConfig(); cfg.Theme.Name != theme.DefaultPreset {
		t.Errorf("theme = %q, want %q", cfg.Theme.Name, theme.DefaultPreset)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Options)
		code errors.Code
	}{
		{"missing axis", func(o *Options) { o.Request.X = "" }, errors.ErrCodeMissingAxis},
		{"no facet", func(o *Options) { o.Request.RowsBy = "" }, errors.ErrCodeNoFacetDimension},
		{"unknown kind", func(o *Options) { o.Layers = []session.Layer{{Kind: render.Kind(7)}} }, errors.ErrCodeUnknownPlotKind},
		{"unknown format", func(o *Options) { o.Formats = []string{"svg", "gif"} }, errors.ErrCodeInvalidFormat},
		{"unknown strategy", func(o *Options) { o.Legend = legend.Config{Strategy: "sidebar"} }, errors.ErrCodeUnknownLegend},
		{"unknown preset", func(o *Options) { o.Theme.Preset = "neon" }, errors.ErrCodeInvalidInput},
		{"negative padding", func(o *Options) { o.Padding = -1 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options()
			tt.edit(&opts)
			if err := opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestFigureKeyOpts(t *testing.T) {
	opts := options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	k := cache.NewDefaultKeyer()
	svg := k.FigureKey("h", opts.FigureKeyOpts(render.FormatSVG))

	opts.DPI = 300
	if k.FigureKey("h", opts.FigureKeyOpts(render.FormatSVG)) != svg {
		t.Error("DPI changed the svg key")
	}
	png := k.FigureKey("h", opts.FigureKeyOpts(render.FormatPNG))
	opts.DPI = 96
	if k.FigureKey("h", opts.FigureKeyOpts(render.FormatPNG)) == png {
		t.Error("DPI did not change the png key")
	}

	opts.Title = "other"
	if k.FigureKey("h", opts.FigureKeyOpts(render.FormatSVG)) == svg {
		t.Error("title did not change the svg key")
	}
	titled := k.FigureKey("h", opts.FigureKeyOpts(render.FormatSVG))
	opts.Padding = 20
	if k.FigureKey("h", opts.FigureKeyOpts(render.FormatSVG)) == titled {
		t.Error("padding did not change the svg key")
	}
}

func TestExecute(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()
	ctx := context.Background()
	ds := runs(t)

	opts := options()
	opts.Formats = []string{render.FormatSVG, render.FormatPNG}
	res, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheHit {
		t.Error("first Execute() reported a cache hit")
	}
	if len(res.Reports) != 2 || res.Reports[1].Layout.Rows != 2 {
		t.Errorf("Reports = %+v, want two layers on a 2x1 grid", res.Reports)
	}
	if len(res.Plan.Legends) != 1 || len(res.Plan.Legends[0].Entries) != 2 {
		t.Errorf("Plan = %+v, want one legend with models A and B", res.Plan)
	}
	if !bytes.Contains(res.Artifacts[render.FormatSVG], []byte("<svg")) {
		t.Error("svg artifact has no <svg element")
	}
	if !bytes.HasPrefix(res.Artifacts[render.FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact has no PNG signature")
	}
	if res.DatasetHash != ds.Hash() || res.Stats.Rows != ds.Len() {
		t.Errorf("DatasetHash = %s, Rows = %d", res.DatasetHash, res.Stats.Rows)
	}

	again, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheHit || len(again.Reports) != 0 {
		t.Errorf("second Execute() CacheHit = %v with %d reports", again.CacheHit, len(again.Reports))
	}
	if !bytes.Equal(again.Artifacts[render.FormatSVG], res.Artifacts[render.FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	fresh, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatalf("Execute(refresh) error = %v", err)
	}
	if fresh.CacheHit {
		t.Error("Execute(refresh) reported a cache hit")
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, nil, options()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute(nil) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}

	opts := options()
	opts.Request.Y = "loss"
	if _, err := runner.Execute(ctx, runs(t), opts); !errors.Is(err, errors.ErrCodeUnknownColumn) {
		t.Errorf("Execute(unknown column) error = %v, want %v", err, errors.ErrCodeUnknownColumn)
	}
}

func TestExecuteHooks(t *testing.T) {
	rec := &recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	c, _ := cache.NewFileCache(t.TempDir())
	runner := NewRunner(c, nil, nil)
	ds := runs(t)
	if _, err := runner.Execute(context.Background(), ds, options()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := runner.Execute(context.Background(), ds, options()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := map[string]int{"facet": 2, "render": 1, "miss": 1, "set": 1, "hit": 1}
	for event, n := range want {
		if rec.count(event) != n {
			t.Errorf("%s events = %d, want %d", event, rec.count(event), n)
		}
	}
	if rec.cells != 4 {
		t.Errorf("cells = %d, want 4", rec.cells)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.csv")
	if err := os.WriteFile(path, []byte("metric,step,value\nloss,1,0.5\nloss,2,0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, nil, nil)
	ds, err := runner.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ds.Len())
	}
	if _, err := runner.Load(context.Background(), filepath.Join(dir, "missing.csv")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadCachesParsedDataset(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.csv")
	raw := []byte("metric,step,value\nloss,1,0.5\nloss,2,0.3\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)
	if _, err := runner.Load(ctx, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	key := runner.Keyer.DatasetKey(cache.Hash(append(raw, ".csv"...)))
	if _, hit, _ := c.Get(ctx, key); !hit {
		t.Fatalf("Load() did not cache the dataset under %s", key)
	}

	// A second load of the same bytes is served from the cache entry.
	marker := dataset.MustNew("metric", "step", "value")
	_ = marker.Append("cached", "1", "1")
	data, _ := json.Marshal(marker)
	if err := c.Set(ctx, key, data, time.Hour); err != nil {
		t.Fatal(err)
	}
	ds, err := runner.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 1 || ds.Value(0, "metric") != "cached" {
		t.Errorf("Load() = %d rows, want the cached dataset", ds.Len())
	}

	// Changed content gets a new key and is parsed again.
	if err := os.WriteFile(path, append(raw, "acc,1,0.9\n"...), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err = runner.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load(changed) error = %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("Load(changed) = %d rows, want 3", ds.Len())
	}
}

type recorder struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events map[string]int
	cells  int
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = make(map[string]int)
	}
	r.events[event]++
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[event]
}

func (r *recorder) OnFacetComplete(_ context.Context, _ int, cells int, _ time.Duration, _ error) {
	r.add("facet")
	r.mu.Lock()
	r.cells += cells
	r.mu.Unlock()
}

func (r *recorder) OnRenderComplete(context.Context, []string, time.Duration, error) {
	r.add("render")
}

func (r *recorder) OnCacheHit(context.Context, string)      { r.add("hit") }
func (r *recorder) OnCacheMiss(context.Context, string)     { r.add("miss") }
func (r *recorder) OnCacheSet(context.Context, string, int) { r.add("set") }
