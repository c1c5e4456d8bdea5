// Package pipeline provides the load → facet → render pipeline for facetgrid.
//
// The CLI and any other entry point run figures through a [Runner], so
// defaults, caching and observability hooks behave the same everywhere.
//
// # Stages
//
//  1. Load: read a dataset file (CSV, TSV, XLSX or JSON)
//  2. Facet: plot every layer into one session, sharing styles and legends
//  3. Render: finalize legends and encode each requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	ds, err := runner.Load(ctx, "runs.csv")
//	result, err := runner.Execute(ctx, ds, pipeline.Options{
//	    Request: facet.Request{RowsBy: "metric", ColsBy: "dataset", SeriesBy: "model", X: "step", Y: "value"},
//	    Layers:  []session.Layer{{Kind: render.Line}},
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Rendered artifacts are cached under a key derived from the dataset
// content hash and [Options.Spec]; a run whose every format is cached
// skips the facet and render stages entirely.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetgrid/pkg/cache"
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/legend"
	"github.com/matzehuels/facetgrid/pkg/render"
	"github.com/matzehuels/facetgrid/pkg/session"
	"github.com/matzehuels/facetgrid/pkg/theme"
)

// =============================================================================
// Default Values - Single Source of Truth for every entry point
// =============================================================================

const (
	// DefaultWidth is the default figure width in points.
	DefaultWidth = 576.0

	// DefaultHeight is the default figure height in points.
	DefaultHeight = 432.0

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = render.FormatSVG
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one figure.
type Options struct {
	// Facet options
	Request facet.Request   `json:"request"`
	Layers  []session.Layer `json:"layers,omitempty"` // empty draws one scatter layer

	// Figure options
	Title  string          `json:"title,omitempty"`
	Width  float64         `json:"width,omitempty"`  // points
	Height float64         `json:"height,omitempty"` // points
	Theme  theme.Overrides `json:"theme"`
	Legend legend.Config   `json:"legend"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	DPI     int      `json:"dpi,omitempty"`
	Padding float64  `json:"padding,omitempty"` // points between cells; zero selects render.DefaultPadding
	Refresh bool     `json:"refresh,omitempty"` // ignore cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	theme     theme.Theme
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DatasetHash is the content hash of the input dataset.
	DatasetHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Reports has one entry per layer. It is empty on a cache hit.
	Reports []*session.Report

	// Plan is the finalized legend plan. It is zero on a cache hit.
	Plan legend.Plan

	// Stats contains timing information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	FacetTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Request.Validate(); err != nil {
		return err
	}
	if len(o.Layers) == 0 {
		o.Layers = []session.Layer{{Kind: render.Scatter}}
	}
	for _, l := range o.Layers {
		if _, err := render.Lookup(l.Kind); err != nil {
			return err
		}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = render.DefaultDPI
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative, got %v", o.Padding)
	}
	if o.Padding == 0 {
		o.Padding = float64(render.DefaultPadding)
	}
	if _, err := legend.ParseStrategy(string(o.Legend.Strategy)); err != nil {
		return err
	}
	o.Legend = o.Legend.WithDefaults()
	layers, err := o.Theme.Layers()
	if err != nil {
		return err
	}
	o.theme = theme.Resolve(layers...)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SessionConfig returns the session configuration. It must be called after
// ValidateAndSetDefaults.
func (o *Options) SessionConfig() session.Config {
	return session.Config{
		Title:  o.Title,
		Width:  o.Width,
		Height: o.Height,
		Theme:  o.theme,
		Legend: o.Legend,
	}
}

// Spec returns the part of the options that determines the rendered
// figure, for cache keys.
func (o *Options) Spec() any {
	return struct {
		Request facet.Request   `json:"request"`
		Layers  []session.Layer `json:"layers"`
		Title   string          `json:"title"`
		Width   float64         `json:"width"`
		Height  float64         `json:"height"`
		Theme   theme.Overrides `json:"theme"`
		Legend  legend.Config   `json:"legend"`
		Padding float64         `json:"padding"`
	}{o.Request, o.Layers, o.Title, o.Width, o.Height, o.Theme, o.Legend, o.Padding}
}

// FigureKeyOpts returns cache key options for one artifact.
func (o *Options) FigureKeyOpts(format string) cache.FigureKeyOpts {
	opts := cache.FigureKeyOpts{Format: format, Spec: o.Spec()}
	if format == render.FormatPNG {
		opts.DPI = o.DPI
	}
	return opts
}
