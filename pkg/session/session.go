package session

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/legend"
	"github.com/matzehuels/facetgrid/pkg/render"
	"github.com/matzehuels/facetgrid/pkg/style"
	"github.com/matzehuels/facetgrid/pkg/theme"
)

// Config is the figure-level configuration of a session.
type Config struct {
	Title  string
	Width  float64 // points; zero selects render.DefaultWidth
	Height float64 // points; zero selects render.DefaultHeight
	Theme  theme.Theme
	Legend legend.Config
}

// Layer describes how one Plot call draws its series.
type Layer struct {
	Kind render.Kind

	// Channel limits which visual attribute varies across series. The
	// zero value varies all of them.
	Channel style.Channel

	Options render.Options
}

// Report summarizes one Plot call.
type Report struct {
	Layer      int
	Layout     facet.Layout
	Targets    []facet.Pos
	EmptyCells []facet.Pos
	Series     []string
	Missing    []facet.Combination

	// Entries is the number of legend entries the call registered.
	Entries int
}

// Session builds one faceted figure from one or more Plot calls. It owns
// exactly one style coordinator and one legend registry, so series styles
// stay consistent across cells and layers.
//
// A Session is not safe for concurrent use.
type Session struct {
	ID string

	cfg    Config
	logger *log.Logger
	styles *style.Coordinator
	reg    *legend.Registry
	fig    *render.Figure
	layers int

	plan      *legend.Plan
	finalized bool
}

// New returns an empty session. A nil logger discards output.
func New(cfg Config, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Theme.Foreground == nil {
		cfg.Theme = theme.Default()
	}
	cfg.Legend = cfg.Legend.WithDefaults()
	id := uuid.NewString()
	return &Session{
		ID:     id,
		cfg:    cfg,
		logger: logger.With("session", id[:8]),
		styles: style.NewCoordinator(cfg.Theme.Pools),
		reg:    legend.NewRegistry(!cfg.Legend.NoDedup),
	}
}

// Styles returns the session's style coordinator.
func (s *Session) Styles() *style.Coordinator { return s.styles }

// Registry returns the session's legend registry.
func (s *Session) Registry() *legend.Registry { return s.reg }

// Figure returns the figure, or nil before the first Plot call.
func (s *Session) Figure() *render.Figure { return s.fig }

// Finalized reports whether the legends have been finalized.
func (s *Session) Finalized() bool { return s.finalized }

// Plot facets ds by req and draws one layer into the figure. The first call
// fixes the grid; later calls must produce the same grid shape.
//
// Validation, targeting and subsetting complete before anything is drawn;
// a call that fails there leaves the figure untouched.
func (s *Session) Plot(ctx context.Context, ds *dataset.Dataset, req facet.Request, layer Layer) (*Report, error) {
	if s.finalized {
		return nil, errors.New(errors.ErrCodeSessionFinalized, "session %s is finalized; start a new session to plot again", s.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := render.Lookup(layer.Kind); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dims, err := facet.Analyze(ds, req)
	if err != nil {
		return nil, err
	}
	layout, err := facet.ComputeGrid(req, dims)
	if err != nil {
		return nil, err
	}
	if s.fig != nil {
		if err := layout.CheckShape(s.fig.Shape()); err != nil {
			return nil, err
		}
	}
	if err := facet.ValidateOverrides(req, layout); err != nil {
		return nil, err
	}
	targets, err := layout.Targets(req)
	if err != nil {
		return nil, err
	}
	subsets, err := facet.SubsetData(dims.Source, layout, req, targets, s.logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.fig == nil {
		if s.fig, err = s.newFigure(layout); err != nil {
			return nil, err
		}
	}

	var series []string
	if dims.Series != nil {
		series = dims.Series.Values
		s.styles.Register(req.SeriesBy, series...)
	}

	report := &Report{
		Layer:      s.layers,
		Layout:     layout,
		Targets:    targets,
		EmptyCells: subsets.EmptyCells(),
		Series:     series,
		Missing:    dims.Missing,
	}
	s.layers++

	opts := s.layerOptions(layer.Options)
	for _, sub := range subsets {
		s.applyOverrides(sub, req)
		n, err := s.drawCell(sub, req, layer, series, opts)
		if err != nil {
			return nil, err
		}
		report.Entries += n
	}

	s.logger.Debug("plotted layer",
		"layer", report.Layer, "kind", layer.Kind,
		"rows", layout.Rows, "cols", layout.Cols,
		"targets", len(targets), "series", len(series), "entries", report.Entries)
	return report, nil
}

func (s *Session) newFigure(layout facet.Layout) (*render.Figure, error) {
	fig, err := render.NewFigure(layout.Rows, layout.Cols, render.Config{
		Title:  s.cfg.Title,
		Width:  vg.Length(s.cfg.Width),
		Height: vg.Length(s.cfg.Height),
		Theme:  s.cfg.Theme,
	})
	if err != nil {
		return nil, err
	}
	for r := 0; r < layout.Rows; r++ {
		for c := 0; c < layout.Cols; c++ {
			if p := (facet.Pos{Row: r, Col: c}); !layout.Filled(p) {
				fig.Blank(p)
			}
		}
	}
	s.logger.Info("created figure", "rows", layout.Rows, "cols", layout.Cols, "layout", layout.Kind)
	return fig, nil
}

func (s *Session) applyOverrides(sub facet.Subset, req facet.Request) {
	labels := req.LabelsAt(sub.Pos)
	if labels.Title == "" {
		labels.Title = sub.Title()
	}
	if labels.XLabel == "" {
		labels.XLabel = req.X
	}
	if labels.YLabel == "" {
		labels.YLabel = req.Y
	}
	s.fig.SetLabels(sub.Pos, labels)
	s.fig.SetLimits(sub.Pos, req.LimitsAt(sub.Pos))
}

// drawCell draws every series of one cell and returns the number of legend
// entries it registered.
func (s *Session) drawCell(sub facet.Subset, req facet.Request, layer Layer, series []string, opts render.Options) (int, error) {
	p := s.fig.Cell(sub.Pos)
	if p == nil {
		return 0, nil
	}
	if layer.Kind == render.Bar {
		opts.Categories = facet.SortValues(sub.Data.Distinct(req.X))
	}

	neutral := s.styles.Neutral()
	if len(series) == 0 {
		call := render.Call{Pos: sub.Pos, Data: sub.Data, Kind: layer.Kind, X: req.X, Y: req.Y, Style: neutral, Options: opts}
		_, err := render.Draw(p, call)
		return 0, err
	}

	added := 0
	opts.SeriesCount = len(series)
	for i, v := range series {
		bundle := s.styles.StyleFor(req.SeriesBy, v).Restrict(layer.Channel, neutral)
		opts.SeriesIndex = i
		call := render.Call{
			Pos:     sub.Pos,
			Data:    sub.Data.Where(req.SeriesBy, v),
			Kind:    layer.Kind,
			X:       req.X,
			Y:       req.Y,
			Label:   v,
			Style:   bundle,
			Options: opts,
		}
		thumb, err := render.Draw(p, call)
		if err != nil {
			return added, err
		}
		if thumb == nil {
			continue
		}
		pos := sub.Pos
		if s.reg.Add(legend.Entry{
			Artist:       thumb,
			Label:        v,
			Channel:      channelTitle(layer.Channel, req.SeriesBy),
			ChannelValue: v,
			Cell:         &pos,
			Kind:         layer.Kind.String(),
		}) {
			added++
		}
	}
	return added, nil
}

func (s *Session) layerOptions(o render.Options) render.Options {
	if o.LineWidth <= 0 {
		o.LineWidth = s.cfg.Theme.LineWidth
	}
	if o.GlyphRadius <= 0 {
		o.GlyphRadius = s.cfg.Theme.GlyphRadius
	}
	return o
}

// channelTitle names the legend group of a series: the channel it varies,
// or the series dimension when every channel varies.
func channelTitle(ch style.Channel, seriesBy string) string {
	if ch == style.ChannelAll {
		return seriesBy
	}
	return string(ch)
}

// Finalize builds the legend plan and closes the session for plotting.
// Calling it again returns the same plan.
func (s *Session) Finalize() (legend.Plan, error) {
	if s.plan != nil {
		return *s.plan, nil
	}
	if s.fig == nil {
		return legend.Plan{}, errors.New(errors.ErrCodeInvalidInput, "session %s has no plotted layers", s.ID)
	}
	plan, err := legend.NewManager(s.reg, s.cfg.Legend).Finalize(s.cfg.Legend.Strategy, s.fig.Legend())
	if err != nil {
		return legend.Plan{}, err
	}
	s.plan = &plan
	s.finalized = true
	s.logger.Debug("finalized legends", "strategy", plan.Strategy, "legends", len(plan.Legends), "bands", plan.Placement.Bands)
	return plan, nil
}

// Encode finalizes the session if needed and writes the figure to w.
func (s *Session) Encode(w io.Writer, format string, opts ...render.EncodeOption) error {
	plan, err := s.Finalize()
	if err != nil {
		return err
	}
	return s.fig.Encode(w, format, plan, opts...)
}
