package render

import (
	"cmp"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/style"
)

// Call is one drawing request: one series in one cell.
type Call struct {
	Pos  facet.Pos
	Data *dataset.Dataset
	Kind Kind
	X, Y string

	// Label names the series; "" when the layer has no series dimension.
	Label string
	Style style.Bundle

	Options Options
}

// Options tunes how a series is drawn.
type Options struct {
	LineWidth   vg.Length
	GlyphRadius vg.Length

	// Markers adds glyphs at each point of a line.
	Markers bool

	// Bar charts. Categories are the x values shared by every series of
	// the cell; each series is offset by its index among SeriesCount.
	BarWidth    vg.Length
	Categories  []string
	SeriesIndex int
	SeriesCount int
}

// Default drawing sizes used when Options leave them unset.
const (
	DefaultLineWidth   = vg.Length(1)
	DefaultGlyphRadius = vg.Length(2.5)
	DefaultBarWidth    = vg.Length(6)
)

// CellRenderer draws one series into a cell's plot. It returns the artist
// to use as legend thumbnail, or nil when nothing was drawn.
type CellRenderer interface {
	Draw(p *plot.Plot, call Call) (plot.Thumbnailer, error)
}

// renderers maps every Kind to its renderer.
var renderers = [numKinds]CellRenderer{
	Scatter: scatterRenderer{},
	Line:    lineRenderer{},
	Bar:     barRenderer{},
}

// Lookup returns the renderer for k.
func Lookup(k Kind) (CellRenderer, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownPlotKind,
			"invalid plot kind %d (must be one of: %s)", int(k), errors.List(KindNames()))
	}
	return renderers[k], nil
}

// Draw draws call into p with the renderer registered for call.Kind.
func Draw(p *plot.Plot, call Call) (plot.Thumbnailer, error) {
	r, err := Lookup(call.Kind)
	if err != nil {
		return nil, err
	}
	return r.Draw(p, call)
}

// points reads the x and y columns of d as points sorted by x.
func points(d *dataset.Dataset, x, y string) (plotter.XYs, error) {
	xs, err := d.Floats(x)
	if err != nil {
		return nil, err
	}
	ys, err := d.Floats(y)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	slices.SortStableFunc(pts, func(a, b plotter.XY) int { return cmp.Compare(a.X, b.X) })
	return pts, nil
}

func glyphStyle(call Call) draw.GlyphStyle {
	r := call.Options.GlyphRadius
	if r <= 0 {
		r = DefaultGlyphRadius
	}
	shape := call.Style.Marker
	if shape == nil {
		shape = draw.CircleGlyph{}
	}
	return draw.GlyphStyle{Color: call.Style.Color, Radius: r, Shape: shape}
}

func lineStyle(call Call) draw.LineStyle {
	w := call.Options.LineWidth
	if w <= 0 {
		w = DefaultLineWidth
	}
	return draw.LineStyle{Color: call.Style.Color, Width: w, Dashes: call.Style.Dashes}
}

type scatterRenderer struct{}

func (scatterRenderer) Draw(p *plot.Plot, call Call) (plot.Thumbnailer, error) {
	if call.Data.Len() == 0 {
		return nil, nil
	}
	pts, err := points(call.Data, call.X, call.Y)
	if err != nil {
		return nil, err
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %v: scatter %q", call.Pos, call.Label)
	}
	s.GlyphStyle = glyphStyle(call)
	p.Add(s)
	return s, nil
}

type lineRenderer struct{}

func (lineRenderer) Draw(p *plot.Plot, call Call) (plot.Thumbnailer, error) {
	if call.Data.Len() == 0 {
		return nil, nil
	}
	pts, err := points(call.Data, call.X, call.Y)
	if err != nil {
		return nil, err
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %v: line %q", call.Pos, call.Label)
	}
	l.LineStyle = lineStyle(call)
	p.Add(l)
	if !call.Options.Markers {
		return l, nil
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %v: line markers %q", call.Pos, call.Label)
	}
	s.GlyphStyle = glyphStyle(call)
	p.Add(s)
	return thumbnails{l, s}, nil
}

type barRenderer struct{}

func (barRenderer) Draw(p *plot.Plot, call Call) (plot.Thumbnailer, error) {
	if call.Data.Len() == 0 {
		return nil, nil
	}
	categories := call.Options.Categories
	if len(categories) == 0 {
		categories = facet.SortValues(call.Data.Distinct(call.X))
	}
	xs, _ := call.Data.Column(call.X)
	ys, err := call.Data.Floats(call.Y)
	if err != nil {
		return nil, err
	}
	heights := make(plotter.Values, len(categories))
	for i, x := range xs {
		j := slices.Index(categories, x)
		if j < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"cell %v: bar category %q not in %s", call.Pos, x, errors.List(categories))
		}
		heights[j] += ys[i]
	}

	width := call.Options.BarWidth
	if width <= 0 {
		width = DefaultBarWidth
	}
	b, err := plotter.NewBarChart(heights, width)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %v: bar %q", call.Pos, call.Label)
	}
	b.Color = call.Style.Color
	b.LineStyle.Width = 0
	if n := call.Options.SeriesCount; n > 1 {
		b.Offset = width * vg.Length(float64(call.Options.SeriesIndex)-float64(n-1)/2)
	}
	p.Add(b)
	p.NominalX(categories...)
	return b, nil
}

// thumbnails draws several thumbnails on top of each other.
type thumbnails []plot.Thumbnailer

func (ts thumbnails) Thumbnail(c *draw.Canvas) {
	for _, t := range ts {
		t.Thumbnail(c)
	}
}
