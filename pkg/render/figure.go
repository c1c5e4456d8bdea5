package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/legend"
	"github.com/matzehuels/facetgrid/pkg/theme"
)

// Default figure size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Config describes the figure surrounding the cell grid.
type Config struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	Theme  theme.Theme
}

// Figure is a grid of cell plots. Blank cells have no plot and are left
// empty when the figure is drawn.
type Figure struct {
	rows, cols int
	cfg        Config
	plots      [][]*plot.Plot
	limits     map[facet.Pos]facet.CellLimits
	cellTitles bool
}

// NewFigure returns a figure of rows×cols cells, each with an empty plot
// styled by cfg.Theme.
func NewFigure(rows, cols int, cfg Config) (*Figure, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGridConfig, "figure grid %dx%d must be at least 1x1", rows, cols)
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Theme.Foreground == nil {
		cfg.Theme = theme.Default()
	}

	f := &Figure{
		rows:   rows,
		cols:   cols,
		cfg:    cfg,
		plots:  make([][]*plot.Plot, rows),
		limits: make(map[facet.Pos]facet.CellLimits),
	}
	for r := range f.plots {
		f.plots[r] = make([]*plot.Plot, cols)
		for c := range f.plots[r] {
			f.plots[r][c] = newCellPlot(cfg.Theme)
		}
	}
	return f, nil
}

// Shape returns the grid dimensions.
func (f *Figure) Shape() (rows, cols int) { return f.rows, f.cols }

// Size returns the figure size.
func (f *Figure) Size() (w, h vg.Length) { return f.cfg.Width, f.cfg.Height }

// Cell returns the plot at p, or nil for blank and out-of-range cells.
func (f *Figure) Cell(p facet.Pos) *plot.Plot {
	if p.Row < 0 || p.Row >= f.rows || p.Col < 0 || p.Col >= f.cols {
		return nil
	}
	return f.plots[p.Row][p.Col]
}

// Blank removes the plot at p.
func (f *Figure) Blank(p facet.Pos) {
	if f.Cell(p) != nil {
		f.plots[p.Row][p.Col] = nil
	}
}

// SetLabels sets the title and axis labels of the cell at p. Empty values
// leave the current text.
func (f *Figure) SetLabels(p facet.Pos, l facet.CellLabels) {
	c := f.Cell(p)
	if c == nil {
		return
	}
	if l.Title != "" {
		c.Title.Text = l.Title
		f.cellTitles = true
	}
	if l.XLabel != "" {
		c.X.Label.Text = l.XLabel
	}
	if l.YLabel != "" {
		c.Y.Label.Text = l.YLabel
	}
}

// SetLimits records axis limits for the cell at p. They are applied when
// the figure is drawn, after all data has widened the axes.
func (f *Figure) SetLimits(p facet.Pos, l facet.CellLimits) {
	if f.Cell(p) == nil {
		return
	}
	cur := f.limits[p]
	if l.XMin != nil {
		cur.XMin = l.XMin
	}
	if l.XMax != nil {
		cur.XMax = l.XMax
	}
	if l.YMin != nil {
		cur.YMin = l.YMin
	}
	if l.YMax != nil {
		cur.YMax = l.YMax
	}
	f.limits[p] = cur
}

// Legend returns the figure description used to place legends.
func (f *Figure) Legend() legend.Figure {
	return legend.Figure{
		Width:      f.cfg.Width.Points(),
		Height:     f.cfg.Height.Points(),
		Title:      f.cfg.Title != "",
		CellTitles: f.cellTitles,
	}
}

func (f *Figure) applyLimits() {
	for p, l := range f.limits {
		c := f.Cell(p)
		if c == nil {
			continue
		}
		if l.XMin != nil {
			c.X.Min = *l.XMin
		}
		if l.XMax != nil {
			c.X.Max = *l.XMax
		}
		if l.YMin != nil {
			c.Y.Min = *l.YMin
		}
		if l.YMax != nil {
			c.Y.Max = *l.YMax
		}
	}
}

func newCellPlot(th theme.Theme) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = th.Background
	p.Title.TextStyle = textStyle(p.Title.TextStyle, th.Foreground, th.FontSize)
	p.Title.Padding = th.FontSize / 2
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = th.Foreground
		ax.Label.TextStyle = textStyle(ax.Label.TextStyle, th.Foreground, th.FontSize)
		ax.Tick.Label = textStyle(ax.Tick.Label, th.Foreground, th.FontSize*0.8)
		ax.Tick.Color = th.Foreground
	}
	p.Legend.TextStyle = textStyle(p.Legend.TextStyle, th.Foreground, th.FontSize*0.9)
	p.Legend.Top = true
	return p
}

func textStyle(sty text.Style, clr color.Color, size vg.Length) text.Style {
	sty.Color = clr
	sty.Font.Size = font.Length(size)
	return sty
}
