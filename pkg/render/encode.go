package render

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/legend"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// DefaultDPI is the PNG resolution.
const DefaultDPI = 96

// DefaultPadding is the space between cells and around the cell grid.
const DefaultPadding = vg.Length(6)

// Formats returns the supported output formats.
func Formats() []string { return []string{FormatSVG, FormatPNG, FormatPDF} }

// ValidateFormat fails with INVALID_FORMAT for unsupported formats.
func ValidateFormat(format string) error {
	return errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "output format", format, Formats())
}

// EncodeOption configures Figure.Encode.
type EncodeOption func(*encoder)

type encoder struct {
	dpi     int
	padding vg.Length
}

// WithDPI sets the PNG resolution. Vector formats ignore it.
func WithDPI(dpi int) EncodeOption { return func(e *encoder) { e.dpi = dpi } }

// WithPadding sets the space between cells and around the grid. Values
// that are not positive keep DefaultPadding.
func WithPadding(p vg.Length) EncodeOption {
	return func(e *encoder) {
		if p > 0 {
			e.padding = p
		}
	}
}

// Encode draws the figure with the legends of plan and writes it to w.
func (f *Figure) Encode(w io.Writer, format string, plan legend.Plan, opts ...EncodeOption) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	e := encoder{dpi: DefaultDPI, padding: DefaultPadding}
	for _, opt := range opts {
		opt(&e)
	}

	cw, err := e.canvas(format, f.cfg.Width, f.cfg.Height)
	if err != nil {
		return err
	}
	f.Draw(draw.New(cw), plan, e.padding)
	if _, err := cw.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", format)
	}
	return nil
}

func (e encoder) canvas(format string, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch format {
	case FormatSVG:
		return vgsvg.New(w, h), nil
	case FormatPDF:
		return vgpdf.New(w, h), nil
	case FormatPNG:
		if e.dpi <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", e.dpi)
		}
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(e.dpi))}, nil
	}
	return nil, ValidateFormat(format)
}

// Draw draws the whole figure onto dc: background, title, the aligned cell
// grid inside the margins of plan, and the legends of plan.
func (f *Figure) Draw(dc draw.Canvas, plan legend.Plan, padding vg.Length) {
	th := f.cfg.Theme
	dc.SetColor(th.Background)
	dc.Fill(dc.Rectangle.Path())

	size := dc.Size()
	if f.cfg.Title != "" {
		sty := textStyle(plot.New().Title.TextStyle, th.Foreground, th.FontSize*1.4)
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - padding}, f.cfg.Title)
	}

	m := plan.Placement.Margins
	grid := draw.Crop(dc,
		vg.Length(m.Left)*size.X+padding,
		-vg.Length(m.Right)*size.X-padding,
		vg.Length(m.Bottom)*size.Y+padding,
		-vg.Length(m.Top)*size.Y-padding,
	)

	f.applyLimits()
	restore := f.attachCellLegends(plan)
	defer restore()

	tiles := draw.Tiles{Rows: f.rows, Cols: f.cols, PadX: padding, PadY: padding}
	canvases := plot.Align(f.plots, tiles, grid)
	for r, row := range f.plots {
		for c, p := range row {
			if p != nil {
				p.Draw(canvases[r][c])
			}
		}
	}

	for i, l := range plan.Legends {
		if l.Cell != nil || i >= len(plan.Placement.Anchors) {
			continue
		}
		a := plan.Placement.Anchors[i]
		center := vg.Point{
			X: dc.Min.X + vg.Length(a.X)*size.X,
			Y: dc.Min.Y + vg.Length(a.Y)*size.Y,
		}
		f.drawLegend(dc, l, center)
	}
}

// attachCellLegends fills the built-in legend of every cell that has a
// per-cell legend. The returned func restores the empty legends so the
// figure can be drawn again.
func (f *Figure) attachCellLegends(plan legend.Plan) func() {
	var touched []*plot.Plot
	for _, l := range plan.Legends {
		if l.Cell == nil {
			continue
		}
		p := f.Cell(*l.Cell)
		if p == nil {
			continue
		}
		for _, e := range l.Entries {
			p.Legend.Add(e.Label, e.Artist)
		}
		touched = append(touched, p)
	}
	return func() {
		for _, p := range touched {
			sty := p.Legend.TextStyle
			p.Legend = plot.NewLegend()
			p.Legend.TextStyle = sty
			p.Legend.Top = true
		}
	}
}

// drawLegend draws l as Columns side-by-side columns centered on center,
// with its title above.
func (f *Figure) drawLegend(dc draw.Canvas, l legend.Legend, center vg.Point) {
	th := f.cfg.Theme
	sty := textStyle(plot.NewLegend().TextStyle, th.Foreground, th.FontSize*0.9)

	cols := columns(l, sty)
	if len(cols) == 0 {
		return
	}
	gap := sty.Rectangle("MM").Max.X

	widths := make([]vg.Length, len(cols))
	var total, height vg.Length
	for i := range cols {
		sz := cols[i].Rectangle(dc).Size()
		widths[i] = sz.X
		total += sz.X
		height = max(height, sz.Y)
	}
	total += gap * vg.Length(len(cols)-1)

	top := center.Y + height/2
	if l.Title != "" {
		ts := sty
		ts.XAlign = draw.XCenter
		ts.YAlign = draw.YBottom
		dc.FillText(ts, vg.Point{X: center.X, Y: top}, l.Title)
	}

	x := center.X - total/2
	for i := range cols {
		c := draw.Canvas{
			Canvas: dc.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: x, Y: top - height},
				Max: vg.Point{X: x + widths[i], Y: top},
			},
		}
		cols[i].Draw(c)
		x += widths[i] + gap
	}
}

// columns splits the entries of l into legends of at most Lines entries,
// filled row by row.
func columns(l legend.Legend, sty text.Style) []plot.Legend {
	n := min(max(l.Columns, 1), len(l.Entries))
	out := make([]plot.Legend, n)
	for i := range out {
		out[i] = plot.NewLegend()
		out[i].TextStyle = sty
		out[i].Top = true
		out[i].Left = true
	}
	for i, e := range l.Entries {
		out[i%n].Add(e.Label, e.Artist)
	}
	return out
}
