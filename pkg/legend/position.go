package legend

// Width thresholds, in points, that select how many legends share one
// horizontal band.
const (
	NarrowWidth = 480
	MediumWidth = 960
)

// Default layout values, as fractions of the figure size.
const (
	DefaultPad         = 0.08
	TitleMargin        = 0.06
	CellTitleMargin    = 0.03
	defaultLegendLines = 1
)

// Point is a position in figure-fraction coordinates: (0,0) is the
// bottom-left corner and (1,1) the top-right corner.
type Point struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Margins is the space reserved around the cell grid, as fractions of the
// figure size.
type Margins struct {
	Left   float64 `json:"left" toml:"left" yaml:"left"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
}

// Figure describes the figure a legend layout is computed for.
type Figure struct {
	Width, Height float64 // points

	// Title and CellTitles report whether the figure already draws a
	// figure title or per-cell titles above the grid.
	Title      bool
	CellTitles bool

	// LegendLines is the number of entry rows of the tallest legend.
	// Zero means one.
	LegendLines int
}

// Result is the output of LayoutFor: one anchor per legend and the margin
// rectangle the grid must leave free.
type Result struct {
	// Anchors are the center points of each legend.
	Anchors []Point
	Margins Margins
	// Bands is the number of horizontal legend bands below the grid.
	Bands int
}

// PerBand returns how many legends fit side by side in one band for a
// figure of the given width.
func PerBand(width float64) int {
	switch {
	case width < NarrowWidth:
		return 1
	case width < MediumWidth:
		return 2
	default:
		return 4
	}
}

// LayoutFor computes legend anchors and reserved margins for n legends.
//
// A single legend is centered below the grid at (0.5, pad/2) with a bottom
// margin of pad. Several legends are spread evenly across bands whose
// capacity depends on the figure width; each band adds pad to the bottom
// margin. Figure and cell titles widen the top margin. Per-cell legends
// live inside their cells and reserve nothing.
//
// Config.Anchor moves the first anchor and shifts the others by the same
// offset; Config.Margin replaces the computed margins.
func LayoutFor(fig Figure, n int, strategy Strategy, cfg Config) Result {
	var res Result
	if fig.Title {
		res.Margins.Top += TitleMargin
	}
	if fig.CellTitles {
		res.Margins.Top += CellTitleMargin
	}

	if n > 0 && strategy != PerCell && strategy != None {
		pad := cfg.Pad
		if pad <= 0 {
			pad = DefaultPad
		}
		lines := fig.LegendLines
		if lines <= 0 {
			lines = defaultLegendLines
		}
		band := pad * float64(lines)

		per := PerBand(fig.Width)
		if n == 1 {
			per = 1
		}
		res.Bands = (n + per - 1) / per
		res.Margins.Bottom = band * float64(res.Bands)
		res.Anchors = make([]Point, 0, n)
		for b := 0; b < res.Bands; b++ {
			count := min(per, n-b*per)
			// Band 0 sits directly below the grid.
			y := band*float64(res.Bands-b) - band/2
			for i := 0; i < count; i++ {
				res.Anchors = append(res.Anchors, Point{
					X: float64(i+1) / float64(count+1),
					Y: y,
				})
			}
		}
		if cfg.Anchor != nil {
			dx := cfg.Anchor.X - res.Anchors[0].X
			dy := cfg.Anchor.Y - res.Anchors[0].Y
			for i := range res.Anchors {
				res.Anchors[i].X += dx
				res.Anchors[i].Y += dy
			}
		}
	}

	if cfg.Margin != nil {
		res.Margins = *cfg.Margin
	}
	return res
}
