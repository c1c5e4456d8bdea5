package theme

import (
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Overrides is the textual form of a theme layer, as found in config files
// and command-line flags.
type Overrides struct {
	Preset      string      `json:"preset,omitempty" toml:"preset" yaml:"preset"`
	Colors      []string    `json:"colors,omitempty" toml:"colors" yaml:"colors"`
	Markers     []string    `json:"markers,omitempty" toml:"markers" yaml:"markers"`
	LineStyles  [][]float64 `json:"line_styles,omitempty" toml:"line_styles" yaml:"line_styles"`
	Background  string      `json:"background,omitempty" toml:"background" yaml:"background"`
	Foreground  string      `json:"foreground,omitempty" toml:"foreground" yaml:"foreground"`
	FontSize    float64     `json:"font_size,omitempty" toml:"font_size" yaml:"font_size"`
	LineWidth   float64     `json:"line_width,omitempty" toml:"line_width" yaml:"line_width"`
	GlyphRadius float64     `json:"glyph_radius,omitempty" toml:"glyph_radius" yaml:"glyph_radius"`
}

// Layers converts the overrides into the preset layer followed by an
// explicit layer, ready for Resolve.
func (o Overrides) Layers() ([]Layer, error) {
	preset, err := Preset(o.Preset)
	if err != nil {
		return nil, err
	}
	l := Layer{
		FontSize:    vg.Points(o.FontSize),
		LineWidth:   vg.Points(o.LineWidth),
		GlyphRadius: vg.Points(o.GlyphRadius),
	}
	if l.Colors, err = ParseColors(o.Colors...); err != nil {
		return nil, err
	}
	if l.Markers, err = ParseMarkers(o.Markers...); err != nil {
		return nil, err
	}
	for _, d := range o.LineStyles {
		dashes := make([]vg.Length, len(d))
		for i, v := range d {
			if v < 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "line style %v has a negative dash length", d)
			}
			dashes[i] = vg.Points(v)
		}
		l.LineStyles = append(l.LineStyles, dashes)
	}
	if o.Background != "" {
		if l.Background, err = ParseColor(o.Background); err != nil {
			return nil, err
		}
	}
	if o.Foreground != "" {
		if l.Foreground, err = ParseColor(o.Foreground); err != nil {
			return nil, err
		}
	}
	return []Layer{preset, l}, nil
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid color %q (want #rrggbb)", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q (want #rrggbb)", s)
	}
	return c, nil
}

// ParseColors parses a list of hex colors.
func ParseColors(hex ...string) ([]color.Color, error) {
	if len(hex) == 0 {
		return nil, nil
	}
	out := make([]color.Color, len(hex))
	for i, s := range hex {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

var markers = map[string]draw.GlyphDrawer{
	"circle":   draw.CircleGlyph{},
	"ring":     draw.RingGlyph{},
	"square":   draw.SquareGlyph{},
	"box":      draw.BoxGlyph{},
	"triangle": draw.TriangleGlyph{},
	"pyramid":  draw.PyramidGlyph{},
	"plus":     draw.PlusGlyph{},
	"cross":    draw.CrossGlyph{},
}

// MarkerNames returns the accepted marker names.
func MarkerNames() []string {
	names := make([]string, 0, len(markers))
	for n := range markers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseMarkers maps marker names to glyph drawers.
func ParseMarkers(names ...string) ([]draw.GlyphDrawer, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]draw.GlyphDrawer, len(names))
	for i, n := range names {
		g, ok := markers[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unknown marker %q (available: %s)", n, errors.List(MarkerNames()))
		}
		out[i] = g
	}
	return out, nil
}
