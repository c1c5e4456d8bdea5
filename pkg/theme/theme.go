package theme

import (
	"image/color"

	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Theme is a fully resolved set of style values for one figure.
type Theme struct {
	Name  string
	Pools Pools

	Background color.Color
	Foreground color.Color

	FontSize    vg.Length
	LineWidth   vg.Length
	GlyphRadius vg.Length
}

// Layer is a partial theme. Zero-valued fields leave the value from lower
// layers untouched.
type Layer struct {
	Name string

	Colors     []color.Color
	Markers    []draw.GlyphDrawer
	LineStyles [][]vg.Length

	Background color.Color
	Foreground color.Color

	FontSize    vg.Length
	LineWidth   vg.Length
	GlyphRadius vg.Length
}

// Base is the bottom layer every theme resolves on top of.
var Base = Layer{
	Name:        DefaultPreset,
	Colors:      plotutil.DefaultColors,
	Markers:     plotutil.DefaultGlyphShapes,
	LineStyles:  plotutil.DefaultDashes,
	Background:  color.White,
	Foreground:  color.Black,
	FontSize:    vg.Points(10),
	LineWidth:   vg.Points(1),
	GlyphRadius: vg.Points(2.5),
}

// Preset names.
const (
	DefaultPreset = "default"
	DarkPreset    = "dark"
	MonoPreset    = "mono"
)

var presets = map[string]Layer{
	DefaultPreset: {Name: DefaultPreset},
	DarkPreset:    {Name: DarkPreset, Colors: plotutil.DarkColors},
	MonoPreset: {
		Name:   MonoPreset,
		Colors: []color.Color{color.Black},
	},
}

// PresetNames returns the available preset names.
func PresetNames() []string {
	return []string{DefaultPreset, DarkPreset, MonoPreset}
}

// Preset returns the named preset layer.
func Preset(name string) (Layer, error) {
	if name == "" {
		name = DefaultPreset
	}
	l, ok := presets[name]
	if !ok {
		return Layer{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown theme %q (available: %s)", name, errors.List(PresetNames()))
	}
	return l, nil
}

// Resolve merges Base and the given layers in order. For every field the
// last layer that sets it wins; there is no other precedence rule.
// The returned theme never aliases the layers' slices.
func Resolve(layers ...Layer) Theme {
	var t Theme
	for _, l := range append([]Layer{Base}, layers...) {
		if l.Name != "" {
			t.Name = l.Name
		}
		if len(l.Colors) > 0 {
			t.Pools.Colors = l.Colors
		}
		if len(l.Markers) > 0 {
			t.Pools.Markers = l.Markers
		}
		if len(l.LineStyles) > 0 {
			t.Pools.LineStyles = l.LineStyles
		}
		if l.Background != nil {
			t.Background = l.Background
		}
		if l.Foreground != nil {
			t.Foreground = l.Foreground
		}
		if l.FontSize > 0 {
			t.FontSize = l.FontSize
		}
		if l.LineWidth > 0 {
			t.LineWidth = l.LineWidth
		}
		if l.GlyphRadius > 0 {
			t.GlyphRadius = l.GlyphRadius
		}
	}
	t.Pools = t.Pools.clone()
	return t
}

// Default returns the resolved default theme.
func Default() Theme {
	return Resolve()
}
