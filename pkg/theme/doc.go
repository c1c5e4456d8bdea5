// Package theme supplies the style pools and figure-wide style values used
// when drawing a faceted figure.
//
// A [Theme] is produced by [Resolve] from an ordered stack of [Layer]
// values on top of [Base]. Each field takes its value from the last layer
// that sets it, so precedence is visible in one place:
//
//	preset, _ := theme.Preset("dark")
//	t := theme.Resolve(preset, theme.Layer{FontSize: vg.Points(12)})
//
// The three cyclic pools (colors, markers, line styles) are consumed by
// position by the style coordinator and are never mutated.
package theme
