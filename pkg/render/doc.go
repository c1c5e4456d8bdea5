// Package render draws faceted figures with gonum/plot.
//
// # Overview
//
// A [Figure] is a rows×cols grid of cell plots. Drawing calls go through
// [Draw], which dispatches on the plot [Kind] to a [CellRenderer] from a
// static table:
//
//   - [Scatter]: one glyph per row
//   - [Line]: points joined in x order, optionally with glyphs
//   - [Bar]: grouped bars over shared x categories
//
// Every renderer returns the artist that represents the series in a legend,
// or nil when the cell had nothing to draw.
//
// # Output
//
// [Figure.Encode] lays the cells out with plot.Align inside the margins
// reserved by a legend plan, draws the legends, and writes SVG, PNG or PDF
// through the matching gonum canvas:
//
//	f, _ := render.NewFigure(2, 3, render.Config{Title: "Benchmarks"})
//	thumb, _ := render.Draw(f.Cell(pos), call)
//	err := f.Encode(w, render.FormatPNG, plan, render.WithDPI(150))
//
// Blank cells are skipped. Axis limits set with [Figure.SetLimits] are
// applied at draw time and win over the data range.
package render
