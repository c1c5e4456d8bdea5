// Package facet turns a declarative faceting request into a grid of data
// subsets.
//
// # Overview
//
// A [Request] names up to three dimension columns: RowsBy selects the grid
// row, ColsBy the grid column, and SeriesBy the series drawn inside each
// cell. Building a figure walks a fixed chain of pure steps:
//
//	req.Validate()                              // internal consistency
//	dims, _ := facet.Analyze(ds, req)           // dimension values in display order
//	layout, _ := facet.ComputeGrid(req, dims)   // grid shape and fill order
//	targets, _ := layout.Targets(req)           // cells to draw into
//	subsets, _ := facet.SubsetData(dims.Source, layout, req, targets, logger)
//
// None of the steps modify the dataset. Each returns a coded error from
// pkg/errors describing what was wrong together with the valid choices.
//
// # Value Order
//
// Dimension values without an explicit order are sorted by [CompareValues].
// Plain numbers compare numerically and tokens with a magnitude suffix
// compare by magnitude, so model sizes come out as 7B, 13B, 70B, 1T rather
// than 13B, 1T, 70B, 7B. Non-numeric values sort after numeric ones.
//
// # Layouts
//
// With both RowsBy and ColsBy set the grid is explicit: one grid row per row
// value and one grid column per col value. With a single dimension and a
// Wrap of K the values are tiled into K columns (RowsBy) or K rows
// (ColsBy), leaving trailing cells blank. [Layout.Values] maps a cell back
// to the dimension values that own it.
//
// # Empty Cells
//
// A targeted cell with no matching rows is kept as an empty [Subset]. The
// request's [EmptyCellPolicy] decides whether that fails the call, logs a
// warning or is ignored.
package facet
