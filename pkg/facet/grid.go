package facet

import (
	"github.com/matzehuels/facetgrid/pkg/errors"
)

// LayoutKind describes how dimension values map onto grid cells.
type LayoutKind string

// Layout kinds.
const (
	// LayoutExplicit maps row values to grid rows and col values to grid
	// columns. A request with a single dimension and no wrap yields an
	// explicit N×1 or 1×N grid.
	LayoutExplicit LayoutKind = "explicit"
	// LayoutWrappedRows tiles the row dimension across Wrap columns.
	LayoutWrappedRows LayoutKind = "wrapped_rows"
	// LayoutWrappedCols tiles the col dimension down Wrap rows.
	LayoutWrappedCols LayoutKind = "wrapped_cols"
)

// Layout is a computed grid shape. It is immutable once returned by
// ComputeGrid.
type Layout struct {
	Rows int
	Cols int

	// RowsBy and ColsBy name the dimension columns; "" when inactive.
	RowsBy string
	ColsBy string

	// RowValues and ColValues are the dimension values. For wrapped
	// layouts only the wrapped dimension's values are set and they are
	// laid out along FillOrder.
	RowValues []string
	ColValues []string

	Kind LayoutKind

	// FillOrder lists the cells that hold a dimension value, in value
	// order. For explicit layouts it covers the full rectangle row-major.
	FillOrder []Pos
}

// ComputeGrid derives the grid shape from the request and its analyzed
// dimensions.
//
//	explicit      rows × cols, row-major fill
//	wrapped_rows  K columns, ceil(N/K) rows, value i at (i/K, i%K)
//	wrapped_cols  K rows, ceil(N/K) columns, value i at (i%K, i/K)
//
// Any other combination of rows_by, cols_by and wrap is rejected with
// INVALID_GRID_CONFIGURATION.
func ComputeGrid(req Request, dims Dimensions) (Layout, error) {
	rows, cols := dims.Rows != nil, dims.Cols != nil
	if rows != (req.RowsBy != "") || cols != (req.ColsBy != "") {
		return Layout{}, errors.New(errors.ErrCodeInvalidGridConfig,
			"dimensions do not match request (rows_by=%q, cols_by=%q)", req.RowsBy, req.ColsBy)
	}
	for _, d := range []*Dimension{dims.Rows, dims.Cols} {
		if d != nil && d.Len() == 0 {
			return Layout{}, errors.New(errors.ErrCodeInvalidGridConfig,
				"dimension %q has no values", d.Name)
		}
	}

	switch {
	case !req.Wrapped() && (rows || cols):
		return explicitLayout(dims), nil
	case req.Wrapped() && rows && !cols:
		return wrappedLayout(LayoutWrappedRows, dims.Rows, req.Wrap), nil
	case req.Wrapped() && cols && !rows:
		return wrappedLayout(LayoutWrappedCols, dims.Cols, req.Wrap), nil
	}
	return Layout{}, errors.New(errors.ErrCodeInvalidGridConfig,
		"unsupported grid configuration: rows_by=%q cols_by=%q wrap=%d", req.RowsBy, req.ColsBy, req.Wrap)
}

func explicitLayout(dims Dimensions) Layout {
	l := Layout{Rows: 1, Cols: 1, Kind: LayoutExplicit}
	if dims.Rows != nil {
		l.Rows = dims.Rows.Len()
		l.RowsBy = dims.Rows.Name
		l.RowValues = dims.Rows.Values
	}
	if dims.Cols != nil {
		l.Cols = dims.Cols.Len()
		l.ColsBy = dims.Cols.Name
		l.ColValues = dims.Cols.Values
	}
	l.FillOrder = make([]Pos, 0, l.Rows*l.Cols)
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			l.FillOrder = append(l.FillOrder, Pos{Row: r, Col: c})
		}
	}
	return l
}

func wrappedLayout(kind LayoutKind, dim *Dimension, k int) Layout {
	n := dim.Len()
	lines := (n + k - 1) / k
	l := Layout{Kind: kind, FillOrder: make([]Pos, n)}
	switch kind {
	case LayoutWrappedRows:
		l.Rows, l.Cols = lines, k
		l.RowsBy, l.RowValues = dim.Name, dim.Values
		for i := 0; i < n; i++ {
			l.FillOrder[i] = Pos{Row: i / k, Col: i % k}
		}
	case LayoutWrappedCols:
		l.Rows, l.Cols = k, lines
		l.ColsBy, l.ColValues = dim.Name, dim.Values
		for i := 0; i < n; i++ {
			l.FillOrder[i] = Pos{Row: i % k, Col: i / k}
		}
	}
	return l
}

// Wrapped reports whether the layout is one of the wrapped kinds.
func (l Layout) Wrapped() bool {
	return l.Kind == LayoutWrappedRows || l.Kind == LayoutWrappedCols
}

// Cells returns Rows*Cols.
func (l Layout) Cells() int {
	return l.Rows * l.Cols
}

// Contains reports whether p lies inside the grid rectangle.
func (l Layout) Contains(p Pos) bool {
	return p.Row >= 0 && p.Row < l.Rows && p.Col >= 0 && p.Col < l.Cols
}

// Filled reports whether p holds a dimension value. Every cell of an
// explicit layout is filled; wrapped layouts may leave trailing cells blank.
func (l Layout) Filled(p Pos) bool {
	if !l.Contains(p) {
		return false
	}
	if !l.Wrapped() {
		return true
	}
	return l.index(p) < len(l.FillOrder)
}

// Values returns the row and column dimension values that own cell p.
// Inactive dimensions yield "". ok is false for cells outside the grid or
// blank wrapped cells.
func (l Layout) Values(p Pos) (row, col string, ok bool) {
	if !l.Filled(p) {
		return "", "", false
	}
	switch l.Kind {
	case LayoutWrappedRows:
		return l.RowValues[l.index(p)], "", true
	case LayoutWrappedCols:
		return "", l.ColValues[l.index(p)], true
	}
	if l.RowValues != nil {
		row = l.RowValues[p.Row]
	}
	if l.ColValues != nil {
		col = l.ColValues[p.Col]
	}
	return row, col, true
}

// index returns the fill order index of p for wrapped layouts.
func (l Layout) index(p Pos) int {
	if l.Kind == LayoutWrappedCols {
		return p.Col*l.Rows + p.Row
	}
	return p.Row*l.Cols + p.Col
}

// CheckShape returns GRID_SHAPE_MISMATCH if the layout does not match an
// existing rows × cols grid of drawing surfaces.
func (l Layout) CheckShape(rows, cols int) error {
	if l.Rows == rows && l.Cols == cols {
		return nil
	}
	return errors.New(errors.ErrCodeGridShapeMismatch,
		"computed grid is %dx%d but the figure already has %dx%d cells", l.Rows, l.Cols, rows, cols)
}

// ValidateOverrides checks that the request's per-cell label and limit
// matrices, when set, match the grid shape exactly.
func ValidateOverrides(req Request, l Layout) error {
	if req.Labels != nil {
		if err := checkMatrix("labels", matrixShape(req.Labels), l); err != nil {
			return err
		}
	}
	if req.Limits != nil {
		if err := checkMatrix("limits", matrixShape(req.Limits), l); err != nil {
			return err
		}
	}
	return nil
}

func matrixShape[T any](m [][]T) []int {
	widths := make([]int, len(m))
	for i, row := range m {
		widths[i] = len(row)
	}
	return widths
}

func checkMatrix(field string, widths []int, l Layout) error {
	if len(widths) != l.Rows {
		return errors.New(errors.ErrCodeGridShapeMismatch,
			"%s has %d rows, grid has %d (grid is %dx%d)", field, len(widths), l.Rows, l.Rows, l.Cols)
	}
	for r, w := range widths {
		if w != l.Cols {
			return errors.New(errors.ErrCodeGridShapeMismatch,
				"%s row %d has %d entries, grid has %d columns (grid is %dx%d)", field, r, w, l.Cols, l.Rows, l.Cols)
		}
	}
	return nil
}

// LabelsAt returns the label override for p, or the zero value.
func (r Request) LabelsAt(p Pos) CellLabels {
	if p.Row < len(r.Labels) && p.Col < len(r.Labels[p.Row]) {
		return r.Labels[p.Row][p.Col]
	}
	return CellLabels{}
}

// LimitsAt returns the axis limit override for p, or the zero value.
func (r Request) LimitsAt(p Pos) CellLimits {
	if p.Row < len(r.Limits) && p.Col < len(r.Limits[p.Row]) {
		return r.Limits[p.Row][p.Col]
	}
	return CellLimits{}
}
