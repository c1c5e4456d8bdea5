package facet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// EmptyCellPolicy decides what happens when a targeted cell has no rows.
type EmptyCellPolicy string

// Empty cell policies.
const (
	EmptyCellsWarn   EmptyCellPolicy = "warn"   // log a one-line summary and continue
	EmptyCellsError  EmptyCellPolicy = "error"  // fail with EMPTY_CELL listing every empty cell
	EmptyCellsSilent EmptyCellPolicy = "silent" // continue without comment
)

// DefaultEmptyCellPolicy is used when a request leaves the policy unset.
const DefaultEmptyCellPolicy = EmptyCellsWarn

var emptyCellPolicies = []string{string(EmptyCellsWarn), string(EmptyCellsError), string(EmptyCellsSilent)}

// ParseEmptyCellPolicy converts a policy name into an EmptyCellPolicy.
// The empty string selects DefaultEmptyCellPolicy.
func ParseEmptyCellPolicy(s string) (EmptyCellPolicy, error) {
	if s == "" {
		return DefaultEmptyCellPolicy, nil
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidInput, "empty_cell_policy", s, emptyCellPolicies); err != nil {
		return "", err
	}
	return EmptyCellPolicy(s), nil
}

// Pos is a cell position in the grid.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the position as "(row,col)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// CellLabels overrides the labels of one cell. Empty fields keep the
// generated label.
type CellLabels struct {
	Title  string `json:"title,omitempty" toml:"title" yaml:"title"`
	XLabel string `json:"x_label,omitempty" toml:"x_label" yaml:"x_label"`
	YLabel string `json:"y_label,omitempty" toml:"y_label" yaml:"y_label"`
}

// CellLimits overrides the axis ranges of one cell. Nil fields keep the
// range computed from the data.
type CellLimits struct {
	XMin *float64 `json:"x_min,omitempty" toml:"x_min" yaml:"x_min"`
	XMax *float64 `json:"x_max,omitempty" toml:"x_max" yaml:"x_max"`
	YMin *float64 `json:"y_min,omitempty" toml:"y_min" yaml:"y_min"`
	YMax *float64 `json:"y_max,omitempty" toml:"y_max" yaml:"y_max"`
}

// Request is a declarative faceting intent: which columns drive the grid
// rows, grid columns and in-cell series, in what order, restricted to which
// cells. It is a plain value; call Validate before use.
type Request struct {
	// Grid dimensions. At least one of RowsBy and ColsBy must be set.
	RowsBy   string `json:"rows_by,omitempty"`
	ColsBy   string `json:"cols_by,omitempty"`
	SeriesBy string `json:"series_by,omitempty"`

	// Explicit value orders. Every listed value must exist in the data;
	// values not listed are left out of the grid.
	RowOrder    []string `json:"row_order,omitempty"`
	ColOrder    []string `json:"col_order,omitempty"`
	SeriesOrder []string `json:"series_order,omitempty"`

	// Wrap tiles the single active grid dimension into Wrap columns (when
	// RowsBy is set) or Wrap rows (when ColsBy is set). Zero disables wrapping.
	Wrap int `json:"wrap,omitempty"`

	// Axis columns.
	X string `json:"x"`
	Y string `json:"y"`

	// Targeting. TargetRow and TargetRows are mutually exclusive, as are
	// TargetCol and TargetCols. Unset axes cover the full range.
	TargetRow  *int  `json:"target_row,omitempty"`
	TargetCol  *int  `json:"target_col,omitempty"`
	TargetRows []int `json:"target_rows,omitempty"`
	TargetCols []int `json:"target_cols,omitempty"`

	// Row filters applied before dimension analysis.
	Fixed   map[string]string   `json:"fixed,omitempty"`
	Exclude map[string][]string `json:"exclude,omitempty"`

	// Per-cell overrides. When set, each matrix must match the grid shape exactly.
	Labels [][]CellLabels `json:"labels,omitempty"`
	Limits [][]CellLimits `json:"limits,omitempty"`

	EmptyCells EmptyCellPolicy `json:"empty_cells,omitempty"`
}

// Validate checks the request's internal consistency. It does not look at
// any data; column existence is checked by Analyze.
func (r Request) Validate() error {
	if r.X == "" || r.Y == "" {
		return errors.New(errors.ErrCodeMissingAxis,
			"both x and y columns are required (x=%q, y=%q)", r.X, r.Y)
	}
	return r.ValidateLayout()
}

// ValidateLayout runs the checks of Validate that concern the grid and
// skips the axis requirement. It is for callers that lay out cells
// without plotting them.
func (r Request) ValidateLayout() error {
	if r.RowsBy == "" && r.ColsBy == "" {
		return errors.New(errors.ErrCodeNoFacetDimension,
			"at least one of rows_by or cols_by must be set (series_by=%q)", r.SeriesBy)
	}
	if r.RowsBy != "" && r.ColsBy != "" && r.Wrap != 0 {
		return errors.New(errors.ErrCodeConflictingLayout,
			"wrap=%d cannot be combined with an explicit grid (rows_by=%q, cols_by=%q)", r.Wrap, r.RowsBy, r.ColsBy)
	}
	if r.Wrap < 0 {
		return errors.New(errors.ErrCodeInvalidGridConfig, "wrap must be positive, got %d", r.Wrap)
	}
	if r.TargetRow != nil && len(r.TargetRows) > 0 {
		return errors.New(errors.ErrCodeConflictingTarget,
			"target_row=%d and target_rows=%v are mutually exclusive", *r.TargetRow, r.TargetRows)
	}
	if r.TargetCol != nil && len(r.TargetCols) > 0 {
		return errors.New(errors.ErrCodeConflictingTarget,
			"target_col=%d and target_cols=%v are mutually exclusive", *r.TargetCol, r.TargetCols)
	}
	if _, err := ParseEmptyCellPolicy(string(r.EmptyCells)); err != nil {
		return err
	}

	for _, f := range r.columnFields() {
		if err := errors.ValidateColumnName(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Policy returns the effective empty cell policy.
func (r Request) Policy() EmptyCellPolicy {
	if r.EmptyCells == "" {
		return DefaultEmptyCellPolicy
	}
	return r.EmptyCells
}

// Wrapped reports whether the request asks for a wrapped layout.
func (r Request) Wrapped() bool {
	return r.Wrap > 0
}

// String summarizes the active dimensions, e.g. "rows=metric cols=dataset series=model".
func (r Request) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("rows", r.RowsBy)
	add("cols", r.ColsBy)
	add("series", r.SeriesBy)
	if r.Wrap > 0 {
		parts = append(parts, fmt.Sprintf("wrap=%d", r.Wrap))
	}
	add("x", r.X)
	add("y", r.Y)
	return strings.Join(parts, " ")
}

type columnField struct{ name, value string }

// columnFields returns every column name the request references, in a
// stable order, skipping unset fields.
func (r Request) columnFields() []columnField {
	var fields []columnField
	for _, f := range []columnField{{"x", r.X}, {"y", r.Y}, {"rows_by", r.RowsBy}, {"cols_by", r.ColsBy}, {"series_by", r.SeriesBy}} {
		if f.value != "" {
			fields = append(fields, f)
		}
	}
	for _, c := range sortedKeys(r.Fixed) {
		fields = append(fields, columnField{"fixed", c})
	}
	for _, c := range sortedKeys(r.Exclude) {
		fields = append(fields, columnField{"exclude", c})
	}
	return fields
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
