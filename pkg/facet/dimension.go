package facet

import (
	"slices"

	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Dimension is one faceting axis: the column that drives it and its
// distinct values in display order.
type Dimension struct {
	Name   string
	Values []string
}

// Len returns the number of values, or 0 for a nil dimension.
func (d *Dimension) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Values)
}

// Index returns the position of value, or -1.
func (d *Dimension) Index(value string) int {
	if d == nil {
		return -1
	}
	return slices.Index(d.Values, value)
}

// Combination is a (row value, col value) pair.
type Combination struct {
	Row string `json:"row"`
	Col string `json:"col"`
}

// Dimensions is the result of analyzing a dataset against a request.
// Inactive dimensions are nil.
type Dimensions struct {
	Rows   *Dimension
	Cols   *Dimension
	Series *Dimension

	// Source is the dataset after Fixed and Exclude filters; subsets are
	// cut from it.
	Source *dataset.Dataset

	// Missing lists row/col combinations with no rows. It is only
	// populated when both Rows and Cols are active.
	Missing []Combination
}

// Prefilter applies the request's Fixed and Exclude filters. Filters are
// applied in column-name order; the input dataset is not modified.
func Prefilter(ds *dataset.Dataset, req Request) (*dataset.Dataset, error) {
	out := ds
	for _, col := range sortedKeys(req.Fixed) {
		if err := ds.RequireColumn("fixed", col); err != nil {
			return nil, err
		}
		out = out.Where(col, req.Fixed[col])
	}
	for _, col := range sortedKeys(req.Exclude) {
		if err := ds.RequireColumn("exclude", col); err != nil {
			return nil, err
		}
		values, _ := out.Column(col)
		drop := req.Exclude[col]
		out = out.Filter(func(r int) bool { return !slices.Contains(drop, values[r]) })
	}
	return out, nil
}

// Analyze extracts the row, column and series dimensions the request asks
// for from ds.
//
// The axis columns must exist when set; an empty axis is left to
// Request.Validate. Each active dimension uses its explicit
// order when one is given (every listed value must occur in the data) and
// otherwise the distinct values sorted by CompareValues.
func Analyze(ds *dataset.Dataset, req Request) (Dimensions, error) {
	src, err := Prefilter(ds, req)
	if err != nil {
		return Dimensions{}, err
	}
	for _, axis := range []struct{ field, col string }{{"x", req.X}, {"y", req.Y}} {
		if axis.col == "" {
			continue
		}
		if err := src.RequireColumn(axis.field, axis.col); err != nil {
			return Dimensions{}, err
		}
	}

	dims := Dimensions{Source: src}
	if dims.Rows, err = analyzeDimension(src, "rows_by", req.RowsBy, req.RowOrder); err != nil {
		return Dimensions{}, err
	}
	if dims.Cols, err = analyzeDimension(src, "cols_by", req.ColsBy, req.ColOrder); err != nil {
		return Dimensions{}, err
	}
	if dims.Series, err = analyzeDimension(src, "series_by", req.SeriesBy, req.SeriesOrder); err != nil {
		return Dimensions{}, err
	}
	if dims.Rows != nil && dims.Cols != nil {
		dims.Missing = missingCombinations(src, dims.Rows, dims.Cols)
	}
	return dims, nil
}

func analyzeDimension(ds *dataset.Dataset, field, column string, order []string) (*Dimension, error) {
	if column == "" {
		return nil, nil
	}
	if err := ds.RequireColumn(field, column); err != nil {
		return nil, err
	}
	present := ds.Distinct(column)
	if len(order) == 0 {
		return &Dimension{Name: column, Values: SortValues(present)}, nil
	}

	var unknown []string
	values := make([]string, 0, len(order))
	for _, v := range order {
		if !slices.Contains(present, v) {
			unknown = append(unknown, v)
			continue
		}
		if !slices.Contains(values, v) {
			values = append(values, v)
		}
	}
	if len(unknown) > 0 {
		return nil, errors.New(errors.ErrCodeUnknownOrderedValue,
			"%s: ordered values %s not found in column %q (available values: %s)",
			field, errors.List(unknown), column, errors.List(SortValues(present)))
	}
	return &Dimension{Name: column, Values: values}, nil
}

func missingCombinations(ds *dataset.Dataset, rows, cols *Dimension) []Combination {
	rv, _ := ds.Column(rows.Name)
	cv, _ := ds.Column(cols.Name)
	seen := make(map[Combination]bool, len(rv))
	for i := range rv {
		seen[Combination{Row: rv[i], Col: cv[i]}] = true
	}
	var missing []Combination
	for _, r := range rows.Values {
		for _, c := range cols.Values {
			if k := (Combination{Row: r, Col: c}); !seen[k] {
				missing = append(missing, k)
			}
		}
	}
	return missing
}
