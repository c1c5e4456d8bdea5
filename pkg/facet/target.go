package facet

import (
	"slices"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// ResolveTargets returns the cells a request draws into for a rows × cols
// grid, in row-major order.
//
// Unset row and column selections cover the full range; otherwise the
// result is the Cartesian product of the selected rows and columns.
// Duplicate indices are collapsed. Any index outside the grid is reported
// with OUT_OF_BOUNDS_TARGET.
func ResolveTargets(req Request, rows, cols int) ([]Pos, error) {
	rsel, err := selection("row", req.TargetRow, req.TargetRows, rows, rows, cols)
	if err != nil {
		return nil, err
	}
	csel, err := selection("col", req.TargetCol, req.TargetCols, cols, rows, cols)
	if err != nil {
		return nil, err
	}
	targets := make([]Pos, 0, len(rsel)*len(csel))
	for _, r := range rsel {
		for _, c := range csel {
			targets = append(targets, Pos{Row: r, Col: c})
		}
	}
	return targets, nil
}

func selection(axis string, one *int, many []int, n, rows, cols int) ([]int, error) {
	var picked []int
	switch {
	case one != nil:
		picked = []int{*one}
	case len(many) > 0:
		picked = many
	default:
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	out := make([]int, 0, len(picked))
	for _, i := range picked {
		if i < 0 || i >= n {
			return nil, errors.New(errors.ErrCodeOutOfBoundsTarget,
				"target %s %d is out of bounds for a %dx%d grid (valid %s indices: 0..%d)",
				axis, i, rows, cols, axis, n-1)
		}
		if !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Targets resolves the request's targets against the layout and drops the
// blank trailing cells of wrapped layouts.
func (l Layout) Targets(req Request) ([]Pos, error) {
	all, err := ResolveTargets(req, l.Rows, l.Cols)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(p Pos) bool { return !l.Filled(p) }), nil
}
