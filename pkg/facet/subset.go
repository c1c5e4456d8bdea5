package facet

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Subset is the slice of data that belongs to one grid cell.
type Subset struct {
	Pos

	// RowValue and ColValue are the dimension values owning the cell;
	// "" when the dimension is inactive.
	RowValue string
	ColValue string

	Data *dataset.Dataset
}

// Empty reports whether the subset has no rows.
func (s Subset) Empty() bool {
	return s.Data == nil || s.Data.Len() == 0
}

// Title returns the default cell title built from the owning dimension
// values, e.g. "loss | wiki".
func (s Subset) Title() string {
	switch {
	case s.RowValue != "" && s.ColValue != "":
		return s.RowValue + " | " + s.ColValue
	case s.RowValue != "":
		return s.RowValue
	default:
		return s.ColValue
	}
}

// Subsets is an ordered collection of cell subsets.
type Subsets []Subset

// At returns the subset at p.
func (ss Subsets) At(p Pos) (Subset, bool) {
	for _, s := range ss {
		if s.Pos == p {
			return s, true
		}
	}
	return Subset{}, false
}

// EmptyCells returns the positions of subsets without rows.
func (ss Subsets) EmptyCells() []Pos {
	var out []Pos
	for _, s := range ss {
		if s.Empty() {
			out = append(out, s.Pos)
		}
	}
	return out
}

// Concat returns the union of all subsets, deduplicated by row identity.
// It returns nil for an empty collection.
func (ss Subsets) Concat() *dataset.Dataset {
	if len(ss) == 0 {
		return nil
	}
	parts := make([]*dataset.Dataset, 0, len(ss)-1)
	for _, s := range ss[1:] {
		parts = append(parts, s.Data)
	}
	return ss[0].Data.Concat(parts...)
}

// SubsetData cuts one subset per target cell from ds, which is normally
// the Source of the analyzed Dimensions.
//
// A row belongs to a cell when its row-dimension value equals the cell's
// row value and its col-dimension value equals the cell's col value;
// inactive dimensions match every row. Targets that fall on blank cells of
// a wrapped layout are skipped.
//
// Empty cells are kept in the result. The request's EmptyCells policy then
// decides whether they fail the call (error), are logged (warn) or are
// accepted silently. A nil logger discards output.
func SubsetData(ds *dataset.Dataset, l Layout, req Request, targets []Pos, logger *log.Logger) (Subsets, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rowCol, _ := ds.Column(l.RowsBy)
	colCol, _ := ds.Column(l.ColsBy)

	out := make(Subsets, 0, len(targets))
	for _, p := range targets {
		rv, cv, ok := l.Values(p)
		if !ok {
			continue
		}
		data := ds.Filter(func(r int) bool {
			if rowCol != nil && rowCol[r] != rv {
				return false
			}
			if colCol != nil && colCol[r] != cv {
				return false
			}
			return true
		})
		out = append(out, Subset{Pos: p, RowValue: rv, ColValue: cv, Data: data})
	}

	empty := out.EmptyCells()
	if len(empty) == 0 {
		return out, nil
	}
	switch req.Policy() {
	case EmptyCellsError:
		return nil, errors.New(errors.ErrCodeEmptyCell,
			"%d of %d targeted cells have no data: %s", len(empty), len(out), formatPositions(empty))
	case EmptyCellsWarn:
		pct := 100 * float64(len(empty)) / float64(len(out))
		logger.Warn(fmt.Sprintf("%d of %d cells (%.0f%%) have no data", len(empty), len(out), pct),
			"cells", formatPositions(empty))
	}
	return out, nil
}

func formatPositions(ps []Pos) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = p.String()
	}
	return strings.Join(s, ", ")
}
