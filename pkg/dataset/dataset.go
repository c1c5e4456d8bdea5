package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Dataset is an immutable-by-convention columnar table of string cells.
//
// Every row carries a stable identity (its index in the originally loaded
// table) that survives filtering, so subsets cut from the same dataset can
// be concatenated and deduplicated.
type Dataset struct {
	columns []string
	index   map[string]int
	cells   [][]string // column-major: cells[col][row]
	ids     []int
}

// New creates an empty dataset with the given column names.
// Column names must be unique and non-empty.
func New(columns ...string) (*Dataset, error) {
	d := &Dataset{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]string, len(columns)),
	}
	for i, c := range columns {
		if err := errors.ValidateColumnName("column", c); err != nil {
			return nil, err
		}
		if _, dup := d.index[c]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", c)
		}
		d.columns[i] = c
		d.index[c] = i
	}
	return d, nil
}

// MustNew is like New but panics on error. It is intended for tests and
// package-level fixtures with literal column names.
func MustNew(columns ...string) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// Append adds one row. values must have one entry per column.
func (d *Dataset) Append(values ...string) error {
	if len(values) != len(d.columns) {
		return errors.New(errors.ErrCodeInvalidInput,
			"row %d has %d values, want %d (columns: %s)",
			len(d.ids), len(values), len(d.columns), errors.List(d.columns))
	}
	for i, v := range values {
		d.cells[i] = append(d.cells[i], v)
	}
	d.ids = append(d.ids, len(d.ids))
	return nil
}

// Columns returns the column names in table order.
func (d *Dataset) Columns() []string {
	return slices.Clone(d.columns)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.ids)
}

// HasColumn reports whether the dataset has a column named name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// RequireColumn returns an UNKNOWN_COLUMN error listing the available
// columns when name is not present.
func (d *Dataset) RequireColumn(field, name string) error {
	if d.HasColumn(name) {
		return nil
	}
	return errors.New(errors.ErrCodeUnknownColumn,
		"%s: column %q not found (available columns: %s)", field, name, errors.List(d.columns))
}

// Column returns the cells of the named column. The returned slice must
// not be modified.
func (d *Dataset) Column(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cells[i], true
}

// Value returns the cell at (row, column). It returns "" for an unknown column.
func (d *Dataset) Value(row int, column string) string {
	i, ok := d.index[column]
	if !ok {
		return ""
	}
	return d.cells[i][row]
}

// Floats parses the named column as float64 values.
func (d *Dataset) Floats(name string) ([]float64, error) {
	col, ok := d.Column(name)
	if !ok {
		return nil, d.RequireColumn("floats", name)
	}
	out := make([]float64, len(col))
	for i, s := range col {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
				"column %q row %d: %q is not numeric", name, d.ids[i], s)
		}
		out[i] = f
	}
	return out, nil
}

// Distinct returns the distinct values of the named column in first-seen order.
func (d *Dataset) Distinct(name string) []string {
	col, ok := d.Column(name)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range col {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// RowIDs returns the stable row identities in row order.
func (d *Dataset) RowIDs() []int {
	return slices.Clone(d.ids)
}

// Filter returns a new dataset with the rows for which keep returns true.
// Row identities are preserved.
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	out := d.empty()
	for r := range d.ids {
		if !keep(r) {
			continue
		}
		for c := range d.columns {
			out.cells[c] = append(out.cells[c], d.cells[c][r])
		}
		out.ids = append(out.ids, d.ids[r])
	}
	return out
}

// Where returns the rows whose column equals value. An unknown column
// yields an empty dataset.
func (d *Dataset) Where(column, value string) *Dataset {
	col, ok := d.Column(column)
	if !ok {
		return d.empty()
	}
	return d.Filter(func(r int) bool { return col[r] == value })
}

// Concat returns the union of the given datasets, which must share d's
// columns. Rows are deduplicated by identity and ordered by identity.
func (d *Dataset) Concat(parts ...*Dataset) *Dataset {
	type row struct {
		id    int
		src   *Dataset
		index int
	}
	seen := make(map[int]bool)
	var rows []row
	for _, p := range append([]*Dataset{d}, parts...) {
		if p == nil {
			continue
		}
		for i, id := range p.ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			rows = append(rows, row{id: id, src: p, index: i})
		}
	}
	slices.SortFunc(rows, func(a, b row) int { return a.id - b.id })

	out := d.empty()
	for _, r := range rows {
		for c, name := range d.columns {
			out.cells[c] = append(out.cells[c], r.src.Value(r.index, name))
		}
		out.ids = append(out.ids, r.id)
	}
	return out
}

// Hash returns a SHA-256 content hash of the dataset, stable across loads
// of the same data. It is used as part of rendered-figure cache keys.
func (d *Dataset) Hash() string {
	h := sha256.New()
	for c, name := range d.columns {
		h.Write([]byte(name))
		h.Write([]byte{0})
		for _, v := range d.cells[c] {
			h.Write([]byte(v))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (d *Dataset) empty() *Dataset {
	return &Dataset{
		columns: d.columns,
		index:   d.index,
		cells:   make([][]string, len(d.columns)),
	}
}

// snapshot is the serialized form of a dataset.
type snapshot struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// MarshalJSON encodes the columns and rows in table order. Row identities
// are not kept; a decoded dataset numbers its rows from zero like a fresh
// load.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	s := snapshot{Columns: d.columns, Rows: make([][]string, len(d.ids))}
	for r := range d.ids {
		row := make([]string, len(d.columns))
		for c := range d.columns {
			row[c] = d.cells[c][r]
		}
		s.Rows[r] = row
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode dataset")
	}
	out, err := New(s.Columns...)
	if err != nil {
		return err
	}
	for _, row := range s.Rows {
		if err := out.Append(row...); err != nil {
			return err
		}
	}
	*d = *out
	return nil
}
