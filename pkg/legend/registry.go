package legend

import (
	"slices"

	"gonum.org/v1/plot"

	"github.com/matzehuels/facetgrid/pkg/facet"
)

// Entry is one legend item produced by a cell drawing call.
type Entry struct {
	// Artist draws the entry's legend thumbnail.
	Artist plot.Thumbnailer

	Label string

	// Channel is the visual channel the series dimension is mapped to;
	// "" when the layer varies every attribute.
	Channel      string
	ChannelValue string

	// Cell is the grid cell that produced the entry; nil for figure-level
	// artists.
	Cell *facet.Pos

	// Kind is the plot kind that drew the artist, e.g. "line".
	Kind string
}

// Registry collects legend entries during a figure-building session.
//
// With deduplication on (the default) an entry whose label is already
// registered for the same channel is not added to the figure-wide list;
// the first registration wins. The same label under two channels, such as
// a model shown by color in one layer and by marker in another, yields two
// entries. Every entry is still remembered per cell so per-cell legends stay
// complete. A closed registry accepts no more entries.
type Registry struct {
	dedup  bool
	all    []Entry
	figure []Entry
	seen   map[entryKey]bool
	closed bool
}

// entryKey identifies an entry for deduplication.
type entryKey struct {
	channel, label string
}

func (e Entry) key() entryKey { return entryKey{channel: e.Channel, label: e.Label} }

// NewRegistry returns an empty registry.
func NewRegistry(dedup bool) *Registry {
	return &Registry{dedup: dedup, seen: make(map[entryKey]bool)}
}

// Add registers e and reports whether it joined the figure-wide entry
// list. Entries without an artist and entries added after Close are
// ignored.
func (r *Registry) Add(e Entry) bool {
	if r.closed || e.Artist == nil {
		return false
	}
	r.all = append(r.all, e)
	if r.dedup && r.seen[e.key()] {
		return false
	}
	r.seen[e.key()] = true
	r.figure = append(r.figure, e)
	return true
}

// Entries returns the figure-wide entries in registration order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.figure)
}

// Len returns the number of figure-wide entries.
func (r *Registry) Len() int {
	return len(r.figure)
}

// ByCell returns the entries of each cell that produced any, deduplicated
// by channel and label within the cell, with cells in row-major order.
func (r *Registry) ByCell() []CellEntries {
	index := make(map[facet.Pos]int)
	var out []CellEntries
	for _, e := range r.all {
		if e.Cell == nil {
			continue
		}
		i, ok := index[*e.Cell]
		if !ok {
			i = len(out)
			index[*e.Cell] = i
			out = append(out, CellEntries{Cell: *e.Cell})
		}
		if r.dedup && slices.ContainsFunc(out[i].Entries, func(x Entry) bool { return x.key() == e.key() }) {
			continue
		}
		out[i].Entries = append(out[i].Entries, e)
	}
	slices.SortStableFunc(out, func(a, b CellEntries) int {
		if a.Cell.Row != b.Cell.Row {
			return a.Cell.Row - b.Cell.Row
		}
		return a.Cell.Col - b.Cell.Col
	})
	return out
}

// CellEntries groups the entries of one cell.
type CellEntries struct {
	Cell    facet.Pos
	Entries []Entry
}

// Reset drops all entries. A closed registry stays closed.
func (r *Registry) Reset() {
	r.all = nil
	r.figure = nil
	r.seen = make(map[entryKey]bool)
}

// Close marks the registry as finalized.
func (r *Registry) Close() {
	r.closed = true
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	return r.closed
}
