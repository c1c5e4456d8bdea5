package legend

import (
	"math"
	"testing"

	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
)

// artist is a named legend thumbnail.
type artist string

func (artist) Thumbnail(*draw.Canvas) {}

func entry(label, channel string, cell *facet.Pos, a string) Entry {
	return Entry{Artist: artist(a), Label: label, Channel: channel, ChannelValue: label, Cell: cell, Kind: "line"}
}

func pos(r, c int) *facet.Pos { return &facet.Pos{Row: r, Col: c} }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRegistryDedupFirstWins(t *testing.T) {
	r := NewRegistry(true)
	if !r.Add(entry("A", "color", pos(0, 0), "first")) {
		t.Error("Add(first A) = false, want true")
	}
	if r.Add(entry("A", "color", pos(0, 1), "second")) {
		t.Error("Add(second A) = true, want false")
	}
	r.Add(entry("B", "color", pos(0, 1), "b"))

	got := r.Entries()
	if len(got) != 2 || r.Len() != 2 {
		t.Fatalf("Entries() = %d entries, Len() = %d, want 2", len(got), r.Len())
	}
	if got[0].Artist != artist("first") {
		t.Errorf("Entries()[0].Artist = %v, want first", got[0].Artist)
	}
	if got[1].Label != "B" {
		t.Errorf("Entries()[1].Label = %q, want B", got[1].Label)
	}
}

func TestRegistryDedupPerChannel(t *testing.T) {
	r := NewRegistry(true)
	r.Add(entry("A", "color", pos(0, 0), "line"))
	if !r.Add(entry("A", "marker", pos(0, 0), "scatter")) {
		t.Error("Add(A under marker) = false, want true")
	}
	if r.Add(entry("A", "marker", pos(0, 1), "scatter-again")) {
		t.Error("Add(second A under marker) = true, want false")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	cells := r.ByCell()
	if len(cells) != 2 || len(cells[0].Entries) != 2 {
		t.Errorf("ByCell() = %+v, want cell (0,0) with both channels", cells)
	}
}

func TestRegistryWithoutDedup(t *testing.T) {
	r := NewRegistry(false)
	r.Add(entry("A", "", nil, "1"))
	r.Add(entry("A", "", nil, "2"))
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistryIgnoresNilArtistAndClosed(t *testing.T) {
	r := NewRegistry(true)
	if r.Add(Entry{Label: "A"}) {
		t.Error("Add(nil artist) = true")
	}
	r.Close()
	if r.Add(entry("B", "", nil, "b")) {
		t.Error("Add() after Close = true")
	}
	if !r.Closed() || r.Len() != 0 {
		t.Errorf("Closed() = %v, Len() = %d", r.Closed(), r.Len())
	}
}

func TestRegistryByCell(t *testing.T) {
	r := NewRegistry(true)
	r.Add(entry("A", "", pos(1, 0), "a10"))
	r.Add(entry("A", "", pos(0, 1), "a01"))
	r.Add(entry("B", "", pos(0, 1), "b01"))
	r.Add(entry("B", "", pos(0, 1), "b01-dup"))
	r.Add(entry("C", "", nil, "figure"))

	cells := r.ByCell()
	if len(cells) != 2 {
		t.Fatalf("ByCell() = %d cells, want 2", len(cells))
	}
	if cells[0].Cell != (facet.Pos{Row: 0, Col: 1}) || len(cells[0].Entries) != 2 {
		t.Errorf("ByCell()[0] = %v with %d entries, want (0,1) with 2", cells[0].Cell, len(cells[0].Entries))
	}
	if cells[1].Entries[0].Artist != artist("a10") {
		t.Errorf("ByCell()[1] artist = %v, want a10", cells[1].Entries[0].Artist)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", FigureWide, false},
		{"per_cell", PerCell, false},
		{"figure_wide", FigureWide, false},
		{"grouped_by_channel", GroupedByChannel, false},
		{"none", None, false},
		{"outside", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUnknownLegend) {
			t.Errorf("ParseStrategy(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeUnknownLegend)
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func filledRegistry() *Registry {
	r := NewRegistry(true)
	r.Add(entry("A", "color", pos(0, 0), "a"))
	r.Add(entry("B", "color", pos(0, 1), "b"))
	r.Add(entry("1", "marker", pos(0, 0), "s1"))
	r.Add(entry("A", "color", pos(1, 1), "a-again"))
	return r
}

func TestManagerFinalize(t *testing.T) {
	fig := Figure{Width: 800, Height: 600}

	tests := []struct {
		strategy Strategy
		legends  int
		titles   []string
		bottom   float64
	}{
		{PerCell, 3, []string{"", "", ""}, 0},
		{FigureWide, 1, []string{""}, DefaultPad},
		{GroupedByChannel, 2, []string{"color", "marker"}, DefaultPad},
		{None, 0, nil, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			r := filledRegistry()
			plan, err := NewManager(r, DefaultConfig()).Finalize(tt.strategy, fig)
			if err != nil {
				t.Fatalf("Finalize() error = %v", err)
			}
			if len(plan.Legends) != tt.legends {
				t.Fatalf("Finalize() = %d legends, want %d", len(plan.Legends), tt.legends)
			}
			for i, l := range plan.Legends {
				if l.Title != tt.titles[i] {
					t.Errorf("Legends[%d].Title = %q, want %q", i, l.Title, tt.titles[i])
				}
			}
			if !near(plan.Placement.Margins.Bottom, tt.bottom) {
				t.Errorf("Margins.Bottom = %v, want %v", plan.Placement.Margins.Bottom, tt.bottom)
			}
			if !r.Closed() {
				t.Error("registry not closed after Finalize")
			}
		})
	}
}

func TestManagerFinalizeNoneClears(t *testing.T) {
	r := filledRegistry()
	if _, err := NewManager(r, DefaultConfig()).Finalize(None, Figure{Width: 400}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after none, want 0", r.Len())
	}
}

func TestManagerFinalizeUnknown(t *testing.T) {
	_, err := NewManager(NewRegistry(true), DefaultConfig()).Finalize("sidebar", Figure{})
	if !errors.Is(err, errors.ErrCodeUnknownLegend) {
		t.Errorf("Finalize(sidebar) = %v, want %v", err, errors.ErrCodeUnknownLegend)
	}
}

func TestManagerMaxColumns(t *testing.T) {
	m := NewManager(NewRegistry(true), DefaultConfig())
	for _, tt := range []struct {
		width float64
		want  int
	}{{300, 3}, {600, 5}, {1200, 8}} {
		if got := m.MaxColumns(tt.width); got != tt.want {
			t.Errorf("MaxColumns(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
	cfg := DefaultConfig()
	cfg.MaxColumns = 2
	if got := NewManager(NewRegistry(true), cfg).MaxColumns(1200); got != 2 {
		t.Errorf("MaxColumns with override = %d, want 2", got)
	}

	r := NewRegistry(true)
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		r.Add(entry(l, "", nil, l))
	}
	plan, _ := NewManager(r, cfg).Finalize(FigureWide, Figure{Width: 1200})
	if got := plan.Legends[0]; got.Columns != 2 || got.Lines() != 3 {
		t.Errorf("Columns = %d, Lines() = %d, want 2 and 3", got.Columns, got.Lines())
	}
	if !near(plan.Placement.Margins.Bottom, 3*DefaultPad) {
		t.Errorf("Margins.Bottom = %v, want %v", plan.Placement.Margins.Bottom, 3*DefaultPad)
	}
}
