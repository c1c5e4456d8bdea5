package theme

import (
	"image/color"
	"slices"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Pool names.
const (
	PoolColors     = "color_cycle"
	PoolMarkers    = "marker_cycle"
	PoolLineStyles = "line_style_cycle"
)

// Pool is a cyclic style pool consumed by position. Index i wraps around
// the pool length, so a finite pool never runs out.
type Pool[T any] []T

// At returns the i-th entry, wrapping around. It returns the zero value
// for an empty pool.
func (p Pool[T]) At(i int) T {
	var zero T
	if len(p) == 0 || i < 0 {
		return zero
	}
	return p[i%len(p)]
}

// Len returns the number of distinct entries.
func (p Pool[T]) Len() int {
	return len(p)
}

// Pools holds one cyclic pool per style attribute.
type Pools struct {
	Colors     Pool[color.Color]
	Markers    Pool[draw.GlyphDrawer]
	LineStyles Pool[[]vg.Length]
}

// PoolNames returns the names accepted by Pools.Size in a stable order.
func PoolNames() []string {
	return []string{PoolColors, PoolMarkers, PoolLineStyles}
}

// Size returns the length of the named pool.
func (p Pools) Size(name string) (int, error) {
	switch name {
	case PoolColors:
		return p.Colors.Len(), nil
	case PoolMarkers:
		return p.Markers.Len(), nil
	case PoolLineStyles:
		return p.LineStyles.Len(), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput,
		"unknown style pool %q (available: %s)", name, errors.List(PoolNames()))
}

// clone returns a copy whose slices do not alias p.
func (p Pools) clone() Pools {
	out := Pools{
		Colors:  slices.Clone(p.Colors),
		Markers: slices.Clone(p.Markers),
	}
	if p.LineStyles != nil {
		out.LineStyles = make(Pool[[]vg.Length], len(p.LineStyles))
		for i, d := range p.LineStyles {
			out.LineStyles[i] = slices.Clone(d)
		}
	}
	return out
}
