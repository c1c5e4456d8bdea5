package style

import (
	"slices"

	"github.com/matzehuels/facetgrid/pkg/theme"
)

type key struct {
	dim, value string
}

// Coordinator assigns styles to dimension values so that a value looks the
// same in every cell and every layered drawing pass of one figure.
//
// Each dimension has its own cursor into the theme pools. The first time a
// value is seen it takes the bundle at the cursor and keeps it for the
// Coordinator's lifetime; pools wrap when exhausted. A Coordinator belongs
// to one figure-building session and is not safe for concurrent use.
type Coordinator struct {
	pools    theme.Pools
	assigned map[key]Bundle
	order    map[string][]string
}

// NewCoordinator returns a Coordinator drawing from pools.
func NewCoordinator(pools theme.Pools) *Coordinator {
	return &Coordinator{
		pools:    pools,
		assigned: make(map[key]Bundle),
		order:    make(map[string][]string),
	}
}

// Register assigns bundles to the values of dim that have not been seen
// yet, in the order given. Values already assigned are left untouched.
func (c *Coordinator) Register(dim string, values ...string) {
	for _, v := range values {
		k := key{dim, v}
		if _, ok := c.assigned[k]; ok {
			continue
		}
		i := len(c.order[dim])
		c.assigned[k] = Bundle{
			Color:  c.pools.Colors.At(i),
			Marker: c.pools.Markers.At(i),
			Dashes: c.pools.LineStyles.At(i),
			Index:  i,
		}
		c.order[dim] = append(c.order[dim], v)
	}
}

// StyleFor returns the bundle for (dim, value), registering the value
// first if needed. Repeated calls return identical bundles.
func (c *Coordinator) StyleFor(dim, value string) Bundle {
	c.Register(dim, value)
	return c.assigned[key{dim, value}]
}

// Lookup returns the bundle for (dim, value) without registering it.
func (c *Coordinator) Lookup(dim, value string) (Bundle, bool) {
	b, ok := c.assigned[key{dim, value}]
	return b, ok
}

// Assigned returns the values of dim in first-seen order.
func (c *Coordinator) Assigned(dim string) []string {
	return slices.Clone(c.order[dim])
}

// Len returns the number of assigned keys across all dimensions.
func (c *Coordinator) Len() int {
	return len(c.assigned)
}

// Neutral returns the bundle for series without a series dimension.
func (c *Coordinator) Neutral() Bundle {
	return Neutral(c.pools)
}
