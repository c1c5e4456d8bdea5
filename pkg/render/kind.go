package render

import (
	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Kind is a plot kind. The set is closed: every Kind has a renderer in the
// static table built at package initialization.
type Kind int

// Plot kinds.
const (
	Scatter Kind = iota
	Line
	Bar
	numKinds
)

var kindNames = [numKinds]string{
	Scatter: "scatter",
	Line:    "line",
	Bar:     "bar",
}

// String returns the kind's name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// KindNames returns the names of all plot kinds.
func KindNames() []string {
	return kindNames[:]
}

// ParseKind converts a kind name, failing with UNKNOWN_PLOT_KIND.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, errors.ValidateOneOf(errors.ErrCodeUnknownPlotKind, "plot kind", s, KindNames())
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownPlotKind, "invalid plot kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
