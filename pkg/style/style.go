package style

import (
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/theme"
)

// Channel names the visual attribute a series dimension is mapped to.
type Channel string

// Visual channels. ChannelAll varies every attribute of the bundle.
const (
	ChannelAll       Channel = ""
	ChannelColor     Channel = "color"
	ChannelMarker    Channel = "marker"
	ChannelLineStyle Channel = "line_style"
)

// ChannelNames returns the accepted channel names, excluding ChannelAll.
func ChannelNames() []string {
	return []string{string(ChannelColor), string(ChannelMarker), string(ChannelLineStyle)}
}

// ParseChannel converts a channel name. The empty string and "all" select
// ChannelAll.
func ParseChannel(s string) (Channel, error) {
	if s == "" || s == "all" {
		return ChannelAll, nil
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidInput, "channel", s, ChannelNames()); err != nil {
		return "", err
	}
	return Channel(s), nil
}

// Bundle is the style assigned to one (dimension, value) key.
type Bundle struct {
	Color  color.Color
	Marker draw.GlyphDrawer
	Dashes []vg.Length

	// Index is the value's first-seen position within its dimension.
	Index int
}

// Restrict keeps only the attribute that ch varies and takes the others
// from neutral. ChannelAll returns b unchanged.
func (b Bundle) Restrict(ch Channel, neutral Bundle) Bundle {
	out := neutral
	out.Index = b.Index
	switch ch {
	case ChannelColor:
		out.Color = b.Color
	case ChannelMarker:
		out.Marker = b.Marker
	case ChannelLineStyle:
		out.Dashes = b.Dashes
	default:
		return b
	}
	return out
}

// Neutral returns the bundle used for unstyled series: the first entry of
// every pool.
func Neutral(pools theme.Pools) Bundle {
	return Bundle{
		Color:  pools.Colors.At(0),
		Marker: pools.Markers.At(0),
		Dashes: pools.LineStyles.At(0),
	}
}
