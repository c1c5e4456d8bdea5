package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/legend"
	"github.com/matzehuels/facetgrid/pkg/render"
	"github.com/matzehuels/facetgrid/pkg/session"
	"github.com/matzehuels/facetgrid/pkg/style"
	"github.com/matzehuels/facetgrid/pkg/theme"
)

// Config file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// File is the content of a facetgrid config file.
type File struct {
	Facet  Facet           `toml:"facet" yaml:"facet"`
	Layers []Layer         `toml:"layers" yaml:"layers"`
	Legend Legend          `toml:"legend" yaml:"legend"`
	Figure Figure          `toml:"figure" yaml:"figure"`
	Theme  theme.Overrides `toml:"theme" yaml:"theme"`
}

// Facet is the file form of a facet.Request.
type Facet struct {
	RowsBy      string   `toml:"rows_by" yaml:"rows_by"`
	ColsBy      string   `toml:"cols_by" yaml:"cols_by"`
	SeriesBy    string   `toml:"series_by" yaml:"series_by"`
	RowOrder    []string `toml:"row_order" yaml:"row_order"`
	ColOrder    []string `toml:"col_order" yaml:"col_order"`
	SeriesOrder []string `toml:"series_order" yaml:"series_order"`
	Wrap        int      `toml:"wrap" yaml:"wrap"`
	X           string   `toml:"x" yaml:"x"`
	Y           string   `toml:"y" yaml:"y"`

	TargetRow  *int  `toml:"target_row" yaml:"target_row"`
	TargetCol  *int  `toml:"target_col" yaml:"target_col"`
	TargetRows []int `toml:"target_rows" yaml:"target_rows"`
	TargetCols []int `toml:"target_cols" yaml:"target_cols"`

	Fixed   map[string]string   `toml:"fixed" yaml:"fixed"`
	Exclude map[string][]string `toml:"exclude" yaml:"exclude"`

	Labels [][]facet.CellLabels `toml:"labels" yaml:"labels"`
	Limits [][]facet.CellLimits `toml:"limits" yaml:"limits"`

	EmptyCells string `toml:"empty_cells" yaml:"empty_cells"`
}

// Layer is one drawing pass over the grid.
type Layer struct {
	Kind        string  `toml:"kind" yaml:"kind"`
	Channel     string  `toml:"channel" yaml:"channel"`
	Markers     bool    `toml:"markers" yaml:"markers"`
	LineWidth   float64 `toml:"line_width" yaml:"line_width"`
	GlyphRadius float64 `toml:"glyph_radius" yaml:"glyph_radius"`
	BarWidth    float64 `toml:"bar_width" yaml:"bar_width"`
}

// Legend is the file form of a legend.Config. A nil Dedup keeps the
// default.
type Legend struct {
	Strategy   string          `toml:"strategy" yaml:"strategy"`
	MaxColumns int             `toml:"max_columns" yaml:"max_columns"`
	Dedup      *bool           `toml:"dedup" yaml:"dedup"`
	Pad        float64         `toml:"pad" yaml:"pad"`
	Anchor     *legend.Point   `toml:"anchor" yaml:"anchor"`
	Margin     *legend.Margins `toml:"margin" yaml:"margin"`
}

// Figure holds the output settings.
type Figure struct {
	Title   string   `toml:"title" yaml:"title"`
	Width   float64  `toml:"width" yaml:"width"`   // points
	Height  float64  `toml:"height" yaml:"height"` // points
	Formats []string `toml:"formats" yaml:"formats"`
	DPI     int      `toml:"dpi" yaml:"dpi"`
	Padding float64  `toml:"padding" yaml:"padding"` // points between cells
}

// FormatFor returns the config format implied by a file extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported config file %q (must be one of: .toml, .yaml, .yml)", filepath.Base(path))
}

// Load reads a config file, choosing the decoder by extension.
func Load(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return f, nil
}

// Decode parses a config document. Unknown keys are rejected.
func Decode(r io.Reader, format string) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse yaml")
		}
	default:
		return nil, errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "config format", format, []string{FormatTOML, FormatYAML})
	}
	return &f, nil
}

// Request converts the facet section into a request. The result is not
// validated.
func (f *File) Request() (facet.Request, error) {
	policy, err := facet.ParseEmptyCellPolicy(f.Facet.EmptyCells)
	if err != nil {
		return facet.Request{}, err
	}
	c := f.Facet
	return facet.Request{
		RowsBy:      c.RowsBy,
		ColsBy:      c.ColsBy,
		SeriesBy:    c.SeriesBy,
		RowOrder:    c.RowOrder,
		ColOrder:    c.ColOrder,
		SeriesOrder: c.SeriesOrder,
		Wrap:        c.Wrap,
		X:           c.X,
		Y:           c.Y,
		TargetRow:   c.TargetRow,
		TargetCol:   c.TargetCol,
		TargetRows:  c.TargetRows,
		TargetCols:  c.TargetCols,
		Fixed:       c.Fixed,
		Exclude:     c.Exclude,
		Labels:      c.Labels,
		Limits:      c.Limits,
		EmptyCells:  policy,
	}, nil
}

// SessionLayers converts the layers section. A file without layers gets a
// single scatter layer.
func (f *File) SessionLayers() ([]session.Layer, error) {
	if len(f.Layers) == 0 {
		return []session.Layer{{Kind: render.Scatter}}, nil
	}
	out := make([]session.Layer, len(f.Layers))
	for i, l := range f.Layers {
		sl, err := l.Session()
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layer %d", i)
		}
		out[i] = sl
	}
	return out, nil
}

// Session converts the layer. An empty kind selects scatter.
func (l Layer) Session() (session.Layer, error) {
	kind := render.Scatter
	if l.Kind != "" {
		k, err := render.ParseKind(l.Kind)
		if err != nil {
			return session.Layer{}, err
		}
		kind = k
	}
	ch, err := style.ParseChannel(l.Channel)
	if err != nil {
		return session.Layer{}, err
	}
	return session.Layer{
		Kind:    kind,
		Channel: ch,
		Options: render.Options{
			Markers:     l.Markers,
			LineWidth:   vg.Points(l.LineWidth),
			GlyphRadius: vg.Points(l.GlyphRadius),
			BarWidth:    vg.Points(l.BarWidth),
		},
	}, nil
}

// LegendConfig converts the legend section, starting from
// legend.DefaultConfig.
func (f *File) LegendConfig() (legend.Config, error) {
	cfg := legend.DefaultConfig()
	s, err := legend.ParseStrategy(f.Legend.Strategy)
	if err != nil {
		return legend.Config{}, err
	}
	cfg.Strategy = s
	if f.Legend.MaxColumns < 0 {
		return legend.Config{}, errors.New(errors.ErrCodeInvalidInput, "legend max_columns must not be negative, got %d", f.Legend.MaxColumns)
	}
	cfg.MaxColumns = f.Legend.MaxColumns
	if f.Legend.Dedup != nil {
		cfg.NoDedup = !*f.Legend.Dedup
	}
	if f.Legend.Pad > 0 {
		cfg.Pad = f.Legend.Pad
	}
	cfg.Anchor = f.Legend.Anchor
	cfg.Margin = f.Legend.Margin
	return cfg, nil
}

// ThemeLayers converts the theme section into layers for theme.Resolve.
func (f *File) ThemeLayers() ([]theme.Layer, error) {
	return f.Theme.Layers()
}
