package legend

import (
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
)

// Strategy decides how many legends a figure gets and which entries each
// one shows.
type Strategy string

// Legend strategies.
const (
	PerCell          Strategy = "per_cell"
	FigureWide       Strategy = "figure_wide"
	GroupedByChannel Strategy = "grouped_by_channel"
	None             Strategy = "none"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = FigureWide

// StrategyNames returns the accepted strategy names.
func StrategyNames() []string {
	return []string{string(PerCell), string(FigureWide), string(GroupedByChannel), string(None)}
}

// ParseStrategy converts a strategy name. The empty string selects
// DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return DefaultStrategy, nil
	}
	if err := errors.ValidateOneOf(errors.ErrCodeUnknownLegend, "legend strategy", s, StrategyNames()); err != nil {
		return "", err
	}
	return Strategy(s), nil
}

// Config is the legend configuration of a figure.
type Config struct {
	Strategy Strategy `json:"strategy,omitempty" toml:"strategy" yaml:"strategy"`

	// MaxColumns caps the entries per legend row. Zero picks a cap from
	// the figure width.
	MaxColumns int `json:"max_columns,omitempty" toml:"max_columns" yaml:"max_columns"`

	// NoDedup keeps every entry. By default a later entry whose channel
	// and label are already registered is dropped.
	NoDedup bool `json:"no_dedup,omitempty" toml:"no_dedup" yaml:"no_dedup"`

	// Pad is the height of one legend band as a fraction of the figure
	// height. Zero selects DefaultPad.
	Pad float64 `json:"pad,omitempty" toml:"pad" yaml:"pad"`

	// Anchor and Margin override the computed placement.
	Anchor *Point   `json:"anchor,omitempty" toml:"anchor" yaml:"anchor"`
	Margin *Margins `json:"margin,omitempty" toml:"margin" yaml:"margin"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{Strategy: DefaultStrategy, Pad: DefaultPad}
}

// WithDefaults returns c with unset fields filled from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
	if c.Pad <= 0 {
		c.Pad = DefaultPad
	}
	return c
}

// Legend is one legend to be drawn.
type Legend struct {
	Title   string
	Entries []Entry
	// Columns is the number of entries per legend row.
	Columns int
	// Cell is set for per-cell legends.
	Cell *facet.Pos
}

// Lines returns the number of entry rows.
func (l Legend) Lines() int {
	if l.Columns <= 0 {
		return len(l.Entries)
	}
	return (len(l.Entries) + l.Columns - 1) / l.Columns
}

// Plan is the finalized legend layout of a figure.
type Plan struct {
	Strategy  Strategy
	Legends   []Legend
	Placement Result
}

// Manager turns the entries of a Registry into a Plan.
type Manager struct {
	reg *Registry
	cfg Config
}

// NewManager returns a Manager for reg.
func NewManager(reg *Registry, cfg Config) *Manager {
	return &Manager{reg: reg, cfg: cfg}
}

// MaxColumns returns the number of entries per legend row for a figure of
// the given width.
func (m *Manager) MaxColumns(width float64) int {
	if m.cfg.MaxColumns > 0 {
		return m.cfg.MaxColumns
	}
	switch {
	case width < NarrowWidth:
		return 3
	case width < MediumWidth:
		return 5
	default:
		return 8
	}
}

// Finalize builds the legend plan for strategy and closes the registry.
//
//	per_cell            one legend inside each cell that produced entries
//	figure_wide         one legend below the grid with every entry
//	grouped_by_channel  one legend per visual channel, titled by the channel
//	none                no legends; the registry is cleared
func (m *Manager) Finalize(strategy Strategy, fig Figure) (Plan, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return Plan{}, err
	}
	if strategy == "" {
		strategy = DefaultStrategy
	}
	defer m.reg.Close()

	plan := Plan{Strategy: strategy}
	cols := m.MaxColumns(fig.Width / float64(max(PerBand(fig.Width), 1)))

	switch strategy {
	case None:
		m.reg.Reset()
	case PerCell:
		for _, ce := range m.reg.ByCell() {
			cell := ce.Cell
			plan.Legends = append(plan.Legends, Legend{
				Entries: ce.Entries,
				Columns: 1,
				Cell:    &cell,
			})
		}
	case FigureWide:
		if entries := m.reg.Entries(); len(entries) > 0 {
			plan.Legends = []Legend{{Entries: entries, Columns: min(m.MaxColumns(fig.Width), len(entries))}}
		}
	case GroupedByChannel:
		for _, g := range groupByChannel(m.reg.Entries()) {
			plan.Legends = append(plan.Legends, Legend{
				Title:   g.channel,
				Entries: g.entries,
				Columns: min(cols, len(g.entries)),
			})
		}
	}

	for _, l := range plan.Legends {
		if l.Cell == nil {
			fig.LegendLines = max(fig.LegendLines, l.Lines())
		}
	}
	plan.Placement = LayoutFor(fig, len(plan.Legends), strategy, m.cfg)
	return plan, nil
}

type channelGroup struct {
	channel string
	entries []Entry
}

// groupByChannel partitions entries by channel in first-seen order.
func groupByChannel(entries []Entry) []channelGroup {
	var groups []channelGroup
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Channel]
		if !ok {
			i = len(groups)
			index[e.Channel] = i
			groups = append(groups, channelGroup{channel: e.Channel})
		}
		groups[i].entries = append(groups[i].entries, e)
	}
	return groups
}
