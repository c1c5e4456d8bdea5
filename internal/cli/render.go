package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetgrid/pkg/config"
	"github.com/matzehuels/facetgrid/pkg/errors"
	"github.com/matzehuels/facetgrid/pkg/facet"
	"github.com/matzehuels/facetgrid/pkg/legend"
	"github.com/matzehuels/facetgrid/pkg/pipeline"
	"github.com/matzehuels/facetgrid/pkg/render"
	"github.com/matzehuels/facetgrid/pkg/session"
)

// renderOpts holds the command-line flags for the render command. Flags
// that were set override the config file.
type renderOpts struct {
	configPath string

	// facet
	rows, cols, series string
	x, y               string
	rowOrder           []string
	colOrder           []string
	seriesOrder        []string
	wrap               int
	targetRows         []int
	targetCols         []int
	fixed              map[string]string
	exclude            []string // column=v1,v2
	emptyCells         string

	// layers
	layers  []string // kind[:channel]
	markers bool

	// figure
	title         string
	width, height float64
	legend        string
	legendColumns int
	themePreset   string
	colors        []string
	formats       string
	dpi           int
	padding       float64
	output        string
	refresh       bool
	cache         cacheOpts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [data file]",
		Short: "Render a faceted figure from a CSV, TSV, XLSX or JSON dataset",
		Long: `Render a faceted figure from a dataset.

The grid is split by --rows and/or --cols; --series draws one styled line,
marker set or bar group per value. Settings can also come from a TOML or
YAML file given with --config; flags override the file.`,
		Example: `  facetgrid render runs.csv --rows metric --cols dataset --series model --x step --y value --layer line
  facetgrid render runs.csv -c figure.toml -f svg,png -o out/runs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	bindRenderFlags(cmd, &opts)
	return cmd
}

func bindRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "figure config file (.toml, .yaml)")
	f.StringVar(&opts.rows, "rows", "", "column that splits the grid into rows")
	f.StringVar(&opts.cols, "cols", "", "column that splits the grid into columns")
	f.StringVar(&opts.series, "series", "", "column whose values become styled series")
	f.StringVar(&opts.x, "x", "", "x-axis column")
	f.StringVar(&opts.y, "y", "", "y-axis column")
	f.StringSliceVar(&opts.rowOrder, "row-order", nil, "explicit row values, in order")
	f.StringSliceVar(&opts.colOrder, "col-order", nil, "explicit column values, in order")
	f.StringSliceVar(&opts.seriesOrder, "series-order", nil, "explicit series values, in order")
	f.IntVar(&opts.wrap, "wrap", 0, "wrap the single grid dimension after this many cells")
	f.IntSliceVar(&opts.targetRows, "target-rows", nil, "only draw into these row indices")
	f.IntSliceVar(&opts.targetCols, "target-cols", nil, "only draw into these column indices")
	f.StringToStringVar(&opts.fixed, "fixed", nil, "keep only rows where column=value")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "drop rows where column is one of the values (column=v1,v2)")
	f.StringVar(&opts.emptyCells, "empty-cells", "", "empty cell policy: warn (default), error, silent")
	f.StringArrayVarP(&opts.layers, "layer", "l", nil, "layer to draw as kind[:channel], repeatable (kinds: "+strings.Join(render.KindNames(), ", ")+")")
	f.BoolVar(&opts.markers, "markers", false, "draw point markers on line layers")
	f.StringVar(&opts.title, "title", "", "figure title")
	f.Float64Var(&opts.width, "width", 0, "figure width in points")
	f.Float64Var(&opts.height, "height", 0, "figure height in points")
	f.StringVar(&opts.legend, "legend", "", "legend strategy: "+strings.Join(legend.StrategyNames(), ", "))
	f.IntVar(&opts.legendColumns, "legend-columns", 0, "maximum entries per legend row")
	f.StringVar(&opts.themePreset, "theme", "", "theme preset")
	f.StringSliceVar(&opts.colors, "colors", nil, "series colors as hex values")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	f.IntVar(&opts.dpi, "dpi", 0, "PNG resolution")
	f.Float64Var(&opts.padding, "padding", 0, "space between cells in points")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even if the figure is cached")
	f.BoolVar(&opts.cache.noCache, "no-cache", false, "disable the figure cache")
	f.StringVar(&opts.cache.redis, "redis", "", "Redis address or URL for a shared cache (default $"+envRedisAddr+")")

	_ = cmd.RegisterFlagCompletionFunc("legend", cobra.FixedCompletions(legend.StrategyNames(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("layer", cobra.FixedCompletions(render.KindNames(), cobra.ShellCompDirectiveNoFileComp))
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := buildOptions(cmd, opts)
	if err != nil {
		return err
	}
	popts.Logger = logger

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	ds, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}
	prog.step("loaded "+filepath.Base(input), "rows", ds.Len())

	spinner := newSpinner(ctx, "Rendering figure...")
	spinner.Start()
	result, err := runner.Execute(ctx, ds, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered "+filepath.Base(input), "formats", len(popts.Formats), "cached", result.CacheHit)

	paths := outputPaths(opts.output, input, popts.Formats)
	if err := writeArtifacts(result.Artifacts, paths); err != nil {
		return err
	}

	printSuccess("Rendered %s", filepath.Base(input))
	printStats(result.Stats.Rows, gridShape(result), result.CacheHit)
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	for _, rep := range result.Reports {
		if len(rep.EmptyCells) > 0 {
			printWarning("layer %d left %d empty cell(s)", rep.Layer, len(rep.EmptyCells))
		}
	}
	return nil
}

// buildOptions merges the config file (if any) with the flags that were set.
func buildOptions(cmd *cobra.Command, o *renderOpts) (pipeline.Options, error) {
	file := &config.File{}
	if o.configPath != "" {
		var err error
		if file, err = config.Load(o.configPath); err != nil {
			return pipeline.Options{}, err
		}
	}
	changed := cmd.Flags().Changed

	req, err := file.Request()
	if err != nil {
		return pipeline.Options{}, err
	}
	setIf(changed("rows"), &req.RowsBy, o.rows)
	setIf(changed("cols"), &req.ColsBy, o.cols)
	setIf(changed("series"), &req.SeriesBy, o.series)
	setIf(changed("x"), &req.X, o.x)
	setIf(changed("y"), &req.Y, o.y)
	setIf(changed("row-order"), &req.RowOrder, o.rowOrder)
	setIf(changed("col-order"), &req.ColOrder, o.colOrder)
	setIf(changed("series-order"), &req.SeriesOrder, o.seriesOrder)
	setIf(changed("wrap"), &req.Wrap, o.wrap)
	setIf(changed("target-rows"), &req.TargetRows, o.targetRows)
	setIf(changed("target-cols"), &req.TargetCols, o.targetCols)
	setIf(changed("fixed"), &req.Fixed, o.fixed)
	if changed("exclude") {
		if req.Exclude, err = parseExclude(o.exclude); err != nil {
			return pipeline.Options{}, err
		}
	}
	if changed("empty-cells") {
		if req.EmptyCells, err = facet.ParseEmptyCellPolicy(o.emptyCells); err != nil {
			return pipeline.Options{}, err
		}
	}

	layers, err := file.SessionLayers()
	if err != nil {
		return pipeline.Options{}, err
	}
	if changed("layer") {
		if layers, err = parseLayers(o.layers); err != nil {
			return pipeline.Options{}, err
		}
	}
	if o.markers {
		for i := range layers {
			layers[i].Options.Markers = true
		}
	}

	setIf(changed("legend"), &file.Legend.Strategy, o.legend)
	setIf(changed("legend-columns"), &file.Legend.MaxColumns, o.legendColumns)
	lc, err := file.LegendConfig()
	if err != nil {
		return pipeline.Options{}, err
	}

	fig := file.Figure
	setIf(changed("title"), &fig.Title, o.title)
	setIf(changed("width"), &fig.Width, o.width)
	setIf(changed("height"), &fig.Height, o.height)
	setIf(changed("dpi"), &fig.DPI, o.dpi)
	setIf(changed("padding"), &fig.Padding, o.padding)
	formats := fig.Formats
	if changed("format") || len(formats) == 0 {
		formats = parseFormats(o.formats)
	}

	th := file.Theme
	setIf(changed("theme"), &th.Preset, o.themePreset)
	setIf(changed("colors"), &th.Colors, o.colors)

	return pipeline.Options{
		Request: req,
		Layers:  layers,
		Title:   fig.Title,
		Width:   fig.Width,
		Height:  fig.Height,
		Theme:   th,
		Legend:  lc,
		Formats: formats,
		DPI:     fig.DPI,
		Padding: fig.Padding,
		Refresh: o.refresh,
	}, nil
}

func setIf[T any](ok bool, dst *T, v T) {
	if ok {
		*dst = v
	}
}

// parseLayers parses --layer values of the form kind[:channel].
func parseLayers(specs []string) ([]session.Layer, error) {
	layers := make([]session.Layer, 0, len(specs))
	for _, spec := range specs {
		kind, channel, _ := strings.Cut(spec, ":")
		l, err := config.Layer{Kind: kind, Channel: channel}.Session()
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "--layer %q", spec)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

// parseExclude parses --exclude values of the form column=v1,v2.
func parseExclude(specs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(specs))
	for _, spec := range specs {
		col, values, ok := strings.Cut(spec, "=")
		if !ok || col == "" || values == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --exclude %q (want column=v1,v2)", spec)
		}
		out[col] = append(out[col], strings.Split(values, ",")...)
	}
	return out, nil
}

// outputPaths maps each format to its output file. A single format uses
// output verbatim when it has an extension; otherwise output (or the input
// path without its extension) is a base path that gets ".format" appended.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if ext := filepath.Ext(base); slices.Contains(render.Formats(), strings.TrimPrefix(ext, ".")) {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeArtifacts(artifacts map[string][]byte, paths map[string]string) error {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func gridShape(r *pipeline.Result) string {
	if len(r.Reports) == 0 {
		return ""
	}
	l := r.Reports[0].Layout
	return fmt.Sprintf("%d×%d grid", l.Rows, l.Cols)
}
