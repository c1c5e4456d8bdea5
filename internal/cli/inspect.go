package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/facetgrid/pkg/dataset"
	"github.com/matzehuels/facetgrid/pkg/facet"
)

const maxSampleValues = 4

// inspectOpts holds the flags of the inspect command.
type inspectOpts struct {
	rows, cols string
	wrap       int
}

// inspectCommand creates the inspect command, which summarizes a dataset's
// columns and, given --rows or --cols, previews the facet grid.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [data file]",
		Short: "Summarize a dataset and preview its facet grid",
		Example: `  facetgrid inspect runs.csv
  facetgrid inspect runs.csv --rows metric --cols dataset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), cacheOpts{noCache: true})
			if err != nil {
				return err
			}
			ds, err := runner.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printKeyValue("Rows", strconv.Itoa(ds.Len()))
			printKeyValue("Columns", strconv.Itoa(len(ds.Columns())))
			fmt.Fprintln(stdout, columnTable(ds))

			if opts.rows == "" && opts.cols == "" {
				return nil
			}
			req := facet.Request{RowsBy: opts.rows, ColsBy: opts.cols, Wrap: opts.wrap}
			grid, missing, err := gridTable(ds, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, grid)
			for _, m := range missing {
				printWarning("no rows for %s=%s, %s=%s", opts.rows, m.Row, opts.cols, m.Col)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.rows, "rows", "", "column that splits the grid into rows")
	cmd.Flags().StringVar(&opts.cols, "cols", "", "column that splits the grid into columns")
	cmd.Flags().IntVar(&opts.wrap, "wrap", 0, "wrap the single grid dimension after this many cells")

	return cmd
}

// columnTable lists every column with its distinct values.
func columnTable(ds *dataset.Dataset) string {
	rows := make([][]string, 0, len(ds.Columns()))
	for _, name := range ds.Columns() {
		values := facet.SortValues(ds.Distinct(name))
		kind := "text"
		if _, err := ds.Floats(name); err == nil {
			kind = "numeric"
		}
		sample := values
		if len(sample) > maxSampleValues {
			sample = append(sample[:maxSampleValues:maxSampleValues], "…")
		}
		rows = append(rows, []string{name, kind, strconv.Itoa(len(values)), strings.Join(sample, ", ")})
	}
	return newTable("Column", "Type", "Distinct", "Values").Rows(rows...).Render()
}

// gridTable lays the dataset out as req would and shows the row count of
// each cell.
func gridTable(ds *dataset.Dataset, req facet.Request) (string, []facet.Combination, error) {
	if err := req.ValidateLayout(); err != nil {
		return "", nil, err
	}
	dims, err := facet.Analyze(ds, req)
	if err != nil {
		return "", nil, err
	}
	layout, err := facet.ComputeGrid(req, dims)
	if err != nil {
		return "", nil, err
	}
	req.EmptyCells = facet.EmptyCellsSilent
	targets, err := layout.Targets(req)
	if err != nil {
		return "", nil, err
	}
	subsets, err := facet.SubsetData(dims.Source, layout, req, targets, nil)
	if err != nil {
		return "", nil, err
	}

	headers := make([]string, layout.Cols+1)
	for c := 0; c < layout.Cols; c++ {
		headers[c+1] = strconv.Itoa(c)
	}
	cells := make([][]string, layout.Rows)
	for r := 0; r < layout.Rows; r++ {
		cells[r] = make([]string, layout.Cols+1)
		cells[r][0] = strconv.Itoa(r)
		for c := 0; c < layout.Cols; c++ {
			sub, ok := subsets.At(facet.Pos{Row: r, Col: c})
			if !ok {
				continue
			}
			cells[r][c+1] = fmt.Sprintf("%s\n%s", sub.Title(), StyleNumber.Render(strconv.Itoa(sub.Data.Len())+" rows"))
		}
	}
	t := newTable(headers...).Rows(cells...)
	return fmt.Sprintf("%s %s\n%s", StyleTitle.Render("Grid"), StyleHighlight.Render(fmt.Sprintf("%d×%d %s", layout.Rows, layout.Cols, layout.Kind)), t.Render()), dims.Missing, nil
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}
