package facet

import (
	"strconv"
	"testing"

	"github.com/matzehuels/facetgrid/pkg/dataset"
)

// benchmarkData returns metric × dataset × model rows with one value per
// combination; value is a running counter so rows stay distinguishable.
func benchmarkData(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.MustNew("metric", "dataset", "model", "step", "value")
	n := 0
	for _, metric := range []string{"loss", "acc"} {
		for _, split := range []string{"train", "val", "test"} {
			for _, model := range []string{"A", "B", "C", "D"} {
				for _, step := range []string{"1", "2"} {
					n++
					if err := ds.Append(metric, split, model, step, strconv.Itoa(n)); err != nil {
						t.Fatalf("Append() error = %v", err)
					}
				}
			}
		}
	}
	return ds
}

// metricData returns one row for each of the given metric names.
func metricData(t *testing.T, metrics ...string) *dataset.Dataset {
	t.Helper()
	ds := dataset.MustNew("metric", "step", "value")
	for i, m := range metrics {
		if err := ds.Append(m, "1", strconv.Itoa(i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return ds
}

func benchmarkRequest() Request {
	return Request{
		RowsBy:   "metric",
		ColsBy:   "dataset",
		SeriesBy: "model",
		RowOrder: []string{"loss", "acc"},
		ColOrder: []string{"train", "val", "test"},
		X:        "step",
		Y:        "value",
	}
}

func intPtr(i int) *int { return &i }

func positions(ps ...[2]int) []Pos {
	out := make([]Pos, len(ps))
	for i, p := range ps {
		out[i] = Pos{Row: p[0], Col: p[1]}
	}
	return out
}
