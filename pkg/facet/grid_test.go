package facet

import (
	"slices"
	"testing"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

func TestComputeGridExplicit(t *testing.T) {
	req := benchmarkRequest()
	dims, err := Analyze(benchmarkData(t), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	l, err := ComputeGrid(req, dims)
	if err != nil {
		t.Fatalf("ComputeGrid() error = %v", err)
	}
	if l.Rows != 2 || l.Cols != 3 {
		t.Errorf("shape = (%d,%d), want (2,3)", l.Rows, l.Cols)
	}
	if l.Kind != LayoutExplicit {
		t.Errorf("Kind = %v, want %v", l.Kind, LayoutExplicit)
	}
	if len(l.FillOrder) != 6 || l.FillOrder[4] != (Pos{1, 1}) {
		t.Errorf("FillOrder = %v, want row-major 2x3", l.FillOrder)
	}
	row, col, ok := l.Values(Pos{0, 1})
	if !ok || row != "loss" || col != "val" {
		t.Errorf("Values(0,1) = %q, %q, %v, want loss, val, true", row, col, ok)
	}
}

func TestComputeGridShapes(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		n        int
		rows     int
		cols     int
		kind     LayoutKind
		wantFill []Pos
	}{
		{
			name: "wrap 5 by 2",
			req:  Request{RowsBy: "metric", Wrap: 2},
			n:    5, rows: 3, cols: 2, kind: LayoutWrappedRows,
			wantFill: positions([2]int{0, 0}, [2]int{0, 1}, [2]int{1, 0}, [2]int{1, 1}, [2]int{2, 0}),
		},
		{
			name: "wrap exact",
			req:  Request{RowsBy: "metric", Wrap: 2},
			n:    4, rows: 2, cols: 2, kind: LayoutWrappedRows,
			wantFill: positions([2]int{0, 0}, [2]int{0, 1}, [2]int{1, 0}, [2]int{1, 1}),
		},
		{
			name: "wrap wider than values",
			req:  Request{RowsBy: "metric", Wrap: 4},
			n:    3, rows: 1, cols: 4, kind: LayoutWrappedRows,
			wantFill: positions([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}),
		},
		{
			name: "wrapped cols is transpose",
			req:  Request{ColsBy: "metric", Wrap: 2},
			n:    5, rows: 2, cols: 3, kind: LayoutWrappedCols,
			wantFill: positions([2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{0, 2}),
		},
		{
			name: "rows only",
			req:  Request{RowsBy: "metric"},
			n:    3, rows: 3, cols: 1, kind: LayoutExplicit,
			wantFill: positions([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}),
		},
		{
			name: "cols only",
			req:  Request{ColsBy: "metric"},
			n:    2, rows: 1, cols: 2, kind: LayoutExplicit,
			wantFill: positions([2]int{0, 0}, [2]int{0, 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := []string{"m0", "m1", "m2", "m3", "m4"}[:tt.n]
			req := tt.req
			req.X, req.Y = "step", "value"
			dims, err := Analyze(metricData(t, values...), req)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			l, err := ComputeGrid(req, dims)
			if err != nil {
				t.Fatalf("ComputeGrid() error = %v", err)
			}
			if l.Rows != tt.rows || l.Cols != tt.cols {
				t.Errorf("shape = (%d,%d), want (%d,%d)", l.Rows, l.Cols, tt.rows, tt.cols)
			}
			if l.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", l.Kind, tt.kind)
			}
			if !slices.Equal(l.FillOrder, tt.wantFill) {
				t.Errorf("FillOrder = %v, want %v", l.FillOrder, tt.wantFill)
			}
			for i, p := range l.FillOrder {
				row, col, ok := l.Values(p)
				if !ok || (row != values[i] && col != values[i]) {
					t.Errorf("Values(%v) = %q, %q, %v, want %q", p, row, col, ok, values[i])
				}
			}
		})
	}
}

func TestComputeGridWrappedProperty(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for k := 1; k <= 4; k++ {
			l := wrappedLayout(LayoutWrappedRows, &Dimension{Name: "d", Values: make([]string, n)}, k)
			if want := (n + k - 1) / k; l.Rows != want || l.Cols != k {
				t.Errorf("n=%d k=%d: shape = (%d,%d), want (%d,%d)", n, k, l.Rows, l.Cols, want, k)
			}
			for i, p := range l.FillOrder {
				if p != (Pos{i / k, i % k}) {
					t.Errorf("n=%d k=%d: FillOrder[%d] = %v, want (%d,%d)", n, k, i, p, i/k, i%k)
				}
				if !l.Filled(p) {
					t.Errorf("n=%d k=%d: Filled(%v) = false", n, k, p)
				}
			}
			if filled := countFilled(l); filled != n {
				t.Errorf("n=%d k=%d: %d filled cells, want %d", n, k, filled, n)
			}
		}
	}
}

func countFilled(l Layout) int {
	n := 0
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			if l.Filled(Pos{r, c}) {
				n++
			}
		}
	}
	return n
}

func TestComputeGridInvalid(t *testing.T) {
	rows := &Dimension{Name: "metric", Values: []string{"a", "b"}}
	cols := &Dimension{Name: "dataset", Values: []string{"x"}}

	tests := []struct {
		name string
		req  Request
		dims Dimensions
	}{
		{"nothing set", Request{}, Dimensions{}},
		{"explicit with wrap", Request{RowsBy: "metric", ColsBy: "dataset", Wrap: 2}, Dimensions{Rows: rows, Cols: cols}},
		{"dims disagree", Request{RowsBy: "metric"}, Dimensions{Cols: cols}},
		{"empty dimension", Request{RowsBy: "metric"}, Dimensions{Rows: &Dimension{Name: "metric"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeGrid(tt.req, tt.dims)
			if !errors.Is(err, errors.ErrCodeInvalidGridConfig) {
				t.Errorf("ComputeGrid() = %v, want %v", err, errors.ErrCodeInvalidGridConfig)
			}
		})
	}
}

func TestLayoutCheckShape(t *testing.T) {
	l := Layout{Rows: 2, Cols: 3}
	if err := l.CheckShape(2, 3); err != nil {
		t.Errorf("CheckShape(2,3) error = %v", err)
	}
	err := l.CheckShape(3, 2)
	if !errors.Is(err, errors.ErrCodeGridShapeMismatch) {
		t.Errorf("CheckShape(3,2) = %v, want %v", err, errors.ErrCodeGridShapeMismatch)
	}
}

func TestValidateOverrides(t *testing.T) {
	l := Layout{Rows: 2, Cols: 2}
	ok := [][]CellLabels{{{Title: "a"}, {}}, {{}, {}}}

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"none", Request{}, false},
		{"labels match", Request{Labels: ok}, false},
		{"limits empty rows", Request{Limits: make([][]CellLimits, 2)}, true},
		{"labels too few rows", Request{Labels: ok[:1]}, true},
		{"labels short row", Request{Labels: [][]CellLabels{{{}, {}}, {{}}}}, true},
		{"limits match", Request{Limits: [][]CellLimits{{{}, {}}, {{}, {}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOverrides(tt.req, l)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOverrides() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeGridShapeMismatch) {
				t.Errorf("ValidateOverrides() code = %v, want %v", errors.GetCode(err), errors.ErrCodeGridShapeMismatch)
			}
		})
	}

	req := Request{Labels: ok}
	if got := req.LabelsAt(Pos{0, 0}).Title; got != "a" {
		t.Errorf("LabelsAt(0,0).Title = %q, want a", got)
	}
	if got := req.LabelsAt(Pos{5, 5}); got != (CellLabels{}) {
		t.Errorf("LabelsAt(5,5) = %v, want zero", got)
	}
}
