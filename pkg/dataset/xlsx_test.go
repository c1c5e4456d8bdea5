package dataset

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]string{
		"A1": "metric", "B1": "model", "C1": "value",
		"A2": "loss", "B2": "7B", "C2": "0.91",
		"A3": "acc", "B3": "13B",
	}
	for ref, v := range cells {
		if err := f.SetCellValue("Sheet1", ref, v); err != nil {
			t.Fatalf("SetCellValue(%s) error: %v", ref, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer error: %v", err)
	}

	d, err := ReadXLSX(buf, "")
	if err != nil {
		t.Fatalf("ReadXLSX error: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if got := d.Value(1, "model"); got != "13B" {
		t.Errorf("Value(1, model) = %q, want 13B", got)
	}
	if got := d.Value(1, "value"); got != "" {
		t.Errorf("Value(1, value) = %q, want empty (padded)", got)
	}
}

func TestReadXLSXUnknownSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetCellValue("Sheet1", "A1", "x")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ReadXLSX(buf, "Results"); err == nil {
		t.Error("ReadXLSX(unknown sheet) should fail")
	}
}
