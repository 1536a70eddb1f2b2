package sheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a real .xlsx fixture on disk.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReadGrid(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Serial Number", "Product Name", "Total"},
		{"INV1", "Widget", 100},
	})

	grid, err := ReadGrid(path)
	if err != nil {
		t.Fatalf("ReadGrid returned error: %v", err)
	}
	if len(grid) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid))
	}
	if grid[0][0] != "Serial Number" {
		t.Errorf("header cell = %q", grid[0][0])
	}
	if grid[1][2] != "100" {
		t.Errorf("numeric cell = %q, want 100", grid[1][2])
	}
}

func TestReadGridMissingFile(t *testing.T) {
	_, err := ReadGrid(filepath.Join(t.TempDir(), "nope.xlsx"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %T", err)
	}
}
