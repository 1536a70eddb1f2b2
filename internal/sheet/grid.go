package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Grid is the raw cell matrix of the first worksheet. Row 0 holds the
// header cells; trailing empty cells may be absent from a row.
type Grid [][]string

// ReadError reports a failure to open or decode a spreadsheet file. It is
// fatal for the request; no extraction path can proceed without the grid.
type ReadError struct {
	Path string
	Err  error
}

// Error returns a string representation of the error
func (e *ReadError) Error() string {
	return fmt.Sprintf("read spreadsheet %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadGrid loads the first worksheet of an .xlsx/.xls file as a Grid.
func ReadGrid(path string) (Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return Grid(rows), nil
}

// isEmptyRow reports whether a row has no non-empty cell.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// cellAt returns the cell at idx or "" when the row is shorter.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
