package sheet

import (
	"fmt"
	"strings"
)

// Render converts a grid to the structured text submitted to the AI model
// on the AI-assisted spreadsheet path. Raw headers are kept verbatim so the
// model sees the source vocabulary; empty rows and empty cells are omitted.
func Render(grid Grid) string {
	lines := []string{"EXCEL DATA:", strings.Repeat("=", 80)}

	var headers []string
	if len(grid) > 0 {
		for _, h := range grid[0] {
			if h != "" {
				headers = append(headers, h)
			}
		}
	}
	lines = append(lines, "HEADERS: "+strings.Join(headers, " | "))
	lines = append(lines, strings.Repeat("-", 80))

	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if isEmptyRow(row) {
			continue
		}

		var cells []string
		for idx, value := range row {
			if idx < len(headers) && value != "" {
				cells = append(cells, fmt.Sprintf("%s: %s", headers[idx], value))
			}
		}
		if len(cells) > 0 {
			lines = append(lines, fmt.Sprintf("ROW %d: %s", i+1, strings.Join(cells, " | ")))
		}
	}

	return strings.Join(lines, "\n")
}
