package render

import (
	"fmt"
	"io"
	"strings"
)

// Column width limits for list views.
const (
	TaskTitleWidth   = 48
	ProjectNameWidth = 36
	FolderNameWidth  = 42
	ColumnNameWidth  = 42
)

// Truncate shortens a value to at most max characters, replacing the tail
// with "..." when it has to cut. It never pads.
func Truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// PrintTable writes a fixed-width table: header row, dashed separator,
// then one row per entry. Column widths are computed per invocation from
// the union of header and cell lengths; cells join with two spaces.
func PrintTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow := func(values []string) {
		padded := make([]string, len(values))
		for i, v := range values {
			padded[i] = v + strings.Repeat(" ", widths[i]-len([]rune(v)))
		}
		fmt.Fprintln(w, strings.Join(padded, "  "))
	}

	writeRow(headers)
	dashes := make([]string, len(widths))
	for i, width := range widths {
		dashes[i] = strings.Repeat("-", width)
	}
	writeRow(dashes)
	for _, row := range rows {
		writeRow(row)
	}
}
