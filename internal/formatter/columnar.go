package formatter

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// ColumnarOptions configures RenderColumnarTable.
type ColumnarOptions struct {
	// NoColor disables color output
	NoColor bool

	// TotalWidth is the total available width. If 0, uses terminal width.
	TotalWidth int

	// RowNumberStyle is "numbered" (1, 2, 3) or "none".
	RowNumberStyle string

	// RightAlign names the columns whose values are right-aligned.
	RightAlign []string
}

// RenderColumnarTable renders rows under a header of column names, shrinking
// the widest columns when the table does not fit.
func RenderColumnarTable(columns []string, rows [][]string, opts ColumnarOptions) string {
	if len(columns) == 0 {
		return ""
	}
	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}

	showRowNum := opts.RowNumberStyle == rowNumNumbered
	rowNumWidth := 0
	available := totalWidth
	if showRowNum {
		rowNumWidth = len(fmt.Sprintf("%d", len(rows)))
		available -= rowNumWidth + sepWidth
	}
	widths := calculateColumnWidths(columns, rows, available)

	right := make([]bool, len(columns))
	for i, col := range columns {
		for _, r := range opts.RightAlign {
			if r == col {
				right[i] = true
			}
		}
	}

	sep := strings.Repeat(" ", sepWidth)
	var b strings.Builder

	header := make([]string, 0, len(columns)+1)
	if showRowNum {
		header = append(header, render(headerStyle, padRight("#", rowNumWidth), opts.NoColor))
	}
	for i, col := range columns {
		header = append(header, render(headerStyle, padRight(col, widths[i]), opts.NoColor))
	}
	b.WriteString(strings.Join(header, sep) + "\n")

	lineWidth := 0
	for _, h := range header {
		lineWidth += lipgloss.Width(h)
	}
	lineWidth += sepWidth * (len(header) - 1)
	b.WriteString(render(separatorStyle, strings.Repeat("─", lineWidth), opts.NoColor) + "\n")

	for n, row := range rows {
		parts := make([]string, 0, len(columns)+1)
		if showRowNum {
			parts = append(parts, render(keyStyle, padRight(fmt.Sprintf("%d", n+1), rowNumWidth), opts.NoColor))
		}
		for i := range columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if right[i] {
				val = padLeft(val, widths[i])
			} else {
				val = padRight(val, widths[i])
			}
			parts = append(parts, render(valueStyle, val, opts.NoColor))
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " ") + "\n")
	}
	return b.String()
}

func calculateColumnWidths(columns []string, rows [][]string, availableWidth int) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(columns); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	usable := availableWidth - (len(columns)-1)*sepWidth
	if usable <= 0 || sum(widths) <= usable {
		return widths
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	// Shave the widest column until the table fits or nothing can shrink.
	for sum(widths) > usable {
		widest := 0
		for i := 1; i < len(widths); i++ {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func sum(ws []int) int {
	total := 0
	for _, w := range ws {
		total += w
	}
	return total
}
