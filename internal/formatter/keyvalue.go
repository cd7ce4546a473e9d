package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// RenderRows renders two-column rows as a KEY/VALUE table. The key column is
// as wide as its longest key; values are truncated to maxWidth when it is set.
func RenderRows(rows [][]string, noColor bool, maxWidth int) string {
	keyWidth := len("KEY")
	for _, row := range rows {
		if len(row) > 0 {
			if w := lipgloss.Width(row[0]); w > keyWidth {
				keyWidth = w
			}
		}
	}
	valWidth := 0
	if maxWidth > 0 {
		valWidth = maxWidth - keyWidth - sepWidth
		if valWidth < minColWidth {
			valWidth = minColWidth
		}
	}

	sep := strings.Repeat(" ", sepWidth)
	var b strings.Builder
	b.WriteString(render(headerStyle, padRight("KEY", keyWidth), noColor) + sep + render(headerStyle, "VALUE", noColor) + "\n")
	for _, row := range rows {
		key, val := "", ""
		if len(row) > 0 {
			key = row[0]
		}
		if len(row) > 1 {
			val = row[1]
		}
		val = strings.ReplaceAll(val, "\n", " ")
		if valWidth > 0 {
			val = truncate(val, valWidth)
		}
		b.WriteString(render(keyStyle, padRight(key, keyWidth), noColor) + sep + render(valueStyle, val, noColor) + "\n")
	}
	return b.String()
}
