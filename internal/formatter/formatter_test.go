package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
		{"hello", 0, "hello"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.max), "truncate(%q, %d)", tt.in, tt.max)
	}
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "  ab", padLeft("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 6))
}

func TestRenderColumnarTable(t *testing.T) {
	out := RenderColumnarTable(
		[]string{"FIELD", "OP", "VALUE"},
		[][]string{{"host", "=", "api"}, {"status", "==", "200"}},
		ColumnarOptions{NoColor: true, TotalWidth: 80, RowNumberStyle: "numbered"},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "#  FIELD   OP  VALUE"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "───"))
	assert.Equal(t, "1  host    =   api", lines[2])
	assert.Equal(t, "2  status  ==  200", lines[3])
}

func TestRenderColumnarTableShrinksToFit(t *testing.T) {
	long := strings.Repeat("x", 100)
	out := RenderColumnarTable([]string{"A", "B"}, [][]string{{"a", long}}, ColumnarOptions{NoColor: true, TotalWidth: 30, RowNumberStyle: "none"})
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 30, line)
	}
	assert.Contains(t, out, "...")
}

func TestRenderColumnarTableRightAlign(t *testing.T) {
	out := RenderColumnarTable([]string{"NAME", "FIELDS"}, [][]string{{"assets", "7"}}, ColumnarOptions{NoColor: true, TotalWidth: 80, RightAlign: []string{"FIELDS"}})
	assert.Contains(t, out, "assets       7")
}

func TestRenderColumnarTableEmpty(t *testing.T) {
	assert.Empty(t, RenderColumnarTable(nil, nil, ColumnarOptions{}))
}

func TestRenderRows(t *testing.T) {
	out := RenderRows([][]string{{"name", "assets"}, {"description", "multi\nline"}}, true, 0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "KEY          VALUE", lines[0])
	assert.Equal(t, "name         assets", lines[1])
	assert.Equal(t, "description  multi line", lines[2])
}

func TestRenderRowsTruncatesValues(t *testing.T) {
	out := RenderRows([][]string{{"k", strings.Repeat("v", 50)}}, true, 20)
	assert.Contains(t, out, "vvvvvvvvvvvvvv...")
	assert.NotContains(t, out, strings.Repeat("v", 20))
}
