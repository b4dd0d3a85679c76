package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "H2", "h3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight})
	table.Append([]string{"ROW1", "ROW2", "foo bar"})
	table.Append([]string{"a", "b", "c"})
	table.Render()

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	assert.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestColoredTable(t *testing.T) {
	var buf bytes.Buffer

	bold := color.New(color.Bold)
	bold.EnableColor()
	green := color.New(color.FgGreen)
	green.EnableColor()

	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "HEADER2", "HEADER3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignCenter})
	table.Append([]string{bold.Sprint("Bold text"), "12345", green.Sprint("Green text")})
	table.Append([]string{"Normal", bold.Sprint("999"), green.Sprint("More color")})
	table.Render()

	result := buf.String()
	assert.Contains(t, result, "\x1b[")

	// Color codes must not break alignment.
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	require.Len(t, lines, 6)
	expectedLength := len(lines[0])
	for i := 1; i < len(lines); i++ {
		assert.Equal(t, expectedLength, len(stripAnsi(lines[i])), "line %d", i)
	}
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).Render()
	assert.Equal(t, "", buf.String())
}

func TestWithRows(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).WithRows([][]string{{"a", "bb"}, {"ccc"}}).Render()
	assert.Equal(t, "+-----+----+\n| a   | bb |\n| ccc |    |\n+-----+----+\n", buf.String())
}
