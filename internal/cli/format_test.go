package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPad_UsesDisplayWidth(t *testing.T) {
	assert.Equal(t, "CE201 ", pad("CE201", 6))
	assert.Equal(t, "课程  ", pad("课程", 6), "wide runes take two columns")
	assert.Equal(t, "too long", pad("too long", 3))
}

func TestPrinter_TableAlignsColumns(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	newPrinter(&buf).Table(
		[]string{"ID", "Course"},
		[][]string{{"1", "Web Programming"}, {"12", "AI"}},
	)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  ID  Course         ", lines[0])
	assert.Equal(t, "  --  ---------------", lines[1])
	assert.Equal(t, "  1   Web Programming", lines[2])
	assert.Equal(t, "  12  AI             ", lines[3])
}

func TestPrinter_TableSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf).Table([]string{"ID"}, nil)
	assert.Zero(t, buf.Len())
}
