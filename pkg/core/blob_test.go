package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numberedFile(n int) string {
	lines := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		lines = append(lines, fmt.Sprintf("line%d", i))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestExtractBlob(t *testing.T) {
	content := numberedFile(10)

	tests := []struct {
		name       string
		line       int
		window     int
		start, end int
	}{
		{name: "middle", line: 5, window: 2, start: 3, end: 7},
		{name: "near start", line: 2, window: 5, start: 1, end: 7},
		{name: "near end", line: 9, window: 5, start: 4, end: 10},
		{name: "last line", line: 10, window: 3, start: 7, end: 10},
		{name: "past end", line: 20, window: 2, start: 8, end: 10},
		{name: "zero window", line: 4, window: 0, start: 4, end: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := ExtractBlob(content, tt.line, tt.window)

			assert.Equal(t, tt.start, blob.Start)
			assert.Equal(t, tt.end, blob.End)
			assert.Len(t, blob.Lines, tt.end-tt.start+1)

			markers := 0
			for i, l := range blob.Lines {
				assert.Equal(t, tt.start+i, l.Number)
				assert.Equal(t, fmt.Sprintf("line%d", l.Number), l.Text)
				assert.GreaterOrEqual(t, l.Number, 1)
				assert.LessOrEqual(t, l.Number, 10)
				if l.Marker {
					markers++
				}
			}
			assert.Equal(t, 1, markers)
		})
	}
}

func TestExtractBlob_MarkerFlag(t *testing.T) {
	blob := ExtractBlob(numberedFile(10), 5, 1)

	assert.False(t, blob.Lines[0].Marker)
	assert.True(t, blob.Lines[1].Marker)
	assert.False(t, blob.Lines[2].Marker)
}

func TestExtractBlob_Empty(t *testing.T) {
	assert.True(t, ExtractBlob("", 3, 5).Empty())
	assert.True(t, ExtractBlob("a\nb", 1, -1).Empty())
}

func TestExtractBlob_CRLF(t *testing.T) {
	blob := ExtractBlob("a\r\nb\r\nc\r\n", 2, 1)

	assert.Equal(t, []BlobLine{
		{Number: 1, Text: "a"},
		{Number: 2, Text: "b", Marker: true},
		{Number: 3, Text: "c"},
	}, blob.Lines)
}
