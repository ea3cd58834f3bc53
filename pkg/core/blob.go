package core

import "strings"

// BlobLine is one line of source shown around a marker
type BlobLine struct {
	Number int
	Text   string
	Marker bool
}

// BlobContext is a window of source lines surrounding a marker
type BlobContext struct {
	Start int
	End   int
	Lines []BlobLine
}

// Empty reports whether the context holds no lines
func (b BlobContext) Empty() bool {
	return len(b.Lines) == 0
}

// ExtractBlob returns up to window lines on each side of line, clamped to the file.
func ExtractBlob(content string, line, window int) BlobContext {
	if content == "" || window < 0 {
		return BlobContext{}
	}

	fileLines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	last := len(fileLines)

	if line < 1 {
		line = 1
	}
	if line > last {
		line = last
	}

	start := max(1, line-window)
	end := min(last, line+window)

	blob := BlobContext{Start: start, End: end, Lines: make([]BlobLine, 0, end-start+1)}
	for n := start; n <= end; n++ {
		blob.Lines = append(blob.Lines, BlobLine{
			Number: n,
			Text:   strings.TrimSuffix(fileLines[n-1], "\r"),
			Marker: n == line,
		})
	}

	return blob
}
