package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ParseError is returned when a hunk of a patch cannot be parsed
type ParseError struct {
	// Line is the 1-based patch line the error was found on
	Line   int
	Header string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed hunk %q on patch line %d: %v", e.Header, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// hunkChunk is the raw text of one hunk and the patch line its header is on
type hunkChunk struct {
	line   int
	header string
	text   string
}

// ParsePatch turns the patch of a single file into numbered diff lines.
// An empty patch yields no lines and no error.
func ParsePatch(patch string) ([]DiffLine, error) {
	if patch == "" {
		return nil, nil
	}

	var lines []DiffLine
	for _, chunk := range splitHunks(patch) {
		hunks, err := diff.ParseHunks([]byte(chunk.text))
		if err != nil {
			return nil, chunk.parseError(err)
		}

		for _, h := range hunks {
			lines = appendHunk(lines, h)
		}
	}

	return lines, nil
}

// splitHunks cuts a patch at its hunk headers. File headers before the
// first hunk are dropped.
func splitHunks(patch string) []hunkChunk {
	raw := strings.Split(strings.ReplaceAll(patch, "\r\n", "\n"), "\n")

	var starts []int
	for i, line := range raw {
		if strings.HasPrefix(line, "@@") {
			starts = append(starts, i)
		}
	}

	chunks := make([]hunkChunk, 0, len(starts))
	for n, start := range starts {
		end := len(raw)
		if n+1 < len(starts) {
			end = starts[n+1]
		}
		chunks = append(chunks, hunkChunk{
			line:   start + 1,
			header: raw[start],
			text:   strings.Join(raw[start:end], "\n"),
		})
	}

	return chunks
}

func (c hunkChunk) parseError(err error) *ParseError {
	line := c.line
	var derr *diff.ParseError
	if errors.As(err, &derr) && derr.Line > 0 {
		line = c.line + derr.Line - 1
		err = derr.Err
	}
	return &ParseError{Line: line, Header: c.header, Err: err}
}

// appendHunk numbers the body lines of a hunk against the new file.
// Deleted lines carry the number of the next new-file line.
func appendHunk(lines []DiffLine, h *diff.Hunk) []DiffLine {
	if len(h.Body) == 0 {
		return lines
	}

	number := int(h.NewStartLine)
	for _, raw := range strings.Split(strings.TrimSuffix(string(h.Body), "\n"), "\n") {
		if strings.HasPrefix(raw, `\`) {
			continue
		}

		switch {
		case strings.HasPrefix(raw, "+"):
			lines = append(lines, DiffLine{Number: number, Kind: LineAdded, Text: raw[1:]})
			number++
		case strings.HasPrefix(raw, "-"):
			lines = append(lines, DiffLine{Number: number, Kind: LineDeleted, Text: raw[1:]})
		default:
			lines = append(lines, DiffLine{Number: number, Kind: LineContext, Text: strings.TrimPrefix(raw, " ")})
			number++
		}
	}

	return lines
}
