package directive

// Line is one line of a buffer without its line terminator.
type Line struct {
	// Number is the 0-based line index.
	Number int

	// Text is the line content, excluding the line terminator.
	Text string

	// StartOffset is the byte offset of the first byte of the line.
	StartOffset int

	// EndOffset is the byte offset just past the line content.
	EndOffset int
}

// SplitLines breaks content into lines. LF, CRLF and a lone CR all end a
// line. A trailing line break yields a final empty line.
func SplitLines(content []byte) []Line {
	if len(content) == 0 {
		return []Line{}
	}

	var lines []Line
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		char := content[idx]
		if char != '\n' && char != '\r' {
			continue
		}

		end := idx
		if char == '\r' && idx+1 < len(content) && content[idx+1] == '\n' {
			idx++
		}

		lines = append(lines, Line{
			Number:      len(lines),
			Text:        string(content[lineStart:end]),
			StartOffset: lineStart,
			EndOffset:   end,
		})
		lineStart = idx + 1
	}

	lines = append(lines, Line{
		Number:      len(lines),
		Text:        string(content[lineStart:]),
		StartOffset: lineStart,
		EndOffset:   len(content),
	})

	return lines
}
