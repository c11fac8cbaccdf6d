package directive

import "fmt"

// Position is a 0-based line and byte column within a buffer.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Compare orders positions: -1 if p is before other, 1 if after, 0 if equal.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	default:
		return 0
	}
}

// String formats p as 1-based "line:col" for display.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Range is a span between two positions. End is exclusive for text but
// Contains treats both ends as inside, so a cursor sitting right after a
// directive still belongs to it.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within r, both ends inclusive.
func (r Range) Contains(pos Position) bool {
	return r.Start.Compare(pos) <= 0 && pos.Compare(r.End) <= 0
}

// Union returns the smallest range covering r and other.
func (r Range) Union(other Range) Range {
	out := r
	if other.Start.Compare(out.Start) < 0 {
		out.Start = other.Start
	}
	if other.End.Compare(out.End) > 0 {
		out.End = other.End
	}
	return out
}

// String formats r for display.
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}
