// Package highlight relates the blocks of a buffer to the block under a
// cursor and decides which ranges a viewer should dim.
package highlight

import "github.com/yaklabco/ifdeflens/pkg/directive"

// Reason explains why a range is dimmed.
type Reason string

const (
	// ReasonExclusive marks a block that can never be active together
	// with the current one. The whole block is dimmed.
	ReasonExclusive Reason = "exclusive"

	// ReasonRedundant marks a block that is active wherever the current
	// one is. Only its directive lines are dimmed.
	ReasonRedundant Reason = "redundant"
)

// Dim is a range to render de-emphasized.
type Dim struct {
	Range  directive.Range `json:"range"`
	Reason Reason          `json:"reason"`
	Block  int             `json:"block"`
}

// Classification pairs a block index with its relation to the current block.
type Classification struct {
	Block    int                `json:"block"`
	Relation directive.Relation `json:"relation"`
}

// Enclosing returns the index of the innermost block whose span contains
// pos. Blocks are in opening order, so the last match is the innermost.
func Enclosing(blocks []directive.Block, pos directive.Position) (int, bool) {
	found := -1
	for idx := range blocks {
		if blocks[idx].Span().Contains(pos) {
			found = idx
		}
	}
	return found, found >= 0
}

// Classify compares every block against blocks[current].
func Classify(blocks []directive.Block, current int) []Classification {
	if current < 0 || current >= len(blocks) {
		return nil
	}
	ref := &blocks[current]
	out := make([]Classification, len(blocks))
	for idx := range blocks {
		out[idx] = Classification{Block: idx, Relation: blocks[idx].Compare(ref)}
	}
	return out
}

// Decorate returns the ranges to dim for a cursor at pos. Nothing is dimmed
// when the cursor is outside every block.
func Decorate(blocks []directive.Block, pos directive.Position) []Dim {
	current, ok := Enclosing(blocks, pos)
	if !ok {
		return nil
	}

	var dims []Dim
	for _, class := range Classify(blocks, current) {
		block := &blocks[class.Block]
		switch class.Relation {
		case directive.Disjoint:
			dims = append(dims, Dim{Range: block.Span(), Reason: ReasonExclusive, Block: class.Block})
		case directive.Covers:
			dims = append(dims,
				Dim{Range: block.Head, Reason: ReasonRedundant, Block: class.Block},
				Dim{Range: block.Foot, Reason: ReasonRedundant, Block: class.Block},
			)
		case directive.Narrower:
		}
	}
	return dims
}
