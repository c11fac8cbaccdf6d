package directive

import (
	"fmt"

	"github.com/yaklabco/ifdeflens/pkg/platform"
)

// Block describes one conditional-compilation region.
type Block struct {
	// Head is the range of the opening directive.
	Head Range `json:"head"`

	// Foot is the range of the closing directive. It equals Head until the
	// matching #endif is found.
	Foot Range `json:"foot"`

	// Outside is the platform mask active before entering the block.
	Outside platform.Mask `json:"outside"`

	// Inside is the platform mask active inside the block, always a submask
	// of Outside. Zero means the block can never be compiled.
	Inside platform.Mask `json:"inside"`

	// Kind is KindIfdef or KindIfndef.
	Kind Kind `json:"-"`

	// Condition is the trimmed condition text of the opening directive.
	Condition string `json:"condition"`

	// Depth is the nesting depth, 0 for top-level blocks.
	Depth int `json:"depth"`
}

// Span returns the range from the start of Head to the end of Foot.
func (b *Block) Span() Range {
	return b.Head.Union(b.Foot)
}

// Dead reports whether no concrete platform can reach the block.
func (b *Block) Dead() bool {
	return !b.Inside.Satisfiable()
}

// String formats the block as its 1-based head line and inside mask.
func (b *Block) String() string {
	return fmt.Sprintf("%3d: %s", b.Head.Start.Line+1, b.Inside)
}

// Relation classifies how one block's platforms relate to another's.
type Relation int

const (
	// Disjoint means no platform satisfies both blocks.
	Disjoint Relation = -1

	// Covers means the candidate is active wherever the reference is.
	Covers Relation = 0

	// Narrower means the blocks overlap but the candidate does not cover
	// the reference.
	Narrower Relation = 1
)

// String returns a lowercase label for r.
func (r Relation) String() string {
	switch r {
	case Disjoint:
		return "disjoint"
	case Covers:
		return "covers"
	case Narrower:
		return "narrower"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Compare classifies b against the reference block ref using their inside
// masks. The relation is directional: pass the reference second. A dead
// block shares no platform with anything, itself included, so it is
// Disjoint from every block.
func (b *Block) Compare(ref *Block) Relation {
	return CompareMasks(b.Inside, ref.Inside)
}

// CompareMasks is Compare on bare masks.
func CompareMasks(candidate, ref platform.Mask) Relation {
	shared := candidate & ref
	if shared&platform.AllVue == 0 || shared&platform.AllTarget == 0 {
		return Disjoint
	}
	if shared == ref {
		return Covers
	}
	return Narrower
}
