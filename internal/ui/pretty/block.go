package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/highlight"
	"github.com/yaklabco/ifdeflens/pkg/platform"
)

// FormatMask renders a mask as Width binary digits with set bits highlighted.
// A "|" separates the target bits from the two framework-version bits.
func (s *Styles) FormatMask(mask platform.Mask) string {
	digits := mask.String()
	split := len(digits) - 2

	var builder strings.Builder
	for i, digit := range digits {
		if i == split {
			builder.WriteString(s.Dim.Render("|"))
		}
		if digit == '1' {
			builder.WriteString(s.BitOn.Render("1"))
		} else {
			builder.WriteString(s.BitOff.Render("0"))
		}
	}
	return builder.String()
}

// FormatBlock formats one block as an indented line:
//
//	   12:3   #ifdef H5 || MP-WEIXIN  000000000000100001|11  H5|MP-WEIXIN  ..20
func (s *Styles) FormatBlock(block *directive.Block) string {
	indent := strings.Repeat("  ", block.Depth)
	location := fmt.Sprintf("%5d:%-3d", block.Head.Start.Line+1, block.Head.Start.Character+1)

	head := s.Directive.Render(block.Kind.String())
	if block.Condition != "" {
		head += " " + s.Condition.Render(block.Condition)
	}

	line := fmt.Sprintf("  %s %s%s  %s  %s",
		s.Location.Render(location),
		indent,
		head,
		s.FormatMask(block.Inside),
		s.Platforms.Render(block.Inside.Describe()),
	)
	if block.Dead() {
		line += "  " + s.Dead.Render("(unreachable)")
	}
	if block.Foot != block.Head {
		line += s.Dim.Render(fmt.Sprintf("  ..%d", block.Foot.Start.Line+1))
	}
	return line + "\n"
}

// FormatRelation returns a styled name for a block's relation to the
// block under the cursor.
func (s *Styles) FormatRelation(rel directive.Relation) string {
	switch rel {
	case directive.Disjoint:
		return s.Disjoint.Render(rel.String())
	case directive.Covers:
		return s.Covers.Render(rel.String())
	case directive.Narrower:
		return s.Narrower.Render(rel.String())
	default:
		return rel.String()
	}
}

// FormatDim formats a range the editor would dim.
func (s *Styles) FormatDim(dim highlight.Dim) string {
	return fmt.Sprintf("  %s  %s\n",
		s.Location.Render(dim.Range.String()),
		s.Dim.Render(string(dim.Reason)),
	)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, blockCount int) string {
	header := s.FilePath.Render(path)
	switch blockCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 block)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d blocks)", blockCount))
	}
	return header
}
