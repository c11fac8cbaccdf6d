// Package directive finds conditional-compilation blocks in source text and
// computes the platforms each block is active for.
//
// Directives live in comments and are matched line by line:
//
//	<!-- #ifdef H5 || MP-WEIXIN -->
//	// #ifndef VUE2
//	/* #endif */
//
// The parser is pure: the same lines and families always produce the same
// blocks, and no state is shared between calls.
package directive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/ifdeflens/pkg/platform"
)

// ErrUnbalanced is matched by every nesting failure.
var ErrUnbalanced = errors.New("unbalanced conditional directives")

// NestingError reports where nesting broke down.
type NestingError struct {
	// Line is the 0-based line of the offending directive.
	Line int

	// Reason describes the failure.
	Reason string
}

// Error implements the error interface.
func (e *NestingError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line+1, e.Reason)
}

// Is makes errors.Is(err, ErrUnbalanced) true for any NestingError.
func (e *NestingError) Is(target error) bool {
	return target == ErrUnbalanced
}

// ConditionMask computes the mask selected by a directive condition.
// Unknown platform names contribute nothing. For #ifndef each name is
// confined to the axis it constrains before the result is complemented,
// so "#ifndef VUE2" leaves every target enabled.
func ConditionMask(kind Kind, cond string) platform.Mask {
	var mask platform.Mask
	for _, name := range SplitCondition(cond) {
		named := platform.MaskOf(name)
		if kind != KindIfndef {
			mask |= named
			continue
		}
		if platform.IsVersion(name) {
			mask |= named & platform.AllVue
		} else {
			mask |= named & platform.AllTarget
		}
	}
	if kind == KindIfndef {
		mask ^= platform.All
	}
	return mask
}

// Parse scans lines for directives of the enabled families and returns the
// blocks in the order their opening directives appear. Unbalanced nesting
// fails the whole buffer with an error matching ErrUnbalanced and no blocks.
// With no families enabled the result is empty.
func Parse(lines []Line, families Families) ([]Block, error) {
	if families == 0 {
		return nil, nil
	}

	var (
		blocks  []Block
		stack   []int
		current = platform.All
	)

	for _, line := range lines {
		match, ok := Scan(line, families)
		if !ok {
			continue
		}

		switch match.Kind {
		case KindIfdef, KindIfndef:
			cond := trimCondition(match.Condition)
			blocks = append(blocks, Block{
				Head:      match.Range,
				Foot:      match.Range,
				Outside:   current,
				Inside:    current & ConditionMask(match.Kind, cond),
				Kind:      match.Kind,
				Condition: cond,
				Depth:     len(stack),
			})
			stack = append(stack, len(blocks)-1)
			current = blocks[len(blocks)-1].Inside

		case KindEndif:
			if len(stack) == 0 {
				return nil, &NestingError{Line: line.Number, Reason: "#endif without matching #ifdef or #ifndef"}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			blocks[top].Foot = match.Range
			current = blocks[top].Outside
		}
	}

	if len(stack) > 0 {
		open := blocks[stack[len(stack)-1]]
		return nil, &NestingError{
			Line:   open.Head.Start.Line,
			Reason: fmt.Sprintf("%s %s is never closed", open.Kind, open.Condition),
		}
	}

	return blocks, nil
}

// ParseContent splits content into lines and parses them.
func ParseContent(content []byte, families Families) ([]Block, error) {
	return Parse(SplitLines(content), families)
}

// trimCondition normalizes the captured condition text.
func trimCondition(cond string) string {
	return strings.Join(SplitCondition(cond), " || ")
}
