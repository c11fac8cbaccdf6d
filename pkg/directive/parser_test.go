package directive_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/platform"
)

// linesOf joins texts with "\n" and splits them back into lines.
func linesOf(texts ...string) []directive.Line {
	return directive.SplitLines([]byte(strings.Join(texts, "\n")))
}

func parse(t *testing.T, families directive.Families, texts ...string) []directive.Block {
	t.Helper()

	blocks, err := directive.Parse(linesOf(texts...), families)
	require.NoError(t, err)
	return blocks
}

func TestParse_SingleBlock(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine,
		"// #ifdef H5",
		"code",
		"// #endif",
	)

	require.Len(t, blocks, 1)
	block := blocks[0]
	assert.Equal(t, platform.All, block.Outside)
	assert.Equal(t, platform.All&platform.MaskOf("H5"), block.Inside)
	assert.Equal(t, "H5", block.Condition)
	assert.Equal(t, directive.KindIfdef, block.Kind)
	assert.Equal(t, 0, block.Depth)

	assert.Equal(t, directive.Range{
		Start: directive.Position{Line: 0, Character: 0},
		End:   directive.Position{Line: 0, Character: 12},
	}, block.Head)
	assert.Equal(t, directive.Range{
		Start: directive.Position{Line: 2, Character: 0},
		End:   directive.Position{Line: 2, Character: 9},
	}, block.Foot)
}

func TestParse_Nested(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine,
		"// #ifdef APP",
		"// #ifdef APP-IOS",
		"x",
		"// #endif",
		"// #endif",
		"// #ifdef H5",
		"// #endif",
	)

	require.Len(t, blocks, 3)
	outer, inner, after := blocks[0], blocks[1], blocks[2]

	assert.Equal(t, platform.MaskOf("APP"), outer.Inside)
	assert.Equal(t, outer.Inside, inner.Outside)
	assert.Equal(t, platform.MaskOf("APP-IOS"), inner.Inside)
	assert.NotEqual(t, outer.Inside, inner.Inside)
	assert.True(t, outer.Inside.Has(inner.Inside), "inner must be a submask of outer")
	assert.Equal(t, 1, inner.Depth)

	// Foot lines are assigned innermost first.
	assert.Equal(t, 3, inner.Foot.Start.Line)
	assert.Equal(t, 4, outer.Foot.Start.Line)

	// The context returns to ALL once both blocks close.
	assert.Equal(t, platform.All, after.Outside)
}

func TestParse_SiblingsRestoreParentContext(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine,
		"// #ifdef APP",
		"// #ifdef APP-IOS",
		"// #endif",
		"// #ifndef APP-ANDROID",
		"// #endif",
		"// #ifdef MP-WEIXIN",
		"// #endif",
		"// #endif",
	)

	require.Len(t, blocks, 4)
	parent := blocks[0]
	for _, child := range blocks[1:] {
		assert.Equal(t, parent.Inside, child.Outside, child.Condition)
	}
	assert.Zero(t, blocks[3].Inside, "MP-WEIXIN inside APP is dead code")
	assert.True(t, blocks[3].Dead())
}

func TestParse_Negated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cond string
		want platform.Mask
	}{
		{"version", "VUE2", platform.All &^ platform.BitVue2},
		{"target", "H5", platform.All &^ platform.BitH5},
		{"mixed axes", "H5 || VUE3", platform.All &^ (platform.BitH5 | platform.BitVue3)},
		{"family", "MP", platform.All &^ (platform.MaskOf("MP") & platform.AllTarget)},
		{"unknown name", "NOT-A-PLATFORM", platform.All},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			blocks := parse(t, directive.FamilyLine, "// #ifndef "+testCase.cond, "x", "// #endif")
			require.Len(t, blocks, 1)
			assert.Equal(t, testCase.want, blocks[0].Inside, "want %s got %s", testCase.want, blocks[0].Inside)
			assert.Equal(t, directive.KindIfndef, blocks[0].Kind)
		})
	}
}

func TestParse_NegatedVersionKeepsTargets(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine, "// #ifndef VUE2", "x", "// #endif")
	require.Len(t, blocks, 1)

	assert.Equal(t, platform.AllTarget, blocks[0].Inside.Targets())
	assert.Equal(t, platform.BitVue3, blocks[0].Inside.Versions())
}

func TestParse_OrCondition(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyMarkup,
		"<template>",
		"  <!-- #ifdef MP-WEIXIN || MP-QQ -->",
		"  <view/>",
		"  <!-- #endif -->",
		"</template>",
	)

	require.Len(t, blocks, 1)
	assert.Equal(t, "MP-WEIXIN || MP-QQ", blocks[0].Condition)
	assert.Equal(t, platform.MaskOf("MP-WEIXIN")|platform.MaskOf("MP-QQ"), blocks[0].Inside)
	assert.Equal(t, 2, blocks[0].Head.Start.Character)
}

func TestParse_UnknownPlatform(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine, "// #ifdef SOMEDAY", "// #endif")
	require.Len(t, blocks, 1)
	assert.Zero(t, blocks[0].Inside)
	assert.Equal(t, platform.All, blocks[0].Outside)
}

func TestParse_UnknownNameInOrList(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine, "// #ifdef SOMEDAY || H5", "// #endif")
	require.Len(t, blocks, 1)
	assert.Equal(t, platform.MaskOf("H5"), blocks[0].Inside)
}

func TestParse_Unbalanced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		line  int
	}{
		{
			name:  "endif without open",
			lines: []string{"// #ifdef H5", "// #endif", "// #endif"},
			line:  2,
		},
		{
			name:  "endif first",
			lines: []string{"// #endif"},
			line:  0,
		},
		{
			name:  "open at end of input",
			lines: []string{"// #ifdef H5", "// #ifdef MP", "// #endif"},
			line:  0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			blocks, err := directive.Parse(linesOf(testCase.lines...), directive.FamilyLine)
			require.Error(t, err)
			assert.Nil(t, blocks)
			assert.ErrorIs(t, err, directive.ErrUnbalanced)

			var nestingErr *directive.NestingError
			require.True(t, errors.As(err, &nestingErr))
			assert.Equal(t, testCase.line, nestingErr.Line)
		})
	}
}

func TestParse_NoFamilies(t *testing.T) {
	t.Parallel()

	blocks, err := directive.Parse(linesOf("// #ifdef H5", "// #endif"), 0)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParse_DisabledFamilyIsInert(t *testing.T) {
	t.Parallel()

	// A stray markup #endif must not unbalance a script-only buffer.
	blocks := parse(t, directive.FamilyLine,
		"<!-- #endif -->",
		"// #ifdef H5",
		"// #endif",
	)
	require.Len(t, blocks, 1)
}

func TestParse_FamilyPriority(t *testing.T) {
	t.Parallel()

	// Both markup and line syntax appear; markup wins, so the line's
	// condition is the markup one.
	blocks := parse(t, directive.AllFamilies,
		"// <!-- #ifdef H5 -->",
		"/* #endif */",
	)
	require.Len(t, blocks, 1)
	assert.Equal(t, "H5", blocks[0].Condition)
	assert.Equal(t, 3, blocks[0].Head.Start.Character)
}

func TestParse_VueFile(t *testing.T) {
	t.Parallel()

	content := []byte(`<template>
	<!-- #ifdef H5 -->
	<div>web</div>
	<!-- #endif -->
</template>
<script>
// #ifndef VUE2
import { ref } from 'vue'
// #endif
</script>
<style>
/* #ifdef APP-PLUS */
.page { color: red; }
/* #endif */
</style>
`)

	blocks, err := directive.ParseContent(content, directive.AllFamilies)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, 1, blocks[0].Head.Start.Line)
	assert.Equal(t, 3, blocks[0].Foot.Start.Line)
	assert.Equal(t, 6, blocks[1].Head.Start.Line)
	assert.Equal(t, "APP-PLUS", blocks[2].Condition)
	assert.Equal(t, platform.MaskOf("APP-PLUS"), blocks[2].Inside)
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	lines := linesOf(
		"// #ifdef APP || H5",
		"// #ifndef APP-IOS",
		"// #endif",
		"// #endif",
	)

	first, err := directive.Parse(lines, directive.FamilyLine)
	require.NoError(t, err)
	second, err := directive.Parse(lines, directive.FamilyLine)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConditionMask(t *testing.T) {
	t.Parallel()

	assert.Equal(t, platform.MaskOf("H5")|platform.MaskOf("APP"),
		directive.ConditionMask(directive.KindIfdef, "H5 || APP"))
	assert.Equal(t, platform.All,
		directive.ConditionMask(directive.KindIfdef, "ALL"))
	assert.Equal(t, platform.AllVue,
		directive.ConditionMask(directive.KindIfndef, "ALL_TARGET"))
	assert.Equal(t, platform.Mask(0),
		directive.ConditionMask(directive.KindIfdef, ""))
}

func TestBlock_String(t *testing.T) {
	t.Parallel()

	blocks := parse(t, directive.FamilyLine, "", "// #ifdef H5", "// #endif")
	require.Len(t, blocks, 1)
	assert.Equal(t, "  2: 00000000000000000111", blocks[0].String())
}

func TestParseContent_LineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "LF", content: "// #ifdef H5\ncode\n// #endif\n"},
		{name: "CRLF", content: "// #ifdef H5\r\ncode\r\n// #endif\r\n"},
		{name: "CR", content: "// #ifdef H5\rcode\r// #endif\r"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			blocks, err := directive.ParseContent([]byte(testCase.content), directive.FamilyLine)
			require.NoError(t, err)
			require.Len(t, blocks, 1)
			assert.Equal(t, "H5", blocks[0].Condition)
			assert.Equal(t, 2, blocks[0].Foot.Start.Line)
		})
	}
}
