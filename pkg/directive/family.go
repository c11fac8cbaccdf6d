package directive

import (
	"fmt"
	"regexp"
	"strings"
)

// Family is a comment syntax that can carry directives.
type Family uint8

// Families in match-priority order.
const (
	// FamilyMarkup matches <!-- #ifdef X --> style directives.
	FamilyMarkup Family = 1 << iota

	// FamilyLine matches // #ifdef X style directives.
	FamilyLine

	// FamilyBlock matches /* #ifdef X */ style directives.
	FamilyBlock
)

// Families is a set of enabled comment syntaxes.
type Families = Family

// AllFamilies enables every comment syntax.
const AllFamilies Families = FamilyMarkup | FamilyLine | FamilyBlock

// familyOrder is the order in which families are tried on a line.
//
//nolint:gochecknoglobals // Read-only lookup table.
var familyOrder = []Family{FamilyMarkup, FamilyLine, FamilyBlock}

// Has reports whether every family in other is enabled in f.
func (f Family) Has(other Family) bool {
	return f&other == other
}

// Members returns the individual families in f in priority order.
func (f Family) Members() []Family {
	var out []Family
	for _, fam := range familyOrder {
		if f.Has(fam) {
			out = append(out, fam)
		}
	}
	return out
}

// String returns the family names joined by "+".
func (f Family) String() string {
	if f == 0 {
		return "none"
	}
	names := make([]string, 0, len(familyOrder))
	for _, fam := range f.Members() {
		switch fam {
		case FamilyMarkup:
			names = append(names, "markup")
		case FamilyLine:
			names = append(names, "line")
		case FamilyBlock:
			names = append(names, "block")
		}
	}
	return strings.Join(names, "+")
}

// ParseFamily converts a family name to a Family.
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markup", "template", "html":
		return FamilyMarkup, nil
	case "line", "script":
		return FamilyLine, nil
	case "block", "css", "style":
		return FamilyBlock, nil
	case "all":
		return AllFamilies, nil
	default:
		return 0, fmt.Errorf("unknown directive family %q; must be one of: markup, line, block, all", name)
	}
}

// ParseFamilies combines several family names into one set.
func ParseFamilies(names []string) (Families, error) {
	var out Families
	for _, name := range names {
		fam, err := ParseFamily(name)
		if err != nil {
			return 0, err
		}
		out |= fam
	}
	return out, nil
}

// Kind is the directive verb.
type Kind uint8

const (
	// KindIfdef opens a block active on the named platforms.
	KindIfdef Kind = iota + 1

	// KindIfndef opens a block active everywhere except the named platforms.
	KindIfndef

	// KindEndif closes the innermost open block.
	KindEndif
)

// String returns the directive keyword.
func (k Kind) String() string {
	switch k {
	case KindIfdef:
		return "#ifdef"
	case KindIfndef:
		return "#ifndef"
	case KindEndif:
		return "#endif"
	default:
		return "unknown"
	}
}

type pattern struct {
	kind Kind
	re   *regexp.Regexp
}

// patterns holds the per-family expressions, tried ifdef, ifndef, endif.
//
//nolint:gochecknoglobals // Compiled once, read-only.
var patterns = map[Family][]pattern{
	FamilyMarkup: {
		{KindIfdef, regexp.MustCompile(`<!--\s*#ifdef\s*(.*)\s*-->`)},
		{KindIfndef, regexp.MustCompile(`<!--\s*#ifndef\s*(.*)\s*-->`)},
		{KindEndif, regexp.MustCompile(`<!--\s*#endif\s*-->`)},
	},
	FamilyLine: {
		{KindIfdef, regexp.MustCompile(`//\s*#ifdef\s*(.*)`)},
		{KindIfndef, regexp.MustCompile(`//\s*#ifndef\s*(.*)`)},
		{KindEndif, regexp.MustCompile(`//\s*#endif`)},
	},
	FamilyBlock: {
		{KindIfdef, regexp.MustCompile(`/\*\s*#ifdef\s*(.*)\*/`)},
		{KindIfndef, regexp.MustCompile(`/\*\s*#ifndef\s*(.*)\*/`)},
		{KindEndif, regexp.MustCompile(`/\*\s*#endif\s*\*/`)},
	},
}

// Match is a directive found on a line.
type Match struct {
	Kind   Kind
	Family Family

	// Condition is the raw condition text; empty for #endif.
	Condition string

	// Range spans the directive text on its line.
	Range Range
}

// Scan looks for a directive on line using the enabled families. Families
// are tried in priority order and the first match wins.
func Scan(line Line, families Families) (Match, bool) {
	for _, fam := range familyOrder {
		if !families.Has(fam) {
			continue
		}
		for _, pat := range patterns[fam] {
			loc := pat.re.FindStringSubmatchIndex(line.Text)
			if loc == nil {
				continue
			}
			match := Match{
				Kind:   pat.kind,
				Family: fam,
				Range: Range{
					Start: Position{Line: line.Number, Character: loc[0]},
					End:   Position{Line: line.Number, Character: loc[1]},
				},
			}
			if len(loc) >= 4 && loc[2] >= 0 {
				match.Condition = line.Text[loc[2]:loc[3]]
			}
			return match, true
		}
	}
	return Match{}, false
}

// SplitCondition splits a condition on "||" and trims each name.
func SplitCondition(cond string) []string {
	parts := strings.Split(cond, "||")
	for idx, part := range parts {
		parts[idx] = strings.TrimSpace(part)
	}
	return parts
}
