// Package filetype decides which directive comment syntaxes apply to a file.
//
// Resolution order: configured overrides by extension, the built-in
// extension table, then (optionally) go-enry language detection by file
// name. A file nothing matches gets no families and is not analyzed.
package filetype

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/ifdeflens/pkg/directive"
)

// builtin maps lowercase extensions to families.
//
//nolint:gochecknoglobals // Read-only lookup table.
var builtin = map[string]directive.Families{
	".vue":  directive.AllFamilies,
	".nvue": directive.AllFamilies,
	".uvue": directive.AllFamilies,
	".js":   directive.FamilyLine,
	".ts":   directive.FamilyLine,
	".mjs":  directive.FamilyLine,
	".jsx":  directive.FamilyLine,
	".tsx":  directive.FamilyLine,
	".uts":  directive.FamilyLine,
	".css":  directive.FamilyBlock,
	".scss": directive.FamilyBlock,
	".less": directive.FamilyBlock,
	".styl": directive.FamilyBlock,
	".html": directive.FamilyMarkup,
}

// languages maps go-enry language names to families.
//
//nolint:gochecknoglobals // Read-only lookup table.
var languages = map[string]directive.Families{
	"Vue":        directive.AllFamilies,
	"JavaScript": directive.FamilyLine,
	"TypeScript": directive.FamilyLine,
	"TSX":        directive.FamilyLine,
	"CSS":        directive.FamilyBlock,
	"SCSS":       directive.FamilyBlock,
	"Less":       directive.FamilyBlock,
	"Stylus":     directive.FamilyBlock,
	"HTML":       directive.FamilyMarkup,
}

// Options configures a Resolver.
type Options struct {
	// Overrides maps extensions (with or without leading dot) to family
	// names. An empty list disables a built-in extension.
	Overrides map[string][]string

	// Detect enables go-enry language detection for unknown extensions.
	Detect bool
}

// Resolver maps file paths to directive families.
type Resolver struct {
	table  map[string]directive.Families
	detect bool
}

// NewResolver builds a Resolver, validating override family names.
func NewResolver(opts Options) (*Resolver, error) {
	table := make(map[string]directive.Families, len(builtin)+len(opts.Overrides))
	for ext, fams := range builtin {
		table[ext] = fams
	}

	for ext, names := range opts.Overrides {
		fams, err := directive.ParseFamilies(names)
		if err != nil {
			return nil, fmt.Errorf("extension %s: %w", ext, err)
		}
		table[normalizeExt(ext)] = fams
	}

	return &Resolver{table: table, detect: opts.Detect}, nil
}

// Default returns a resolver with only the built-in table.
func Default() *Resolver {
	resolver, _ := NewResolver(Options{})
	return resolver
}

// Resolve returns the families enabled for path.
func (r *Resolver) Resolve(path string) directive.Families {
	ext := strings.ToLower(filepath.Ext(path))
	if fams, ok := r.table[ext]; ok {
		return fams
	}
	if !r.detect {
		return 0
	}
	return Detect(path)
}

// Extensions returns the extensions with at least one family, sorted.
func (r *Resolver) Extensions() []string {
	exts := make([]string, 0, len(r.table))
	for ext, fams := range r.table {
		if fams != 0 {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Detect uses go-enry to guess the language from the file name and maps it
// to families. Unknown languages yield no families.
func Detect(path string) directive.Families {
	base := filepath.Base(path)
	if lang, safe := enry.GetLanguageByExtension(base); safe {
		return languages[lang]
	}
	if lang, safe := enry.GetLanguageByFilename(base); safe {
		return languages[lang]
	}
	return 0
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
