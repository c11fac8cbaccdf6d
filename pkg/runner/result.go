package runner

import (
	"errors"

	"github.com/yaklabco/ifdeflens/pkg/directive"
)

// FileOutcome is the analysis result for one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Families are the directive families scanned for this file.
	Families directive.Families

	// Blocks are the conditional blocks in document order.
	// Nil when the file is malformed or could not be read.
	Blocks []directive.Block

	// Cached is true when Blocks came from the revision cache.
	Cached bool

	// Error is set if the file could not be read or its nesting is unbalanced.
	Error error
}

// Malformed reports whether the file was read but its directives do not nest.
func (f *FileOutcome) Malformed() bool {
	return errors.Is(f.Error, directive.ErrUnbalanced)
}

// DeadBlocks returns the blocks no platform can reach.
func (f *FileOutcome) DeadBlocks() []directive.Block {
	var dead []directive.Block
	for _, b := range f.Blocks {
		if b.Dead() {
			dead = append(dead, b)
		}
	}
	return dead
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesMalformed  int `json:"files_malformed"`
	FilesErrored    int `json:"files_errored"`
	FilesCached     int `json:"files_cached"`
	BlocksTotal     int `json:"blocks_total"`
	DeadBlocks      int `json:"dead_blocks"`
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	Stats Stats
}

// HasMalformed reports whether any file had unbalanced directives.
func (r *Result) HasMalformed() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesMalformed > 0
}

// HasErrors reports whether any file could not be read.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Malformed():
		r.Stats.FilesMalformed++
		return
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesAnalyzed++
	if outcome.Cached {
		r.Stats.FilesCached++
	}
	r.Stats.BlocksTotal += len(outcome.Blocks)
	r.Stats.DeadBlocks += len(outcome.DeadBlocks())
}
