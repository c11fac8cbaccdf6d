// Package runner provides multi-file directive analysis orchestration.
package runner

import "github.com/yaklabco/ifdeflens/pkg/filetype"

// Options controls multi-file analysis behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Resolver maps a path to the directive families it carries.
	// Files that resolve to no family are not discovered.
	// Defaults to filetype.Default().
	Resolver *filetype.Resolver

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int
}

func (o Options) resolver() *filetype.Resolver {
	if o.Resolver == nil {
		return filetype.Default()
	}
	return o.Resolver
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
