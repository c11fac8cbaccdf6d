// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Analysis fields.
	FieldFamilies = "families"
	FieldBlocks   = "blocks"
	FieldDead     = "dead"
	FieldRevision = "revision"
	FieldCached   = "cached"
	FieldLine     = "line"
	FieldJobs     = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesAnalyzed   = "files_analyzed"
	FieldFilesMalformed  = "files_malformed"
	FieldBlocksTotal     = "blocks_total"
	FieldCacheHits       = "cache_hits"
	FieldCacheMisses     = "cache_misses"

	// Watch fields.
	FieldEvent    = "event"
	FieldDebounce = "debounce"
	FieldSize     = "size"
	FieldPending  = "pending"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
