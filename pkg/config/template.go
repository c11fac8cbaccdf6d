package config

// Template returns the commented configuration written by "ifdeflens init".
func Template() []byte {
	return []byte(`# ifdeflens configuration
# See: https://github.com/yaklabco/ifdeflens

# Directive families per file extension. Entries replace the built-in
# mapping (.vue: all, .js/.ts: line, .css: block). Families:
#   markup  <!-- #ifdef X -->
#   line    // #ifdef X
#   block   /* #ifdef X */
# families:
#   .wxml: [markup]
#   .wxss: [block]

# Guess the language of unknown extensions
# detect: false

# Number of parallel workers (0 = auto)
# jobs: 0

# Quiet period before a changed file is re-analyzed in watch mode
# debounce: 500ms

# Output format: text or json
# format: text

# File patterns to ignore (glob patterns)
ignore:
  - "node_modules/**"
  - "unpackage/**"
  - "dist/**"
`)
}
