// Package cli provides the Cobra command structure for ifdeflens.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ifdeflens/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root ifdeflens command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "ifdeflens",
		Short: "Inspect uni-app conditional compilation blocks",
		Long: `ifdeflens finds #ifdef / #ifndef / #endif conditional compilation blocks
in uni-app sources (Vue, JavaScript, TypeScript, CSS and friends) and works
out which platforms each block compiles for.

It reports blocks no platform can reach, unbalanced directives, and, for a
cursor position, which surrounding blocks are exclusive of or redundant
with the block being edited.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newPlatformsCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
