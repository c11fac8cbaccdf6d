package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/config"
	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/fsutil"
	"github.com/yaklabco/ifdeflens/pkg/reporter"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

// ErrUnsupportedFile is returned when no directive family applies to a file.
var ErrUnsupportedFile = errors.New("no directive families for file type")

type inspectFlags struct {
	line    int
	col     int
	format  string
	compact bool
}

func newInspectCommand() *cobra.Command {
	var cfg config.Config
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the block under a cursor and how other blocks relate to it",
		Long: `Find the innermost conditional block containing a cursor position, then
classify every block of the file against it:

  disjoint  shares no platform with the current block; dimmed entirely
            as exclusive
  covers    compiles for every platform of the current block; its
            directive lines are dimmed as redundant
  narrower  overlaps the current platforms without covering them

Line and column are 1-based; the column counts bytes.

Examples:
  ifdeflens inspect pages/index.vue --line 12
  ifdeflens inspect main.js --line 4 --col 3 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.line, "line", "l", 1, "cursor line (1-based)")
	cmd.Flags().IntVarP(&flags.col, "col", "c", 1, "cursor column in bytes (1-based)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON output")
	cmd.Flags().BoolVar(&cfg.Detect, "detect", false, "detect the language of unknown extensions")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, cfg *config.Config, flags *inspectFlags) error {
	if flags.line < 1 || flags.col < 1 {
		return withCode(ExitInvalidUsage, fmt.Errorf("line and column must be at least 1, got %d:%d", flags.line, flags.col))
	}

	cfg.Format = config.OutputFormat(flags.format)

	env, err := loadSettings(cmd, cfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(env.config.Format))
	if err != nil {
		return withCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	families := env.resolver.Resolve(absPath)
	if families == 0 {
		return withCode(ExitInvalidUsage, fmt.Errorf("%s: %w", path, ErrUnsupportedFile))
	}

	outcome := runner.New(nil).AnalyzeFile(env.ctx, absPath, families)
	if outcome.Error != nil {
		if outcome.Malformed() {
			return withCode(ExitMalformed, fmt.Errorf("%s: %w", path, outcome.Error))
		}
		if errors.Is(outcome.Error, fsutil.ErrNotFound) {
			return withCode(ExitInvalidUsage, outcome.Error)
		}
		return withCode(ExitIOError, outcome.Error)
	}

	pos := directive.Position{Line: flags.line - 1, Character: flags.col - 1}
	report := reporter.NewCursorReport(absPath, outcome.Blocks, pos)

	logging.Default().Debug("cursor analyzed",
		logging.FieldPath, absPath,
		logging.FieldLine, flags.line,
		logging.FieldBlocks, len(outcome.Blocks),
	)

	err = reporter.WriteCursor(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     format,
		Color:      env.color,
		Compact:    flags.compact,
		WorkingDir: env.workDir,
	}, report)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("write report: %w", err))
	}

	return nil
}
