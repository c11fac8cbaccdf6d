package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/config"
	"github.com/yaklabco/ifdeflens/pkg/reporter"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

type scanFlags struct {
	format         string
	ignore         []string
	compact        bool
	noSummary      bool
	followSymlinks bool
}

func newScanCommand() *cobra.Command {
	var cfg config.Config
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "List conditional compilation blocks",
		Long:  scanLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.ShowDead, "dead", false, "list only blocks no platform can reach")
	cmd.Flags().BoolVar(&cfg.Detect, "detect", false, "detect the language of unknown extensions")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")

	return cmd
}

const scanLongDescription = `Scan source files for #ifdef / #ifndef / #endif blocks and report
each block's position, nesting depth, platform mask and the platforms it
compiles for.

By default, scans every supported file under the current directory.
Files with unbalanced directives are reported as malformed and make the
command exit with status 1.

Examples:
  ifdeflens scan                    # Scan current directory
  ifdeflens scan src/pages          # Scan one directory
  ifdeflens scan App.vue            # Scan a single file
  ifdeflens scan --dead             # Only blocks no platform reaches
  ifdeflens scan --format json      # Machine-readable output`

func runScan(cmd *cobra.Command, args []string, cfg *config.Config, flags *scanFlags) error {
	logger := logging.Default()

	cfg.Format = config.OutputFormat(flags.format)
	cfg.Ignore = flags.ignore

	env, err := loadSettings(cmd, cfg)
	if err != nil {
		return err
	}
	finalCfg := env.config

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return withCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     env.workDir,
		Resolver:       env.resolver,
		ExcludeGlobs:   finalCfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           finalCfg.Jobs,
	}

	logger.Debug("starting scan",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	scanner := runner.New(nil)
	result, err := scanner.Run(env.ctx, runOpts)
	if err != nil {
		return withCode(ExitIOError, errors.Join(errors.New("scan failed"), err))
	}

	hits, misses := scanner.Cache.Stats()
	logger.Debug("scan finished",
		logging.FieldCacheHits, hits,
		logging.FieldCacheMisses, misses,
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesAnalyzed, result.Stats.FilesAnalyzed,
		logging.FieldFilesMalformed, result.Stats.FilesMalformed,
		logging.FieldBlocksTotal, result.Stats.BlocksTotal,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       env.color,
		ShowSummary: !flags.noSummary,
		DeadOnly:    finalCfg.ShowDead,
		Compact:     flags.compact,
		WorkingDir:  env.workDir,
	})
	if err != nil {
		return withCode(ExitInternalError, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(env.ctx, result); err != nil {
		return withCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	switch ExitCodeFromResult(result) {
	case ExitMalformed:
		return withCode(ExitMalformed, ErrMalformedFiles)
	case ExitIOError:
		return withCode(ExitIOError, ErrUnreadableFiles)
	}

	return nil
}
