package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ifdeflens/internal/configloader"
	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/config"
	"github.com/yaklabco/ifdeflens/pkg/fsutil"
)

// defaultConfigFile is the project configuration file written by init.
const defaultConfigFile = ".ifdeflens.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ifdeflens configuration file",
		Long: `Create a new .ifdeflens.yml configuration file in the current directory.
The template documents every option: extension to family mappings, ignore
globs, worker count, output format and the watch debounce.

Examples:
  ifdeflens init                      Create .ifdeflens.yml
  ifdeflens init --force              Overwrite an existing file
  ifdeflens init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInit(ctx, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigFile
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return withCode(ExitInvalidUsage, fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, config.Template(), fsutil.DefaultFileMode); err != nil {
		return withCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("environment variables override the file",
		"vars", strings.Join(slices.Sorted(maps.Keys(configloader.ListEnvVars())), ", "),
	)
	logger.Info("run 'ifdeflens platforms' to see the names a condition may use")

	return nil
}
