package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ifdeflens/internal/configloader"
	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/config"
	"github.com/yaklabco/ifdeflens/pkg/filetype"
)

// settings is the resolved environment shared by the analysis commands.
type settings struct {
	ctx      context.Context
	config   *config.Config
	workDir  string
	resolver *filetype.Resolver
	color    string
}

// loadSettings merges configuration files, environment and the command's
// own flags, then builds the file type resolver.
func loadSettings(cmd *cobra.Command, cliCfg *config.Config) (*settings, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, withCode(ExitInternalError, fmt.Errorf("get config flag: %w", err))
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, withCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, withCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldJobs, cfg.Jobs,
		logging.FieldDebounce, cfg.Debounce,
		"detect", cfg.Detect,
	)

	resolver, err := filetype.NewResolver(filetype.Options{
		Overrides: cfg.Families,
		Detect:    cfg.Detect,
	})
	if err != nil {
		return nil, withCode(ExitConfigError, fmt.Errorf("families: %w", err))
	}

	return &settings{
		ctx:      ctx,
		config:   cfg,
		workDir:  workDir,
		resolver: resolver,
		color:    colorMode,
	}, nil
}
