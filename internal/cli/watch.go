package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/config"
	"github.com/yaklabco/ifdeflens/pkg/reporter"
	"github.com/yaklabco/ifdeflens/pkg/runner"
	"github.com/yaklabco/ifdeflens/pkg/watch"
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

type watchFlags struct {
	ignore    []string
	immediate bool
	debounce  time.Duration
	clear     bool
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-scan files as they change",
		Long: `Scan the given paths, then keep watching them. A changed file is
re-analyzed once it has been quiet for the debounce period; unchanged
content is served from the cache and not reported again.

With --immediate, the first change to a quiet file is analyzed at once and
only the changes that follow it are debounced.

Examples:
  ifdeflens watch src
  ifdeflens watch --debounce 200ms --immediate`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.immediate, "immediate", false, "analyze the first change to a quiet file at once")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 0, "quiet period before re-analyzing (default 500ms)")
	cmd.Flags().BoolVar(&flags.clear, "clear", true, "clear the terminal before each re-render")
	cmd.Flags().BoolVar(&cfg.Detect, "detect", false, "detect the language of unknown extensions")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, cfg *config.Config, flags *watchFlags) error {
	cfg.Ignore = flags.ignore
	if flags.debounce > 0 {
		cfg.Debounce = flags.debounce.String()
	}

	env, err := loadSettings(cmd, cfg)
	if err != nil {
		return err
	}

	debounce, err := env.config.DebounceDuration()
	if err != nil {
		return withCode(ExitConfigError, fmt.Errorf("debounce: %w", err))
	}

	ctx, stop := signal.NotifyContext(env.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewInteractive()
	if logging.Default().GetLevel() == log.DebugLevel {
		logger.SetLevel(log.DebugLevel)
	}
	ctx = logging.WithLogger(ctx, logger)

	out := cmd.OutOrStdout()
	printer := &watchPrinter{
		out:   out,
		clear: flags.clear && isTerminal(out),
		opts: reporter.Options{
			Writer:     out,
			Format:     reporter.FormatText,
			Color:      env.color,
			WorkingDir: env.workDir,
		},
		logger: logger,
	}

	watcher := watch.New(runner.New(nil), watch.Options{
		Scan: runner.Options{
			Paths:        args,
			WorkingDir:   env.workDir,
			Resolver:     env.resolver,
			ExcludeGlobs: env.config.Ignore,
			Jobs:         env.config.Jobs,
		},
		Debounce:  debounce,
		Immediate: flags.immediate,
	}, printer.handle)

	logger.Info("watching for changes",
		logging.FieldPaths, args,
		logging.FieldDebounce, debounce,
	)

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return withCode(ExitIOError, fmt.Errorf("watch: %w", err))
	}

	logger.Info("stopped watching")
	return nil
}

// watchPrinter renders watch events. Calls are serialized by the watcher.
type watchPrinter struct {
	out    io.Writer
	clear  bool
	opts   reporter.Options
	logger *log.Logger
}

func (p *watchPrinter) handle(_ context.Context, event watch.Event) {
	outcome := event.Outcome

	if event.Removed {
		p.logger.Info("removed", logging.FieldPath, outcome.Path)
		return
	}

	if !event.Initial {
		if p.clear {
			fmt.Fprint(p.out, clearScreen)
		}
		p.logger.Info("changed",
			logging.FieldPath, outcome.Path,
			logging.FieldBlocks, len(outcome.Blocks),
		)
	}

	if err := reporter.WriteOutcome(p.opts, &outcome); err != nil {
		p.logger.Error("render failed", logging.FieldPath, outcome.Path, logging.FieldError, err)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
