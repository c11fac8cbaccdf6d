package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/ifdeflens/internal/ui/pretty"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var total int
	for idx := range result.Files {
		total += r.reportFile(&result.Files[idx])
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's blocks and returns how many were written.
func (r *TextReporter) reportFile(file *runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	if file.Error != nil {
		label := "error"
		if file.Malformed() {
			label = "malformed"
		}
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("%s: %v", label, file.Error)),
		)
		return 0
	}

	blocks := file.Blocks
	if r.opts.DeadOnly {
		blocks = file.DeadBlocks()
	}
	if len(blocks) == 0 {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(blocks)))
	for idx := range blocks {
		fmt.Fprint(r.bw, r.styles.FormatBlock(&blocks[idx]))
	}
	fmt.Fprintln(r.bw)

	return len(blocks)
}

// WriteOutcome writes one file's outcome in text form. Used by watch mode,
// which renders one file at a time.
func WriteOutcome(opts Options, outcome *runner.FileOutcome) error {
	reporter := NewTextReporter(opts)
	reporter.reportFile(outcome)
	if err := reporter.bw.Flush(); err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	return nil
}
