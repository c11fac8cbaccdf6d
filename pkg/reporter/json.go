package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary runner.Stats     `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path      string      `json:"path"`
	Families  string      `json:"families"`
	Blocks    []JSONBlock `json:"blocks"`
	Malformed bool        `json:"malformed,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// JSONBlock represents one conditional block. Lines and columns are 1-based.
type JSONBlock struct {
	Kind      string   `json:"kind"`
	Condition string   `json:"condition"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine"`
	Depth     int      `json:"depth"`
	Inside    string   `json:"inside"`
	Outside   string   `json:"outside"`
	Platforms []string `json:"platforms"`
	Dead      bool     `json:"dead,omitempty"`
}

// NewJSONBlock converts a block to its JSON form.
func NewJSONBlock(block *directive.Block) JSONBlock {
	platforms := block.Inside.Leaves()
	if platforms == nil {
		platforms = []string{}
	}
	return JSONBlock{
		Kind:      block.Kind.String(),
		Condition: block.Condition,
		Line:      block.Head.Start.Line + 1,
		Column:    block.Head.Start.Character + 1,
		EndLine:   block.Foot.Start.Line + 1,
		Depth:     block.Depth,
		Inside:    block.Inside.String(),
		Outside:   block.Outside.String(),
		Platforms: platforms,
		Dead:      block.Dead(),
	}
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output, total := r.buildOutput(result)
	if err := encodeJSON(r.bw, output, r.opts.Compact); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) (*JSONOutput, int) {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output, 0
	}
	output.Summary = result.Stats

	var total int
	for idx := range result.Files {
		file := &result.Files[idx]
		fileResult := JSONFileResult{
			Path:     r.opts.displayPath(file.Path),
			Families: file.Families.String(),
			Blocks:   make([]JSONBlock, 0, len(file.Blocks)),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			fileResult.Malformed = file.Malformed()
		}

		blocks := file.Blocks
		if r.opts.DeadOnly {
			blocks = file.DeadBlocks()
		}
		for bi := range blocks {
			fileResult.Blocks = append(fileResult.Blocks, NewJSONBlock(&blocks[bi]))
		}
		total += len(blocks)

		output.Files = append(output.Files, fileResult)
	}

	return output, total
}

func encodeJSON(w *bufio.Writer, v any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
