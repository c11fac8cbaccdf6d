package reporter

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/yaklabco/ifdeflens/internal/ui/pretty"
	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/highlight"
)

// relationWidth pads relation labels so the block columns line up.
const relationWidth = len("narrower")

// CursorReport describes how every block of a file relates to the block
// under a cursor position.
type CursorReport struct {
	Path      string
	Position  directive.Position
	Blocks    []directive.Block
	Current   int
	Relations []highlight.Classification
	Dims      []highlight.Dim
}

// NewCursorReport analyzes blocks for a cursor at pos. Current is -1 when
// the cursor is outside every block.
func NewCursorReport(path string, blocks []directive.Block, pos directive.Position) *CursorReport {
	report := &CursorReport{Path: path, Position: pos, Blocks: blocks, Current: -1}
	current, ok := highlight.Enclosing(blocks, pos)
	if !ok {
		return report
	}
	report.Current = current
	report.Relations = highlight.Classify(blocks, current)
	report.Dims = highlight.Decorate(blocks, pos)
	return report
}

// CurrentBlock returns the enclosing block, or nil.
func (c *CursorReport) CurrentBlock() *directive.Block {
	if c.Current < 0 {
		return nil
	}
	return &c.Blocks[c.Current]
}

type jsonCursor struct {
	Path      string         `json:"path"`
	Line      int            `json:"line"`
	Column    int            `json:"column"`
	Current   *JSONBlock     `json:"current"`
	Relations []jsonRelation `json:"relations"`
	Dims      []jsonDim      `json:"dims"`
}

type jsonDim struct {
	Line      int              `json:"line"`
	Column    int              `json:"column"`
	EndLine   int              `json:"endLine"`
	EndColumn int              `json:"endColumn"`
	Reason    highlight.Reason `json:"reason"`
}

type jsonRelation struct {
	Block    JSONBlock          `json:"block"`
	Relation directive.Relation `json:"relation"`
}

// WriteCursor renders a cursor report in opts.Format.
func WriteCursor(opts Options, report *CursorReport) (err error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	bw := bufio.NewWriterSize(opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if opts.Format == FormatJSON {
		return encodeJSON(bw, cursorJSON(opts, report), opts.Compact)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	path := opts.displayPath(report.Path)

	current := report.CurrentBlock()
	if current == nil {
		fmt.Fprintf(bw, "%s:%s %s\n",
			styles.FilePath.Render(path), report.Position,
			styles.Dim.Render("is outside every conditional block"),
		)
		return nil
	}

	fmt.Fprintf(bw, "%s:%s %s\n", styles.FilePath.Render(path), report.Position, styles.Bold.Render("is inside"))
	fmt.Fprint(bw, styles.FormatBlock(current))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, styles.SummaryTitle.Render("Relations"))
	for _, class := range report.Relations {
		block := &report.Blocks[class.Block]
		pad := strings.Repeat(" ", max(0, relationWidth-len(class.Relation.String())))
		fmt.Fprint(bw, "  "+styles.FormatRelation(class.Relation)+pad)
		fmt.Fprint(bw, styles.FormatBlock(block))
	}

	if len(report.Dims) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, styles.SummaryTitle.Render("Dimmed"))
		for _, dim := range report.Dims {
			fmt.Fprint(bw, styles.FormatDim(dim))
		}
	}

	return nil
}

func cursorJSON(opts Options, report *CursorReport) *jsonCursor {
	out := &jsonCursor{
		Path:      opts.displayPath(report.Path),
		Line:      report.Position.Line + 1,
		Column:    report.Position.Character + 1,
		Relations: make([]jsonRelation, 0, len(report.Relations)),
		Dims:      make([]jsonDim, 0, len(report.Dims)),
	}
	for _, dim := range report.Dims {
		out.Dims = append(out.Dims, jsonDim{
			Line:      dim.Range.Start.Line + 1,
			Column:    dim.Range.Start.Character + 1,
			EndLine:   dim.Range.End.Line + 1,
			EndColumn: dim.Range.End.Character + 1,
			Reason:    dim.Reason,
		})
	}
	if current := report.CurrentBlock(); current != nil {
		block := NewJSONBlock(current)
		out.Current = &block
	}
	for _, class := range report.Relations {
		out.Relations = append(out.Relations, jsonRelation{
			Block:    NewJSONBlock(&report.Blocks[class.Block]),
			Relation: class.Relation,
		})
	}
	return out
}
