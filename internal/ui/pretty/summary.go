package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/ifdeflens/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "14 blocks in 3 files, 1 unreachable, 1 malformed file".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files with conditional directives found") + "\n"
	}

	parts := []string{
		fmt.Sprintf("%s in %s",
			plural(stats.BlocksTotal, "block", "blocks"),
			plural(stats.FilesAnalyzed, wordFile, wordFiles),
		),
	}

	if stats.DeadBlocks > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d unreachable", stats.DeadBlocks)))
	}
	if stats.FilesMalformed > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.FilesMalformed, "malformed file", "malformed files")))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(plural(stats.FilesErrored, "unreadable file", "unreadable files")))
	}

	line := strings.Join(parts, ", ")
	if stats.FilesMalformed == 0 && stats.FilesErrored == 0 {
		line = s.Success.Render("ok") + " " + line
	}
	if stats.FilesCached > 0 {
		line += s.Dim.Render(fmt.Sprintf(" (%d cached)", stats.FilesCached))
	}
	return line + "\n"
}
