package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/ifdeflens/internal/ui/pretty"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name: "nothing found",
			want: "No files with conditional directives found\n",
		},
		{
			name:  "clean",
			stats: runner.Stats{FilesDiscovered: 2, FilesAnalyzed: 2, BlocksTotal: 5},
			want:  "ok 5 blocks in 2 files\n",
		},
		{
			name:  "singular",
			stats: runner.Stats{FilesDiscovered: 1, FilesAnalyzed: 1, BlocksTotal: 1},
			want:  "ok 1 block in 1 file\n",
		},
		{
			name:  "dead and cached",
			stats: runner.Stats{FilesDiscovered: 3, FilesAnalyzed: 3, FilesCached: 2, BlocksTotal: 9, DeadBlocks: 1},
			want:  "ok 9 blocks in 3 files, 1 unreachable (2 cached)\n",
		},
		{
			name:  "malformed and unreadable",
			stats: runner.Stats{FilesDiscovered: 4, FilesAnalyzed: 1, FilesMalformed: 2, FilesErrored: 1, BlocksTotal: 2},
			want:  "2 blocks in 1 file, 2 malformed files, 1 unreadable file\n",
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
