package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ifdeflens/internal/ui/pretty"
	"github.com/yaklabco/ifdeflens/pkg/platform"
)

func TestPlatformRows(t *testing.T) {
	t.Parallel()

	rows := pretty.PlatformRows()
	require.Len(t, rows, len(platform.Names()))

	for _, row := range rows {
		assert.Equal(t, platform.MaskOf(row.Name), row.Mask, row.Name)
		assert.NotEmpty(t, row.Axis, row.Name)
	}
}

func TestFormatPlatformTable(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Empty(t, styles.FormatPlatformTable(nil))

	out := styles.FormatPlatformTable([]pretty.PlatformRow{
		{Name: "H5", Mask: platform.MaskOf("H5"), Axis: "web"},
		{Name: "VUE2", Mask: platform.MaskOf("VUE2"), Axis: "version"},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "MASK")
	assert.Equal(t, " H5        web      000000000000000001|11", lines[2])
	assert.Contains(t, lines[3], "VUE2")
	assert.Contains(t, lines[3], "111111111111111111|01")
}
