package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/ifdeflens/pkg/platform"
)

const (
	tablePadding   = 2
	minNameWidth   = 8
	minAxisWidth   = 4
	heavySeparator = "="
)

// PlatformRow is one registry entry in the platform table.
type PlatformRow struct {
	Name string
	Mask platform.Mask
	Axis string
}

// PlatformRows builds table rows for every registered name, in name order.
func PlatformRows() []PlatformRow {
	names := platform.Names()
	rows := make([]PlatformRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, PlatformRow{
			Name: name,
			Mask: platform.MaskOf(name),
			Axis: platform.Axis(name),
		})
	}
	return rows
}

// FormatPlatformTable renders rows as a NAME / AXIS / MASK table.
func (s *Styles) FormatPlatformTable(rows []PlatformRow) string {
	if len(rows) == 0 {
		return ""
	}

	nameWidth, axisWidth := minNameWidth, minAxisWidth
	for _, row := range rows {
		nameWidth = max(nameWidth, len(row.Name))
		axisWidth = max(axisWidth, len(row.Axis))
	}
	// Mask digits plus the version separator.
	maskWidth := platform.Width + 1
	total := nameWidth + axisWidth + maskWidth + tablePadding*3

	var builder strings.Builder

	builder.WriteString(s.TableHeader.Render(fmt.Sprintf(" %-*s  %-*s  %-*s",
		nameWidth, "NAME",
		axisWidth, "AXIS",
		maskWidth, "MASK",
	)))
	builder.WriteString("\n")
	builder.WriteString(s.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	for _, row := range rows {
		fmt.Fprintf(&builder, " %-*s  %s  %s\n",
			nameWidth, row.Name,
			s.TableAxis.Render(fmt.Sprintf("%-*s", axisWidth, row.Axis)),
			s.FormatMask(row.Mask),
		)
	}

	builder.WriteString(s.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")
	builder.WriteString(s.Dim.Render(fmt.Sprintf("bits %d..2 select targets, bits 1..0 select VUE3 and VUE2", platform.Width-1)))
	builder.WriteString("\n")

	return builder.String()
}
