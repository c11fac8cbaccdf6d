package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ifdeflens/internal/ui/pretty"
	"github.com/yaklabco/ifdeflens/pkg/platform"
)

// ErrUnknownPlatform is returned for a name missing from the registry.
var ErrUnknownPlatform = errors.New("unknown platform")

func newPlatformsCommand() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "platforms [NAME...]",
		Short: "List the platform names a condition may use",
		Long: `List every platform name recognised in #ifdef / #ifndef conditions with
its bit mask and axis. Target names select a build target; VUE2 and VUE3
select the framework version and match every target.

Pass names to show only those; an unknown name is an error.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := platformRows(args)
			if err != nil {
				return withCode(ExitInvalidUsage, err)
			}
			out := cmd.OutOrStdout()

			if namesOnly {
				for _, row := range rows {
					fmt.Fprintln(out, row.Name)
				}
				return nil
			}

			colorMode, err := cmd.Flags().GetString("color")
			if err != nil {
				colorMode = "auto"
			}
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
			fmt.Fprint(out, styles.FormatPlatformTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "print names only, one per line")

	return cmd
}

// platformRows returns the registry rows for names, or every row when no
// names are given.
func platformRows(names []string) ([]pretty.PlatformRow, error) {
	if len(names) == 0 {
		return pretty.PlatformRows(), nil
	}

	rows := make([]pretty.PlatformRow, 0, len(names))
	for _, name := range names {
		mask, ok := platform.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
		}
		rows = append(rows, pretty.PlatformRow{Name: name, Mask: mask, Axis: platform.Axis(name)})
	}
	return rows, nil
}
