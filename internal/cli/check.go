package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		flags  layoutFlags
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check [request|layout]",
		Short: "Report overlapping and dropped items",
		Long: `Report overlapping and dropped items.

Overlaps are advisory: packing data can be physically valid and still touch
along floating-point boundaries. Use --strict to exit non-zero when any item
overlaps or could not be placed.`,
		Example: `  stowage check shipment.json
  stowage check shipment.layout.json --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			opts.SkipOverlaps = false

			res, err := c.loadLayout(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			l := res.Layout

			printStats(l.Stats, res.CacheHit)
			printCoerced(res.Coerced)
			printNewline()

			if len(l.Overlaps) == 0 {
				printSuccess("No overlaps among %d boxes", len(l.Boxes))
			} else {
				printWarning("%d overlapping pairs", len(l.Overlaps))
				fmt.Fprintln(stdout, overlapTable(l.Overlaps))
			}
			if l.Stats.Dropped > 0 {
				printWarning("%d instances did not fit the container", l.Stats.Dropped)
			}

			if strict && (len(l.Overlaps) > 0 || l.Stats.Dropped > 0) {
				return fmt.Errorf("check failed: %d overlaps, %d dropped", len(l.Overlaps), l.Stats.Dropped)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when items overlap or are dropped")

	return cmd
}
