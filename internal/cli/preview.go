package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/render/preview"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		format string
		width  int
		height int
		labels bool
	)

	cmd := &cobra.Command{
		Use:   "preview [request|layout]",
		Short: "Render a top-down floor plan of a layout",
		Long: `Render a top-down floor plan of a layout.

The input is a request (laid out on the fly) or a layout file written by
"stowage layout". Items are drawn lowest first, so stacked items cover the
ones beneath them. Overlapping items are outlined in red.`,
		Example: `  stowage preview shipment.layout.json
  stowage preview shipment.yaml -f svg --labels -o plan.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidatePreviewFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts := flags.options(cmd, c.Config)
			opts.Format = format
			opts.Width = width
			opts.Height = height
			opts.Labels = labels

			if output == "" {
				output = defaultOutput(args[0], "."+format)
			} else if err := errors.ValidatePath(output); err != nil {
				return err
			}

			prog := newProgress(logger)
			res, err := c.loadLayout(ctx, args[0], opts, flags.noCache)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			img, cached, err := runner.Preview(ctx, res.Layout, opts)
			if err != nil {
				return fmt.Errorf("render preview: %w", err)
			}
			if err := os.WriteFile(output, img, 0644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			prog.done(fmt.Sprintf("Rendered %d boxes", len(res.Layout.Boxes)), "format", format, "cached", cached)

			printSuccess("Preview rendered (%s)", format)
			printFile(output)
			printStats(res.Layout.Stats, cached)
			printCoerced(res.Coerced)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.DefaultPreviewFormat, "image format: png, svg")
	cmd.Flags().IntVar(&width, "width", preview.DefaultWidth, fmt.Sprintf("image width in pixels (max %d)", preview.MaxSize))
	cmd.Flags().IntVar(&height, "height", preview.DefaultHeight, fmt.Sprintf("image height in pixels (max %d)", preview.MaxSize))
	cmd.Flags().BoolVar(&labels, "labels", false, "draw item names and container dimensions")

	return cmd
}
