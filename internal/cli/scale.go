package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/scene"
)

// scaleCommand creates the scale command.
func (c *CLI) scaleCommand() *cobra.Command {
	var (
		dims   string
		unit   string
		offset float64
	)

	cmd := &cobra.Command{
		Use:   "scale [request]",
		Short: "Show the scene scale and dimension markers for a container",
		Long: `Show the scene scale and dimension markers for a container.

The container comes from a request file or from --container LxWxH (meters).
Invalid dimensions are replaced by the defaults (2 × 1.5 × 1.5).`,
		Example: `  stowage scale --container 12.03x2.35x2.39
  stowage scale shipment.yaml --unit ft`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := containerSource(args, dims)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("unit") {
				unit = c.Config.Annotate.Unit
			}
			if !cmd.Flags().Changed("offset") {
				offset = c.Config.Annotate.Offset
			}

			container, cerr := scene.NormalizeContainer(raw)
			s := scene.ComputeScale(container)
			notes := annotate.Compute(container, s, annotate.WithUnit(unit), annotate.WithOffset(offset))

			fmt.Fprintln(stdout, StyleTitle.Render("Container"))
			printKeyValue("length", fmt.Sprintf("%.3f m", container.Length))
			printKeyValue("width", fmt.Sprintf("%.3f m", container.Width))
			printKeyValue("height", fmt.Sprintf("%.3f m", container.Height))
			printKeyValue("volume", fmt.Sprintf("%.3f m³", container.Dims().Volume()))
			printNewline()
			fmt.Fprintln(stdout, StyleTitle.Render("Scene"))
			printKeyValue("scene scale", StyleNumber.Render(fmt.Sprintf("%.6g", s.SceneScale)))
			printKeyValue("target max", fmt.Sprintf("%g", s.TargetMax))
			fmt.Fprintln(stdout, annotationTable(notes))
			printCoerced(cerr)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dims, "container", "c", "", "container dimensions as LxWxH in meters")
	cmd.Flags().StringVar(&unit, "unit", annotate.DefaultUnit, "unit label for dimension markers")
	cmd.Flags().Float64Var(&offset, "offset", annotate.DefaultOffset, "dimension marker offset (scene units)")

	return cmd
}

// containerSource returns the raw container from --container or a request.
func containerSource(args []string, dims string) (any, error) {
	switch {
	case dims != "" && len(args) > 0:
		return nil, fmt.Errorf("use either a request file or --container, not both")
	case dims != "":
		return parseContainerFlag(dims), nil
	case len(args) == 1:
		req, err := layout.ReadRequestFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("load request %s: %w", args[0], err)
		}
		return req.Container, nil
	}
	return nil, fmt.Errorf("a request file or --container is required")
}

// parseContainerFlag splits "LxWxH" (or "L,W,H") into raw components. The
// values are normalized later, so malformed parts become defaults.
func parseContainerFlag(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == 'x' || r == ',' || r == '*' || r == ' '
	})
}
