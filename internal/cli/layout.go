package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/pipeline"
)

// Layout output encodings.
const (
	encodingJSON    = "json"
	encodingMsgpack = "msgpack"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags     layoutFlags
		output    string
		encoding  string
		showTable bool
	)

	cmd := &cobra.Command{
		Use:   "layout [request]",
		Short: "Compute a render-ready layout from a packing request",
		Long: `Compute a render-ready layout from a packing request.

The request is a JSON, YAML or TOML file holding a container and a list of
items. When every item carries a position, the positions are clamped into the
container and projected into scene space. Otherwise the items are packed with
a shelf heuristic.

The output is a layout file (default: <input>.layout.json) that the preview,
check and inspect commands accept. Use -o - to write to stdout.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if encoding != encodingJSON && encoding != encodingMsgpack {
				return fmt.Errorf("invalid encoding: %q (must be json or msgpack)", encoding)
			}
			opts := flags.options(cmd, c.Config)
			return c.runLayout(cmd.Context(), args[0], opts, flags.noCache, output, encoding, showTable)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", encodingJSON, "output encoding: json, msgpack")
	cmd.Flags().BoolVar(&showTable, "table", false, "print the placed boxes as a table")

	return cmd
}

// runLayout reads the request, computes the layout and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, noCache bool, output, encoding string, showTable bool) error {
	req, err := layout.ReadRequestFile(input)
	if err != nil {
		return fmt.Errorf("load request %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d items...", len(req.Items)))
	spinner.Start()

	res, err := runner.Layout(ctx, req, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := encodeLayout(res.Layout, encoding)
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if output == "" {
		output = defaultOutput(input, layoutSuffix)
		if encoding == encodingMsgpack {
			output = defaultOutput(input, ".layout.msgpack")
		}
	} else if err := errors.ValidatePath(output); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete (%s)", res.Layout.Strategy)
	printFile(output)
	printStats(res.Layout.Stats, res.CacheHit)
	printCoerced(res.Coerced)
	if showTable && len(res.Layout.Boxes) > 0 {
		fmt.Fprintln(stdout, boxTable(res.Layout.Boxes))
	}
	if res.Layout.Stats.Overlaps > 0 {
		printWarning("%d overlapping pairs", res.Layout.Stats.Overlaps)
		printNextStep("Details", "stowage check "+input)
	}
	printNewline()
	if encoding == encodingJSON {
		printNextStep("Preview", "stowage preview "+output)
	}
	return nil
}

func encodeLayout(l layout.Layout, encoding string) ([]byte, error) {
	if encoding == encodingMsgpack {
		return layout.MarshalMsgpack(l)
	}
	data, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
