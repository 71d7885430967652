package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the interactive inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect [request|layout]",
		Short: "Browse the boxes of a layout interactively",
		Long: `Browse the boxes of a layout interactively.

Accepts a request (computed on the fly) or a layout file. Press "o" to show
only boxes involved in an overlap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			res, err := c.loadLayout(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if len(res.Layout.Boxes) == 0 {
				printInfo("Layout has no boxes")
				return nil
			}

			p := tea.NewProgram(NewBoxListModel(res.Layout), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run inspector: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
