package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/internal/config"
	"github.com/matzehuels/stowage/pkg/buildinfo"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	verbose    bool
	configPath string
}

func (f *rootFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stowage/config.toml)")
}

// preRun sets the log level, loads the config file and attaches the logger
// to the command context.
func (c *CLI) preRun(f *rootFlags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if f.verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		var (
			cfg *config.Config
			err error
		)
		if f.configPath != "" {
			cfg, err = config.Load(f.configPath)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c.Config = cfg

		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
}

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, buildinfo.String())
			return nil
		},
	}
}
