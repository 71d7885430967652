package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/internal/config"
	"github.com/matzehuels/stowage/pkg/buildinfo"
	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stowage"

	// layoutSuffix marks files written by "stowage layout".
	layoutSuffix = ".layout.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded in the root command's pre-run. Commands can rely on
	// it being non-nil.
	Config *config.Config
}

// New creates a CLI with a timestamped logger and the default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stowage turns container-packing results into render-ready 3D scenes",
		Long: `Stowage converts container-packing results (a container plus items with
real-world positions and sizes in meters) into a bounded scene coordinate
space for 3D renderers. When no placement is supplied it packs the items
itself with a deterministic shelf heuristic.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	var flags rootFlags
	flags.register(root)
	root.PersistentPreRunE = c.preRun(&flags)

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.scaleCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// Keys are scoped to the build version, so an upgraded binary never serves
// layouts computed by an older one.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(cc, keyer, loggerFromContext(ctx)), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Disabled("--no-cache"), nil
	}
	return c.Config.NewCache(ctx)
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags holds the flags shared by every command that computes a layout.
type layoutFlags struct {
	unit         string
	offset       float64
	gap          float64
	maxInstances int
	skipOverlaps bool
	noCache      bool
	refresh      bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.unit, "unit", pipeline.DefaultUnit, "unit label for dimension markers")
	fs.Float64Var(&f.offset, "offset", pipeline.DefaultOffset, "dimension marker offset (scene units)")
	fs.Float64Var(&f.gap, "gap", pipeline.DefaultGap, "spacing between shelf-packed items (meters)")
	fs.IntVar(&f.maxInstances, "max-instances", pipeline.DefaultMaxInstances, "cap on expanded item instances")
	fs.BoolVar(&f.skipOverlaps, "skip-overlaps", false, "skip overlap diagnostics")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")
}

// options overlays explicitly set flags on the config file's values.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := cfg.Options()
	fs := cmd.Flags()
	if fs.Changed("unit") {
		opts.Unit = f.unit
	}
	if fs.Changed("offset") {
		opts.Offset = f.offset
	}
	if fs.Changed("gap") {
		g := f.gap
		opts.Gap = &g
	}
	if fs.Changed("max-instances") {
		opts.MaxInstances = f.maxInstances
	}
	opts.SkipOverlaps = f.skipOverlaps
	opts.Refresh = f.refresh
	return opts
}

// =============================================================================
// Input Helpers
// =============================================================================

// isLayoutFile reports whether path names a layout written by "stowage layout".
func isLayoutFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), layoutSuffix)
}

// loadLayout reads a layout file, or computes the layout of a request file.
func (c *CLI) loadLayout(ctx context.Context, path string, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	if isLayoutFile(path) {
		l, err := layout.ReadLayoutFile(path)
		if err != nil {
			return nil, err
		}
		return &pipeline.Result{Layout: l}, nil
	}

	req, err := layout.ReadRequestFile(path)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	return runner.Layout(ctx, req, opts)
}

// defaultOutput derives an output path from the input path.
func defaultOutput(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	return base + suffix
}
