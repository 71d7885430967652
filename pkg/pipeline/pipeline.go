// Package pipeline runs the layout pipeline shared by the CLI and the HTTP
// server.
//
// # Stages
//
//  1. Normalize: coerce the raw request into a container and typed items
//  2. Place: pick a placer and position every item instance
//  3. Diagnose: annotate the container and report overlaps
//  4. Render (optional): draw a floor-plan preview
//
// Stages 1 to 3 are pure and run in [Compute]. The [Runner] wraps them with
// a content-addressed cache, logging and observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Layout(ctx, req, pipeline.Options{Unit: "m"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Layout.Stats.Placed)
//
// Malformed numeric input never fails a run. Coerced fields are logged at
// debug level and otherwise ignored.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/place"
	"github.com/matzehuels/stowage/pkg/render/preview"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultUnit is the label unit for dimension annotations.
	DefaultUnit = annotate.DefaultUnit

	// DefaultOffset is the annotation offset in scene units.
	DefaultOffset = annotate.DefaultOffset

	// DefaultGap is the shelf packer's spacing between items (meters).
	DefaultGap = place.DefaultGap

	// DefaultMaxInstances caps quantity expansion in the shelf packer.
	DefaultMaxInstances = place.DefaultMaxInstances

	// DefaultPreviewFormat is the preview image format.
	DefaultPreviewFormat = preview.FormatPNG
)

// ValidPreviewFormats is the set of supported preview formats.
var ValidPreviewFormats = map[string]bool{
	preview.FormatPNG: true,
	preview.FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options
	Unit         string   `json:"unit,omitempty"`
	Offset       float64  `json:"offset,omitempty"`
	Gap          *float64 `json:"gap,omitempty"` // nil means DefaultGap; 0 packs flush
	MaxInstances int      `json:"max_instances,omitempty"`
	SkipOverlaps bool     `json:"skip_overlaps,omitempty"`
	Refresh      bool     `json:"refresh,omitempty"` // bypass cache reads

	// Preview options
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Labels bool   `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result is the output of one pipeline run.
type Result struct {
	// RequestHash is the content hash of the normalized request.
	RequestHash string

	// Layout is the computed layout.
	Layout layout.Layout

	// Coerced lists the input fields replaced by defaults, if any.
	Coerced error

	// Duration is the wall time of the run.
	Duration time.Duration

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidatePreviewFormat checks that a preview format is valid.
func ValidatePreviewFormat(format string) error {
	if !ValidPreviewFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: png, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Unit == "" {
		o.Unit = DefaultUnit
	}
	if o.Offset <= 0 {
		o.Offset = DefaultOffset
	}
	if o.Gap == nil {
		g := DefaultGap
		o.Gap = &g
	}
	if o.MaxInstances <= 0 {
		o.MaxInstances = DefaultMaxInstances
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and validates layout options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if *o.Gap < 0 {
		return fmt.Errorf("invalid gap: %v (must be >= 0)", *o.Gap)
	}
	return nil
}

// SetPreviewDefaults fills unset preview options.
func (o *Options) SetPreviewDefaults() {
	if o.Format == "" {
		o.Format = DefaultPreviewFormat
	}
	if o.Width <= 0 {
		o.Width = preview.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = preview.DefaultHeight
	}
}

// ValidateForPreview sets defaults and validates preview options.
func (o *Options) ValidateForPreview() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetPreviewDefaults()
	return ValidatePreviewFormat(o.Format)
}

// Shelf returns the shelf packer configured by the options.
func (o *Options) Shelf() place.Shelf {
	s := place.NewShelf()
	if o.Gap != nil {
		s.Gap = *o.Gap
	}
	if o.MaxInstances > 0 {
		s.MaxInstances = o.MaxInstances
	}
	return s
}

// AnnotateOptions returns the annotation options.
func (o *Options) AnnotateOptions() []annotate.Option {
	return []annotate.Option{annotate.WithUnit(o.Unit), annotate.WithOffset(o.Offset)}
}

// PreviewOptions returns the preview renderer options.
func (o *Options) PreviewOptions() []preview.Option {
	opts := []preview.Option{preview.WithSize(o.Width, o.Height)}
	if o.Labels {
		opts = append(opts, preview.WithLabels())
	}
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Unit:         o.Unit,
		Offset:       o.Offset,
		MaxInstances: o.MaxInstances,
		Overlaps:     !o.SkipOverlaps,
	}
	if o.Gap != nil {
		k.Gap = *o.Gap
	}
	return k
}

// PreviewKeyOpts returns cache key options for preview rendering.
func (o *Options) PreviewKeyOpts() cache.PreviewKeyOpts {
	return cache.PreviewKeyOpts{Format: o.Format, Width: o.Width, Height: o.Height, Labels: o.Labels}
}
