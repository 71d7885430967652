// Package preview renders a top-down floor plan of a layout.
//
// The plan looks down the vertical axis: container length runs left to
// right and container width runs top to bottom. Items are filled with their
// palette color and drawn lowest first, so stacked items cover the ones
// beneath them. Items involved in an overlap are outlined in red.
//
// Two sinks share the same projection:
//
//	png, err := preview.RenderPNG(l, preview.WithSize(1024, 512))
//	svg := preview.RenderSVG(l, preview.WithLabels())
package preview

import (
	"cmp"
	"slices"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/layout"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Defaults.
const (
	DefaultWidth  = 800
	DefaultHeight = 400
	MaxSize       = 4096 // largest accepted width or height
	margin        = 32.0
	labelSize     = 11.0 // points
)

// Colors.
const (
	colorBackground = "#ffffff"
	colorContainer  = "#333333"
	colorItemStroke = "#222222"
	colorOverlap    = "#d62728"
	colorText       = "#111111"
)

// Option configures a preview.
type Option func(*options)

type options struct {
	width, height int
	labels        bool
}

// WithSize sets the image size in pixels. Non-positive values keep the
// default and values above MaxSize are capped.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = min(width, MaxSize)
		}
		if height > 0 {
			o.height = min(height, MaxSize)
		}
	}
}

// WithLabels draws item names and container dimensions.
func WithLabels() Option { return func(o *options) { o.labels = true } }

func newOptions(opts ...Option) options {
	o := options{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// rect is a box in image pixels.
type rect struct {
	x, y, w, h  float64
	name, color string
	overlapping bool
}

// frame maps real-space floor coordinates to pixels.
type frame struct {
	ox, oy, px float64
	container  rect
}

func newFrame(l layout.Layout, o options) frame {
	L, W := l.Container.Length, l.Container.Width
	availW := float64(o.width) - 2*margin
	availH := float64(o.height) - 2*margin
	px := 1.0
	if L > 0 && W > 0 && availW > 0 && availH > 0 {
		px = min(availW/L, availH/W)
	}
	ox := (float64(o.width) - L*px) / 2
	oy := (float64(o.height) - W*px) / 2
	return frame{
		ox: ox, oy: oy, px: px,
		container: rect{x: ox, y: oy, w: L * px, h: W * px},
	}
}

// rects returns the item rectangles in paint order: lowest first, then
// placement order.
func (f frame) rects(l layout.Layout) []rect {
	idx := make([]int, len(l.Boxes))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(l.Boxes[a].Origin.Y, l.Boxes[b].Origin.Y)
	})

	out := make([]rect, 0, len(idx))
	for _, i := range idx {
		b := l.Boxes[i]
		out = append(out, rect{
			x:           f.ox + b.Origin.X*f.px,
			y:           f.oy + b.Origin.Z*f.px,
			w:           b.Dims.Length * f.px,
			h:           b.Dims.Width * f.px,
			name:        b.Name,
			color:       b.Color,
			overlapping: b.Overlapping,
		})
	}
	return out
}

// caption returns the annotation text for axis, if present.
func caption(l layout.Layout, axis string) string {
	for _, a := range l.Annotations {
		if string(a.Axis) == axis {
			return a.Text
		}
	}
	return ""
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Render dispatches to the sink for format.
func Render(l layout.Layout, format string, opts ...Option) ([]byte, error) {
	switch format {
	case FormatPNG, "":
		return RenderPNG(l, opts...)
	case FormatSVG:
		return RenderSVG(l, opts...), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported preview format %q (want png or svg)", format)
}
