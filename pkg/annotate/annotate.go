// Package annotate computes dimension markers for a container.
//
// Each marker is a line segment in scene space running parallel to one
// container edge, offset outward so it does not touch the container, plus a
// label anchor and formatted text. Rendering the markers is left to the
// caller.
package annotate

import (
	"fmt"

	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/scene"
)

// Axis names a container dimension.
type Axis string

const (
	AxisLength Axis = "length"
	AxisWidth  Axis = "width"
	AxisHeight Axis = "height"
)

const (
	// DefaultOffset is the distance (scene units) between a marker and the
	// container edge it measures.
	DefaultOffset = 0.3

	// DefaultUnit is the unit suffix used in labels.
	DefaultUnit = "m"
)

// Annotation is one dimension marker.
type Annotation struct {
	Axis   Axis        `json:"axis" msgpack:"axis"`
	Start  geom.Point3 `json:"start" msgpack:"start"`
	End    geom.Point3 `json:"end" msgpack:"end"`
	Anchor geom.Point3 `json:"anchor" msgpack:"anchor"`
	Text   string      `json:"text" msgpack:"text"`
	Value  float64     `json:"value" msgpack:"value"` // real-space length, meters
}

// Option configures Compute.
type Option func(*options)

type options struct {
	unit   string
	offset float64
}

// WithUnit sets the label unit. An empty unit keeps the default.
func WithUnit(unit string) Option {
	return func(o *options) {
		if unit != "" {
			o.unit = unit
		}
	}
}

// WithOffset sets the marker offset. Non-positive values keep the default.
func WithOffset(offset float64) Option {
	return func(o *options) {
		if offset > 0 {
			o.offset = offset
		}
	}
}

// Compute returns the length, width and height markers, in that order.
func Compute(c scene.Container, s scene.ScaleParams, opts ...Option) []Annotation {
	o := options{unit: DefaultUnit, offset: DefaultOffset}
	for _, opt := range opts {
		opt(&o)
	}

	hx := c.Length * s.SceneScale / 2
	hz := c.Width * s.SceneScale / 2
	hy := c.Height * s.SceneScale
	off := o.offset

	length := marker(AxisLength, c.Length, o.unit,
		geom.Point3{X: -hx, Y: 0, Z: hz + off},
		geom.Point3{X: hx, Y: 0, Z: hz + off},
		geom.Point3{Y: off / 2})
	width := marker(AxisWidth, c.Width, o.unit,
		geom.Point3{X: hx + off, Y: 0, Z: -hz},
		geom.Point3{X: hx + off, Y: 0, Z: hz},
		geom.Point3{Y: off / 2})
	height := marker(AxisHeight, c.Height, o.unit,
		geom.Point3{X: -hx - off, Y: 0, Z: hz + off},
		geom.Point3{X: -hx - off, Y: hy, Z: hz + off},
		geom.Point3{X: -off / 2})

	return []Annotation{length, width, height}
}

func marker(axis Axis, value float64, unit string, start, end, nudge geom.Point3) Annotation {
	return Annotation{
		Axis:   axis,
		Start:  start,
		End:    end,
		Anchor: start.Add(end).Scale(0.5).Add(nudge),
		Text:   Label(value, unit),
		Value:  value,
	}
}

// Label formats a length with two decimals and a unit suffix.
func Label(value float64, unit string) string {
	return fmt.Sprintf("%.2f %s", value, unit)
}
