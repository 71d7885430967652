// Package scene maps real-world container space (meters) into the bounded
// coordinate space a renderer draws in.
//
// The container's longest edge is scaled to [TargetMax] scene units, so a
// 12 m shipping container and a 1 m crate appear at the same size. The
// container is centered on the horizontal (X/Z) plane around the origin and
// its floor sits at Y = 0.
package scene

import (
	"github.com/matzehuels/stowage/pkg/geom"
)

const (
	// TargetMax is the scene-space length of the container's longest edge.
	TargetMax = 8.0

	// VisualPad is the total amount (meters) removed from each rendered item
	// dimension, half per side, so neighboring faces are never coplanar.
	VisualPad = 0.002

	// MinRenderDim is the smallest rendered item dimension (meters).
	MinRenderDim = 0.0001
)

// DefaultContainer holds the dimensions substituted for invalid container
// fields.
var DefaultContainer = Container{Length: 2, Width: 1.5, Height: 1.5}

// Container is the inner bounding box of a container, in meters.
// Every field is positive once built through [NewContainer] or
// [ParseContainer].
type Container struct {
	Length float64 `json:"length" msgpack:"length"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// NewContainer builds a container, replacing each dimension that is not a
// finite positive number with the matching field of [DefaultContainer].
func NewContainer(length, width, height float64) Container {
	return ParseContainer(geom.Dims{Length: length, Width: width, Height: height})
}

// ParseContainer builds a container from loosely-typed input. Any shape
// accepted by [geom.ParseDims] works.
func ParseContainer(raw any) Container {
	c, _ := NormalizeContainer(raw)
	return c
}

// NormalizeContainer is [ParseContainer] that also reports which dimensions
// were replaced by defaults. The container is always valid.
func NormalizeContainer(raw any) (Container, error) {
	d, err := geom.NormalizeDims(raw, DefaultContainer.Dims())
	return Container{Length: d.Length, Width: d.Width, Height: d.Height}, err
}

// Dims returns the container size as geom.Dims.
func (c Container) Dims() geom.Dims {
	return geom.Dims{Length: c.Length, Width: c.Width, Height: c.Height}
}

// Volume returns the container volume in cubic meters.
func (c Container) Volume() float64 { return c.Dims().Volume() }

// Bounds returns the container's real-space box, min corner at the origin.
func (c Container) Bounds() geom.Box { return geom.BoxAt(geom.Point3{}, c.Dims()) }
