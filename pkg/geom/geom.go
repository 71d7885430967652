// Package geom holds the geometric primitives shared by every layout stage
// and the single normalization entry point for loosely-typed input.
//
// # Axes
//
// Real-world and scene space use the same axis convention:
//
//	X  along the container length
//	Y  vertical (height), floor at 0
//	Z  along the container width
//
// A [Dims] value is always ordered length, width, height, so [Dims.Extent]
// maps it onto the X/Y/Z axes.
//
// # Normalization
//
// Positions and dimensions often arrive as decoded JSON, YAML or TOML values
// whose shapes differ: arrays, objects with named fields, objects with
// indexed fields, strings holding numbers. [ParsePosition] and [ParseDims]
// accept all of them and never fail. Missing or non-numeric components fall
// back to defaults. [NormalizePosition] and [NormalizeDims] do the same
// and also report what was coerced, so callers can log it. The layout core
// never propagates that error.
package geom

import "math"

// MinDim is the dimension substituted for missing or non-positive item
// dimensions, keeping every box at a non-zero volume.
const MinDim = 0.001

// Point3 is a position or extent in three dimensions.
type Point3 struct {
	X float64 `json:"x" msgpack:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" msgpack:"z" yaml:"z" toml:"z"`
}

// Add returns p+q.
func (p Point3) Add(q Point3) Point3 { return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Sub returns p-q.
func (p Point3) Sub(q Point3) Point3 { return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Scale returns p multiplied by s on every axis.
func (p Point3) Scale(s float64) Point3 { return Point3{p.X * s, p.Y * s, p.Z * s} }

// Dims is a box size in length, width, height order.
type Dims struct {
	Length float64 `json:"length" msgpack:"length" yaml:"length" toml:"length"`
	Width  float64 `json:"width" msgpack:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" msgpack:"height" yaml:"height" toml:"height"`
}

// Extent maps the dimensions onto the X (length), Y (height), Z (width) axes.
func (d Dims) Extent() Point3 { return Point3{X: d.Length, Y: d.Height, Z: d.Width} }

// Max returns the largest of the three dimensions.
func (d Dims) Max() float64 { return math.Max(d.Length, math.Max(d.Width, d.Height)) }

// Volume returns Length*Width*Height.
func (d Dims) Volume() float64 { return d.Length * d.Width * d.Height }

// Shrink subtracts pad from every dimension, never going below floor.
func (d Dims) Shrink(pad, floor float64) Dims {
	return Dims{
		Length: math.Max(d.Length-pad, floor),
		Width:  math.Max(d.Width-pad, floor),
		Height: math.Max(d.Height-pad, floor),
	}
}
