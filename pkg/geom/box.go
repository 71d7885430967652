package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Point3 `json:"min" msgpack:"min"`
	Max Point3 `json:"max" msgpack:"max"`
}

// BoxAt returns the box whose minimum corner is origin and whose size is d.
func BoxAt(origin Point3, d Dims) Box {
	return Box{Min: origin, Max: origin.Add(d.Extent())}
}

// BoxAround returns the box centered on c with the given full size.
func BoxAround(c Point3, size Point3) Box {
	half := size.Scale(0.5)
	return Box{Min: c.Sub(half), Max: c.Add(half)}
}

// Size returns the extent of the box on each axis.
func (b Box) Size() Point3 { return b.Max.Sub(b.Min) }

// Center returns the center point of the box.
func (b Box) Center() Point3 { return b.Min.Add(b.Max).Scale(0.5) }

// Intersection returns the overlap extent of b and o on each axis.
// A component is zero or negative when the boxes are disjoint on that axis.
func (b Box) Intersection(o Box) Point3 {
	return Point3{
		X: math.Min(b.Max.X, o.Max.X) - math.Max(b.Min.X, o.Min.X),
		Y: math.Min(b.Max.Y, o.Max.Y) - math.Max(b.Min.Y, o.Min.Y),
		Z: math.Min(b.Max.Z, o.Max.Z) - math.Max(b.Min.Z, o.Min.Z),
	}
}

// Overlaps reports whether b and o share a positive volume.
// Boxes that only touch on a face, edge or corner do not overlap.
func (b Box) Overlaps(o Box) bool {
	e := b.Intersection(o)
	return e.X > 0 && e.Y > 0 && e.Z > 0
}

// OverlapsXZ reports whether the floor-plane footprints of b and o overlap.
func (b Box) OverlapsXZ(o Box) bool {
	e := b.Intersection(o)
	return e.X > 0 && e.Z > 0
}

// Contains reports whether o lies entirely inside b.
func (b Box) Contains(o Box) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y &&
		o.Min.Z >= b.Min.Z && o.Max.Z <= b.Max.Z
}
