package scene

import "github.com/matzehuels/stowage/pkg/geom"

// ScaleParams converts meters to scene units.
type ScaleParams struct {
	SceneScale float64 `json:"scene_scale" msgpack:"scene_scale"`
	TargetMax  float64 `json:"target_max" msgpack:"target_max"`
}

// ComputeScale returns the uniform scale that maps the container's longest
// dimension to TargetMax. A container whose longest dimension is not
// positive gets a scale of 1; NewContainer and ParseContainer never
// produce one.
func ComputeScale(c Container) ScaleParams {
	maxDim := c.Dims().Max()
	s := 1.0
	if maxDim > 0 {
		s = TargetMax / maxDim
	}
	return ScaleParams{SceneScale: s, TargetMax: TargetMax}
}

// ToScene converts a real-space length to scene units.
func (s ScaleParams) ToScene(v float64) float64 { return v * s.SceneScale }

// Place converts an item whose min corner sits at origin (meters, relative
// to the container's min corner) into its scene-space center and its padded
// render size in meters.
//
// On X and Z the center is shifted by half the container so the container
// is centered on the origin; Y is ground-anchored at the container floor.
func Place(c Container, origin geom.Point3, d geom.Dims, s ScaleParams) (geom.Point3, geom.Dims) {
	render := d.Shrink(VisualPad, MinRenderDim)
	half := VisualPad / 2
	center := geom.Point3{
		X: (origin.X + half + render.Length/2 - c.Length/2) * s.SceneScale,
		Y: (origin.Y + half + render.Height/2) * s.SceneScale,
		Z: (origin.Z + half + render.Width/2 - c.Width/2) * s.SceneScale,
	}
	return center, render
}

// Bounds returns the container's scene-space box.
func (s ScaleParams) Bounds(c Container) geom.Box {
	hx, hz := c.Length/2*s.SceneScale, c.Width/2*s.SceneScale
	return geom.Box{
		Min: geom.Point3{X: -hx, Y: 0, Z: -hz},
		Max: geom.Point3{X: hx, Y: c.Height * s.SceneScale, Z: hz},
	}
}
