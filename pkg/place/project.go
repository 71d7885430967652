package place

import (
	"math"

	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/scene"
)

// Precomputed places items at the positions they carry.
type Precomputed struct{}

// Name returns StrategyPrecomputed.
func (Precomputed) Name() string { return StrategyPrecomputed }

// Place projects every item in input order. Items without a position are
// projected from the origin.
func (Precomputed) Place(c scene.Container, items []Item, s scene.ScaleParams) Result {
	res := Result{Strategy: StrategyPrecomputed, Instances: len(items)}
	if len(items) > 0 {
		res.Placed = make([]Placed, 0, len(items))
	}
	for i, it := range items {
		p := Project(c, it, s)
		p.Index = i
		res.Placed = append(res.Placed, p)
	}
	return res
}

// Project clamps an item's position into the container and converts it to
// scene space.
//
// Each axis is clamped independently to [0, containerDim - itemDim], so the
// item's real box stays inside the container. An item larger than the
// container on some axis is pinned to 0 on that axis. Out-of-range input is
// corrected, never rejected.
func Project(c scene.Container, it Item, s scene.ScaleParams) Placed {
	var pos geom.Point3
	if it.Position != nil {
		pos = *it.Position
	}
	d := it.Dims
	origin := geom.Point3{
		X: clamp(pos.X, c.Length-d.Length),
		Y: clamp(pos.Y, c.Height-d.Height),
		Z: clamp(pos.Z, c.Width-d.Width),
	}
	return newPlaced(0, 0, it, origin, c, s)
}

func clamp(v, hi float64) float64 {
	return math.Max(0, math.Min(v, hi))
}
