package place

import (
	"math"

	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/scene"
)

const (
	// DefaultGap is the spacing (meters) left between neighboring items.
	DefaultGap = 0.01

	// DefaultMaxInstances caps quantity expansion.
	DefaultMaxInstances = 10000
)

// Shelf is a first-fit shelf packer.
//
// Instances are laid out left to right along the container length. When the
// next instance does not fit in the current row, a new row starts further
// along the width, offset by the widest item of the previous row. Packing
// stops at the first instance whose row would exceed the container width;
// it and every later instance are dropped. There is no backtracking or
// reordering, and every item sits on the floor.
//
// The zero value packs flush (Gap 0 is a literal gap) with the default
// instance cap (MaxInstances 0 has no useful literal meaning). Use NewShelf
// for the default gap.
type Shelf struct {
	// Gap is the spacing between items in meters. Zero packs flush; a
	// negative or non-finite gap means DefaultGap.
	Gap float64

	// MaxInstances caps how many instances are considered across all items.
	// Zero or negative means DefaultMaxInstances. Instances past the cap
	// count as dropped.
	MaxInstances int
}

// NewShelf returns a Shelf with the default gap and instance cap.
func NewShelf() Shelf {
	return Shelf{Gap: DefaultGap, MaxInstances: DefaultMaxInstances}
}

// Name returns StrategyShelf.
func (Shelf) Name() string { return StrategyShelf }

// Place walks the instances of items in input order and packs them. Only
// placed instances are materialized; unplaceable ones are counted.
func (p Shelf) Place(c scene.Container, items []Item, s scene.ScaleParams) Result {
	gap := p.Gap
	if gap < 0 || math.IsNaN(gap) || math.IsInf(gap, 0) {
		gap = DefaultGap
	}
	limit := p.MaxInstances
	if limit <= 0 {
		limit = DefaultMaxInstances
	}

	res := Result{Strategy: StrategyShelf}
	var (
		cx, cz, rowMax float64
		considered     int
		full           bool
	)
	for i, it := range items {
		q := instances(it)
		res.Instances += q
		if full {
			continue
		}
		take := min(q, limit-considered)
		considered += take

		d := it.Dims
		if d.Length > c.Length {
			// Too long for any row; every copy is dropped.
			continue
		}
		for n := 0; n < take; n++ {
			if cx+d.Length > c.Length {
				cx = 0
				cz += rowMax + gap
				rowMax = 0
			}
			if cz+d.Width > c.Width {
				full = true
				break
			}
			origin := geom.Point3{X: cx, Y: 0, Z: cz}
			res.Placed = append(res.Placed, newPlaced(i, n, it, origin, c, s))

			cx += d.Length + gap
			rowMax = math.Max(rowMax, d.Width)
		}
	}
	res.Dropped = res.Instances - len(res.Placed)
	return res
}

// Pack shelf-packs items with the default settings.
func Pack(c scene.Container, items []Item, s scene.ScaleParams) Result {
	return NewShelf().Place(c, items, s)
}

// instances is the number of copies requested for it; below one counts as one.
func instances(it Item) int {
	return max(it.Quantity, 1)
}
