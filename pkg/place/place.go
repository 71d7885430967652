// Package place turns items into positioned, render-ready boxes.
//
// Two [Placer] variants exist:
//
//   - [Precomputed] projects positions supplied by an upstream packer,
//     clamping each one into the container.
//   - [Shelf] computes positions itself with a single-pass, first-fit shelf
//     heuristic. It is used when no positions are supplied.
//
// [Select] picks the variant once per invocation from the shape of the input.
// Every item must carry a position for the precomputed path to be taken.
// Otherwise the whole invocation is shelf-packed.
//
// Placement never fails. Out-of-range positions are clamped, and items that
// do not fit the shelf are dropped and counted in [Result.Dropped].
package place

import (
	"hash/fnv"

	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/scene"
)

// Strategy names reported in [Result.Strategy].
const (
	StrategyPrecomputed = "precomputed"
	StrategyShelf       = "shelf"
)

// Item is one item spec. Dims are meters. Position, when set, is the item's
// min corner relative to the container's min corner. Quantity is only used
// by the shelf packer; values below 1 count as 1.
type Item struct {
	Name     string
	Dims     geom.Dims
	Position *geom.Point3
	Quantity int
}

// NewItem builds an Item from loosely-typed dimensions and position.
// A nil rawPosition leaves Position unset. The error lists coerced fields
// and is informational only: the returned Item is always usable.
func NewItem(name string, rawDims, rawPosition any, quantity int) (Item, error) {
	fallback := geom.Dims{Length: geom.MinDim, Width: geom.MinDim, Height: geom.MinDim}
	it := Item{Name: name, Quantity: quantity}

	d, dimErr := geom.NormalizeDims(rawDims, fallback)
	it.Dims = d
	if rawPosition == nil {
		return it, dimErr
	}

	p, posErr := geom.NormalizePosition(rawPosition)
	it.Position = &p
	if dimErr != nil {
		return it, dimErr
	}
	return it, posErr
}

// Placed is a positioned item ready for rendering.
type Placed struct {
	Index      int         // index of the source Item
	Name       string      // source Item name
	Instance   int         // 0-based copy number within the Item's quantity
	Origin     geom.Point3 // min corner, meters, container-relative
	Dims       geom.Dims   // real dimensions, meters
	Center     geom.Point3 // scene-space center
	RenderSize geom.Dims   // padded dimensions, meters
	Color      string      // "#rrggbb", stable per Name
}

// Bounds returns the real-space box occupied by the item.
func (p Placed) Bounds() geom.Box { return geom.BoxAt(p.Origin, p.Dims) }

// SceneBounds returns the scene-space box of the rendered (padded) item.
func (p Placed) SceneBounds(s scene.ScaleParams) geom.Box {
	return geom.BoxAround(p.Center, p.RenderSize.Extent().Scale(s.SceneScale))
}

// Result is the output of one placement pass.
type Result struct {
	Strategy  string
	Placed    []Placed
	Instances int // item instances considered (after quantity expansion)
	Dropped   int // instances that could not be placed
}

// Placer computes placements for one container.
type Placer interface {
	Name() string
	Place(c scene.Container, items []Item, s scene.ScaleParams) Result
}

// Select returns Precomputed when every item carries a position and
// NewShelf otherwise.
func Select(items []Item) Placer {
	return SelectWith(items, NewShelf())
}

// SelectWith is Select with a configured shelf packer as the fallback.
func SelectWith(items []Item, fallback Shelf) Placer {
	if len(items) == 0 {
		return fallback
	}
	for _, it := range items {
		if it.Position == nil {
			return fallback
		}
	}
	return Precomputed{}
}

// Items selects a Placer for items and runs it.
func Items(c scene.Container, items []Item, s scene.ScaleParams) Result {
	return Select(items).Place(c, items, s)
}

// palette holds the fill colors handed out by ColorFor.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// ColorFor returns a palette color derived from name. Equal names always
// get equal colors.
func ColorFor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}

func newPlaced(index, instance int, it Item, origin geom.Point3, c scene.Container, s scene.ScaleParams) Placed {
	center, render := scene.Place(c, origin, it.Dims, s)
	return Placed{
		Index:      index,
		Name:       it.Name,
		Instance:   instance,
		Origin:     origin,
		Dims:       it.Dims,
		Center:     center,
		RenderSize: render,
		Color:      ColorFor(it.Name),
	}
}
