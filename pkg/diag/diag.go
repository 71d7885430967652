// Package diag reports collisions between placed items.
//
// Overlaps are advisory. Upstream packing data may be physically valid and
// still produce tiny intersections from floating-point boundaries, so the
// result is meant for display and logging, not for rejecting a layout.
package diag

import (
	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/place"
	"github.com/matzehuels/stowage/pkg/scene"
)

// Pair is two placed items whose scene boxes intersect.
type Pair struct {
	A      int         `json:"a" msgpack:"a"` // index into the placed slice
	B      int         `json:"b" msgpack:"b"` // index into the placed slice, always > A
	NameA  string      `json:"name_a" msgpack:"name_a"`
	NameB  string      `json:"name_b" msgpack:"name_b"`
	Extent geom.Point3 `json:"extent" msgpack:"extent"` // overlap size in scene units
}

// FindOverlaps tests every pair of placed items and returns those whose
// scene-space boxes share positive extent on all three axes, ordered by
// (A, B). Boxes that only touch are not reported.
func FindOverlaps(placed []place.Placed, s scene.ScaleParams) []Pair {
	boxes := make([]geom.Box, len(placed))
	for i, p := range placed {
		boxes[i] = p.SceneBounds(s)
	}

	var pairs []Pair
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if !boxes[i].Overlaps(boxes[j]) {
				continue
			}
			pairs = append(pairs, Pair{
				A:      i,
				B:      j,
				NameA:  placed[i].Name,
				NameB:  placed[j].Name,
				Extent: boxes[i].Intersection(boxes[j]),
			})
		}
	}
	return pairs
}

// Involved returns the set of placed indices that appear in any pair.
func Involved(pairs []Pair) map[int]bool {
	out := make(map[int]bool, 2*len(pairs))
	for _, p := range pairs {
		out[p.A] = true
		out[p.B] = true
	}
	return out
}
