package pipeline

import (
	stderrors "errors"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/diag"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/place"
	"github.com/matzehuels/stowage/pkg/scene"
)

// =============================================================================
// Normalization
// =============================================================================

// Input is a request after normalization. Every field is valid.
type Input struct {
	Container scene.Container `json:"container"`
	Items     []place.Item    `json:"items"`

	// Coerced lists the fields replaced by defaults. It is informational
	// and never fails a run.
	Coerced error `json:"-"`
}

// Normalize coerces a raw request into an Input.
func Normalize(req layout.Request) Input {
	c, cerr := req.ContainerSpec()
	items, ierr := req.PlaceItems()
	return Input{Container: c, Items: items, Coerced: stderrors.Join(cerr, ierr)}
}

// Hash returns the content hash of the normalized input. Requests that
// differ only in encoding hash the same.
func (in Input) Hash() (string, error) {
	return cache.HashValue(in)
}

// =============================================================================
// Layout Computation
// =============================================================================

// Compute runs placement, annotation and overlap diagnostics. It is pure:
// identical input and options always give an identical layout. The layout
// ID is left empty.
func Compute(in Input, opts Options) layout.Layout {
	opts.SetLayoutDefaults()

	s := scene.ComputeScale(in.Container)
	res := place.SelectWith(in.Items, opts.Shelf()).Place(in.Container, in.Items, s)

	var pairs []diag.Pair
	if !opts.SkipOverlaps {
		pairs = diag.FindOverlaps(res.Placed, s)
	}
	notes := annotate.Compute(in.Container, s, opts.AnnotateOptions()...)

	return layout.Assemble(in.Container, s, len(in.Items), res, notes, pairs)
}

// Build normalizes req and computes its layout.
func Build(req layout.Request, opts Options) layout.Layout {
	return Compute(Normalize(req), opts)
}
