// Package pkg provides the core libraries for Stowage.
//
// # Overview
//
// Stowage turns container-packing results into render-ready scenes. A
// request names a container and a list of items with real-world sizes in
// meters, and optionally positions. The libraries normalize that loosely
// typed input, place the items, and project everything into a bounded
// scene space a 3D renderer can draw directly.
//
// # Architecture
//
//	Request (JSON / YAML / TOML / msgpack)
//	         ↓
//	    [layout] decode, then [geom] normalization
//	         ↓
//	    [place] precomputed projection or shelf packing
//	         ↓
//	    [scene] scaling, [diag] overlaps, [annotate] dimension markers
//	         ↓
//	    [layout].Layout (JSON / msgpack), [render/preview] floor plans
//
// [pipeline] orchestrates these steps behind a [cache] and reports through
// [observability] hooks.
//
// # Quick Start
//
//	req, err := layout.ReadRequestFile("shipment.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Layout(ctx, req, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, b := range res.Layout.Boxes {
//	    fmt.Println(b.Name, b.Center, b.RenderSize)
//	}
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/layout
// [geom]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/geom
// [place]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/place
// [scene]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/scene
// [diag]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/diag
// [annotate]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/annotate
// [render/preview]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render/preview
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/observability
package pkg
