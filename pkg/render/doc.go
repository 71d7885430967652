// Package render groups the image renderers for layouts.
//
// Scene rendering itself belongs to the client: a layout already carries
// scene-space centers and render sizes for every box. The [preview]
// subpackage draws a top-down floor plan for quick inspection, as PNG
// (via fogleman/gg) or SVG.
//
//	png, err := preview.Render(l, preview.FormatPNG, preview.WithLabels())
//
// [preview]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render/preview
package render
