package geom_test

import (
	"fmt"

	"github.com/matzehuels/stowage/pkg/geom"
)

func ExampleParsePosition() {
	fmt.Println(geom.ParsePosition([]any{1.5, 0, "2"}))
	fmt.Println(geom.ParsePosition(map[string]any{"x": 1, "1": 2, "z": "oops"}))
	fmt.Println(geom.ParsePosition(nil))
	// Output:
	// {1.5 0 2}
	// {1 2 0}
	// {0 0 0}
}

func ExampleParseDims() {
	fallback := geom.Dims{Length: geom.MinDim, Width: geom.MinDim, Height: geom.MinDim}
	fmt.Println(geom.ParseDims(map[string]any{"l": 1.2, "w": 0.8, "h": -1}, fallback))
	// Output:
	// {1.2 0.8 0.001}
}
