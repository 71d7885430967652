// Package fonts provides the typeface used for preview labels.
//
// The face is Go Regular from golang.org/x/image/font/gofont, so labels
// render identically on every platform without a system font lookup.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family for SVG labels, with fallbacks for
// viewers that do not ship Go Regular.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	parsed    *truetype.Font
	parseErr  error
	parseOnce sync.Once
)

// LabelFace returns a new face at size points. Faces are not safe for
// concurrent use, so callers get their own.
func LabelFace(size float64) (font.Face, error) {
	parseOnce.Do(func() {
		parsed, parseErr = truetype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse label font: %w", parseErr)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: size}), nil
}
