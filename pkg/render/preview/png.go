package preview

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/fonts"
	"github.com/matzehuels/stowage/pkg/layout"
)

// RenderPNG draws the floor plan and encodes it as PNG.
func RenderPNG(l layout.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	f := newFrame(l, o)

	dc := gg.NewContext(o.width, o.height)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	if o.labels {
		face, err := fonts.LabelFace(labelSize)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		dc.SetFontFace(face)
	}

	for _, r := range f.rects(l) {
		dc.DrawRectangle(r.x, r.y, r.w, r.h)
		dc.SetHexColor(r.color)
		dc.FillPreserve()
		if r.overlapping {
			dc.SetHexColor(colorOverlap)
			dc.SetLineWidth(2.5)
		} else {
			dc.SetHexColor(colorItemStroke)
			dc.SetLineWidth(0.75)
		}
		dc.Stroke()

		if o.labels && r.w > 24 && r.h > 12 {
			dc.SetHexColor(colorText)
			dc.DrawStringAnchored(r.name, r.x+r.w/2, r.y+r.h/2, 0.5, 0.5)
		}
	}

	c := f.container
	dc.DrawRectangle(c.x, c.y, c.w, c.h)
	dc.SetHexColor(colorContainer)
	dc.SetLineWidth(2)
	dc.Stroke()

	if o.labels {
		dc.SetHexColor(colorText)
		if s := caption(l, string(annotate.AxisLength)); s != "" {
			dc.DrawStringAnchored(s, c.x+c.w/2, c.y+c.h+margin/2, 0.5, 0.5)
		}
		if s := caption(l, string(annotate.AxisWidth)); s != "" {
			dc.Push()
			dc.RotateAbout(gg.Radians(90), c.x+c.w+margin/2, c.y+c.h/2)
			dc.DrawStringAnchored(s, c.x+c.w+margin/2, c.y+c.h/2, 0.5, 0.5)
			dc.Pop()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
