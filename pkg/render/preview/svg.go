package preview

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/fonts"
	"github.com/matzehuels/stowage/pkg/layout"
)

// RenderSVG draws the floor plan as SVG.
func RenderSVG(l layout.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	f := newFrame(l, o)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		o.width, o.height, o.width, o.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", colorBackground)

	for _, r := range f.rects(l) {
		stroke, width := colorItemStroke, 0.75
		if r.overlapping {
			stroke, width = colorOverlap, 2.5
		}
		fmt.Fprintf(&buf, `  <rect class="item" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"><title>%s</title></rect>`+"\n",
			r.x, r.y, r.w, r.h, r.color, stroke, width, html.EscapeString(r.name))
		if o.labels && r.w > 24 && r.h > 12 {
			renderText(&buf, r.x+r.w/2, r.y+r.h/2, r.name, "")
		}
	}

	c := f.container
	fmt.Fprintf(&buf, `  <rect class="container" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		c.x, c.y, c.w, c.h, colorContainer)

	if o.labels {
		if s := caption(l, string(annotate.AxisLength)); s != "" {
			renderText(&buf, c.x+c.w/2, c.y+c.h+margin/2, s, "")
		}
		if s := caption(l, string(annotate.AxisWidth)); s != "" {
			x, y := c.x+c.w+margin/2, c.y+c.h/2
			renderText(&buf, x, y, s, fmt.Sprintf(` transform="rotate(90 %.2f %.2f)"`, x, y))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderText(buf *bytes.Buffer, x, y float64, s, extra string) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%g" fill="%s" text-anchor="middle" dominant-baseline="middle"%s>%s</text>`+"\n",
		x, y, fonts.FontFamily, labelSize, colorText, extra, html.EscapeString(s))
}
