package raster

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Face is the bitmap font used for all canvas text.
var Face font.Face = basicfont.Face7x13

// LineHeight is the vertical advance between text lines.
func LineHeight() int { return Face.Metrics().Height.Ceil() }

// TextWidth returns the pixel width of the widest line of s.
func TextWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		if lw := font.MeasureString(Face, line).Ceil(); lw > w {
			w = lw
		}
	}
	return w
}

// Text draws s with its first baseline at pt. Lines are separated by '\n'.
func (c *Canvas) Text(pt image.Point, s string, col color.Color) {
	c.flush()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: Face,
	}
	for i, line := range strings.Split(s, "\n") {
		d.Dot = fixed.P(pt.X, pt.Y+i*LineHeight())
		d.DrawString(line)
	}
}

// TextCentered draws s centered in r, each line centered horizontally.
func (c *Canvas) TextCentered(r image.Rectangle, s string, col color.Color) {
	lines := strings.Split(s, "\n")
	lh := LineHeight()
	ascent := Face.Metrics().Ascent.Ceil()
	top := r.Min.Y + (r.Dy()-lh*len(lines))/2 + ascent
	for i, line := range lines {
		x := r.Min.X + (r.Dx()-font.MeasureString(Face, line).Ceil())/2
		c.Text(image.Pt(x, top+i*lh), line, col)
	}
}
