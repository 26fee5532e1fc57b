// Package raster draws the preview image. Depth-tested triangles and lines
// given in clip space go through fauxgl; fills and bitmap text go straight
// to the RGBA color buffer.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/fauxgl"
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullOff CullMode = iota
	CullBack
	CullFront
)

// State is the fixed-function state of one draw.
type State struct {
	Cull       CullMode
	DepthTest  bool
	DepthWrite bool
	// DepthBias is subtracted from fragment depth before the test, pulling
	// overlays in front of coplanar surfaces. It is in depth buffer units,
	// see DepthRange.Bias.
	DepthBias float32
	Blend     bool
}

// Opaque is depth tested, depth writing, back-face culled and unblended.
var Opaque = State{Cull: CullBack, DepthTest: true, DepthWrite: true}

// Stats counts raster work since the last Reset.
type Stats struct {
	Triangles int
	Lines     int
	Fragments int
}

// guard is the border in pixels around a viewport's fauxgl context. Fat
// line ends and clipping round-off land in it and are never copied back.
const guard = 1

// Canvas is a color target with a depth buffer per viewport.
type Canvas struct {
	img   *image.RGBA
	rng   DepthRange
	pass  *pass
	stats Stats
}

// pass is the fauxgl context of the viewport being drawn. While synced, the
// context color buffer is newer than the canvas inside the viewport.
type pass struct {
	vp     image.Rectangle
	ctx    *fauxgl.Context
	synced bool
}

// NewCanvas creates a canvas of the given size.
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image returns the color buffer with every pending fragment applied.
func (c *Canvas) Image() *image.RGBA {
	c.flush()
	return c.img
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Stats returns the raster counters.
func (c *Canvas) Stats() Stats { return c.stats }

// ResetStats zeroes the raster counters.
func (c *Canvas) ResetStats() { c.stats = Stats{} }

// SetDepthRange sets the projection of the clip coordinates drawn next.
func (c *Canvas) SetDepthRange(r DepthRange) { c.rng = r }

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.Color) {
	c.FillRect(c.img.Rect, col)
}

// FillRect paints a rectangle, clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	c.flush()
	draw.Draw(c.img, r.Intersect(c.img.Rect), image.NewUniform(col), image.Point{}, draw.Src)
}

// ClearDepth resets the depth buffer to the far plane.
func (c *Canvas) ClearDepth() {
	if c.pass != nil {
		c.pass.ctx.ClearDepthBuffer()
	}
}

// ClearDepthRect resets depth inside a rectangle of the canvas.
func (c *Canvas) ClearDepthRect(r image.Rectangle) {
	p := c.pass
	if p == nil {
		return
	}
	r = r.Intersect(p.vp)
	w := p.ctx.Width
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := (y-p.vp.Min.Y+guard)*w + guard - p.vp.Min.X
		for x := r.Min.X; x < r.Max.X; x++ {
			p.ctx.DepthBuffer[row+x] = math.MaxFloat64
		}
	}
}

// Depth returns the stored depth at a pixel, or math.MaxFloat32 where
// nothing was drawn.
func (c *Canvas) Depth(x, y int) float32 {
	p := c.pass
	if p == nil || !image.Pt(x, y).In(p.vp) {
		return math.MaxFloat32
	}
	d := p.ctx.DepthBuffer[(y-p.vp.Min.Y+guard)*p.ctx.Width+x-p.vp.Min.X+guard]
	if d >= math.MaxFloat32 {
		return math.MaxFloat32
	}
	return float32(d)
}

// begin returns the context drawing into vp, creating it with a cleared
// depth buffer when the viewport changes.
func (c *Canvas) begin(vp image.Rectangle) *fauxgl.Context {
	if vp.Empty() {
		return nil
	}
	if p := c.pass; p != nil && p.vp == vp {
		if !p.synced {
			c.load()
		}
		return p.ctx
	}
	c.flush()

	w, h := vp.Dx()+2*guard, vp.Dy()+2*guard
	var ctx *fauxgl.Context
	if c.pass != nil && c.pass.ctx.Width == w && c.pass.ctx.Height == h {
		ctx = c.pass.ctx
		ctx.ClearDepthBuffer()
	} else {
		ctx = fauxgl.NewContext(w, h)
		ctx.LineWidth = 1
	}
	c.pass = &pass{vp: vp, ctx: ctx}
	c.load()
	return ctx
}

// load copies the canvas pixels under the viewport into the context, so
// blending sees what 2D drawing left there.
func (c *Canvas) load() {
	p := c.pass
	inner := image.Rect(guard, guard, guard+p.vp.Dx(), guard+p.vp.Dy())
	draw.Draw(p.ctx.ColorBuffer, p.ctx.ColorBuffer.Rect, image.Transparent, image.Point{}, draw.Src)
	draw.Draw(p.ctx.ColorBuffer, inner, c.img, p.vp.Min, draw.Src)
	p.synced = true
}

// flush copies pending fragments back into the canvas.
func (c *Canvas) flush() {
	p := c.pass
	if p == nil || !p.synced {
		return
	}
	draw.Draw(c.img, p.vp.Intersect(c.img.Rect), p.ctx.ColorBuffer, image.Pt(guard, guard).Add(clipOffset(p.vp, c.img.Rect)), draw.Src)
	p.synced = false
}

// clipOffset is how far the visible part of vp starts from its corner.
func clipOffset(vp, bounds image.Rectangle) image.Point {
	return vp.Intersect(bounds).Min.Sub(vp.Min)
}

func (c *Canvas) apply(ctx *fauxgl.Context, st State) {
	switch st.Cull {
	case CullBack:
		ctx.Cull = fauxgl.CullBack
	case CullFront:
		ctx.Cull = fauxgl.CullFront
	default:
		ctx.Cull = fauxgl.CullNone
	}
	ctx.FrontFace = fauxgl.FaceCCW
	ctx.ReadDepth = st.DepthTest
	ctx.WriteDepth = st.DepthWrite
	ctx.AlphaBlend = st.Blend
	ctx.DepthBias = -float64(st.DepthBias)
}

func (c *Canvas) count(info fauxgl.RasterizeInfo, lines bool) {
	if info.TotalPixels == 0 {
		return
	}
	if lines {
		c.stats.Lines++
	} else {
		c.stats.Triangles++
	}
	c.stats.Fragments += int(info.UpdatedPixels)
}
