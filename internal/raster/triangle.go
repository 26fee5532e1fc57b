package raster

import (
	"image"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader returns the fragment color for perspective-correct barycentric
// weights of the triangle's three vertices.
type Shader func(w [3]float32) mgl32.Vec4

// DepthRange describes the projection that produced the clip coordinates.
// For a perspective projection the clip z is rebuilt in float64 from w, so
// a tiny near plane keeps its depth resolution. The zero value uses clip z
// as given.
type DepthRange struct {
	Near, Far   float32
	Perspective bool
}

// Bias returns the depth buffer offset that moves a fragment at the given
// eye distance toward the camera by offset.
func (r DepthRange) Bias(distance, offset float32) float32 {
	n, f := float64(r.Near), float64(r.Far)
	if f <= n || offset <= 0 {
		return 0
	}
	if !r.Perspective {
		return float32(float64(offset) / (f - n))
	}
	d := float64(distance)
	if d <= 0 {
		return 0
	}
	o := math.Min(float64(offset), d/2)
	return float32(f * n / (f - n) * (1/(d-o) - 1/d))
}

// corners carries the barycentric weights of each vertex in its color, so
// fauxgl interpolates them perspective-correctly.
var corners = [3]fauxgl.Color{{R: 1}, {G: 1}, {B: 1}}

type fragmentShader struct {
	shade  Shader
	opaque bool
}

// Vertex keeps the clip position prepared by the canvas.
func (s *fragmentShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex { return v }

func (s *fragmentShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	c := s.shade([3]float32{float32(v.Color.R), float32(v.Color.G), float32(v.Color.B)})
	out := fauxgl.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
	if s.opaque {
		out.A = 1
	}
	return out
}

// clip maps a clip-space position of the viewport into the context, which
// is larger by the guard border on each side.
func (c *Canvas) clip(vp image.Rectangle, p mgl32.Vec4) fauxgl.VectorW {
	x, y, z, w := float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])
	x *= float64(vp.Dx()) / float64(vp.Dx()+2*guard)
	y *= float64(vp.Dy()) / float64(vp.Dy()+2*guard)
	if r := c.rng; r.Perspective && r.Far > r.Near {
		n, f := float64(r.Near), float64(r.Far)
		z = ((f+n)*w - 2*f*n) / (f - n)
	}
	return fauxgl.VectorW{X: x, Y: y, Z: z, W: w}
}

// Triangle rasterizes one clip-space triangle into the viewport, which
// also acts as the scissor rectangle. Counter-clockwise triangles in NDC
// are front facing. Triangles crossing the near plane are clipped.
func (c *Canvas) Triangle(vp image.Rectangle, clip [3]mgl32.Vec4, st State, shade Shader) {
	if degenerate(clip) {
		return
	}
	ctx := c.begin(vp)
	if ctx == nil {
		return
	}
	c.apply(ctx, st)
	ctx.Shader = &fragmentShader{shade: shade, opaque: !st.Blend}

	var v [3]fauxgl.Vertex
	for i := range v {
		v[i] = fauxgl.Vertex{Color: corners[i], Output: c.clip(vp, clip[i])}
	}
	c.count(ctx.DrawTriangle(&fauxgl.Triangle{V1: v[0], V2: v[1], V3: v[2]}), false)
}

// degenerate reports a triangle in front of the camera with no area in NDC.
func degenerate(clip [3]mgl32.Vec4) bool {
	var ndc [3]mgl32.Vec2
	for i, p := range clip {
		if p[3] <= 0 {
			return false
		}
		ndc[i] = mgl32.Vec2{p[0] / p[3], p[1] / p[3]}
	}
	e1, e2 := ndc[1].Sub(ndc[0]), ndc[2].Sub(ndc[0])
	return e1[0]*e2[1]-e1[1]*e2[0] == 0
}

// Line draws a one pixel wide clip-space segment. The part outside the
// view volume is clipped away. A segment with equal ends draws one pixel.
func (c *Canvas) Line(vp image.Rectangle, a, b mgl32.Vec4, col mgl32.Vec4, st State) {
	ctx := c.begin(vp)
	if ctx == nil {
		return
	}
	if a == b {
		b[0] += 2 * b[3] / float32(vp.Dx())
	}
	st.Cull = CullOff
	c.apply(ctx, st)
	ctx.Shader = &fragmentShader{shade: func([3]float32) mgl32.Vec4 { return col }, opaque: !st.Blend}

	va := fauxgl.Vertex{Output: c.clip(vp, a)}
	vb := fauxgl.Vertex{Output: c.clip(vp, b)}
	c.count(ctx.DrawLine(fauxgl.NewLine(va, vb)), true)
}
