package preview

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

const (
	gridStep    = 0.125
	gridMin     = -2.0
	gridMax     = 3.0
	discSides   = 20
	arrowSides  = 12
	overlayBias = 0.001
)

// frame is the per-frame drawing context.
type frame struct {
	canvas   *raster.Canvas
	rect     image.Rectangle
	cam      Camera
	viewProj mgl32.Mat4
	mvp      mgl32.Mat4
	model    mgl32.Mat4
	rot      mgl32.Quat
	lights   [2]mgl32.Vec3
	src      mesh.Source
	settings *Settings
	stats    *FrameStats

	world []mgl32.Vec3
	clip  []mgl32.Vec4
}

// bias returns the depth offset for pulling overlays toward the camera by a
// fraction of the orbit distance.
func (f *frame) bias(fraction float32) float32 {
	d := f.cam.Position.Len()
	return f.cam.DepthRange().Bias(d, fraction*d)
}

func (f *frame) worldPositions() []mgl32.Vec3 {
	if f.world == nil {
		verts := f.src.Vertices()
		f.world = make([]mgl32.Vec3, len(verts))
		for i, v := range verts {
			f.world[i] = mgl32.TransformCoordinate(v, f.model)
		}
	}
	return f.world
}

func (f *frame) clipPositions() []mgl32.Vec4 {
	if f.clip == nil {
		verts := f.src.Vertices()
		f.clip = make([]mgl32.Vec4, len(verts))
		for i, v := range verts {
			f.clip[i] = f.mvp.Mul4x1(v.Vec4(1))
		}
	}
	return f.clip
}

func (f *frame) project(p mgl32.Vec3) mgl32.Vec4 {
	return f.viewProj.Mul4x1(p.Vec4(1))
}

// triangles calls fn for each triangle of a face topology.
func triangles(topo mesh.Topology, idx []uint32, fn func(a, b, c uint32)) {
	switch topo {
	case mesh.Triangles:
		for t := 0; t+2 < len(idx); t += 3 {
			fn(idx[t], idx[t+1], idx[t+2])
		}
	case mesh.Quads:
		for q := 0; q+3 < len(idx); q += 4 {
			fn(idx[q], idx[q+1], idx[q+2])
			fn(idx[q], idx[q+2], idx[q+3])
		}
	}
}

func (f *frame) drawSubMesh(i int, mat *Material, p ParamBlock) {
	clip := f.clipPositions()
	idx := f.src.Indices(i)
	topo := f.src.Topology(i)
	n := uint32(len(clip))

	st := mat.State
	st.Cull = p.Cull

	if topo.IsLineOrPoint() {
		col := p.Color(mat)
		line := raster.State{DepthTest: true, DepthWrite: true}
		draw := func(a, b uint32) {
			if a < n && b < n {
				f.canvas.Line(f.rect, clip[a], clip[b], col, line)
			}
		}
		switch topo {
		case mesh.Lines:
			for k := 0; k+1 < len(idx); k += 2 {
				draw(idx[k], idx[k+1])
			}
		case mesh.LineStrip:
			for k := 0; k+1 < len(idx); k++ {
				draw(idx[k], idx[k+1])
			}
		case mesh.Points:
			for _, a := range idx {
				draw(a, a)
			}
		}
		return
	}

	triangles(topo, idx, func(a, b, c uint32) {
		if a >= n || b >= n || c >= n {
			return
		}
		f.canvas.Triangle(f.rect, [3]mgl32.Vec4{clip[a], clip[b], clip[c]}, st, f.shader(mat, p, a, b, c))
	})
}

// shader returns the fragment shader of one triangle for the active
// material and parameters.
func (f *frame) shader(mat *Material, p ParamBlock, a, b, c uint32) raster.Shader {
	s := f.settings
	if s.res != nil && mat == s.res.Shaded {
		return f.litShader(p.Color(mat), a, b, c)
	}

	switch p.Mode {
	case shaderModeVertexColor:
		ca, cb, cc := vertexColor(f.src, a), vertexColor(f.src, b), vertexColor(f.src, c)
		return func(w [3]float32) mgl32.Vec4 {
			return ca.Mul(w[0]).Add(cb.Mul(w[1])).Add(cc.Mul(w[2]))
		}
	case shaderModeNormals:
		normals := f.src.Normals()
		return vectorShader(vec3At(normals, int(a)), vec3At(normals, int(b)), vec3At(normals, int(c)))
	case shaderModeTangents:
		tangents := f.src.Tangents()
		return vectorShader(vec4At(tangents, int(a)).Vec3(), vec4At(tangents, int(b)).Vec3(), vec4At(tangents, int(c)).Vec3())
	case shaderModeChecker:
		uv := f.src.UVs(p.UVChannel)
		ua, ub, uc := vec4At(uv, int(a)), vec4At(uv, int(b)), vec4At(uv, int(c))
		tex, scale := p.MainTex, p.TexScale
		return func(w [3]float32) mgl32.Vec4 {
			if tex == nil {
				return mgl32.Vec4{1, 1, 1, 1}
			}
			u := (ua[0]*w[0] + ub[0]*w[1] + uc[0]*w[2]) * scale
			v := (ua[1]*w[0] + ub[1]*w[1] + uc[1]*w[2]) * scale
			return tex.Sample(u, v)
		}
	default:
		uv := f.src.UVs(p.UVChannel)
		ua, ub, uc := vec4At(uv, int(a)), vec4At(uv, int(b)), vec4At(uv, int(c))
		return func(w [3]float32) mgl32.Vec4 {
			u := ua[0]*w[0] + ub[0]*w[1] + uc[0]*w[2]
			v := ua[1]*w[0] + ub[1]*w[1] + uc[1]*w[2]
			return mgl32.Vec4{u, v, 0, 1}
		}
	}
}

func (f *frame) litShader(base mgl32.Vec4, a, b, c uint32) raster.Shader {
	world := f.worldPositions()
	normals := f.src.Normals()

	face := world[b].Sub(world[a]).Cross(world[c].Sub(world[a]))
	if face.Len() > 0 {
		face = face.Normalize()
	}
	var vn [3]mgl32.Vec3
	for k, v := range [3]uint32{a, b, c} {
		n := vec3At(normals, int(v))
		if n.Len() == 0 {
			vn[k] = face
			continue
		}
		vn[k] = f.rot.Rotate(n)
	}
	lights := f.lights
	return func(w [3]float32) mgl32.Vec4 {
		n := vn[0].Mul(w[0]).Add(vn[1].Mul(w[1])).Add(vn[2].Mul(w[2]))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		intensity := float32(ambient)
		for _, l := range lights {
			if d := n.Dot(l); d > 0 {
				intensity += lightIntensity * d
			}
		}
		return mgl32.Vec4{base[0] * intensity, base[1] * intensity, base[2] * intensity, 1}
	}
}

func vectorShader(a, b, c mgl32.Vec3) raster.Shader {
	half := mgl32.Vec3{0.5, 0.5, 0.5}
	ca, cb, cc := a.Mul(0.5).Add(half), b.Mul(0.5).Add(half), c.Mul(0.5).Add(half)
	return func(w [3]float32) mgl32.Vec4 {
		v := ca.Mul(w[0]).Add(cb.Mul(w[1])).Add(cc.Mul(w[2]))
		return v.Vec4(1)
	}
}

func vertexColor(src mesh.Source, i uint32) mgl32.Vec4 {
	if colors := src.Colors(); len(colors) > 0 {
		if int(i) < len(colors) {
			c := colors[i]
			return mgl32.Vec4{c.R, c.G, c.B, c.A}
		}
		return mgl32.Vec4{}
	}
	if colors := src.Colors32(); int(i) < len(colors) {
		c := colors[i].Float()
		return mgl32.Vec4{c.R, c.G, c.B, c.A}
	}
	return mgl32.Vec4{1, 1, 1, 1}
}

func (f *frame) drawWire(i int, wire *Material) {
	clip := f.clipPositions()
	n := uint32(len(clip))
	st := wire.State
	st.DepthBias = f.bias(wire.State.DepthBias)
	col := wire.Color
	triangles(f.src.Topology(i), f.src.Indices(i), func(a, b, c uint32) {
		if a >= n || b >= n || c >= n {
			return
		}
		f.canvas.Line(f.rect, clip[a], clip[b], col, st)
		f.canvas.Line(f.rect, clip[b], clip[c], col, st)
		f.canvas.Line(f.rect, clip[c], clip[a], col, st)
	})
}

func (f *frame) drawUVLayout() {
	s := f.settings
	line := s.res.Line
	if line == nil {
		f.stats.Skipped = append(f.stats.Skipped, StepGrid)
	} else {
		st := line.State
		seg := func(a, b mgl32.Vec3, col mgl32.Vec4) {
			f.canvas.Line(f.rect, f.project(a), f.project(b), col, st)
			f.stats.GridLines++
		}
		steps := int((gridMax - gridMin) / gridStep)
		for k := 0; k <= steps; k++ {
			g := float32(gridMin + float64(k)*gridStep)
			if math.Abs(float64(g)-math.Round(float64(g))) < 0.01 {
				seg(mgl32.Vec3{gridMin, g, 0}, mgl32.Vec3{gridMax, g, 0}, majorGridColor)
				seg(mgl32.Vec3{g, gridMin, 0}, mgl32.Vec3{g, gridMax, 0}, majorGridColor)
			} else if g >= 0 && g <= 1 {
				seg(mgl32.Vec3{0, g, 0}, mgl32.Vec3{1, g, 0}, minorGridColor)
				seg(mgl32.Vec3{g, 0, 0}, mgl32.Vec3{g, 1, 0}, minorGridColor)
			}
		}
	}

	if s.res.MultiPreview == nil {
		f.stats.Skipped = append(f.stats.Skipped, StepUVWire)
		return
	}
	uv := f.src.UVs(s.params.UVChannel)
	n := uint32(len(uv))
	if n == 0 {
		return
	}
	st := raster.State{Cull: raster.CullOff, Blend: true}
	pt := func(i uint32) mgl32.Vec4 { return f.project(mgl32.Vec3{uv[i][0], uv[i][1], 0}) }
	for i := 0; i < f.src.SubMeshCount(); i++ {
		triangles(f.src.Topology(i), f.src.Indices(i), func(a, b, c uint32) {
			if a >= n || b >= n || c >= n {
				return
			}
			pa, pb, pc := pt(a), pt(b), pt(c)
			f.canvas.Line(f.rect, pa, pb, uvWireColor, st)
			f.canvas.Line(f.rect, pb, pc, uvWireColor, st)
			f.canvas.Line(f.rect, pc, pa, uvWireColor, st)
		})
	}
}

// handleScale is the overlay size factor scaled to the mesh.
func (f *frame) handleScale() float32 {
	return f.settings.handleScale * f.src.Bounds().Size().Len()
}

func (f *frame) drawHighlights(idx []int) {
	f.stats.Highlighted = idx
	if len(idx) == 0 {
		return
	}
	s := f.settings

	if displayModes[s.displayMode].camera == CameraUVPlane {
		uv := f.src.UVs(s.activeUV)
		radius := 0.05 * s.handleScale * s.Zoom
		st := raster.State{Cull: raster.CullOff}
		for _, i := range idx {
			p := vec4At(uv, i)
			f.disc(mgl32.Vec3{p[0], p[1], 0}, mgl32.Vec3{0, 0, 1}, radius, st)
		}
		return
	}

	world := f.worldPositions()
	normals := f.src.Normals()
	radius := 0.025 * f.handleScale()
	st := raster.State{Cull: raster.CullOff, DepthTest: true, DepthBias: f.bias(overlayBias)}
	for _, i := range idx {
		p := world[i]
		n := f.rot.Rotate(vec3At(normals, i))
		if n.Len() == 0 {
			n = f.cam.Position.Sub(p)
		}
		f.disc(p, n, radius, st)
	}
}

func (f *frame) drawHandles() {
	s := f.settings
	if s.handleMode == HandlesDisabled || !s.HandleModeAvailable(s.handleMode) {
		return
	}
	hm := handleModes[s.handleMode]
	world := f.worldPositions()
	normals := f.src.Normals()
	scale := f.handleScale()
	st := raster.State{Cull: raster.CullOff, DepthTest: true, DepthBias: f.bias(overlayBias)}

	for i := range world {
		length := vec3At(normals, i).Len() * 0.1 * scale
		dir := f.rot.Rotate(hm.direction(f.src, i))
		if length == 0 || dir.Len() == 0 {
			continue
		}
		f.arrow(world[i], dir.Normalize(), length, hm.color, st)
		f.stats.Handles++
	}
}

// basis returns two unit vectors perpendicular to n.
func basis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	n = n.Normalize()
	ref := mgl32.Vec3{1, 0, 0}
	if math.Abs(float64(n[0])) > 0.9 {
		ref = mgl32.Vec3{0, 1, 0}
	}
	u := n.Cross(ref).Normalize()
	return u, n.Cross(u)
}

func (f *frame) disc(center, normal mgl32.Vec3, radius float32, st raster.State) {
	u, v := basis(normal)
	c := f.project(center)
	prev := f.project(center.Add(u.Mul(radius)))
	for k := 1; k <= discSides; k++ {
		a := 2 * math.Pi * float64(k) / discSides
		p := center.Add(u.Mul(radius * float32(math.Cos(a)))).Add(v.Mul(radius * float32(math.Sin(a))))
		next := f.project(p)
		f.canvas.Triangle(f.rect, [3]mgl32.Vec4{c, prev, next}, st, solid(highlightColor))
		prev = next
	}
}

func (f *frame) arrow(from, dir mgl32.Vec3, length float32, col mgl32.Vec4, st raster.State) {
	tip := from.Add(dir.Mul(length))
	base := from.Add(dir.Mul(length * 0.8))
	f.canvas.Line(f.rect, f.project(from), f.project(base), col, st)

	u, v := basis(dir)
	radius := length * 0.08
	t := f.project(tip)
	prev := f.project(base.Add(u.Mul(radius)))
	for k := 1; k <= arrowSides; k++ {
		a := 2 * math.Pi * float64(k) / arrowSides
		p := base.Add(u.Mul(radius * float32(math.Cos(a)))).Add(v.Mul(radius * float32(math.Sin(a))))
		next := f.project(p)
		f.canvas.Triangle(f.rect, [3]mgl32.Vec4{t, prev, next}, st, solid(col))
		prev = next
	}
}

func solid(c mgl32.Vec4) raster.Shader {
	return func([3]float32) mgl32.Vec4 { return c }
}
