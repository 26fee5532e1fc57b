package preview

import (
	"image"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

var renderCaps = Caps{RenderTargets: true}

func render(r *Renderer, opts Options) FrameStats {
	c := raster.NewCanvas(64, 64)
	r.RenderWith(c, c.Bounds(), StaticBackground, opts)
	return r.LastFrame()
}

func lineMesh() *mesh.Data {
	return &mesh.Data{
		MeshName: "Mixed",
		Positions: []mgl32.Vec3{
			{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
		},
		Descriptors: []mesh.AttributeDescriptor{{Attribute: mesh.Position, Dimension: 3}},
		SubMeshes: []mesh.SubMesh{
			{Topology: mesh.Triangles, Indices: []uint32{0, 1, 2}},
			{Topology: mesh.Lines, Indices: []uint32{0, 1, 2, 3}},
			{Topology: mesh.Points, Indices: []uint32{3}},
		},
	}
}

func TestSubMeshTint(t *testing.T) {
	if got := SubMeshTint(0); got != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("SubMeshTint(0) = %v, want white", got)
	}
	if _, sat := subMeshHSV(0); sat != 0 {
		t.Errorf("submesh 0 saturation = %v, want 0", sat)
	}

	var hues [6]float64
	for i := range hues {
		hue, sat := subMeshHSV(i)
		hues[i] = hue
		c := SubMeshTint(i)
		if c != SubMeshTint(i) {
			t.Errorf("SubMeshTint(%d) not deterministic", i)
		}
		if c[3] != 1 {
			t.Errorf("SubMeshTint(%d) alpha = %v", i, c[3])
		}
		if i == 0 {
			continue
		}
		// Submesh 0 has no saturation, so only the others carry a
		// recoverable hue.
		h, s, _ := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Hsv()
		if math.Abs(h-hue*360) > 0.5 || math.Abs(s-sat) > 1e-3 {
			t.Errorf("SubMeshTint(%d) hsv = (%.1f, %.3f), want (%.1f, %.3f)", i, h, s, hue*360, sat)
		}
	}
	for i := range hues {
		for j := i + 1; j < len(hues); j++ {
			d := math.Abs(hues[i] - hues[j])
			if d > 0.5 {
				d = 1 - d
			}
			if d < 0.05 {
				t.Errorf("submeshes %d and %d hues %.3f and %.3f too close", i, j, hues[i], hues[j])
			}
		}
	}
}

func TestRenderTintsSubMeshes(t *testing.T) {
	s := newSettings(t, mesh.Cube(3))
	r := NewRenderer(s, nil, renderCaps)

	tests := []struct {
		name      string
		opts      Options
		subMeshes []int
		tints     int
	}{
		{"all", Options{Subset: -1}, []int{0, 1, 2}, 3},
		{"subset", Options{Subset: 1}, []int{1}, 0},
		{"out of range subset", Options{Subset: 7}, []int{0, 1, 2}, 0},
		{"custom params", Options{Subset: -1, Params: &ParamBlock{Cull: raster.CullBack}}, []int{0, 1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(r, tt.opts)
			if !reflect.DeepEqual(got.SubMeshes, tt.subMeshes) {
				t.Errorf("submeshes = %v, want %v", got.SubMeshes, tt.subMeshes)
			}
			if len(got.Tints) != tt.tints {
				t.Errorf("tints = %v, want %d", got.Tints, tt.tints)
			}
		})
	}

	s.SetDisplayMode(Normals)
	if got := render(r, Options{Subset: -1}); len(got.Tints) != 0 {
		t.Errorf("normals mode tinted: %v", got.Tints)
	}
}

func TestWireSkipsLineAndPointTopologies(t *testing.T) {
	s := newSettings(t, lineMesh())
	r := NewRenderer(s, nil, renderCaps)

	if got := render(r, Options{Subset: -1}); !reflect.DeepEqual(got.WireSubMeshes, []int{0}) {
		t.Errorf("wire submeshes = %v, want [0]", got.WireSubMeshes)
	}
	if got := render(r, Options{Subset: 1}); len(got.WireSubMeshes) != 0 {
		t.Errorf("wire drawn for a line subset: %v", got.WireSubMeshes)
	}

	s.SetWireframe(false)
	if got := render(r, Options{Subset: -1}); len(got.WireSubMeshes) != 0 {
		t.Errorf("wire drawn while disabled: %v", got.WireSubMeshes)
	}
}

func TestUVLayoutFrame(t *testing.T) {
	s := newSettings(t, mesh.Quad())
	s.SetDisplayMode(UVLayout)
	s.SetHandleMode(HandleNormals)
	bridge := NewSelectionBridge()
	bridge.Publish([]int{0, 2})
	r := NewRenderer(s, bridge, renderCaps)

	got := render(r, Options{Subset: -1})
	if !got.Ortho || got.Camera.Position != s.OrthoPosition {
		t.Errorf("camera = %+v, want orthographic at %v", got.Camera, s.OrthoPosition)
	}
	if !reflect.DeepEqual(got.Highlighted, []int{0, 2}) {
		t.Errorf("highlighted = %v, want [0 2]", got.Highlighted)
	}
	// 6 major lines each way and 7 minor lines each way inside [0,1].
	if got.GridLines != 26 {
		t.Errorf("grid lines = %d, want 26", got.GridLines)
	}
	if got.Handles != 0 || len(got.SubMeshes) != 0 || len(got.WireSubMeshes) != 0 {
		t.Errorf("3D passes ran in UV layout: %+v", got)
	}
}

func TestUVLayoutHighlightsActiveChannel(t *testing.T) {
	// The layout camera shows [-0.5,1.5] on both axes, 32 pixels per UV
	// unit on a 64x64 canvas. uvFor returns the UV at a pixel center.
	uvFor := func(px, py int) mgl32.Vec4 {
		return mgl32.Vec4{(float32(px)+0.5)/32 - 0.5, 1.5 - (float32(py)+0.5)/32, 0, 0}
	}
	q := mesh.Quad()
	q.Descriptors = append(q.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.TexCoord1, Dimension: 2})
	q.UVData[1] = []mgl32.Vec4{uvFor(10, 50), uvFor(30, 30), uvFor(45, 20), uvFor(50, 52)}

	s := newSettings(t, q)
	s.SetDisplayMode(UVLayout)
	if !s.SetUVChannel(1) {
		t.Fatal("UV channel 1 unavailable")
	}
	s.SetHandleScale(MaxHandleScale)
	bridge := NewSelectionBridge()
	bridge.Publish([]int{0, 2})
	r := NewRenderer(s, bridge, renderCaps)

	c := raster.NewCanvas(64, 64)
	r.RenderWith(c, c.Bounds(), StaticBackground, Options{Subset: -1})
	red := func(x, y int) bool {
		px := c.Image().RGBAAt(x, y)
		return px.R == 255 && px.G == 0 && px.B == 0
	}

	for _, pt := range []image.Point{{10, 50}, {45, 20}} {
		if !red(pt.X, pt.Y) {
			t.Errorf("no highlight at channel 1 pixel %v: %v", pt, c.Image().RGBAAt(pt.X, pt.Y))
		}
	}
	for _, pt := range []image.Point{{30, 30}, {50, 52}} {
		if red(pt.X, pt.Y) {
			t.Errorf("unselected vertex at %v highlighted", pt)
		}
	}
	// Channel 0 puts vertex 0 at UV (0,0), pixel corner (16,48).
	for _, pt := range []image.Point{{15, 47}, {16, 47}, {15, 48}, {16, 48}} {
		if red(pt.X, pt.Y) {
			t.Errorf("highlight drawn at channel 0 pixel %v", pt)
		}
	}
}

func TestStaleSelectionIgnored(t *testing.T) {
	s := newSettings(t, mesh.Quad())
	bridge := NewSelectionBridge()
	r := NewRenderer(s, bridge, renderCaps)

	bridge.Publish([]int{1, 99})
	if got := render(r, Options{Subset: -1}); got.Highlighted != nil {
		t.Errorf("highlighted = %v, want none", got.Highlighted)
	}
	bridge.Publish([]int{1, 3})
	if got := render(r, Options{Subset: -1}); !reflect.DeepEqual(got.Highlighted, []int{1, 3}) {
		t.Errorf("highlighted = %v, want [1 3]", got.Highlighted)
	}
	bridge.Clear()
	if got := render(r, Options{Subset: -1}); len(got.Highlighted) != 0 {
		t.Errorf("highlighted after clear = %v", got.Highlighted)
	}
}

func TestHandles(t *testing.T) {
	s := newSettings(t, mesh.Quad())
	r := NewRenderer(s, nil, renderCaps)

	if s.SetHandleMode(HandleTangents) {
		t.Error("tangent handles selected on a mesh without tangents")
	}
	if got := render(r, Options{Subset: -1}); got.Handles != 0 {
		t.Errorf("handles = %d with handles disabled", got.Handles)
	}

	s.SetHandleMode(HandleNormals)
	if got := render(r, Options{Subset: -1}); got.Handles != 4 {
		t.Errorf("normal handles = %d, want 4", got.Handles)
	}

	cube := newSettings(t, mesh.Cube(2))
	cube.SetHandleMode(HandleBinormals)
	if got := render(NewRenderer(cube, nil, renderCaps), Options{Subset: -1}); got.Handles != 24 {
		t.Errorf("binormal handles = %d, want 24", got.Handles)
	}
}

func TestMissingShadersSkipSteps(t *testing.T) {
	s, err := NewSettings(mesh.Quad(), NewArena(NewShaderLibrary()), nil)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(s, nil, renderCaps)

	got := render(r, Options{Subset: -1})
	if !slices.Contains(got.Skipped, StepMesh) || !slices.Contains(got.Skipped, StepWire) {
		t.Errorf("skipped = %v, want mesh and wire", got.Skipped)
	}

	s.SetDisplayMode(UVLayout)
	got = render(r, Options{Subset: -1})
	if !slices.Contains(got.Skipped, StepGrid) || !slices.Contains(got.Skipped, StepUVWire) {
		t.Errorf("skipped = %v, want grid and uv-wire", got.Skipped)
	}
}

func TestFallbackWithoutRenderTargets(t *testing.T) {
	s := newSettings(t, mesh.Quad())
	r := NewRenderer(s, nil, Caps{})

	if img := r.RenderStatic(32, 32); img != nil {
		t.Error("RenderStatic returned an image without render targets")
	}
	c := raster.NewCanvas(200, 100)
	r.Render(c, c.Bounds(), StaticBackground)
	if !r.LastFrame().Fallback {
		t.Error("frame not marked as fallback")
	}
	if c.Stats().Triangles != 0 {
		t.Errorf("fallback rasterized %d triangles", c.Stats().Triangles)
	}
}

func TestRenderAfterDisposeDrawsNothing(t *testing.T) {
	s := newSettings(t, mesh.Quad())
	r := NewRenderer(s, nil, renderCaps)
	s.Dispose()

	c := raster.NewCanvas(16, 16)
	r.Render(c, c.Bounds(), StaticBackground)
	if c.Stats().Triangles != 0 || c.Stats().Lines != 0 {
		t.Errorf("disposed render drew %+v", c.Stats())
	}
}

func TestRenderStaticPixels(t *testing.T) {
	tests := []struct {
		name string
		mode DisplayMode
		want [3]uint8
	}{
		{"shaded", Shaded, [3]uint8{255, 255, 255}},
		{"normals", Normals, [3]uint8{128, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSettings(t, mesh.Quad())
			s.SetDisplayMode(tt.mode)
			s.SetWireframe(false)
			s.PreviewDir = mgl32.Vec2{}

			img := NewRenderer(s, nil, renderCaps).RenderStatic(64, 64)
			if img == nil {
				t.Fatal("RenderStatic returned nil")
			}
			p := img.RGBAAt(32, 32)
			got := [3]uint8{p.R, p.G, p.B}
			for i := range got {
				if d := int(got[i]) - int(tt.want[i]); d < -1 || d > 1 {
					t.Errorf("center pixel = %v, want %v", got, tt.want)
					break
				}
			}
			corner := img.RGBAAt(0, 0)
			if corner.R != StaticBackground.R || corner.G != StaticBackground.G {
				t.Errorf("corner pixel = %v, want background", corner)
			}
		})
	}
}

func TestOrbitRotationIdentity(t *testing.T) {
	q := orbitRotation(mgl32.Vec2{})
	v := q.Rotate(mgl32.Vec3{1, 2, 3})
	if !v.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5) {
		t.Errorf("zero orbit rotated to %v", v)
	}
	d := lightDirection(0, 0)
	if !d.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("lightDirection(0,0) = %v", d)
	}
}
