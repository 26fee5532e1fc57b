package preview

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshinfo/internal/logger"
	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// FallbackMessage is shown instead of the preview when the device cannot
// render to textures.
const FallbackMessage = "Mesh preview requires\nrender texture support"

// Lighting.
const (
	lightIntensity = 1.1
	ambient        = 0.1
)

// StaticBackground is the fill behind static previews.
var StaticBackground = color.NRGBA{R: 49, G: 49, B: 49, A: 255}

var (
	majorGridColor = mgl32.Vec4{0.6, 0.6, 0.7, 1}
	minorGridColor = mgl32.Vec4{0.6, 0.6, 0.7, 0.5}
	uvWireColor    = mgl32.Vec4{0.9, 0.9, 0.9, 0.9}
	highlightColor = mgl32.Vec4{1, 0, 0, 1}
	fallbackColor  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// Caps describes what the display device supports.
type Caps struct {
	RenderTargets bool
}

// Skipped render steps, recorded in FrameStats.
const (
	StepMesh   = "mesh"
	StepWire   = "wire"
	StepGrid   = "grid"
	StepUVWire = "uv-wire"
)

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Mode     DisplayMode
	Ortho    bool
	Fallback bool
	Camera   Camera
	// Tints holds the color of each drawn submesh when tinting applied.
	Tints []mgl32.Vec4
	// SubMeshes lists the submeshes drawn by the main pass.
	SubMeshes []int
	// WireSubMeshes lists the submeshes that received a wireframe pass.
	WireSubMeshes []int
	GridLines     int
	Highlighted   []int
	Handles       int
	Skipped       []string
}

// Options select what RenderWith draws.
type Options struct {
	// Subset draws only that submesh; negative draws all.
	Subset int
	// Params overrides the active parameter block.
	Params *ParamBlock
}

// Renderer draws the preview of one Settings.
type Renderer struct {
	settings *Settings
	bridge   *SelectionBridge
	caps     Caps
	last     FrameStats
	log      *zap.Logger
}

// NewRenderer creates a renderer reading highlights from bridge, which may
// be nil.
func NewRenderer(s *Settings, bridge *SelectionBridge, caps Caps) *Renderer {
	return &Renderer{
		settings: s,
		bridge:   bridge,
		caps:     caps,
		log:      logger.Named("preview"),
	}
}

// Settings returns the rendered state.
func (r *Renderer) Settings() *Settings { return r.settings }

// Caps returns the device capabilities.
func (r *Renderer) Caps() Caps { return r.caps }

// LastFrame returns statistics about the most recent frame.
func (r *Renderer) LastFrame() FrameStats { return r.last }

// Render draws the preview into rect of the canvas over a background fill.
func (r *Renderer) Render(c *raster.Canvas, rect image.Rectangle, bg color.Color) {
	r.RenderWith(c, rect, bg, Options{Subset: -1})
}

// RenderStatic draws a standalone preview of w x h pixels. It returns nil
// when the device lacks render-target support.
func (r *Renderer) RenderStatic(w, h int) *image.RGBA {
	if !r.caps.RenderTargets {
		return nil
	}
	c := raster.NewCanvas(w, h)
	r.RenderWith(c, c.Bounds(), StaticBackground, Options{Subset: -1})
	return c.Image()
}

// RenderWith draws the preview with explicit options.
func (r *Renderer) RenderWith(c *raster.Canvas, rect image.Rectangle, bg color.Color, opts Options) {
	s := r.settings
	r.last = FrameStats{Mode: s.displayMode}

	if !r.caps.RenderTargets {
		r.last.Fallback = true
		label := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+40)
		c.TextCentered(label, FallbackMessage, fallbackColor)
		return
	}
	if s.Disposed() {
		return
	}

	c.FillRect(rect, bg)
	c.ClearDepthRect(rect)

	src := s.src
	bounds := src.Bounds()
	cam := CameraFor(s, bounds, rect.Dx(), rect.Dy())
	r.last.Camera = cam
	r.last.Ortho = cam.Ortho
	c.SetDepthRange(cam.DepthRange())

	f := &frame{
		canvas:   c,
		rect:     rect,
		cam:      cam,
		viewProj: cam.ViewProjection(),
		src:      src,
		settings: s,
		stats:    &r.last,
	}

	if displayModes[s.displayMode].camera == CameraUVPlane {
		f.drawUVLayout()
		f.drawHighlights(r.validHighlights())
		return
	}

	rot := orbitRotation(s.PreviewDir)
	f.rot = rot
	offset := rot.Rotate(bounds.Center.Mul(-1))
	f.model = mgl32.Translate3D(offset[0], offset[1], offset[2]).Mul4(rot.Mat4())
	f.lights = [2]mgl32.Vec3{lightDirection(-s.LightDir[1], -s.LightDir[0]), lightDirection(s.LightDir[1], s.LightDir[0])}
	f.mvp = f.viewProj.Mul4(f.model)

	params := s.params
	custom := opts.Params != nil
	if custom {
		params = *opts.Params
	}
	subsets := submeshRange(src, opts.Subset)
	tint := src.SubMeshCount() > 1 && s.displayMode == Shaded && !custom && opts.Subset < 0

	if mat := s.ActiveMaterial(); mat != nil {
		for _, i := range subsets {
			p := params
			if tint {
				p = p.WithTint(SubMeshTint(i))
				r.last.Tints = append(r.last.Tints, p.Tint)
			}
			f.drawSubMesh(i, mat, p)
			r.last.SubMeshes = append(r.last.SubMeshes, i)
		}
	} else {
		r.last.Skipped = append(r.last.Skipped, StepMesh)
	}

	if s.drawWire {
		if wire := s.res.Wire; wire != nil {
			for _, i := range subsets {
				if src.Topology(i).IsLineOrPoint() {
					continue
				}
				f.drawWire(i, wire)
				r.last.WireSubMeshes = append(r.last.WireSubMeshes, i)
			}
		} else {
			r.last.Skipped = append(r.last.Skipped, StepWire)
		}
	}

	f.drawHighlights(r.validHighlights())
	f.drawHandles()
}

// validHighlights returns the bridge indices, or nil when any of them is
// outside the mesh.
func (r *Renderer) validHighlights() []int {
	idx := r.bridge.Highlighted()
	n := r.settings.src.VertexCount()
	for _, i := range idx {
		if i < 0 || i >= n {
			r.log.Debug("stale selection ignored", zap.Int("index", i), zap.Int("vertices", n))
			return nil
		}
	}
	return idx
}

func submeshRange(src mesh.Source, subset int) []int {
	n := src.SubMeshCount()
	if subset >= 0 && subset < n {
		return []int{subset}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// orbitRotation is the pitch rotation applied after the yaw rotation.
func orbitRotation(dir mgl32.Vec2) mgl32.Quat {
	pitch := mgl32.QuatRotate(mgl32.DegToRad(dir[1]), mgl32.Vec3{1, 0, 0})
	yaw := mgl32.QuatRotate(mgl32.DegToRad(dir[0]), mgl32.Vec3{0, 1, 0})
	return pitch.Mul(yaw)
}

// lightDirection returns the unit vector pointing toward a light rotated by
// pitch about X and yaw about Y, in degrees.
func lightDirection(pitch, yaw float32) mgl32.Vec3 {
	q := mgl32.QuatRotate(mgl32.DegToRad(yaw), mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(mgl32.DegToRad(pitch), mgl32.Vec3{1, 0, 0}))
	return q.Rotate(mgl32.Vec3{0, 0, 1})
}
