// Package preview renders an interactive preview of a mesh: a display-mode
// state machine, camera and view control, submesh tinting, wireframe and
// per-vertex overlays, synchronized with the table selection.
package preview

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/internal/prefs"
	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// Preference keys.
const (
	PrefHandleMode  = "mesh-info-handle-mode"
	PrefHandleScale = "mesh-info-handle-scale"
	PrefDrawWire    = "mesh-info-draw-wire"
)

// Value ranges of the settings strip controls.
const (
	MinCheckerScale = 1
	MaxCheckerScale = 30
	MinHandleScale  = 0.01
	MaxHandleScale  = 1.0
	MinZoom         = 0.1
	MaxZoom         = 10.0

	defaultCheckerScale = 10
	defaultHandleScale  = 0.5
)

var (
	defaultOrthoPosition = mgl32.Vec3{0.5, 0.5, 1}
	defaultPreviewDir    = mgl32.Vec2{130, 0}
	defaultLightDir      = mgl32.Vec2{-40, -40}
)

// Settings is the preview state of one mesh. It owns one generation of
// render resources until Dispose.
type Settings struct {
	// View parameters. Zoom is kept within [MinZoom, MaxZoom] by the
	// controller.
	OrthoPosition mgl32.Vec3
	PreviewDir    mgl32.Vec2
	LightDir      mgl32.Vec2
	Pivot         mgl32.Vec3
	Zoom          float32

	src   mesh.Source
	store prefs.Store
	res   *Resources

	displayMode  DisplayMode
	handleMode   HandleMode
	activeUV     int
	checkerScale int
	handleScale  float32
	drawWire     bool
	material     MaterialSlot
	params       ParamBlock

	displayAvailable [displayModeCount]bool
	uvAvailable      [mesh.MaxUVChannels]bool
	handleAvailable  [handleModeCount]bool
}

// NewSettings creates preview state for src, acquiring a resource
// generation from arena. A nil store keeps preferences in memory.
func NewSettings(src mesh.Source, arena *Arena, store prefs.Store) (*Settings, error) {
	if src == nil {
		return nil, mesh.ErrNoMesh
	}
	res, err := arena.Acquire()
	if err != nil {
		return nil, fmt.Errorf("creating preview settings: %w", err)
	}
	if store == nil {
		store = prefs.NewMemory()
	}

	s := &Settings{
		src:          src,
		store:        store,
		res:          res,
		displayMode:  Shaded,
		checkerScale: defaultCheckerScale,
		material:     SlotShaded,
		params:       ParamBlock{Cull: raster.CullBack},
	}
	s.checkAvailability()
	s.ResetView()
	s.PreviewDir = defaultPreviewDir
	s.LightDir = defaultLightDir

	s.handleScale = clampf(store.GetFloat(PrefHandleScale, defaultHandleScale), MinHandleScale, MaxHandleScale)
	s.drawWire = store.GetBool(PrefDrawWire, true)
	if m := HandleMode(store.GetInt(PrefHandleMode, int(HandlesDisabled))); s.HandleModeAvailable(m) {
		s.handleMode = m
	}
	return s, nil
}

func (s *Settings) checkAvailability() {
	for m := range displayModes {
		s.displayAvailable[m] = hasAll(s.src, displayModes[m].requires)
	}
	for ch := range s.uvAvailable {
		s.uvAvailable[ch] = s.src.HasAttribute(mesh.TexCoord(ch))
	}
	for m := range handleModes {
		s.handleAvailable[m] = hasAll(s.src, handleModes[m].requires)
	}
}

// Source returns the previewed mesh.
func (s *Settings) Source() mesh.Source { return s.src }

// Resources returns the owned resources, or nil after Dispose.
func (s *Settings) Resources() *Resources { return s.res }

// Disposed reports whether Dispose has been called.
func (s *Settings) Disposed() bool { return s.res == nil }

// Dispose releases the render resources. Calling it again does nothing.
func (s *Settings) Dispose() {
	if s.res == nil {
		return
	}
	s.res.Release()
	s.res = nil
}

// DisplayMode returns the active display mode.
func (s *Settings) DisplayMode() DisplayMode { return s.displayMode }

// HandleMode returns the active handle mode.
func (s *Settings) HandleMode() HandleMode { return s.handleMode }

// ActiveUVChannel returns the UV channel used by the UV modes.
func (s *Settings) ActiveUVChannel() int { return s.activeUV }

// CheckerScale returns the checker tiling factor.
func (s *Settings) CheckerScale() int { return s.checkerScale }

// HandleScale returns the handle size factor.
func (s *Settings) HandleScale() float32 { return s.handleScale }

// DrawWire reports whether the wireframe pass is enabled.
func (s *Settings) DrawWire() bool { return s.drawWire }

// Params returns the parameter block of the active material.
func (s *Settings) Params() ParamBlock { return s.params }

// ActiveMaterial returns the material of the current mode, or nil when it
// is missing or the settings are disposed.
func (s *Settings) ActiveMaterial() *Material {
	if s.res == nil {
		return nil
	}
	return s.res.Material(s.material)
}

// DisplayModeAvailable reports whether m can be selected for this mesh.
func (s *Settings) DisplayModeAvailable(m DisplayMode) bool {
	return m.Valid() && s.displayAvailable[m]
}

// UVChannelAvailable reports whether the mesh carries UV channel ch.
func (s *Settings) UVChannelAvailable(ch int) bool {
	return ch >= 0 && ch < len(s.uvAvailable) && s.uvAvailable[ch]
}

// HandleModeAvailable reports whether m can be selected for this mesh.
func (s *Settings) HandleModeAvailable(m HandleMode) bool {
	return m.Valid() && s.handleAvailable[m]
}

// SetDisplayMode switches the display mode and resets the view. Invalid or
// unavailable modes are ignored.
func (s *Settings) SetDisplayMode(m DisplayMode) bool {
	if !s.DisplayModeAvailable(m) {
		return false
	}
	info := displayModes[m]

	s.displayMode = m
	s.ResetView()
	s.material = info.material
	s.params = ParamBlock{Mode: info.shaderMode, UVChannel: 0, Cull: info.cull}
	if info.checker && s.res != nil {
		s.params.MainTex = s.res.Checker
		s.params.TexScale = float32(s.checkerScale)
	}
	return true
}

// SetUVChannel selects the UV channel shown by the UV modes.
func (s *Settings) SetUVChannel(ch int) bool {
	if !s.UVChannelAvailable(ch) {
		return false
	}
	s.activeUV = ch
	if s.displayMode == UVLayout || s.displayMode == UVChecker {
		s.params.UVChannel = ch
	}
	return true
}

// SetHandleMode selects the vertex handle overlay and stores it.
func (s *Settings) SetHandleMode(m HandleMode) bool {
	if !s.HandleModeAvailable(m) {
		return false
	}
	s.handleMode = m
	s.store.SetInt(PrefHandleMode, int(m))
	return true
}

// SetCheckerScale sets the checker tiling factor.
func (s *Settings) SetCheckerScale(n int) bool {
	if n < MinCheckerScale || n > MaxCheckerScale || n == s.checkerScale {
		return false
	}
	s.checkerScale = n
	if s.displayMode == UVChecker {
		s.params.TexScale = float32(n)
	}
	return true
}

// SetHandleScale sets the handle size factor and stores it.
func (s *Settings) SetHandleScale(f float32) bool {
	if f < MinHandleScale || f > MaxHandleScale || f == s.handleScale {
		return false
	}
	s.handleScale = f
	s.store.SetFloat(PrefHandleScale, f)
	return true
}

// SetWireframe toggles the wireframe pass and stores it.
func (s *Settings) SetWireframe(on bool) bool {
	if on == s.drawWire {
		return false
	}
	s.drawWire = on
	s.store.SetBool(PrefDrawWire, on)
	return true
}

// ResetView restores the default framing and the first UV channel.
func (s *Settings) ResetView() {
	s.FrameObject()
	s.activeUV = 0
	s.params.UVChannel = 0
	s.params.MainTex = nil
}

// FrameObject restores the default framing.
func (s *Settings) FrameObject() {
	s.Zoom = 1
	s.OrthoPosition = defaultOrthoPosition
	s.Pivot = mgl32.Vec3{}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
