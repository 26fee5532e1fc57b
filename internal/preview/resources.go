package preview

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshinfo/internal/logger"
	"github.com/Faultbox/meshinfo/internal/raster"
)

// Shader names looked up at resource construction.
const (
	ShaderStandard     = "Standard"
	ShaderColored      = "Hidden/MeshInfo/Internal-Colored"
	ShaderMultiPreview = "Hidden/MeshInfo/Mesh-MultiPreview"
)

// wireDepthBias pulls the wireframe toward the camera by this fraction of
// the orbit distance.
const wireDepthBias = 0.002

// ErrGenerationLive is returned by Arena.Acquire while the previous
// generation of resources has not been released.
var ErrGenerationLive = errors.New("preview: resource generation still live")

// Shader identifies a shading program.
type Shader struct {
	Name string
}

// ShaderLibrary resolves shaders by name.
type ShaderLibrary struct {
	shaders map[string]*Shader
}

// NewShaderLibrary creates a library holding the named shaders.
func NewShaderLibrary(names ...string) *ShaderLibrary {
	l := &ShaderLibrary{shaders: make(map[string]*Shader, len(names))}
	for _, n := range names {
		l.shaders[n] = &Shader{Name: n}
	}
	return l
}

// BuiltinShaders returns a library with every shader the preview uses.
func BuiltinShaders() *ShaderLibrary {
	return NewShaderLibrary(ShaderStandard, ShaderColored, ShaderMultiPreview)
}

// Find returns the named shader, or nil.
func (l *ShaderLibrary) Find(name string) *Shader {
	if l == nil {
		return nil
	}
	return l.shaders[name]
}

// Material is a shader with fixed render state. Per-draw values go in a
// ParamBlock, never in the material.
type Material struct {
	Shader *Shader
	Color  mgl32.Vec4
	State  raster.State
}

// Texture is a sampled RGBA image with repeat wrapping.
type Texture struct {
	img *image.NRGBA
}

// NewTexture wraps an image.
func NewTexture(img *image.NRGBA) *Texture { return &Texture{img: img} }

// CheckerTexture builds a grey checkerboard with cells x cells squares.
func CheckerTexture(size, cells int) *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	dark := color.NRGBA{R: 88, G: 88, B: 88, A: 255}
	light := color.NRGBA{R: 168, G: 168, B: 168, A: 255}
	cell := size / cells
	if cell < 1 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, dark)
			} else {
				img.SetNRGBA(x, y, light)
			}
		}
	}
	return NewTexture(img)
}

// Sample returns the nearest texel at (u,v) with v pointing up.
func (t *Texture) Sample(u, v float32) mgl32.Vec4 {
	b := t.img.Rect
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return mgl32.Vec4{1, 0, 1, 1}
	}
	x := wrap(int(math.Floor(float64(u)*float64(w))), w)
	y := wrap(h-1-int(math.Floor(float64(v)*float64(h))), h)
	c := t.img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Resources is one generation of render resources. A nil material means
// its shader was missing and the dependent steps are skipped.
type Resources struct {
	Shaded       *Material
	MultiPreview *Material
	Wire         *Material
	Line         *Material
	Checker      *Texture

	arena      *Arena
	generation int
	released   bool
}

// Material returns the material in a slot.
func (r *Resources) Material(slot MaterialSlot) *Material {
	switch slot {
	case SlotShaded:
		return r.Shaded
	case SlotMultiPreview:
		return r.MultiPreview
	case SlotWire:
		return r.Wire
	case SlotLine:
		return r.Line
	}
	return nil
}

// Generation returns the arena generation these resources belong to.
func (r *Resources) Generation() int { return r.generation }

// Released reports whether Release has been called.
func (r *Resources) Released() bool { return r.released }

// Release returns the resources to the arena. Calling it again does
// nothing.
func (r *Resources) Release() {
	if r.released {
		return
	}
	r.released = true
	r.Shaded, r.MultiPreview, r.Wire, r.Line, r.Checker = nil, nil, nil, nil, nil
	if r.arena != nil && r.arena.live == r {
		r.arena.live = nil
		r.arena.log.Debug("released resources", zap.Int("generation", r.generation))
	}
}

// Arena hands out render resources one generation at a time: the previous
// generation must be released before the next is acquired.
type Arena struct {
	shaders    *ShaderLibrary
	live       *Resources
	generation int
	log        *zap.Logger
}

// NewArena creates an arena resolving shaders from lib.
func NewArena(lib *ShaderLibrary) *Arena {
	return &Arena{shaders: lib, log: logger.Named("preview")}
}

// Live reports whether a generation is currently acquired.
func (a *Arena) Live() bool { return a.live != nil }

// Generation returns the number of generations acquired so far.
func (a *Arena) Generation() int { return a.generation }

// Acquire builds a new generation of resources.
func (a *Arena) Acquire() (*Resources, error) {
	if a.live != nil {
		return nil, ErrGenerationLive
	}
	a.generation++
	r := &Resources{
		arena:      a,
		generation: a.generation,
		Checker:    CheckerTexture(64, 8),
	}

	if s := a.find(ShaderStandard, "Could not find the standard shader"); s != nil {
		r.Shaded = &Material{Shader: s, Color: mgl32.Vec4{1, 1, 1, 1}, State: raster.Opaque}
	}
	if s := a.find(ShaderMultiPreview, "Could not find the mesh preview shader"); s != nil {
		r.MultiPreview = &Material{Shader: s, Color: mgl32.Vec4{1, 1, 1, 1}, State: raster.Opaque}
	}
	if s := a.find(ShaderColored, "Could not find the colored shader"); s != nil {
		r.Wire = &Material{
			Shader: s,
			Color:  mgl32.Vec4{0, 0, 0, 0.3},
			State:  raster.State{DepthTest: true, DepthBias: wireDepthBias, Blend: true},
		}
		r.Line = &Material{
			Shader: s,
			Color:  mgl32.Vec4{1, 1, 1, 1},
			State:  raster.State{Cull: raster.CullOff, Blend: true},
		}
	}

	a.live = r
	a.log.Debug("acquired resources", zap.Int("generation", r.generation))
	return r, nil
}

func (a *Arena) find(name, warning string) *Shader {
	s := a.shaders.Find(name)
	if s == nil {
		a.log.Warn(warning, zap.String("shader", name))
	}
	return s
}
