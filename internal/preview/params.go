package preview

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/internal/raster"
)

// ParamBlock holds the per-draw shader parameters of the active material.
// It is a value: each draw gets its own copy.
type ParamBlock struct {
	Mode      int
	UVChannel int
	Cull      raster.CullMode
	MainTex   *Texture
	TexScale  float32
	// Tint overrides the material color when HasTint is set.
	Tint    mgl32.Vec4
	HasTint bool
}

// WithTint returns a copy of p with a color override.
func (p ParamBlock) WithTint(c mgl32.Vec4) ParamBlock {
	p.Tint = c
	p.HasTint = true
	return p
}

// Color resolves the draw color against the material's own color.
func (p ParamBlock) Color(m *Material) mgl32.Vec4 {
	if p.HasTint {
		return p.Tint
	}
	if m == nil {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	return m.Color
}
