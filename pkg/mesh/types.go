// Package mesh defines the read-only mesh data source inspected by meshinfo.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh errors.
var (
	ErrNoMesh      = errors.New("no mesh in document")
	ErrUnsupported = errors.New("unsupported mesh data")
)

// MaxUVChannels is the number of texture coordinate channels a mesh can carry.
const MaxUVChannels = 8

// VertexAttribute is the semantic kind of a per-vertex data channel.
// The declaration order is the canonical attribute order of a mesh.
type VertexAttribute int

const (
	Position VertexAttribute = iota
	Normal
	Tangent
	Color
	TexCoord0
	TexCoord1
	TexCoord2
	TexCoord3
	TexCoord4
	TexCoord5
	TexCoord6
	TexCoord7
	BlendWeight
	BlendIndices
)

var attributeNames = [...]string{
	Position:     "Position",
	Normal:       "Normal",
	Tangent:      "Tangent",
	Color:        "Color",
	TexCoord0:    "TexCoord0",
	TexCoord1:    "TexCoord1",
	TexCoord2:    "TexCoord2",
	TexCoord3:    "TexCoord3",
	TexCoord4:    "TexCoord4",
	TexCoord5:    "TexCoord5",
	TexCoord6:    "TexCoord6",
	TexCoord7:    "TexCoord7",
	BlendWeight:  "BlendWeight",
	BlendIndices: "BlendIndices",
}

// String returns the attribute name.
func (a VertexAttribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return fmt.Sprintf("VertexAttribute(%d)", int(a))
	}
	return attributeNames[a]
}

// TexCoord returns the texture coordinate attribute for a UV channel.
func TexCoord(channel int) VertexAttribute {
	return TexCoord0 + VertexAttribute(channel)
}

// UVChannel returns the channel index of a texcoord attribute, or -1.
func (a VertexAttribute) UVChannel() int {
	if a >= TexCoord0 && a <= TexCoord7 {
		return int(a - TexCoord0)
	}
	return -1
}

// IsBlend reports whether the attribute carries skinning data.
func (a VertexAttribute) IsBlend() bool {
	return a == BlendWeight || a == BlendIndices
}

// AttributeDescriptor describes one vertex attribute declared by a mesh.
type AttributeDescriptor struct {
	Attribute VertexAttribute
	Dimension int // Number of scalar components (1-4)
}

// Topology is the primitive type of a submesh.
type Topology int

const (
	Triangles Topology = iota
	Quads
	Lines
	LineStrip
	Points
)

// String returns a human-readable topology name.
func (t Topology) String() string {
	switch t {
	case Triangles:
		return "Triangles"
	case Quads:
		return "Quads"
	case Lines:
		return "Lines"
	case LineStrip:
		return "LineStrip"
	case Points:
		return "Points"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// IsLineOrPoint reports whether the topology has no faces.
func (t Topology) IsLineOrPoint() bool {
	return t == Lines || t == LineStrip || t == Points
}

// RGBA is a floating point vertex color.
type RGBA struct {
	R, G, B, A float32
}

// Color32 is a packed 8-bit RGBA vertex color.
type Color32 struct {
	R, G, B, A uint8
}

// Float converts a packed color to floating point.
func (c Color32) Float() RGBA {
	return RGBA{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// Bounds is an axis-aligned bounding box stored as center and extents.
type Bounds struct {
	Center  mgl32.Vec3
	Extents mgl32.Vec3
}

// Size returns the full size of the box.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Extents.Mul(2)
}

// Min returns the minimum corner.
func (b Bounds) Min() mgl32.Vec3 {
	return b.Center.Sub(b.Extents)
}

// Max returns the maximum corner.
func (b Bounds) Max() mgl32.Vec3 {
	return b.Center.Add(b.Extents)
}

// BoundsOf computes the bounding box of a point set.
func BoundsOf(points []mgl32.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < lo[i] {
				lo[i] = p[i]
			}
			if p[i] > hi[i] {
				hi[i] = p[i]
			}
		}
	}
	return Bounds{
		Center:  lo.Add(hi).Mul(0.5),
		Extents: hi.Sub(lo).Mul(0.5),
	}
}

// Source is the immutable mesh data inspected by the table and the preview.
type Source interface {
	Name() string
	VertexCount() int

	Vertices() []mgl32.Vec3
	Normals() []mgl32.Vec3
	Tangents() []mgl32.Vec4
	Colors() []RGBA
	Colors32() []Color32
	// UVs returns the coordinates of a channel padded to four components.
	UVs(channel int) []mgl32.Vec4

	Attributes() []AttributeDescriptor
	HasAttribute(a VertexAttribute) bool

	SubMeshCount() int
	Topology(submesh int) Topology
	Indices(submesh int) []uint32
	Bounds() Bounds
}
