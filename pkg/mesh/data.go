package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// SubMesh is a range of the index buffer drawn with one topology.
type SubMesh struct {
	Topology Topology
	Indices  []uint32
}

// Data is an in-memory mesh implementing Source.
type Data struct {
	MeshName string

	Positions    []mgl32.Vec3
	NormalData   []mgl32.Vec3
	TangentData  []mgl32.Vec4
	ColorData    []RGBA
	Color32Data  []Color32
	UVData       [MaxUVChannels][]mgl32.Vec4
	Descriptors  []AttributeDescriptor
	SubMeshes    []SubMesh
	BoundsCached *Bounds
}

// Name returns the mesh name.
func (d *Data) Name() string { return d.MeshName }

// VertexCount returns the number of vertices.
func (d *Data) VertexCount() int { return len(d.Positions) }

// Vertices returns vertex positions.
func (d *Data) Vertices() []mgl32.Vec3 { return d.Positions }

// Normals returns vertex normals, empty when absent.
func (d *Data) Normals() []mgl32.Vec3 { return d.NormalData }

// Tangents returns vertex tangents, empty when absent.
func (d *Data) Tangents() []mgl32.Vec4 { return d.TangentData }

// Colors returns float vertex colors, empty when absent.
func (d *Data) Colors() []RGBA { return d.ColorData }

// Colors32 returns packed vertex colors, empty when absent.
func (d *Data) Colors32() []Color32 { return d.Color32Data }

// UVs returns the coordinates of a UV channel.
func (d *Data) UVs(channel int) []mgl32.Vec4 {
	if channel < 0 || channel >= MaxUVChannels {
		return nil
	}
	return d.UVData[channel]
}

// Attributes returns the declared attribute descriptors.
func (d *Data) Attributes() []AttributeDescriptor { return d.Descriptors }

// HasAttribute reports whether the mesh declares the attribute.
func (d *Data) HasAttribute(a VertexAttribute) bool {
	for _, desc := range d.Descriptors {
		if desc.Attribute == a {
			return true
		}
	}
	return false
}

// SubMeshCount returns the number of submeshes.
func (d *Data) SubMeshCount() int { return len(d.SubMeshes) }

// Topology returns the topology of a submesh.
func (d *Data) Topology(submesh int) Topology {
	if submesh < 0 || submesh >= len(d.SubMeshes) {
		return Triangles
	}
	return d.SubMeshes[submesh].Topology
}

// Indices returns the index buffer of a submesh.
func (d *Data) Indices(submesh int) []uint32 {
	if submesh < 0 || submesh >= len(d.SubMeshes) {
		return nil
	}
	return d.SubMeshes[submesh].Indices
}

// Bounds returns the bounding box, computing it from positions if unset.
func (d *Data) Bounds() Bounds {
	if d.BoundsCached != nil {
		return *d.BoundsCached
	}
	b := BoundsOf(d.Positions)
	d.BoundsCached = &b
	return b
}

// Validate checks that every declared stream matches the vertex count and
// that indices stay in range.
func (d *Data) Validate() error {
	n := len(d.Positions)
	check := func(name string, got int) error {
		if got != 0 && got != n {
			return fmt.Errorf("%s: %d entries for %d vertices: %w", name, got, n, ErrUnsupported)
		}
		return nil
	}
	if err := check("normals", len(d.NormalData)); err != nil {
		return err
	}
	if err := check("tangents", len(d.TangentData)); err != nil {
		return err
	}
	if err := check("colors", len(d.ColorData)); err != nil {
		return err
	}
	if err := check("colors32", len(d.Color32Data)); err != nil {
		return err
	}
	for ch := range d.UVData {
		if err := check(fmt.Sprintf("uv%d", ch), len(d.UVData[ch])); err != nil {
			return err
		}
	}
	for i, sm := range d.SubMeshes {
		for _, idx := range sm.Indices {
			if int(idx) >= n {
				return fmt.Errorf("submesh %d: index %d out of range: %w", i, idx, ErrUnsupported)
			}
		}
	}
	return nil
}
