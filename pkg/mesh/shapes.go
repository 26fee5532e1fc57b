package mesh

import "github.com/go-gl/mathgl/mgl32"

// Quad builds a unit quad in the XY plane facing +Z with positions,
// normals, float colors and one 2D UV channel.
func Quad() *Data {
	d := &Data{
		MeshName: "Quad",
		Positions: []mgl32.Vec3{
			{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
		},
		NormalData: []mgl32.Vec3{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		},
		ColorData: []RGBA{
			{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {1, 1, 1, 1},
		},
		Descriptors: []AttributeDescriptor{
			{Position, 3}, {Normal, 3}, {Color, 4}, {TexCoord0, 2},
		},
		SubMeshes: []SubMesh{
			{Topology: Triangles, Indices: []uint32{0, 1, 2, 0, 2, 3}},
		},
	}
	d.UVData[0] = []mgl32.Vec4{{0, 0, 0, 0}, {1, 0, 0, 0}, {1, 1, 0, 0}, {0, 1, 0, 0}}
	return d
}

// Cube builds a unit cube with per-face vertices, normals, tangents and a
// 2D UV channel. Faces are split across the given number of submeshes
// (clamped to 1..6).
func Cube(submeshes int) *Data {
	if submeshes < 1 {
		submeshes = 1
	}
	if submeshes > 6 {
		submeshes = 6
	}

	type face struct {
		n, u, v mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}

	d := &Data{
		MeshName: "Cube",
		Descriptors: []AttributeDescriptor{
			{Position, 3}, {Normal, 3}, {Tangent, 4}, {TexCoord0, 2},
		},
		SubMeshes: make([]SubMesh, submeshes),
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for fi, f := range faces {
		base := uint32(len(d.Positions))
		for _, c := range corners {
			p := f.n.Mul(0.5).Add(f.u.Mul(c[0] * 0.5)).Add(f.v.Mul(c[1] * 0.5))
			d.Positions = append(d.Positions, p)
			d.NormalData = append(d.NormalData, f.n)
			d.TangentData = append(d.TangentData, f.u.Vec4(1))
			d.UVData[0] = append(d.UVData[0], mgl32.Vec4{(c[0] + 1) / 2, (c[1] + 1) / 2, 0, 0})
		}
		sm := &d.SubMeshes[fi%submeshes]
		sm.Indices = append(sm.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}
