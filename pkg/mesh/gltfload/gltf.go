// Package gltfload builds inspectable meshes from glTF 2.0 documents.
//
// All primitives of one glTF mesh are merged into a single vertex buffer;
// each primitive becomes one submesh. Attributes missing from some
// primitives are zero filled so every stream covers every vertex.
package gltfload

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// Load opens a .gltf or .glb file and builds the mesh at index meshIndex.
func Load(path string, meshIndex int) (*mesh.Data, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return FromDocument(doc, meshIndex)
}

// MeshNames lists the meshes of a document.
func MeshNames(doc *gltf.Document) []string {
	names := make([]string, len(doc.Meshes))
	for i, m := range doc.Meshes {
		names[i] = m.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("mesh_%d", i)
		}
	}
	return names
}

// primitiveData holds the decoded streams of one primitive.
type primitiveData struct {
	positions [][3]float32
	normals   [][3]float32
	tangents  [][4]float32
	colors    [][4]float32
	colors32  [][4]uint8
	uvs       [mesh.MaxUVChannels][][2]float32
	indices   []uint32
	topology  mesh.Topology

	colorDim   int
	hasJoints  bool
	hasWeights bool
}

// FromDocument builds the mesh at index meshIndex of a parsed document.
func FromDocument(doc *gltf.Document, meshIndex int) (*mesh.Data, error) {
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d of %d: %w", meshIndex, len(doc.Meshes), mesh.ErrNoMesh)
	}
	gm := doc.Meshes[meshIndex]

	prims := make([]*primitiveData, 0, len(gm.Primitives))
	for i, p := range gm.Primitives {
		pd, err := readPrimitive(doc, p)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		prims = append(prims, pd)
	}
	if len(prims) == 0 {
		return nil, fmt.Errorf("mesh %d has no primitives: %w", meshIndex, mesh.ErrNoMesh)
	}

	d := merge(prims)
	d.MeshName = MeshNames(doc)[meshIndex]
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func readPrimitive(doc *gltf.Document, p *gltf.Primitive) (*primitiveData, error) {
	pd := &primitiveData{}
	accessor := func(name string) (*gltf.Accessor, bool) {
		idx, ok := p.Attributes[name]
		if !ok || int(idx) >= len(doc.Accessors) {
			return nil, false
		}
		return doc.Accessors[idx], true
	}

	acr, ok := accessor("POSITION")
	if !ok {
		return nil, fmt.Errorf("missing POSITION: %w", mesh.ErrUnsupported)
	}
	var err error
	if pd.positions, err = modeler.ReadPosition(doc, acr, nil); err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	if acr, ok := accessor("NORMAL"); ok {
		if pd.normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}
	if acr, ok := accessor("TANGENT"); ok {
		if pd.tangents, err = modeler.ReadTangent(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading tangents: %w", err)
		}
	}
	if acr, ok := accessor("COLOR_0"); ok {
		if err := readColors(doc, acr, pd); err != nil {
			return nil, err
		}
	}
	for ch := 0; ch < mesh.MaxUVChannels; ch++ {
		acr, ok := accessor(fmt.Sprintf("TEXCOORD_%d", ch))
		if !ok {
			continue
		}
		if pd.uvs[ch], err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading uv%d: %w", ch, err)
		}
	}
	_, pd.hasJoints = accessor("JOINTS_0")
	_, pd.hasWeights = accessor("WEIGHTS_0")

	if p.Indices != nil {
		if int(*p.Indices) >= len(doc.Accessors) {
			return nil, fmt.Errorf("index accessor %d: %w", *p.Indices, mesh.ErrUnsupported)
		}
		if pd.indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		pd.indices = make([]uint32, len(pd.positions))
		for i := range pd.indices {
			pd.indices[i] = uint32(i)
		}
	}

	pd.topology, pd.indices = convertTopology(p.Mode, pd.indices)
	return pd, nil
}

// readColors keeps float colors as floats and normalized integer colors
// packed, so both color paths of the inspector are reachable.
func readColors(doc *gltf.Document, acr *gltf.Accessor, pd *primitiveData) error {
	pd.colorDim = 4
	if acr.Type == gltf.AccessorVec3 {
		pd.colorDim = 3
	}
	if acr.ComponentType != gltf.ComponentFloat {
		c, err := modeler.ReadColor(doc, acr, nil)
		if err != nil {
			return fmt.Errorf("reading colors: %w", err)
		}
		pd.colors32 = c
		return nil
	}

	raw, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return fmt.Errorf("reading colors: %w", err)
	}
	switch v := raw.(type) {
	case [][4]float32:
		pd.colors = v
	case [][3]float32:
		pd.colors = make([][4]float32, len(v))
		for i, c := range v {
			pd.colors[i] = [4]float32{c[0], c[1], c[2], 1}
		}
	default:
		return fmt.Errorf("color accessor type %T: %w", raw, mesh.ErrUnsupported)
	}
	return nil
}

// convertTopology maps a glTF primitive mode onto the inspector topologies,
// expanding strips and fans into lists.
func convertTopology(mode gltf.PrimitiveMode, idx []uint32) (mesh.Topology, []uint32) {
	switch mode {
	case gltf.PrimitivePoints:
		return mesh.Points, idx
	case gltf.PrimitiveLines:
		return mesh.Lines, idx
	case gltf.PrimitiveLineStrip:
		return mesh.LineStrip, idx
	case gltf.PrimitiveLineLoop:
		if len(idx) > 1 {
			idx = append(append([]uint32(nil), idx...), idx[0])
		}
		return mesh.LineStrip, idx
	case gltf.PrimitiveTriangleStrip:
		out := make([]uint32, 0, len(idx)*3)
		for i := 2; i < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, idx[i-2], idx[i-1], idx[i])
			} else {
				out = append(out, idx[i-1], idx[i-2], idx[i])
			}
		}
		return mesh.Triangles, out
	case gltf.PrimitiveTriangleFan:
		out := make([]uint32, 0, len(idx)*3)
		for i := 2; i < len(idx); i++ {
			out = append(out, idx[0], idx[i-1], idx[i])
		}
		return mesh.Triangles, out
	default:
		return mesh.Triangles, idx
	}
}

// merge concatenates primitives into one mesh and derives the descriptor
// list in canonical attribute order.
func merge(prims []*primitiveData) *mesh.Data {
	var (
		hasNormals, hasTangents, hasColors, hasColors32 bool
		hasJoints, hasWeights                           bool
		colorDim                                        = 0
		hasUV                                           [mesh.MaxUVChannels]bool
	)
	total := 0
	for _, p := range prims {
		total += len(p.positions)
		hasNormals = hasNormals || len(p.normals) > 0
		hasTangents = hasTangents || len(p.tangents) > 0
		hasColors = hasColors || len(p.colors) > 0
		hasColors32 = hasColors32 || len(p.colors32) > 0
		hasJoints = hasJoints || p.hasJoints
		hasWeights = hasWeights || p.hasWeights
		if p.colorDim > colorDim {
			colorDim = p.colorDim
		}
		for ch := range p.uvs {
			hasUV[ch] = hasUV[ch] || len(p.uvs[ch]) > 0
		}
	}
	// Mixed float and packed colors collapse to float.
	if hasColors && hasColors32 {
		hasColors32 = false
		for _, p := range prims {
			if len(p.colors32) > 0 {
				p.colors = make([][4]float32, len(p.colors32))
				for i, c := range p.colors32 {
					f := mesh.Color32{R: c[0], G: c[1], B: c[2], A: c[3]}.Float()
					p.colors[i] = [4]float32{f.R, f.G, f.B, f.A}
				}
				p.colors32 = nil
			}
		}
	}

	d := &mesh.Data{Positions: make([]mgl32.Vec3, 0, total)}
	for _, p := range prims {
		base := uint32(len(d.Positions))
		n := len(p.positions)
		for _, v := range p.positions {
			d.Positions = append(d.Positions, mgl32.Vec3(v))
		}
		if hasNormals {
			for i := 0; i < n; i++ {
				var v mgl32.Vec3
				if i < len(p.normals) {
					v = mgl32.Vec3(p.normals[i])
				}
				d.NormalData = append(d.NormalData, v)
			}
		}
		if hasTangents {
			for i := 0; i < n; i++ {
				var v mgl32.Vec4
				if i < len(p.tangents) {
					v = mgl32.Vec4(p.tangents[i])
				}
				d.TangentData = append(d.TangentData, v)
			}
		}
		if hasColors {
			for i := 0; i < n; i++ {
				c := mesh.RGBA{R: 1, G: 1, B: 1, A: 1}
				if i < len(p.colors) {
					c = mesh.RGBA{R: p.colors[i][0], G: p.colors[i][1], B: p.colors[i][2], A: p.colors[i][3]}
				}
				d.ColorData = append(d.ColorData, c)
			}
		}
		if hasColors32 {
			for i := 0; i < n; i++ {
				c := mesh.Color32{R: 255, G: 255, B: 255, A: 255}
				if i < len(p.colors32) {
					c = mesh.Color32{R: p.colors32[i][0], G: p.colors32[i][1], B: p.colors32[i][2], A: p.colors32[i][3]}
				}
				d.Color32Data = append(d.Color32Data, c)
			}
		}
		for ch := range hasUV {
			if !hasUV[ch] {
				continue
			}
			for i := 0; i < n; i++ {
				var v mgl32.Vec4
				if i < len(p.uvs[ch]) {
					v = mgl32.Vec4{p.uvs[ch][i][0], p.uvs[ch][i][1], 0, 0}
				}
				d.UVData[ch] = append(d.UVData[ch], v)
			}
		}

		sm := mesh.SubMesh{Topology: p.topology, Indices: make([]uint32, len(p.indices))}
		for i, idx := range p.indices {
			sm.Indices[i] = idx + base
		}
		d.SubMeshes = append(d.SubMeshes, sm)
	}

	d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.Position, Dimension: 3})
	if hasNormals {
		d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.Normal, Dimension: 3})
	}
	if hasTangents {
		d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.Tangent, Dimension: 4})
	}
	if hasColors || hasColors32 {
		d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.Color, Dimension: colorDim})
	}
	for ch, ok := range hasUV {
		if ok {
			d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.TexCoord(ch), Dimension: 2})
		}
	}
	if hasWeights {
		d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.BlendWeight, Dimension: 4})
	}
	if hasJoints {
		d.Descriptors = append(d.Descriptors, mesh.AttributeDescriptor{Attribute: mesh.BlendIndices, Dimension: 4})
	}
	return d
}
