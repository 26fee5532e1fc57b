// Package vertexdata flattens per-vertex attribute streams into uniform
// scalar records, one per vertex, in declared attribute order.
package vertexdata

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// Kind tells whether a Value holds a float or an integer.
type Kind uint8

const (
	KindFloat Kind = iota
	KindInt
)

// Value is one scalar cell of a record.
type Value struct {
	Kind Kind
	F    float32
	I    int
}

// Float returns a float value.
func Float(f float32) Value { return Value{Kind: KindFloat, F: f} }

// Int returns an integer value.
func Int(i int) Value { return Value{Kind: KindInt, I: i} }

// Float64 returns the value as float64 regardless of kind.
func (v Value) Float64() float64 {
	if v.Kind == KindInt {
		return float64(v.I)
	}
	return float64(v.F)
}

// Format renders the value with prec significant digits for floats.
func (v Value) Format(prec int) string {
	if v.Kind == KindInt {
		return strconv.Itoa(v.I)
	}
	return strconv.FormatFloat(float64(v.F), 'g', prec, 32)
}

// String renders the value with four significant digits.
func (v Value) String() string { return v.Format(4) }

// Record is the flat scalar data of one vertex.
type Record []Value

// Included drops blend-weight and blend-index attributes, preserving order.
func Included(attrs []mesh.AttributeDescriptor) []mesh.AttributeDescriptor {
	out := make([]mesh.AttributeDescriptor, 0, len(attrs))
	for _, a := range attrs {
		if a.Attribute.IsBlend() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Layout returns the included attributes of src that actually contribute
// values. A color attribute without float or packed color data is dropped.
func Layout(src mesh.Source) []mesh.AttributeDescriptor {
	included := Included(src.Attributes())
	out := included[:0:0]
	for _, a := range included {
		if a.Attribute == mesh.Color && len(src.Colors()) == 0 && len(src.Colors32()) == 0 {
			continue
		}
		if Channels(a) == 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Channels returns the number of scalar columns an attribute expands to.
func Channels(a mesh.AttributeDescriptor) int {
	switch {
	case a.Attribute == mesh.Position, a.Attribute == mesh.Normal:
		return 3
	case a.Attribute == mesh.Tangent, a.Attribute == mesh.Color:
		return 4
	case a.Attribute.UVChannel() >= 0:
		switch {
		case a.Dimension < 2:
			return 2
		case a.Dimension > 4:
			return 4
		default:
			return a.Dimension
		}
	default:
		return 0
	}
}

// Width returns the total number of scalar columns of an attribute list.
func Width(attrs []mesh.AttributeDescriptor) int {
	n := 0
	for _, a := range attrs {
		n += Channels(a)
	}
	return n
}

// Extract builds one record per vertex in vertex-index order.
func Extract(src mesh.Source) []Record {
	layout := Layout(src)
	width := Width(layout)
	n := src.VertexCount()

	positions := src.Vertices()
	normals := src.Normals()
	tangents := src.Tangents()
	colors := src.Colors()
	colors32 := src.Colors32()
	var uvs [mesh.MaxUVChannels][]mgl32.Vec4
	for _, a := range layout {
		if ch := a.Attribute.UVChannel(); ch >= 0 {
			uvs[ch] = src.UVs(ch)
		}
	}

	records := make([]Record, n)
	for i := 0; i < n; i++ {
		rec := make(Record, 0, width)
		for _, a := range layout {
			switch a.Attribute {
			case mesh.Position:
				v := at3(positions, i)
				rec = append(rec, Float(v[0]), Float(v[1]), Float(v[2]))
			case mesh.Normal:
				v := at3(normals, i)
				rec = append(rec, Float(v[0]), Float(v[1]), Float(v[2]))
			case mesh.Tangent:
				var v [4]float32
				if i < len(tangents) {
					v = tangents[i]
				}
				rec = append(rec, Float(v[0]), Float(v[1]), Float(v[2]), Float(v[3]))
			case mesh.Color:
				if len(colors) > 0 {
					var c mesh.RGBA
					if i < len(colors) {
						c = colors[i]
					}
					rec = append(rec, Float(c.R), Float(c.G), Float(c.B), Float(c.A))
				} else {
					var c mesh.Color32
					if i < len(colors32) {
						c = colors32[i]
					}
					rec = append(rec, Int(int(c.R)), Int(int(c.G)), Int(int(c.B)), Int(int(c.A)))
				}
			default:
				ch := a.Attribute.UVChannel()
				var v mgl32.Vec4
				if i < len(uvs[ch]) {
					v = uvs[ch][i]
				}
				for c := 0; c < Channels(a); c++ {
					rec = append(rec, Float(v[c]))
				}
			}
		}
		records[i] = rec
	}
	return records
}

func at3(s []mgl32.Vec3, i int) mgl32.Vec3 {
	if i < len(s) {
		return s[i]
	}
	return mgl32.Vec3{}
}
