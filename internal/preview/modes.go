package preview

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// DisplayMode is the active visualization of the preview.
type DisplayMode int

const (
	Shaded DisplayMode = iota
	UVChecker
	UVLayout
	VertexColor
	Normals
	Tangent
	displayModeCount
)

// DisplayModeNames are the menu labels, indexed by DisplayMode.
var DisplayModeNames = [displayModeCount]string{
	"Shaded", "UV Checker", "UV Layout", "Vertex Color", "Normals", "Tangents",
}

func (m DisplayMode) String() string {
	if m < 0 || m >= displayModeCount {
		return fmt.Sprintf("DisplayMode(%d)", int(m))
	}
	return DisplayModeNames[m]
}

// Valid reports whether m is a known mode.
func (m DisplayMode) Valid() bool { return m >= 0 && m < displayModeCount }

// ParseDisplayMode finds a mode by its label, ignoring case, spaces and
// dashes, so "uv-checker" names UVChecker.
func ParseDisplayMode(name string) (DisplayMode, bool) {
	key := modeKey(name)
	for i, label := range DisplayModeNames {
		if modeKey(label) == key {
			return DisplayMode(i), true
		}
	}
	return Shaded, false
}

func modeKey(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
}

// HandleMode selects the per-vertex direction overlay.
type HandleMode int

const (
	HandlesDisabled HandleMode = iota
	HandleNormals
	HandleTangents
	HandleBinormals
	handleModeCount
)

// HandleModeNames are the menu labels, indexed by HandleMode.
var HandleModeNames = [handleModeCount]string{"Disabled", "Normals", "Tangents", "Binormals"}

func (m HandleMode) String() string {
	if m < 0 || m >= handleModeCount {
		return fmt.Sprintf("HandleMode(%d)", int(m))
	}
	return HandleModeNames[m]
}

// Valid reports whether m is a known mode.
func (m HandleMode) Valid() bool { return m >= 0 && m < handleModeCount }

// CameraPolicy selects how a mode frames the mesh.
type CameraPolicy int

const (
	// CameraOrbit is a perspective camera around a rotated, lit mesh.
	CameraOrbit CameraPolicy = iota
	// CameraUVPlane is an orthographic camera over UV space.
	CameraUVPlane
)

// MaterialSlot names one of the materials owned by Resources.
type MaterialSlot int

const (
	SlotShaded MaterialSlot = iota
	SlotMultiPreview
	SlotWire
	SlotLine
)

// Shader mode indices of the multi-preview material.
const (
	shaderModeUV = iota
	shaderModeVertexColor
	shaderModeNormals
	shaderModeTangents
	shaderModeChecker
)

type displayModeInfo struct {
	material   MaterialSlot
	shaderMode int
	cull       raster.CullMode
	camera     CameraPolicy
	checker    bool
	requires   []mesh.VertexAttribute
}

// displayModes is the dispatch table for every DisplayMode.
var displayModes = [displayModeCount]displayModeInfo{
	Shaded:      {material: SlotShaded, cull: raster.CullBack, camera: CameraOrbit},
	UVChecker:   {material: SlotMultiPreview, shaderMode: shaderModeChecker, cull: raster.CullBack, camera: CameraOrbit, checker: true},
	UVLayout:    {material: SlotMultiPreview, shaderMode: shaderModeUV, cull: raster.CullOff, camera: CameraUVPlane},
	VertexColor: {material: SlotMultiPreview, shaderMode: shaderModeVertexColor, cull: raster.CullBack, camera: CameraOrbit, requires: []mesh.VertexAttribute{mesh.Color}},
	Normals:     {material: SlotMultiPreview, shaderMode: shaderModeNormals, cull: raster.CullBack, camera: CameraOrbit, requires: []mesh.VertexAttribute{mesh.Normal}},
	Tangent:     {material: SlotMultiPreview, shaderMode: shaderModeTangents, cull: raster.CullBack, camera: CameraOrbit, requires: []mesh.VertexAttribute{mesh.Tangent}},
}

type handleModeInfo struct {
	color    mgl32.Vec4
	requires []mesh.VertexAttribute
	// direction returns the arrow direction of vertex i, in mesh space.
	direction func(src mesh.Source, i int) mgl32.Vec3
}

var handleModes = [handleModeCount]handleModeInfo{
	HandlesDisabled: {},
	HandleNormals: {
		color:    mgl32.Vec4{0, 1, 0, 1},
		requires: []mesh.VertexAttribute{mesh.Normal},
		direction: func(src mesh.Source, i int) mgl32.Vec3 {
			return vec3At(src.Normals(), i)
		},
	},
	HandleTangents: {
		color:    mgl32.Vec4{1, 0, 1, 1},
		requires: []mesh.VertexAttribute{mesh.Normal, mesh.Tangent},
		direction: func(src mesh.Source, i int) mgl32.Vec3 {
			return vec4At(src.Tangents(), i).Vec3()
		},
	},
	HandleBinormals: {
		color:    mgl32.Vec4{0, 0, 1, 1},
		requires: []mesh.VertexAttribute{mesh.Normal, mesh.Tangent},
		direction: func(src mesh.Source, i int) mgl32.Vec3 {
			return vec3At(src.Normals(), i).Cross(vec4At(src.Tangents(), i).Vec3())
		},
	},
}

func hasAll(src mesh.Source, attrs []mesh.VertexAttribute) bool {
	for _, a := range attrs {
		if !src.HasAttribute(a) {
			return false
		}
	}
	return true
}

func vec3At(s []mgl32.Vec3, i int) mgl32.Vec3 {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return mgl32.Vec3{}
}

func vec4At(s []mgl32.Vec4, i int) mgl32.Vec4 {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return mgl32.Vec4{}
}
