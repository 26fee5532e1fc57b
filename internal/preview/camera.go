package preview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// Perspective camera parameters.
const (
	FieldOfView = 30.0
	NearClip    = 0.0001
	FarClip     = 1000.0
)

// Camera is a view looking down -Z with +Y up.
type Camera struct {
	Ortho    bool
	Position mgl32.Vec3
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Size is the orthographic half height.
	Size   float32
	Near   float32
	Far    float32
	Aspect float32
}

// CameraFor builds the camera the renderer uses for s over a viewport of
// the given pixel size.
func CameraFor(s *Settings, bounds mesh.Bounds, width, height int) Camera {
	aspect := float32(1)
	if height > 0 && width > 0 {
		aspect = float32(width) / float32(height)
	}
	if displayModes[s.displayMode].camera == CameraUVPlane {
		return Camera{
			Ortho:    true,
			Position: s.OrthoPosition,
			Size:     s.Zoom,
			Near:     NearClip,
			Far:      FarClip,
			Aspect:   aspect,
		}
	}
	return Camera{
		Position: mgl32.Vec3{0, 0, orbitDistance(bounds) * s.Zoom}.Add(s.Pivot),
		FOV:      FieldOfView,
		Near:     NearClip,
		Far:      FarClip,
		Aspect:   aspect,
	}
}

// orbitDistance is the camera distance at zoom 1.
func orbitDistance(b mesh.Bounds) float32 {
	return 4 * b.Extents.Len()
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2])
}

// Projection returns the camera-to-clip matrix.
func (c Camera) Projection() mgl32.Mat4 {
	if c.Ortho {
		w := c.Size * c.Aspect
		return mgl32.Ortho(-w, w, -c.Size, c.Size, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// DepthRange describes the projection for the rasterizer's depth buffer.
func (c Camera) DepthRange() raster.DepthRange {
	return raster.DepthRange{Near: c.Near, Far: c.Far, Perspective: !c.Ortho}
}

// ViewProjection returns the world-to-clip matrix.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// ViewportRay returns the world ray through viewport coordinates (vx,vy)
// in [0,1] with (0,0) at the bottom left.
func (c Camera) ViewportRay(vx, vy float32) (origin, dir mgl32.Vec3) {
	nx, ny := vx*2-1, vy*2-1
	if c.Ortho {
		origin = c.Position.Add(mgl32.Vec3{nx * c.Size * c.Aspect, ny * c.Size, 0})
		return origin, mgl32.Vec3{0, 0, -1}
	}
	t := float32(math.Tan(float64(mgl32.DegToRad(c.FOV)) / 2))
	dir = mgl32.Vec3{nx * t * c.Aspect, ny * t, -1}.Normalize()
	return c.Position, dir
}

// ViewportToPlane intersects the viewport ray with the plane z = 0.
func (c Camera) ViewportToPlane(vx, vy float32) (mgl32.Vec3, bool) {
	o, d := c.ViewportRay(vx, vy)
	if c.Ortho {
		return mgl32.Vec3{o[0], o[1], 0}, true
	}
	if d[2] == 0 {
		return mgl32.Vec3{}, false
	}
	t := -o[2] / d[2]
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return o.Add(d.Mul(t)), true
}

// UnitsPerPixel returns the world size of one pixel of a viewport height
// at the given distance in front of the camera.
func (c Camera) UnitsPerPixel(height int, depth float32) float32 {
	if height <= 0 {
		return 0
	}
	if c.Ortho {
		return 2 * c.Size / float32(height)
	}
	t := float32(math.Tan(float64(mgl32.DegToRad(c.FOV)) / 2))
	return 2 * t * depth / float32(height)
}
