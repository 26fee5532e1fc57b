package preview

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// EventType is the kind of an input event delivered to the controller.
type EventType int

const (
	MouseDown EventType = iota
	MouseUp
	MouseDrag
	Scroll
	Command
)

// CommandFrameSelected re-frames the mesh.
const CommandFrameSelected = "FrameSelected"

const (
	zoomSpeed      = -0.025
	dragDegrees    = 140.0
	fastDragFactor = 3.0
	minDragWidth   = 50
)

// Event is one input event in window coordinates, y down.
type Event struct {
	Type   EventType
	Button int
	Pos    mgl32.Vec2
	// Delta is the motion of a drag, or the wheel motion of a scroll with
	// positive Y zooming in.
	Delta   mgl32.Vec2
	Shift   bool
	Command string
}

// Controller turns input events over the preview rectangle into view
// changes of a Settings.
type Controller struct {
	settings *Settings
	active   [3]bool
}

// NewController creates a controller for s.
func NewController(s *Settings) *Controller {
	return &Controller{settings: s}
}

// Handle applies ev to the settings. It reports whether the view changed
// and a redraw is needed.
func (c *Controller) Handle(ev Event, rect image.Rectangle) bool {
	s := c.settings
	if s == nil || s.Disposed() {
		return false
	}
	inside := image.Pt(int(ev.Pos[0]), int(ev.Pos[1])).In(rect)

	switch ev.Type {
	case MouseDown:
		if ev.Button >= 0 && ev.Button < len(c.active) {
			c.active[ev.Button] = inside && rect.Dx() > minDragWidth
		}
		return false
	case MouseUp:
		if ev.Button >= 0 && ev.Button < len(c.active) {
			c.active[ev.Button] = false
		}
		return false
	case MouseDrag:
		if ev.Button < 0 || ev.Button >= len(c.active) || !c.active[ev.Button] {
			return false
		}
		return c.drag(ev, rect)
	case Scroll:
		if !inside {
			return false
		}
		return c.zoom(ev, rect)
	case Command:
		if ev.Command == CommandFrameSelected {
			s.FrameObject()
			return true
		}
	}
	return false
}

func (c *Controller) drag(ev Event, rect image.Rectangle) bool {
	s := c.settings
	uv := displayModes[s.displayMode].camera == CameraUVPlane
	if uv || ev.Button == 2 {
		return c.pan(ev, rect)
	}

	speed := float32(1)
	if ev.Shift {
		speed = fastDragFactor
	}
	step := ev.Delta.Mul(speed / float32(min(rect.Dx(), rect.Dy())) * dragDegrees)
	// Angles accumulate without wrapping or clamping.
	switch ev.Button {
	case 0:
		s.PreviewDir = s.PreviewDir.Sub(step)
	case 1:
		s.LightDir = s.LightDir.Sub(step)
	default:
		return false
	}
	return true
}

// pan moves the pivot so the mesh follows the drag.
func (c *Controller) pan(ev Event, rect image.Rectangle) bool {
	s := c.settings
	if rect.Dy() <= 0 {
		return false
	}
	cam := CameraFor(s, s.src.Bounds(), rect.Dx(), rect.Dy())
	per := cam.UnitsPerPixel(rect.Dy(), cam.Position[2]-s.Pivot[2])
	dx, dy := -ev.Delta[0]*per, ev.Delta[1]*per

	if cam.Ortho {
		s.OrthoPosition[0] += dx
		s.OrthoPosition[1] += dy
		return true
	}
	s.Pivot[0] += dx
	s.Pivot[1] += dy
	return true
}

// zoom scales the camera distance about the point of the z = 0 plane under
// the cursor.
func (c *Controller) zoom(ev Event, rect image.Rectangle) bool {
	s := c.settings
	old := s.Zoom
	next := clampf(old*(1+ev.Delta[1]*zoomSpeed), MinZoom, MaxZoom)
	if next == old || rect.Dx() <= 0 || rect.Dy() <= 0 {
		return false
	}

	cam := CameraFor(s, s.src.Bounds(), rect.Dx(), rect.Dy())
	vx := (ev.Pos[0] - float32(rect.Min.X)) / float32(rect.Dx())
	vy := 1 - (ev.Pos[1]-float32(rect.Min.Y))/float32(rect.Dy())
	s.Zoom = next

	anchor, ok := cam.ViewportToPlane(vx, vy)
	if !ok {
		return true
	}
	k := next / old
	moved := anchor.Add(cam.Position.Sub(anchor).Mul(k))
	if cam.Ortho {
		s.OrthoPosition[0], s.OrthoPosition[1] = moved[0], moved[1]
		return true
	}
	s.Pivot = mgl32.Vec3{moved[0], moved[1], s.Pivot[2] * k}
	return true
}
