package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshinfo/internal/preview"
)

// Mouse wheel notches are scaled to scroll lines.
const wheelLines = 3

// Input translates SDL events into inspector events.
type Input struct {
	events  []preview.Event
	keys    []sdl.Keycode
	pressed [3]bool
	quit    bool
	resized bool
}

// NewInput creates an input handler.
func NewInput() *Input {
	return &Input{
		events: make([]preview.Event, 0, 16),
		keys:   make([]sdl.Keycode, 0, 4),
	}
}

// Update waits up to timeoutMS for the first event, then drains the
// queue. It reports whether the window should close.
func (i *Input) Update(timeoutMS int) bool {
	i.events = i.events[:0]
	i.keys = i.keys[:0]
	i.resized = false

	event := sdl.WaitEventTimeout(timeoutMS)
	for ; event != nil; event = sdl.PollEvent() {
		i.translate(event)
	}
	return i.quit
}

// Events returns the pointer and command events from the last Update.
func (i *Input) Events() []preview.Event { return i.events }

// Keys returns the keys pressed during the last Update.
func (i *Input) Keys() []sdl.Keycode { return i.keys }

// Resized reports whether the window changed size during the last Update.
func (i *Input) Resized() bool { return i.resized }

func (i *Input) translate(event sdl.Event) {
	shift := sdl.GetModState()&sdl.KMOD_SHIFT != 0

	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_EXPOSED:
			i.resized = true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		if e.Keysym.Sym == sdl.K_f {
			i.events = append(i.events, preview.Event{Type: preview.Command, Command: preview.CommandFrameSelected})
			return
		}
		i.keys = append(i.keys, e.Keysym.Sym)

	case *sdl.MouseButtonEvent:
		button, ok := mouseButton(e.Button)
		if !ok {
			return
		}
		ev := preview.Event{
			Button: button,
			Pos:    mgl32.Vec2{float32(e.X), float32(e.Y)},
			Shift:  shift,
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = preview.MouseDown
			i.pressed[button] = true
		} else {
			ev.Type = preview.MouseUp
			i.pressed[button] = false
		}
		i.events = append(i.events, ev)

	case *sdl.MouseMotionEvent:
		for button, down := range i.pressed {
			if !down {
				continue
			}
			i.events = append(i.events, preview.Event{
				Type:   preview.MouseDrag,
				Button: button,
				Pos:    mgl32.Vec2{float32(e.X), float32(e.Y)},
				Delta:  mgl32.Vec2{float32(e.XRel), float32(e.YRel)},
				Shift:  shift,
			})
		}

	case *sdl.MouseWheelEvent:
		x, y, _ := sdl.GetMouseState()
		dy := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		// Positive deltas zoom in and scroll the table toward its top.
		i.events = append(i.events, preview.Event{
			Type:  preview.Scroll,
			Pos:   mgl32.Vec2{float32(x), float32(y)},
			Delta: mgl32.Vec2{0, dy * wheelLines},
			Shift: shift,
		})
	}
}

// mouseButton maps SDL buttons to primary (0), secondary (1) and
// middle (2).
func mouseButton(b uint8) (int, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return 0, true
	case sdl.BUTTON_RIGHT:
		return 1, true
	case sdl.BUTTON_MIDDLE:
		return 2, true
	}
	return 0, false
}
