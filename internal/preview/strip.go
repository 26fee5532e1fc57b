package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// StripHeight is the height of the settings strip above the preview.
const StripHeight = 22

type widgetKind int

const (
	widgetDisplay widgetKind = iota
	widgetUV
	widgetChecker
	widgetWire
	widgetHandle
	widgetHandleScale
)

type widget struct {
	kind     widgetKind
	rect     image.Rectangle
	disabled bool
}

type menuEntry struct {
	label    string
	value    int
	disabled bool
}

type menu struct {
	owner   widgetKind
	rect    image.Rectangle
	entries []menuEntry
}

var (
	stripBackground = color.NRGBA{R: 56, G: 56, B: 56, A: 255}
	widgetFill      = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	widgetActive    = color.NRGBA{R: 70, G: 96, B: 124, A: 255}
	textColor       = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	disabledText    = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	sliderKnob      = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
)

// Strip is the row of preview controls: display mode, UV channel, checker
// scale, wireframe, handle mode and handle size.
type Strip struct {
	settings *Settings
	menu     *menu
	dragging *widget
}

// NewStrip creates the control strip of s.
func NewStrip(s *Settings) *Strip {
	return &Strip{settings: s}
}

// MenuOpen reports whether a dropdown list is showing.
func (st *Strip) MenuOpen() bool { return st.menu != nil }

// layout places the visible widgets inside rect.
func (st *Strip) layout(rect image.Rectangle) []widget {
	s := st.settings
	row := func(x0, x1 int) image.Rectangle {
		return image.Rect(x0, rect.Min.Y+2, x1, rect.Max.Y-2)
	}

	var out []widget
	x := rect.Min.X + 4
	out = append(out, widget{kind: widgetDisplay, rect: row(x, x+100)})
	x += 104
	if s.displayMode == UVLayout || s.displayMode == UVChecker {
		out = append(out, widget{kind: widgetUV, rect: row(x, x+54)})
		x += 58
	}
	if s.displayMode == UVChecker {
		out = append(out, widget{kind: widgetChecker, rect: row(x, x+90)})
	}

	overlayOff := s.displayMode == UVLayout
	x = rect.Max.X - 4
	out = append(out, widget{kind: widgetHandleScale, rect: row(x-80, x), disabled: overlayOff})
	x -= 84
	out = append(out, widget{kind: widgetHandle, rect: row(x-84, x), disabled: overlayOff})
	x -= 88
	out = append(out, widget{kind: widgetWire, rect: row(x-46, x), disabled: overlayOff})
	return out
}

func (st *Strip) label(w widget) string {
	s := st.settings
	switch w.kind {
	case widgetDisplay:
		return s.displayMode.String()
	case widgetUV:
		return fmt.Sprintf("UV %d", s.activeUV)
	case widgetChecker:
		return fmt.Sprintf("%d", s.checkerScale)
	case widgetWire:
		return "Wire"
	case widgetHandle:
		return s.handleMode.String()
	case widgetHandleScale:
		return fmt.Sprintf("%.2f", s.handleScale)
	}
	return ""
}

// Draw paints the strip into rect and any open dropdown below it.
func (st *Strip) Draw(c *raster.Canvas, rect image.Rectangle) {
	c.FillRect(rect, stripBackground)
	for _, w := range st.layout(rect) {
		fill := widgetFill
		if w.kind == widgetWire && st.settings.drawWire {
			fill = widgetActive
		}
		c.FillRect(w.rect, fill)
		if lo, hi, v, ok := st.sliderRange(w.kind); ok && hi > lo {
			knob := w.rect.Min.X + int(float32(w.rect.Dx()-4)*(v-lo)/(hi-lo))
			c.FillRect(image.Rect(knob, w.rect.Min.Y, knob+4, w.rect.Max.Y), sliderKnob)
		}
		col := textColor
		if w.disabled {
			col = disabledText
		}
		c.TextCentered(w.rect, st.label(w), col)
	}

	if m := st.menu; m != nil {
		c.FillRect(m.rect, stripBackground)
		for i, e := range m.entries {
			col := textColor
			if e.disabled {
				col = disabledText
			}
			c.TextCentered(m.entryRect(i), e.label, col)
		}
	}
}

func (m *menu) entryRect(i int) image.Rectangle {
	h := raster.LineHeight() + 4
	return image.Rect(m.rect.Min.X, m.rect.Min.Y+i*h, m.rect.Max.X, m.rect.Min.Y+(i+1)*h)
}

func (st *Strip) sliderRange(k widgetKind) (lo, hi, v float32, ok bool) {
	s := st.settings
	switch k {
	case widgetChecker:
		return MinCheckerScale, MaxCheckerScale, float32(s.checkerScale), true
	case widgetHandleScale:
		return MinHandleScale, MaxHandleScale, s.handleScale, true
	}
	return 0, 0, 0, false
}

func (st *Strip) entries(k widgetKind) []menuEntry {
	s := st.settings
	var out []menuEntry
	switch k {
	case widgetDisplay:
		for m := DisplayMode(0); m < displayModeCount; m++ {
			out = append(out, menuEntry{label: m.String(), value: int(m), disabled: !s.DisplayModeAvailable(m)})
		}
	case widgetUV:
		for ch := 0; ch < mesh.MaxUVChannels; ch++ {
			out = append(out, menuEntry{label: fmt.Sprintf("UV %d", ch), value: ch, disabled: !s.UVChannelAvailable(ch)})
		}
	case widgetHandle:
		for m := HandleMode(0); m < handleModeCount; m++ {
			out = append(out, menuEntry{label: m.String(), value: int(m), disabled: !s.HandleModeAvailable(m)})
		}
	}
	return out
}

// Handle processes a mouse event over the strip or its open dropdown. It
// reports whether any setting changed or the strip needs a redraw.
func (st *Strip) Handle(ev Event, rect image.Rectangle) bool {
	pt := image.Pt(int(ev.Pos[0]), int(ev.Pos[1]))

	switch ev.Type {
	case MouseUp:
		st.dragging = nil
		return false
	case MouseDrag:
		if st.dragging == nil {
			return false
		}
		return st.slide(*st.dragging, pt)
	case MouseDown:
	default:
		return false
	}

	if m := st.menu; m != nil {
		st.menu = nil
		if !pt.In(m.rect) {
			return true
		}
		for i, e := range m.entries {
			if pt.In(m.entryRect(i)) && !e.disabled {
				st.choose(m.owner, e.value)
			}
		}
		return true
	}

	if !pt.In(rect) {
		return false
	}
	for _, w := range st.layout(rect) {
		if !pt.In(w.rect) || w.disabled {
			continue
		}
		switch w.kind {
		case widgetWire:
			return st.settings.SetWireframe(!st.settings.drawWire)
		case widgetChecker, widgetHandleScale:
			w := w
			st.dragging = &w
			return st.slide(w, pt)
		default:
			entries := st.entries(w.kind)
			h := (raster.LineHeight() + 4) * len(entries)
			width := w.rect.Dx()
			for _, e := range entries {
				width = max(width, raster.TextWidth(e.label)+8)
			}
			st.menu = &menu{
				owner:   w.kind,
				rect:    image.Rect(w.rect.Min.X, w.rect.Max.Y, w.rect.Min.X+width, w.rect.Max.Y+h),
				entries: entries,
			}
			return true
		}
	}
	return false
}

func (st *Strip) choose(k widgetKind, v int) bool {
	s := st.settings
	switch k {
	case widgetDisplay:
		return s.SetDisplayMode(DisplayMode(v))
	case widgetUV:
		return s.SetUVChannel(v)
	case widgetHandle:
		return s.SetHandleMode(HandleMode(v))
	}
	return false
}

func (st *Strip) slide(w widget, pt image.Point) bool {
	lo, hi, _, ok := st.sliderRange(w.kind)
	if !ok || w.rect.Dx() <= 1 {
		return false
	}
	t := clampf(float32(pt.X-w.rect.Min.X)/float32(w.rect.Dx()-1), 0, 1)
	v := clampf(lo+(hi-lo)*t, lo, hi)
	if w.kind == widgetChecker {
		return st.settings.SetCheckerScale(int(v + 0.5))
	}
	return st.settings.SetHandleScale(v)
}
