package inspector

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshinfo/internal/preview"
	"github.com/Faultbox/meshinfo/internal/raster"
)

// EmptyMessage is drawn when no mesh is selected.
const EmptyMessage = "Select a single mesh"

const splitGrab = 3

var (
	paneBackground = color.NRGBA{R: 42, G: 42, B: 42, A: 255}
	headerFill     = color.NRGBA{R: 64, G: 64, B: 64, A: 255}
	selectedFill   = color.NRGBA{R: 44, G: 93, B: 135, A: 255}
	cellText       = color.NRGBA{R: 210, G: 210, B: 210, A: 255}
	splitterFill   = color.NRGBA{R: 25, G: 25, B: 25, A: 255}
)

// Layout is the placement of the inspector panes in a window.
type Layout struct {
	Table   image.Rectangle
	Strip   image.Rectangle
	Preview image.Rectangle
}

// Layout splits bounds into the table pane, the settings strip and the
// preview viewport.
func (s *Session) Layout(bounds image.Rectangle) Layout {
	split := bounds.Min.Y + s.SplitHeight(bounds.Dy())
	stripEnd := min(split+preview.StripHeight, bounds.Max.Y)
	return Layout{
		Table:   image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, split),
		Strip:   image.Rect(bounds.Min.X, split, bounds.Max.X, stripEnd),
		Preview: image.Rect(bounds.Min.X, stripEnd, bounds.Max.X, bounds.Max.Y),
	}
}

func rowHeight() int { return raster.LineHeight() + 3 }

// Draw paints the whole inspector into bounds of the canvas.
func (s *Session) Draw(c *raster.Canvas, bounds image.Rectangle) {
	c.FillRect(bounds, paneBackground)
	if !s.Active() {
		c.TextCentered(bounds, EmptyMessage, cellText)
		return
	}
	l := s.Layout(bounds)
	s.drawTable(c, l.Table)
	s.renderer.Render(c, l.Preview, s.Background)
	s.strip.Draw(c, l.Strip)
	c.FillRect(image.Rect(l.Table.Min.X, l.Table.Max.Y-1, l.Table.Max.X, l.Table.Max.Y), splitterFill)
}

func (s *Session) drawTable(c *raster.Canvas, r image.Rectangle) {
	rh := rowHeight()
	ascent := raster.Face.Metrics().Ascent.Ceil()
	cols := s.table.Columns()

	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+rh), headerFill)
	x := r.Min.X + 2
	for _, col := range cols {
		c.Text(image.Pt(x, r.Min.Y+ascent+1), col.Header, cellText)
		x += int(col.MinWidth)
	}

	y := r.Min.Y + rh
	for row := s.scroll; row < s.table.Len() && y+rh <= r.Max.Y; row++ {
		if s.table.IsSelected(s.table.Rows()[row].ID) {
			c.FillRect(image.Rect(r.Min.X, y, r.Max.X, y+rh), selectedFill)
		}
		x := r.Min.X + 2
		for ci, col := range cols {
			c.Text(image.Pt(x, y+ascent+1), s.table.Cell(row, ci), cellText)
			x += int(col.MinWidth)
		}
		y += rh
	}
}

// visibleRows is the number of data rows that fit in the table pane.
func (s *Session) visibleRows(r image.Rectangle) int {
	return max(0, r.Dy()/rowHeight()-1)
}

// rowAt returns the row under a window point, or -1.
func (s *Session) rowAt(r image.Rectangle, pt image.Point) int {
	if !pt.In(r) {
		return -1
	}
	i := (pt.Y-r.Min.Y)/rowHeight() - 1
	if i < 0 {
		return -1
	}
	row := s.scroll + i
	if row >= s.table.Len() {
		return -1
	}
	return row
}

// Handle routes an input event to the table, the settings strip or the
// preview controller. It reports whether a redraw is needed.
func (s *Session) Handle(ev preview.Event, bounds image.Rectangle) bool {
	if !s.Active() {
		return false
	}
	l := s.Layout(bounds)
	pt := image.Pt(int(ev.Pos[0]), int(ev.Pos[1]))

	switch ev.Type {
	case preview.MouseDown:
		if ev.Button == 0 && abs(pt.Y-l.Table.Max.Y) <= splitGrab && pt.X >= bounds.Min.X && pt.X < bounds.Max.X {
			s.splitting = true
			return false
		}
		if s.strip.MenuOpen() || pt.In(l.Strip) {
			return s.strip.Handle(ev, l.Strip)
		}
		if pt.In(l.Table) {
			return s.clickRow(l.Table, pt, ev.Shift)
		}
		return s.controller.Handle(ev, l.Preview)
	case preview.MouseUp:
		s.splitting = false
		changed := s.strip.Handle(ev, l.Strip)
		return s.controller.Handle(ev, l.Preview) || changed
	case preview.MouseDrag:
		if s.splitting {
			s.SetSplitHeight(pt.Y-bounds.Min.Y, bounds.Dy())
			return true
		}
		changed := s.strip.Handle(ev, l.Strip)
		return s.controller.Handle(ev, l.Preview) || changed
	case preview.Scroll:
		if pt.In(l.Table) {
			return s.scrollTable(l.Table, ev.Delta)
		}
	}
	return s.controller.Handle(ev, l.Preview)
}

func (s *Session) clickRow(r image.Rectangle, pt image.Point, extend bool) bool {
	row := s.rowAt(r, pt)
	if row < 0 {
		return false
	}
	id := s.table.Rows()[row].ID
	if extend {
		s.ToggleRow(id)
	} else {
		s.SetSelection([]int{id})
	}
	return true
}

func (s *Session) scrollTable(r image.Rectangle, delta mgl32.Vec2) bool {
	maxScroll := max(0, s.table.Len()-s.visibleRows(r))
	next := s.scroll - int(delta[1])
	next = max(0, min(next, maxScroll))
	if next == s.scroll {
		return false
	}
	s.scroll = next
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
