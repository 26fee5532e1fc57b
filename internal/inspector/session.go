// Package inspector ties a host selection to the mesh data table and
// the preview of the selected mesh.
package inspector

import (
	"fmt"
	"image"
	"image/color"
	"reflect"

	"go.uber.org/zap"

	"github.com/Faultbox/meshinfo/internal/logger"
	"github.com/Faultbox/meshinfo/internal/prefs"
	"github.com/Faultbox/meshinfo/internal/preview"
	"github.com/Faultbox/meshinfo/internal/table"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// PrefSplitHeight stores the height of the table pane.
const PrefSplitHeight = "mesh-info-split-height"

const (
	defaultSplitHeight = 350
	minPaneHeight      = 100
)

// Saver is implemented by stores that persist to disk.
type Saver interface {
	Save() error
}

// Session is the inspector of at most one mesh at a time.
type Session struct {
	// Background fills the preview viewport.
	Background color.Color

	arena  *preview.Arena
	store  prefs.Store
	caps   preview.Caps
	bridge *preview.SelectionBridge
	log    *zap.Logger

	settings   *preview.Settings
	table      *table.Model
	renderer   *preview.Renderer
	controller *preview.Controller
	strip      *preview.Strip

	scroll    int
	splitting bool
}

// New creates a session drawing its resources from arena. A nil store
// keeps preferences in memory.
func New(arena *preview.Arena, store prefs.Store, caps preview.Caps) *Session {
	if store == nil {
		store = prefs.NewMemory()
	}
	return &Session{
		Background: preview.StaticBackground,
		arena:      arena,
		store:      store,
		caps:       caps,
		bridge:     preview.NewSelectionBridge(),
		log:        logger.Named("inspector"),
	}
}

// Select reacts to a host selection change. A selection of exactly one
// mesh opens it; anything else closes the current one. Selecting the open
// mesh again keeps its view and table selection.
func (s *Session) Select(objects []any) error {
	var src mesh.Source
	if len(objects) == 1 {
		src, _ = objects[0].(mesh.Source)
	}
	if src != nil && s.settings != nil && sameSource(s.settings.Source(), src) {
		return nil
	}
	s.teardown()
	if src == nil {
		s.log.Debug("selection cleared", zap.Int("objects", len(objects)))
		return nil
	}

	settings, err := preview.NewSettings(src, s.arena, s.store)
	if err != nil {
		return fmt.Errorf("selecting %s: %w", src.Name(), err)
	}
	s.settings = settings
	s.table = table.Build(src)
	s.renderer = preview.NewRenderer(settings, s.bridge, s.caps)
	s.controller = preview.NewController(settings)
	s.strip = preview.NewStrip(settings)
	s.scroll = 0
	s.log.Info("mesh selected",
		zap.String("mesh", src.Name()),
		zap.Int("vertices", src.VertexCount()),
		zap.Int("columns", len(s.table.Columns())))
	return nil
}

func sameSource(a, b mesh.Source) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}

func (s *Session) teardown() {
	if s.settings == nil {
		return
	}
	s.settings.Dispose()
	s.bridge.Clear()
	s.settings, s.table, s.renderer, s.controller, s.strip = nil, nil, nil, nil, nil
}

// Close releases the open mesh and saves the preferences.
func (s *Session) Close() error {
	s.teardown()
	if sv, ok := s.store.(Saver); ok {
		if err := sv.Save(); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}
	}
	return nil
}

// Active reports whether a mesh is open.
func (s *Session) Active() bool { return s.settings != nil }

// Settings returns the preview state of the open mesh, or nil.
func (s *Session) Settings() *preview.Settings { return s.settings }

// Table returns the data table of the open mesh, or nil.
func (s *Session) Table() *table.Model { return s.table }

// Renderer returns the preview renderer of the open mesh, or nil.
func (s *Session) Renderer() *preview.Renderer { return s.renderer }

// Bridge returns the selection bridge shared with the renderer.
func (s *Session) Bridge() *preview.SelectionBridge { return s.bridge }

// SetSelection replaces the selected rows and publishes them.
func (s *Session) SetSelection(ids []int) {
	if s.table == nil {
		return
	}
	s.table.SetSelection(ids)
	s.publish()
}

// ToggleRow flips one row's selection and publishes it.
func (s *Session) ToggleRow(id int) {
	if s.table == nil {
		return
	}
	s.table.Toggle(id)
	s.publish()
}

// ClearSelection deselects all rows.
func (s *Session) ClearSelection() {
	if s.table == nil {
		return
	}
	s.table.ClearSelection()
	s.publish()
}

func (s *Session) publish() {
	s.bridge.Publish(s.table.Selection())
}

// SplitHeight returns the table pane height for a window of the given
// height.
func (s *Session) SplitHeight(total int) int {
	return clampSplit(int(s.store.GetFloat(PrefSplitHeight, defaultSplitHeight)), total)
}

// SetSplitHeight stores a new table pane height.
func (s *Session) SetSplitHeight(h, total int) {
	s.store.SetFloat(PrefSplitHeight, float32(clampSplit(h, total)))
}

func clampSplit(h, total int) int {
	hi := total - minPaneHeight
	if h > hi {
		h = hi
	}
	if h < minPaneHeight {
		h = minPaneHeight
	}
	return h
}

// RenderStatic renders a standalone preview of the open mesh.
func (s *Session) RenderStatic(w, h int) *image.RGBA {
	if s.renderer == nil {
		return nil
	}
	return s.renderer.RenderStatic(w, h)
}
