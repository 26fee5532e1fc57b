package viewer

import (
	"fmt"
	"image"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshinfo/internal/inspector"
	"github.com/Faultbox/meshinfo/internal/logger"
	"github.com/Faultbox/meshinfo/internal/preview"
	"github.com/Faultbox/meshinfo/internal/raster"
	"github.com/Faultbox/meshinfo/internal/snapshot"
)

// Idle wait between event polls when nothing needs redrawing.
const waitMS = 50

// snapshotSize is the side of the preview written by the snapshot key.
const snapshotSize = 512

// Viewer drives an inspector session in a window.
type Viewer struct {
	window    *Window
	presenter *Presenter
	caps      preview.Caps
	canvas    *raster.Canvas
	snap      *snapshot.Capture
	log       *zap.Logger
}

// New opens the window and queries the device caps.
func New(cfg Config, snap *snapshot.Capture) (*Viewer, error) {
	w, err := NewWindow(cfg)
	if err != nil {
		return nil, err
	}
	p, err := NewPresenter()
	if err != nil {
		w.Close()
		return nil, err
	}
	v := &Viewer{
		window:    w,
		presenter: p,
		caps:      QueryCaps(),
		snap:      snap,
		log:       logger.Named("viewer"),
	}
	v.log.Info("device caps", zap.Bool("render_targets", v.caps.RenderTargets))
	return v, nil
}

// Caps returns what the window's device supports.
func (v *Viewer) Caps() preview.Caps { return v.caps }

// Close releases GL objects and the window.
func (v *Viewer) Close() {
	v.presenter.Destroy()
	v.window.Close()
}

// Run shows the session until the window is closed. Escape or Q quits,
// C clears the row selection and P writes a preview snapshot.
func (v *Viewer) Run(s *inspector.Session) error {
	input := NewInput()
	if src := s.Settings(); src != nil {
		v.window.SetTitle(fmt.Sprintf("%s - %s", v.window.config.Title, src.Source().Name()))
	}

	dirty := true
	for {
		if input.Update(waitMS) {
			return nil
		}

		w, h := v.window.Size()
		bounds := image.Rect(0, 0, w, h)
		if v.canvas == nil || v.canvas.Width() != w || v.canvas.Height() != h {
			v.canvas = raster.NewCanvas(max(w, 1), max(h, 1))
			dirty = true
		}
		if input.Resized() {
			dirty = true
		}

		for _, ev := range input.Events() {
			if s.Handle(ev, bounds) {
				dirty = true
			}
		}
		for _, k := range input.Keys() {
			switch k {
			case sdl.K_ESCAPE, sdl.K_q:
				return nil
			case sdl.K_c:
				s.ClearSelection()
				dirty = true
			case sdl.K_p:
				v.snapshot(s)
			}
		}

		if !dirty {
			continue
		}
		v.canvas.ResetStats()
		s.Draw(v.canvas, bounds)
		dw, dh := v.window.DrawableSize()
		v.presenter.Present(v.canvas.Image(), dw, dh)
		v.window.SwapBuffers()
		dirty = false
	}
}

func (v *Viewer) snapshot(s *inspector.Session) {
	if v.snap == nil {
		return
	}
	img := s.RenderStatic(snapshotSize, snapshotSize)
	if img == nil {
		v.log.Warn("snapshot skipped: no preview available")
		return
	}
	path, err := v.snap.Save(img)
	if err != nil {
		v.log.Error("snapshot failed", zap.Error(err))
		return
	}
	v.log.Info("snapshot written", zap.String("path", path))
}
