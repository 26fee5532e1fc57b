package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Faultbox/meshinfo/internal/config"
	"github.com/Faultbox/meshinfo/internal/inspector"
	"github.com/Faultbox/meshinfo/internal/logger"
	"github.com/Faultbox/meshinfo/internal/prefs"
	"github.com/Faultbox/meshinfo/internal/preview"
	"github.com/Faultbox/meshinfo/internal/snapshot"
	"github.com/Faultbox/meshinfo/internal/tableview"
	"github.com/Faultbox/meshinfo/internal/viewer"
	"github.com/Faultbox/meshinfo/pkg/mesh"
	"github.com/Faultbox/meshinfo/pkg/mesh/gltfload"
)

// The software renderer always draws to an offscreen canvas.
var softwareCaps = preview.Caps{RenderTargets: true}

func loadMesh(args []string) (*mesh.Data, error) {
	switch strings.ToLower(*flagDemo) {
	case "quad":
		return mesh.Quad(), nil
	case "cube":
		return mesh.Cube(2), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown demo mesh %q", *flagDemo)
	}

	if len(args) < 1 {
		return nil, errors.New("no mesh file given (or use -demo quad|cube)")
	}
	m, err := gltfload.Load(args[0], *flagMesh)
	if err != nil {
		return nil, err
	}
	logger.Info("mesh loaded",
		zap.String("file", args[0]),
		zap.String("mesh", m.Name()),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("submeshes", m.SubMeshCount()),
	)
	return m, nil
}

// openSession creates a session over m with the configured background and
// initial row selection.
func openSession(cfg *config.Config, store prefs.Store, caps preview.Caps, m mesh.Source) (*inspector.Session, error) {
	bg, err := cfg.Preview.BackgroundColor()
	if err != nil {
		return nil, err
	}
	s := inspector.New(preview.NewArena(preview.BuiltinShaders()), store, caps)
	s.Background = bg
	if err := s.Select([]any{m}); err != nil {
		return nil, err
	}
	if len(cfg.Table.Select) > 0 {
		s.SetSelection(cfg.Table.Select)
	}
	return s, nil
}

func openPrefs(cfg *config.Config) (*prefs.File, error) {
	store, err := prefs.Open(cfg.PrefsPath())
	if err != nil {
		return nil, fmt.Errorf("opening preferences: %w", err)
	}
	return store, nil
}

func cmdInfo(_ *config.Config, args []string) error {
	m, err := loadMesh(args)
	if err != nil {
		return err
	}
	return inspector.WriteSummary(os.Stdout, m)
}

func cmdTable(cfg *config.Config, args []string) error {
	m, err := loadMesh(args)
	if err != nil {
		return err
	}
	store, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, store, softwareCaps, m)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(tableview.Static(s.Table(), cfg.Table.Limit))
		return s.Close()
	}

	snap := snapshot.New(cfg.Preview.OutputDir, strings.ToLower(m.Name()))
	opts := tableview.Options{
		Title:    fmt.Sprintf("%s: %d vertices", m.Name(), m.VertexCount()),
		OnSelect: s.Bridge().Publish,
		OnPreview: func([]int) (string, error) {
			img := s.RenderStatic(cfg.Preview.Width, cfg.Preview.Height)
			if img == nil {
				return "", snapshot.ErrNoImage
			}
			path, err := snap.Save(img)
			if err != nil {
				return "", err
			}
			return "wrote " + path, nil
		},
	}
	runErr := tableview.Run(s.Table(), opts, os.Stdin, os.Stdout)
	if err := s.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func cmdPreview(cfg *config.Config, args []string) error {
	m, err := loadMesh(args)
	if err != nil {
		return err
	}
	store, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	// Render with the saved preferences but leave them untouched.
	s, err := openSession(cfg, store.Memory, softwareCaps, m)
	if err != nil {
		return err
	}
	defer s.Close()

	if *flagMode != "" {
		mode, ok := preview.ParseDisplayMode(*flagMode)
		if !ok {
			return fmt.Errorf("unknown display mode %q", *flagMode)
		}
		if !s.Settings().SetDisplayMode(mode) {
			return fmt.Errorf("display mode %s is not available for %s", mode, m.Name())
		}
	}

	img := s.RenderStatic(cfg.Preview.Width, cfg.Preview.Height)
	if img == nil {
		return snapshot.ErrNoImage
	}
	if err := snapshot.WritePNG(*flagOut, img); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	st := s.Renderer().LastFrame()
	logger.Info("preview rendered",
		zap.String("mode", st.Mode.String()),
		zap.Ints("submeshes", st.SubMeshes),
		zap.Strings("skipped", st.Skipped),
	)
	fmt.Printf("wrote %s\n", *flagOut)
	return nil
}

func cmdView(cfg *config.Config, args []string) error {
	m, err := loadMesh(args)
	if err != nil {
		return err
	}
	store, err := openPrefs(cfg)
	if err != nil {
		return err
	}

	v, err := viewer.New(viewer.Config{
		Title:  "meshinfo",
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	}, snapshot.New(cfg.Preview.OutputDir, strings.ToLower(m.Name())))
	if err != nil {
		return fmt.Errorf("opening viewer: %w", err)
	}
	defer v.Close()

	s, err := openSession(cfg, store, v.Caps(), m)
	if err != nil {
		return err
	}
	runErr := v.Run(s)
	if err := s.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
