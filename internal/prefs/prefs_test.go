package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryDefaults(t *testing.T) {
	m := NewMemory()

	if got := m.GetFloat("missing", 0.5); got != 0.5 {
		t.Errorf("GetFloat default = %v", got)
	}
	if got := m.GetBool("missing", true); !got {
		t.Error("GetBool default should be true")
	}
	if got := m.GetInt("missing", 3); got != 3 {
		t.Errorf("GetInt default = %d", got)
	}
}

func TestMemoryWrongKind(t *testing.T) {
	m := NewMemory()
	m.SetBool("k", true)

	if got := m.GetInt("k", 7); got != 7 {
		t.Errorf("GetInt on bool = %d, want default 7", got)
	}
	if got := m.GetFloat("k", 1.5); got != 1.5 {
		t.Errorf("GetFloat on bool = %v, want default 1.5", got)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	m.SetFloat("scale", 0.25)
	m.SetBool("wire", false)
	m.SetInt("mode", 2)

	if m.GetFloat("scale", 0) != 0.25 || m.GetBool("wire", true) || m.GetInt("mode", 0) != 2 {
		t.Error("values not returned as stored")
	}
	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "mode" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestMemoryZeroValue(t *testing.T) {
	tests := []struct {
		name string
		set  func(m *Memory)
		ok   func(m *Memory) bool
	}{
		{"float", func(m *Memory) { m.SetFloat("f", 1.5) }, func(m *Memory) bool { return m.GetFloat("f", 0) == 1.5 }},
		{"bool", func(m *Memory) { m.SetBool("b", true) }, func(m *Memory) bool { return m.GetBool("b", false) }},
		{"int", func(m *Memory) { m.SetInt("i", 4) }, func(m *Memory) bool { return m.GetInt("i", 0) == 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Memory
			if len(m.Keys()) != 0 {
				t.Fatalf("zero Memory has keys %v", m.Keys())
			}
			tt.set(&m)
			if !tt.ok(&m) {
				t.Error("value not returned as stored")
			}
			if len(m.Keys()) != 1 {
				t.Errorf("Keys() = %v", m.Keys())
			}
		})
	}
}

func TestFileSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prefs.yaml")

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open missing: %v", err)
	}
	f.SetInt("mesh-info-handle-mode", 2)
	f.SetFloat("mesh-info-handle-scale", 0.75)
	f.SetBool("mesh-info-draw-wire", false)
	f.SetFloat("mesh-info-split-height", 400)
	if err := f.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := g.GetInt("mesh-info-handle-mode", 0); got != 2 {
		t.Errorf("handle mode = %d, want 2", got)
	}
	if got := g.GetFloat("mesh-info-handle-scale", 0); got != 0.75 {
		t.Errorf("handle scale = %v, want 0.75", got)
	}
	if got := g.GetBool("mesh-info-draw-wire", true); got {
		t.Error("draw wire should be false")
	}
	if got := g.GetFloat("mesh-info-split-height", 0); got != 400 {
		t.Errorf("split height = %v, want 400", got)
	}
}

func TestOpenInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("a: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.SetInt("x", 1)
	if f.GetInt("x", 0) != 1 {
		t.Error("empty file store not writable")
	}
}
