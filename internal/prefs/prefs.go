// Package prefs provides the key/value preference store used to persist
// preview settings across sessions.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Store reads and writes named scalar preferences. Getters return def when
// the key is absent or holds a value of another kind.
type Store interface {
	GetFloat(key string, def float32) float32
	SetFloat(key string, v float32)
	GetBool(key string, def bool) bool
	SetBool(key string, v bool)
	GetInt(key string, def int) int
	SetInt(key string, v int)
}

// Memory is an in-memory Store. The zero value is empty and ready to use.
type Memory struct {
	values map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

func (m *Memory) GetFloat(key string, def float32) float32 {
	switch v := m.values[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		// YAML writes whole floats without a fraction.
		return float32(v)
	}
	return def
}

func (m *Memory) SetFloat(key string, v float32) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = float64(v)
}

func (m *Memory) GetBool(key string, def bool) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return def
}

func (m *Memory) SetBool(key string, v bool) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = v
}

func (m *Memory) GetInt(key string, def int) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return def
}

func (m *Memory) SetInt(key string, v int) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = v
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// File is a Store backed by a YAML file. Changes are kept in memory until
// Save is called.
type File struct {
	*Memory
	path string
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*File, error) {
	f := &File{Memory: NewMemory(), path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prefs %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("parsing prefs %s: %w", path, err)
	}
	if f.values == nil {
		f.values = make(map[string]any)
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Save writes the store back to its file.
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(f.values)
	if err != nil {
		return err
	}

	return os.WriteFile(f.path, data, 0644)
}
