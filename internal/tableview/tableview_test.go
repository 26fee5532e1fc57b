package tableview

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Faultbox/meshinfo/internal/table"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestToggleAndClear(t *testing.T) {
	data := table.Build(mesh.Quad())
	var published [][]int
	m := New(data, Options{Height: 5, OnSelect: func(ids []int) { published = append(published, ids) }})

	m, _ = send(t, m, runes("x"))
	if !data.IsSelected(0) {
		t.Fatal("toggle did not select the cursor row")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, runes("x"))
	if got := data.Selection(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("selection = %v, want [0 1]", got)
	}
	if !strings.Contains(m.View(), selectedMark+"0") {
		t.Error("selected row not marked in the view")
	}

	m, _ = send(t, m, runes("c"))
	if data.HasSelection() {
		t.Error("clear left rows selected")
	}
	want := [][]int{{0}, {0, 1}, {}}
	if !reflect.DeepEqual(published, want) {
		t.Errorf("published = %v, want %v", published, want)
	}
	if m.Status() != "0 selected" {
		t.Errorf("status = %q", m.Status())
	}
}

func TestPreviewKey(t *testing.T) {
	data := table.Build(mesh.Quad())
	var got []int
	m := New(data, Options{OnPreview: func(ids []int) (string, error) {
		got = ids
		return "wrote preview.png", nil
	}})
	data.SetSelection([]int{3})

	m, _ = send(t, m, runes("p"))
	if !reflect.DeepEqual(got, []int{3}) || m.Status() != "wrote preview.png" {
		t.Errorf("preview got %v status %q", got, m.Status())
	}

	failing := New(data, Options{OnPreview: func([]int) (string, error) { return "", errors.New("no device") }})
	failing, _ = send(t, failing, runes("p"))
	if failing.Status() != "preview failed: no device" {
		t.Errorf("status = %q", failing.Status())
	}

	none := New(data, Options{})
	none, _ = send(t, none, runes("p"))
	if none.Status() != "preview unavailable" {
		t.Errorf("status = %q", none.Status())
	}
}

func TestQuit(t *testing.T) {
	m := New(table.Build(mesh.Quad()), Options{})
	_, cmd := send(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not quit")
	}
}

func TestStatic(t *testing.T) {
	data := table.Build(mesh.Quad())
	out := Static(data, 2)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header, 2 rows and a summary:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "P [X]") || !strings.Contains(lines[0], "UV0 [Y]") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0 ") || !strings.Contains(lines[1], "-0.5 ") {
		t.Errorf("first row = %q", lines[1])
	}
	if lines[3] != "... 2 more rows" {
		t.Errorf("summary = %q", lines[3])
	}
	if strings.Contains(Static(data, 0), "more rows") {
		t.Error("unlimited output truncated")
	}
}
