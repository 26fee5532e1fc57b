package table

import (
	"testing"

	"github.com/Faultbox/meshinfo/internal/vertexdata"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

func headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func TestBuildQuadScenario(t *testing.T) {
	m := Build(mesh.Quad())

	want := []string{"", "P [X]", "P [Y]", "P [Z]", "N [X]", "N [Y]", "N [Z]",
		"C [R]", "C [G]", "C [B]", "C [A]", "UV0 [X]", "UV0 [Y]"}
	got := headers(m.Columns())
	if len(got) != len(want) {
		t.Fatalf("columns = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
	if m.Columns()[0].MinWidth != IndexColumnWidth || m.Columns()[1].MinWidth != ValueColumnWidth {
		t.Errorf("unexpected widths %v / %v", m.Columns()[0].MinWidth, m.Columns()[1].MinWidth)
	}
	if m.Len() != 4 {
		t.Errorf("rows = %d, want 4", m.Len())
	}
}

func TestRowsMatchVertices(t *testing.T) {
	sources := []mesh.Source{mesh.Quad(), mesh.Cube(1), mesh.Cube(4)}
	for _, src := range sources {
		m := Build(src)
		if m.Len() != src.VertexCount() {
			t.Errorf("%s: rows = %d, want %d", src.Name(), m.Len(), src.VertexCount())
		}
		for i, r := range m.Rows() {
			if r.ID != i {
				t.Errorf("%s: row %d has ID %d", src.Name(), i, r.ID)
			}
			if r.Fields[0] != vertexdata.Int(i) {
				t.Errorf("%s: row %d first field = %v", src.Name(), i, r.Fields[0])
			}
			if len(r.Fields) != len(m.Columns()) {
				t.Errorf("%s: row %d has %d fields, %d columns", src.Name(), i, len(r.Fields), len(m.Columns()))
			}
		}
	}
}

func TestBuildColumnsCount(t *testing.T) {
	tests := []struct {
		name  string
		attrs []mesh.AttributeDescriptor
		want  int
	}{
		{"empty", nil, 0},
		{"position", []mesh.AttributeDescriptor{{Attribute: mesh.Position, Dimension: 3}}, 3},
		{"rgb color", []mesh.AttributeDescriptor{{Attribute: mesh.Color, Dimension: 3}}, 4},
		{"blend only", []mesh.AttributeDescriptor{
			{Attribute: mesh.BlendWeight, Dimension: 4},
			{Attribute: mesh.BlendIndices, Dimension: 4},
		}, 0},
		{"mixed", []mesh.AttributeDescriptor{
			{Attribute: mesh.Position, Dimension: 3},
			{Attribute: mesh.Tangent, Dimension: 4},
			{Attribute: mesh.BlendWeight, Dimension: 4},
			{Attribute: mesh.TexCoord3, Dimension: 3},
			{Attribute: mesh.TexCoord1, Dimension: 4},
		}, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := BuildColumns(tt.attrs)
			if got := len(cols) - 1; got != tt.want {
				t.Errorf("value columns = %d, want %d", got, tt.want)
			}
			if cols[0].Header != "" {
				t.Errorf("index header = %q", cols[0].Header)
			}
		})
	}
}

func TestBuildColumnsLabels(t *testing.T) {
	cols := BuildColumns([]mesh.AttributeDescriptor{
		{Attribute: mesh.Tangent, Dimension: 4},
		{Attribute: mesh.TexCoord7, Dimension: 3},
	})
	want := []string{"", "T [X]", "T [Y]", "T [Z]", "T [W]", "UV7 [X]", "UV7 [Y]", "UV7 [Z]"}
	got := headers(cols)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	c := mesh.Cube(3)
	a, b := Build(c), Build(c)
	if len(a.Columns()) != len(b.Columns()) || a.Len() != b.Len() {
		t.Fatal("shape differs between builds")
	}
	for i := range a.Columns() {
		if a.Columns()[i] != b.Columns()[i] {
			t.Errorf("column %d differs", i)
		}
	}
	for i := 0; i < a.Len(); i++ {
		for j := range a.Columns() {
			if a.Cell(i, j) != b.Cell(i, j) {
				t.Fatalf("cell (%d,%d) differs", i, j)
			}
		}
	}
}

func TestSelection(t *testing.T) {
	m := Build(mesh.Quad())
	if m.HasSelection() || len(m.Selection()) != 0 {
		t.Fatal("new model should have no selection")
	}

	m.SetSelection([]int{2, 0, 9, -1})
	got := m.Selection()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Selection() = %v, want [0 2]", got)
	}

	m.Toggle(2)
	m.Toggle(3)
	m.Toggle(40)
	got = m.Selection()
	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("after toggle = %v, want [0 3]", got)
	}
	if !m.IsSelected(3) || m.IsSelected(2) {
		t.Error("IsSelected mismatch")
	}

	m.ClearSelection()
	if m.HasSelection() {
		t.Error("selection not cleared")
	}
}

func TestCell(t *testing.T) {
	m := Build(mesh.Quad())
	if got := m.Cell(1, 0); got != "1" {
		t.Errorf("index cell = %q", got)
	}
	if got := m.Cell(1, 1); got != "0.5" {
		t.Errorf("position cell = %q", got)
	}
	if m.Cell(10, 0) != "" || m.Cell(0, 99) != "" {
		t.Error("out of range cells should be empty")
	}
}

func TestAddRowSequentialIDs(t *testing.T) {
	m := New(BuildColumns(nil))
	for i := 0; i < 3; i++ {
		if id := m.AddRow([]vertexdata.Value{vertexdata.Int(i)}); id != i {
			t.Errorf("AddRow id = %d, want %d", id, i)
		}
	}
}
