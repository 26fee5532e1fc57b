// Package table holds the columnar vertex data model shown by the table
// view: a column schema derived from a mesh's attributes, one row per
// vertex, and the row selection.
package table

import (
	"sort"
	"strconv"

	"github.com/Faultbox/meshinfo/internal/vertexdata"
	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// Column widths.
const (
	IndexColumnWidth = 40
	ValueColumnWidth = 74
)

var (
	vectorSuffixes = [4]string{"X", "Y", "Z", "W"}
	colorSuffixes  = [4]string{"R", "G", "B", "A"}
)

// Column is one column of the table.
type Column struct {
	Header   string
	MinWidth float32
}

// Row is one vertex. ID equals the vertex index.
type Row struct {
	ID     int
	Fields []vertexdata.Value
}

// Model is the table data. Rows are read-only once built; only the
// selection changes.
type Model struct {
	columns  []Column
	rows     []Row
	selected map[int]struct{}
}

// New creates an empty model with the given columns.
func New(columns []Column) *Model {
	return &Model{
		columns:  columns,
		selected: make(map[int]struct{}),
	}
}

// BuildColumns returns the column schema for an attribute list: an untitled
// index column followed by one column per scalar component of each
// non-blend attribute.
func BuildColumns(attrs []mesh.AttributeDescriptor) []Column {
	cols := []Column{{Header: "", MinWidth: IndexColumnWidth}}
	for _, a := range vertexdata.Included(attrs) {
		n := vertexdata.Channels(a)
		if n == 0 {
			continue
		}
		prefix := labelPrefix(a.Attribute)
		suffixes := vectorSuffixes
		if a.Attribute == mesh.Color {
			suffixes = colorSuffixes
		}
		for c := 0; c < n; c++ {
			cols = append(cols, Column{
				Header:   prefix + " [" + suffixes[c] + "]",
				MinWidth: ValueColumnWidth,
			})
		}
	}
	return cols
}

func labelPrefix(a mesh.VertexAttribute) string {
	if ch := a.UVChannel(); ch >= 0 {
		return "UV" + strconv.Itoa(ch)
	}
	return a.String()[:1]
}

// Build creates the model for a mesh: columns from its attribute layout and
// one row per vertex in index order.
func Build(src mesh.Source) *Model {
	m := New(BuildColumns(vertexdata.Layout(src)))
	for _, rec := range vertexdata.Extract(src) {
		fields := make([]vertexdata.Value, 0, len(rec)+1)
		fields = append(fields, vertexdata.Int(len(m.rows)))
		fields = append(fields, rec...)
		m.AddRow(fields)
	}
	return m
}

// AddRow appends a row and returns its ID. IDs are assigned sequentially
// from zero.
func (m *Model) AddRow(fields []vertexdata.Value) int {
	id := len(m.rows)
	m.rows = append(m.rows, Row{ID: id, Fields: fields})
	return id
}

// Columns returns the column schema.
func (m *Model) Columns() []Column { return m.columns }

// Rows returns all rows.
func (m *Model) Rows() []Row { return m.rows }

// Len returns the number of rows.
func (m *Model) Len() int { return len(m.rows) }

// Cell returns the display text of a cell, or "" when out of range.
func (m *Model) Cell(row, col int) string {
	if row < 0 || row >= len(m.rows) {
		return ""
	}
	f := m.rows[row].Fields
	if col < 0 || col >= len(f) {
		return ""
	}
	return f[col].String()
}

// Selection returns the selected row IDs in ascending order.
func (m *Model) Selection() []int {
	out := make([]int, 0, len(m.selected))
	for id := range m.selected {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// HasSelection reports whether any row is selected.
func (m *Model) HasSelection() bool { return len(m.selected) > 0 }

// IsSelected reports whether a row is selected.
func (m *Model) IsSelected(id int) bool {
	_, ok := m.selected[id]
	return ok
}

// SetSelection replaces the selection. IDs outside the row range are
// ignored.
func (m *Model) SetSelection(ids []int) {
	m.selected = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if m.valid(id) {
			m.selected[id] = struct{}{}
		}
	}
}

// Toggle flips the selection state of one row.
func (m *Model) Toggle(id int) {
	if !m.valid(id) {
		return
	}
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		return
	}
	m.selected[id] = struct{}{}
}

// ClearSelection deselects all rows.
func (m *Model) ClearSelection() {
	m.selected = make(map[int]struct{})
}

func (m *Model) valid(id int) bool {
	return id >= 0 && id < len(m.rows)
}
