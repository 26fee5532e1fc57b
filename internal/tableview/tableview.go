// Package tableview shows a vertex table in the terminal.
package tableview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Faultbox/meshinfo/internal/table"
)

// Pixel widths of the model map to terminal cells at this ratio.
const pixelsPerCell = 7

const selectedMark = "*"

var (
	boxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
)

// Options configure the interactive view.
type Options struct {
	Title string
	// Height is the number of visible rows; zero follows the terminal.
	Height int
	// OnSelect receives the selection after every change.
	OnSelect func(ids []int)
	// OnPreview renders a preview of the selection and returns a status
	// line, such as the written file name.
	OnPreview func(ids []int) (string, error)
}

type keyMap struct {
	Toggle  key.Binding
	Clear   key.Binding
	Preview key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model of the table view.
type Model struct {
	data   *table.Model
	tbl    btable.Model
	opts   Options
	status string
}

// New creates a view over data.
func New(data *table.Model, opts Options) Model {
	tbl := btable.New(
		btable.WithColumns(columns(data)),
		btable.WithRows(rows(data)),
		btable.WithFocused(true),
		btable.WithStyles(styles()),
	)
	if opts.Height > 0 {
		tbl.SetHeight(opts.Height)
	}
	return Model{data: data, tbl: tbl, opts: opts}
}

func styles() btable.Styles {
	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}

func columns(data *table.Model) []btable.Column {
	cols := data.Columns()
	out := make([]btable.Column, len(cols))
	for i, c := range cols {
		out[i] = btable.Column{
			Title: c.Header,
			Width: max(len(c.Header), int(c.MinWidth)/pixelsPerCell),
		}
	}
	return out
}

func rows(data *table.Model) []btable.Row {
	out := make([]btable.Row, data.Len())
	ncol := len(data.Columns())
	for r, row := range data.Rows() {
		cells := make(btable.Row, ncol)
		for c := range cells {
			cells[c] = data.Cell(r, c)
		}
		if data.IsSelected(row.ID) {
			cells[0] = selectedMark + cells[0]
		}
		out[r] = cells
	}
	return out
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.opts.Height <= 0 {
			m.tbl.SetHeight(max(3, msg.Height-6))
		}
		m.tbl.SetWidth(msg.Width - 2)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			if cur := m.tbl.Cursor(); cur >= 0 && cur < m.data.Len() {
				m.data.Toggle(m.data.Rows()[cur].ID)
				m.selectionChanged()
			}
			return m, nil
		case key.Matches(msg, keys.Clear):
			m.data.ClearSelection()
			m.selectionChanged()
			return m, nil
		case key.Matches(msg, keys.Preview):
			m.status = m.preview()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) selectionChanged() {
	m.tbl.SetRows(rows(m.data))
	if m.opts.OnSelect != nil {
		m.opts.OnSelect(m.data.Selection())
	}
	m.status = fmt.Sprintf("%d selected", len(m.data.Selection()))
}

func (m *Model) preview() string {
	if m.opts.OnPreview == nil {
		return "preview unavailable"
	}
	msg, err := m.opts.OnPreview(m.data.Selection())
	if err != nil {
		return "preview failed: " + err.Error()
	}
	return msg
}

// Status returns the last status line.
func (m Model) Status() string { return m.status }

// View implements tea.Model.
func (m Model) View() string {
	help := []string{}
	for _, b := range []key.Binding{keys.Toggle, keys.Clear, keys.Preview, keys.Quit} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	status := strings.Join(help, " | ")
	if m.status != "" {
		status = m.status + "  " + status
	}
	var sections []string
	if m.opts.Title != "" {
		sections = append(sections, titleStyle.Render(m.opts.Title))
	}
	sections = append(sections, boxStyle.Render(m.tbl.View()), statusStyle.Render(status))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the interactive view and blocks until the user quits.
func Run(data *table.Model, opts Options, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(data, opts), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running table view: %w", err)
	}
	return nil
}

// Static renders up to limit rows as plain aligned text for
// non-interactive output. A limit of zero renders every row.
func Static(data *table.Model, limit int) string {
	cols := columns(data)
	n := data.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	var b strings.Builder
	write := func(cells func(c int) string) {
		for c, col := range cols {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%-*s", col.Width, cells(c))
		}
		b.WriteByte('\n')
	}
	write(func(c int) string { return cols[c].Title })
	for r := 0; r < n; r++ {
		write(func(c int) string { return data.Cell(r, c) })
	}
	if n < data.Len() {
		b.WriteString("... " + strconv.Itoa(data.Len()-n) + " more rows\n")
	}
	return b.String()
}
