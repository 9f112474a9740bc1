// Command htable is a terminal viewer for CSV and Excel files built on
// the headless table engine. Typing filters rows, left/right selects a
// column and +/- resizes it through simulated pointer drags, so the
// full plugin surface is exercised from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	fs "github.com/ungerik/go-fs"

	htable "github.com/pheuter/go-headless-table"
	"github.com/pheuter/go-headless-table/csvsource"
	"github.com/pheuter/go-headless-table/excelsource"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// termTarget is the terminal's stand-in for the environment's global
// event surface: drags registered by the resize plugin are dispatched
// back through it.
type termTarget struct {
	listeners map[string]func(*htable.PointerEvent)
}

func newTermTarget() *termTarget {
	return &termTarget{listeners: map[string]func(*htable.PointerEvent){}}
}

func (t *termTarget) AddListener(event string, fn func(*htable.PointerEvent)) {
	t.listeners[event] = fn
}

func (t *termTarget) RemoveListener(event string) {
	delete(t.listeners, event)
}

func (t *termTarget) dispatch(event string, ev *htable.PointerEvent) {
	if fn, ok := t.listeners[event]; ok {
		fn(ev)
	}
}

// termNode backs one header cell. Its width is synced from the resize
// plugin before a drag ends, so the end-of-drag resync from rendered
// widths keeps the dragged value.
type termNode struct {
	width float64
}

func (n *termNode) RenderedWidth() float64 { return n.width }

type model struct {
	path   string
	width  int
	height int
	err    error

	table   *htable.Table[[]string]
	filter  *htable.FilterPlugin[[]string]
	resize  *htable.ResizePlugin[[]string]
	target  *termTarget
	nodes   map[htable.ColumnID]*termNode
	headers []htable.FlatHeaderCell

	cursor  int
	scrollY int
}

func initialModel(path string) (model, error) {
	m := model{path: path, nodes: map[htable.ColumnID]*termNode{}}

	source, err := loadSource(path)
	if err != nil {
		return m, err
	}

	m.target = newTermTarget()
	m.filter = htable.NewFilterPlugin[[]string](htable.FilterOptions{})
	m.resize = htable.NewResizePlugin[[]string](m.target)
	m.table = source.NewTable(htable.WithPlugins[[]string](m.resize, m.filter))

	// mount every flat header cell with an initial width derived from
	// its title, seeding the resize plugin's width state
	for _, row := range m.table.HeaderRows() {
		for _, cell := range row.Cells {
			flat, ok := cell.(htable.FlatHeaderCell)
			if !ok || flat.Header == "" {
				continue
			}
			node := &termNode{width: initialWidth(flat.Header)}
			m.nodes[flat.ID] = node
			props := m.table.HeaderOutput(flat).Props.Get()
			if mount, ok := props["mount"].(func(htable.VisualNode) func()); ok {
				mount(node)
			}
			m.headers = append(m.headers, flat)
		}
	}
	return m, nil
}

func loadSource(path string) (*csvsource.Source, error) {
	file := fs.File(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltm", ".xltx":
		return excelsource.LoadFirstSheet(context.Background(), file, excelsource.Options{})
	default:
		return csvsource.Load(context.Background(), file)
	}
}

func initialWidth(header string) float64 {
	w := float64(len(header) + 2)
	if w < 6 {
		w = 6
	}
	return w
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right":
		if m.cursor < len(m.headers)-1 {
			m.cursor++
		}
	case "up":
		if m.scrollY > 0 {
			m.scrollY--
		}
	case "down":
		m.scrollY++
	case "+", ">":
		m.resizeSelected(4)
	case "-", "<":
		m.resizeSelected(-4)
	case "backspace":
		m.filter.Value().Update(func(v string) string {
			if v == "" {
				return v
			}
			return v[:len(v)-1]
		})
		m.scrollY = 0
	default:
		if s := msg.String(); len(s) == 1 || s == " " {
			m.filter.Value().Update(func(v string) string { return v + s })
			m.scrollY = 0
		}
	}
	return m, nil
}

// resizeSelected widens or narrows the selected column by simulating
// a pointer drag: start on the header cell, one move by delta, then
// release through the global event surface.
func (m *model) resizeSelected(delta float64) {
	if m.cursor >= len(m.headers) {
		return
	}
	cell := m.headers[m.cursor]
	props := m.table.HeaderOutput(cell).Props.Get()
	drag, ok := props["drag"].(func(*htable.PointerEvent))
	if !ok {
		return
	}
	drag(&htable.PointerEvent{Device: htable.Mouse, ClientX: 0})
	m.target.dispatch("mousemove", &htable.PointerEvent{Device: htable.Mouse, ClientX: delta})

	// sync the nodes before release so the end-of-drag resync from
	// rendered widths keeps the dragged values
	for id, width := range m.resize.ColumnWidths().Get() {
		if node, ok := m.nodes[id]; ok {
			node.width = width
		}
	}
	m.target.dispatch("mouseup", &htable.PointerEvent{Device: htable.Mouse, ClientX: delta})
}

func (m model) columnWidth(id htable.ColumnID) int {
	if w, ok := m.resize.ColumnWidths().Get()[id]; ok && w >= 1 {
		return int(w)
	}
	return 6
}

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" " + filepath.Base(m.path)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(" error: "+m.err.Error()) + "\n")
	}

	filterValue := m.filter.Value().Get()
	b.WriteString(statusStyle.Render(" filter: "+filterValue) + dimStyle.Render("_") + "\n")

	// header
	for i, cell := range m.headers {
		w := m.columnWidth(cell.ID)
		text := clip(cell.Header, w)
		rendered := fmt.Sprintf(" %-*s ", w, text)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(rendered))
		} else {
			b.WriteString(headerStyle.Render(rendered))
		}
		if i < len(m.headers)-1 {
			b.WriteString(dimStyle.Render("|"))
		}
	}
	b.WriteString("\n")

	rows := htable.FlattenRows(m.table.Rows().Get())

	dataHeight := m.height - 6
	if dataHeight < 1 {
		dataHeight = 1
	}
	scrollY := m.scrollY
	if scrollY > len(rows)-dataHeight {
		scrollY = len(rows) - dataHeight
	}
	if scrollY < 0 {
		scrollY = 0
	}
	endRow := scrollY + dataHeight
	if endRow > len(rows) {
		endRow = len(rows)
	}

	for _, row := range rows[scrollY:endRow] {
		for i, cell := range row.Cells {
			if i >= len(m.headers) {
				break
			}
			w := m.columnWidth(m.headers[i].ID)
			text := clip(fmt.Sprint(cell.Value()), w)
			rendered := fmt.Sprintf(" %-*s ", w, text)

			props := m.table.BodyOutput(cell).Props.Get()
			if matches, _ := props["matches"].(bool); matches {
				b.WriteString(matchStyle.Render(rendered))
			} else {
				b.WriteString(rendered)
			}
			if i < len(row.Cells)-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf(" %d rows", len(rows))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(" type to filter  ←/→ column  +/- resize  ↑/↓ scroll  esc quit"))
	return b.String()
}

// clip truncates by runes so multi-byte text is never cut mid-rune.
func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width && width > 1 {
		return string(runes[:width-1]) + "."
	}
	return s
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: htable <file.csv|file.xlsx>")
		os.Exit(1)
	}

	m, err := initialModel(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
