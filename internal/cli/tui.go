package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/keymap"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/node"
	"github.com/matzehuels/nodedesign/pkg/panel"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

// Canvas styles
var (
	canvasNodeStyle     = lipgloss.NewStyle().Foreground(colorGray)
	canvasSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	canvasCursorStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	canvasPanelStyle    = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("236"))
	statusErrStyle      = lipgloss.NewStyle().Foreground(colorRed)
)

// Default terminal size until the first WindowSizeMsg arrives.
const (
	defaultTermWidth  = 80
	defaultTermHeight = 24
)

// =============================================================================
// EditModel - Interactive workflow editor
// =============================================================================

// EditModel is the bubbletea model of the terminal editor. The canvas shows
// the workflow scaled to the terminal; the floating toolbar lists the
// layout bindings and follows the panel state machine.
type EditModel struct {
	Doc    *workflow.Document
	Engine *layout.Engine
	Panel  *panel.Panel

	// Save writes the document; ctrl+s calls it.
	Save func(*workflow.Document) error

	cursor    int
	width     int
	height    int
	status    string
	statusErr bool
	savedRev  int
	confirmQ  bool
	help      []string
}

// NewEditModel creates an editor over doc. The toolbar is sized to its
// content.
func NewEditModel(doc *workflow.Document, engine *layout.Engine, p *panel.Panel) *EditModel {
	m := &EditModel{
		Doc:      doc,
		Engine:   engine,
		Panel:    p,
		width:    defaultTermWidth,
		height:   defaultTermHeight,
		savedRev: doc.Revision(),
		help:     toolbarLines(),
	}
	p.Width = float64(toolbarWidth(m.help))
	p.Height = float64(len(m.help))
	p.ViewWidth = float64(m.width)
	p.ViewHeight = float64(m.height)
	return m
}

// Dirty reports whether the document changed since the last save.
func (m *EditModel) Dirty() bool { return m.Doc.Revision() != m.savedRev }

// Status returns the status line message.
func (m *EditModel) Status() string { return m.status }

func (m *EditModel) Init() tea.Cmd { return nil }

func (m *EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.Panel.ViewWidth = float64(msg.Width)
		m.Panel.ViewHeight = float64(msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *EditModel) handleKey(key string) tea.Cmd {
	if key != "q" {
		m.confirmQ = false
	}
	nodes := m.Doc.Nodes()
	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		if m.Dirty() && !m.confirmQ {
			m.confirmQ = true
			m.warn("Unsaved changes: press q again to quit, ctrl+s to save")
			return nil
		}
		return tea.Quit
	case "up", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "tab":
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}
	case " ", "space", "enter":
		if len(nodes) > 0 {
			m.Doc.Toggle(nodes[m.cursor].ID)
		}
	case "a":
		m.Doc.SelectAll()
	case "esc":
		m.Doc.Select()
	case "p":
		if err := m.Panel.ToggleMode(); err != nil {
			m.fail(fmt.Errorf("save panel: %w", err))
			return nil
		}
		m.info("Toolbar: %s", panelMode(m.Panel))
	case "ctrl+s":
		m.save()
	default:
		m.dispatch(key)
	}
	return nil
}

// dispatch runs the editor action bound to key, if any.
func (m *EditModel) dispatch(key string) {
	chord, ok := keymap.Parse(key)
	if !ok {
		return
	}
	action, ok := keymap.Resolve(chord)
	if !ok {
		return
	}
	switch action {
	case keymap.Undo:
		name, _ := m.Engine.History().PeekUndo()
		if m.Engine.Undo() {
			m.info("Undid %s", name)
		} else {
			m.fail(m.Engine.LastError())
		}
	case keymap.Redo:
		name, _ := m.Engine.History().PeekRedo()
		if m.Engine.Redo() {
			m.info("Redid %s", name)
		} else {
			m.fail(m.Engine.LastError())
		}
	default:
		op, _ := action.Operation()
		if m.Engine.Apply(op) {
			m.info("%s: %d nodes", op.Title(), len(m.Doc.Selection()))
		} else {
			m.fail(m.Engine.LastError())
		}
	}
}

func (m *EditModel) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.Panel.Visible && m.onToolbar(msg.X, msg.Y) {
			m.Panel.DragStart(panel.PrimaryButton, x, y)
			return
		}
		if i, ok := m.hit(msg.X, msg.Y); ok {
			m.cursor = i
			m.Doc.Toggle(m.Doc.Nodes()[i].ID)
		}
		m.Panel.OnCanvasClick(len(m.Doc.Selection()), x, y)
	case tea.MouseActionMotion:
		m.Panel.DragMove(x, y)
	case tea.MouseActionRelease:
		if !m.Panel.Dragging() {
			return
		}
		if err := m.Panel.DragEnd(panel.PrimaryButton); err != nil {
			m.fail(fmt.Errorf("save panel: %w", err))
		}
	}
}

func (m *EditModel) save() {
	if m.Save == nil {
		return
	}
	if err := m.Save(m.Doc); err != nil {
		m.fail(err)
		return
	}
	m.savedRev = m.Doc.Revision()
	m.info("Saved")
}

func (m *EditModel) info(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *EditModel) warn(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m *EditModel) fail(err error) {
	if err == nil {
		return
	}
	m.warn(errors.UserMessage(err))
}

func (m *EditModel) onToolbar(x, y int) bool {
	px, py := int(m.Panel.X), int(m.Panel.Y)
	return x >= px && x < px+int(m.Panel.Width) && y >= py && y < py+int(m.Panel.Height)
}

// hit returns the index of the topmost node drawn at cell (x, y).
func (m *EditModel) hit(x, y int) (int, bool) {
	nodes := m.Doc.Nodes()
	v := m.viewport(nodes)
	for i := len(nodes) - 1; i >= 0; i-- {
		x0, y0, x1, y1 := v.rect(nodes[i])
		if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
			return i, true
		}
	}
	return 0, false
}

// =============================================================================
// View
// =============================================================================

func (m *EditModel) View() string {
	nodes := m.Doc.Nodes()
	c := newCanvas(m.width, m.height)

	c.text(0, 0, m.header(), cellTitle)

	v := m.viewport(nodes)
	for i, n := range nodes {
		st := cellNode
		if m.Doc.IsSelected(n.ID) {
			st = cellSelected
		}
		if i == m.cursor {
			st = cellCursor
		}
		x0, y0, x1, y1 := v.rect(n)
		c.box(x0, y0, x1, y1, st)
		c.text(x0+1, y0+min(1, y1-y0), n.Label(), st, max(x1-x0-1, 0))
	}

	if m.Panel.Visible {
		px, py := int(m.Panel.X), int(m.Panel.Y)
		w := int(m.Panel.Width)
		for i, line := range m.help {
			c.text(px, py+i, fmt.Sprintf("%-*s", w, line), cellPanel, w)
		}
	}

	status := m.status
	st := cellStatus
	if m.statusErr {
		st = cellError
	}
	c.text(0, m.height-2, status, st)
	c.text(0, m.height-1, "↑/↓ move  space select  a all  esc none  p toolbar  ctrl+s save  q quit", cellDim)
	return c.render()
}

func (m *EditModel) header() string {
	parts := []string{
		fmt.Sprintf("%d nodes", len(m.Doc.Nodes())),
		fmt.Sprintf("%d selected", len(m.Doc.Selection())),
	}
	if name, ok := m.Engine.History().PeekUndo(); ok {
		parts = append(parts, "undo: "+name)
	}
	if name, ok := m.Engine.History().PeekRedo(); ok {
		parts = append(parts, "redo: "+name)
	}
	if m.Dirty() {
		parts = append(parts, "modified")
	}
	return strings.Join(parts, " · ")
}

func panelMode(p *panel.Panel) string {
	if p.Permanent {
		return "permanent"
	}
	return "on selection"
}

// toolbarLines lists the toolbar rows: a title, then one row per binding.
func toolbarLines() []string {
	lines := []string{" Layout"}
	for _, b := range keymap.Help() {
		label := string(b.Action)
		if op, ok := b.Action.Operation(); ok {
			label = op.Title()
		}
		lines = append(lines, fmt.Sprintf(" %-6s %s ", b.Keys, label))
	}
	return lines
}

func toolbarWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

// viewport maps canvas coordinates onto terminal cells between the header
// and the two status rows.
type viewport struct {
	minX, minY float64
	sx, sy     float64
	top        int
}

func (m *EditModel) viewport(nodes []*node.Node) viewport {
	v := viewport{top: 1, sx: 1, sy: 1}
	if len(nodes) == 0 {
		return v
	}
	b := node.Bounds(nodes)
	cols := float64(max(m.width-1, 1))
	rows := float64(max(m.height-4, 1))
	v.minX, v.minY = b.Min.X(), b.Min.Y()
	v.sx = cols / math.Max(b.Width(), 1)
	v.sy = rows / math.Max(b.Height(), 1)
	return v
}

func (v viewport) rect(n *node.Node) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor((n.Pos.X() - v.minX) * v.sx))
	y0 = v.top + int(math.Floor((n.Pos.Y()-v.minY)*v.sy))
	x1 = x0 + max(int(math.Round(n.Size.X()*v.sx)), 1) - 1
	y1 = y0 + max(int(math.Round(n.Size.Y()*v.sy)), 1) - 1
	return x0, y0, x1, y1
}

// =============================================================================
// Canvas
// =============================================================================

type cellStyle uint8

const (
	cellBlank cellStyle = iota
	cellTitle
	cellNode
	cellSelected
	cellCursor
	cellPanel
	cellStatus
	cellError
	cellDim
)

var cellStyles = map[cellStyle]lipgloss.Style{
	cellTitle:    StyleTitle,
	cellNode:     canvasNodeStyle,
	cellSelected: canvasSelectedStyle,
	cellCursor:   canvasCursorStyle,
	cellPanel:    canvasPanelStyle,
	cellStatus:   StyleSuccess,
	cellError:    statusErrStyle,
	cellDim:      StyleDim,
}

type cell struct {
	r  rune
	st cellStyle
}

// canvas is a clipped grid of styled runes.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st cellStyle) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, st: st}
}

// text writes s from (x, y), truncated to limit runes when limit is given.
func (c *canvas) text(x, y int, s string, st cellStyle, limit ...int) {
	n := -1
	if len(limit) > 0 {
		n = limit[0]
	}
	for i, r := range []rune(s) {
		if n >= 0 && i >= n {
			return
		}
		c.set(x+i, y, r, st)
	}
}

// box draws a frame, or a bar when the area is a single row or column.
func (c *canvas) box(x0, y0, x1, y1 int, st cellStyle) {
	switch {
	case y0 == y1:
		for x := x0; x <= x1; x++ {
			c.set(x, y0, '▬', st)
		}
		return
	case x0 == x1:
		for y := y0; y <= y1; y++ {
			c.set(x0, y, '▮', st)
		}
		return
	}
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', st)
		c.set(x, y1, '─', st)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', st)
		c.set(x1, y, '│', st)
	}
	c.set(x0, y0, '┌', st)
	c.set(x1, y0, '┐', st)
	c.set(x0, y1, '└', st)
	c.set(x1, y1, '┘', st)
}

func (c *canvas) render() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < len(row); {
			st := row[x].st
			var run strings.Builder
			for ; x < len(row) && row[x].st == st; x++ {
				run.WriteRune(row[x].r)
			}
			if style, ok := cellStyles[st]; ok {
				b.WriteString(style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
		}
	}
	return b.String()
}
