package cli

import (
	"fmt"
	"strings"

	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/editor"
)

// chip is one node's footprint on the cell grid.
type chip struct {
	id   string
	x, y int // top-left cell
	w    int // cell width including brackets
	text string
	kind domain.NodeKind
}

// layoutChips places every node on the cell grid. The layout is a pure
// function of the graph, so input handling and rendering always agree.
func layoutChips(g *domain.Graph) []chip {
	chips := make([]chip, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		text := n.Label
		if text == "" {
			text = string(n.Kind)
		}
		chips = append(chips, chip{
			id:   n.ID,
			x:    int(n.Position.X) / cellUnitsX,
			y:    int(n.Position.Y) / cellUnitsY,
			w:    len([]rune(text)) + 2,
			text: text,
			kind: n.Kind,
		})
	}
	return chips
}

// hitTest returns the id of the node covering the given screen cell, or
// "" for empty canvas. y is in screen coordinates, including the header.
func (m editorModel) hitTest(x, y int) string {
	row := y - canvasTop
	for _, c := range layoutChips(m.ctrl.Graph()) {
		if row == c.y && x >= c.x && x < c.x+c.w {
			return c.id
		}
	}
	return ""
}

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	if m.form != nil {
		return m.renderHeader() + "\n" + m.form.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m editorModel) renderHeader() string {
	title := formatter.StylePurple.Render("pbxdeck") + " " +
		formatter.Dim("›") + " " + formatter.Bold(m.flow.Name)
	if m.dirty {
		title += " " + formatter.StyleYellow.Render("*")
	}
	if m.activeCalls > 0 {
		title += "  " + formatter.StyleGreen.Render(fmt.Sprintf("☎ %d live", m.activeCalls))
	}
	if m.status != "" {
		title += "  " + m.status
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	return title + "\n" + formatter.Dim(strings.Repeat("─", width))
}

func (m editorModel) renderCanvas() string {
	width, height := m.canvasSize()
	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, width)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	chips := layoutChips(m.ctrl.Graph())
	byID := make(map[string]chip, len(chips))
	for _, c := range chips {
		byID[c.id] = c
	}

	// Edges first so chips draw over them.
	for _, conn := range m.ctrl.Graph().Connections() {
		from, okF := byID[conn.From]
		to, okT := byID[conn.To]
		if okF && okT {
			drawEdge(grid, from, to, conn.Label)
		}
	}

	selected := m.ctrl.SelectedID()
	connectFrom := m.ctrl.ConnectSource()
	for _, c := range chips {
		drawChip(grid, c, c.id == selected, c.id == connectFrom)
	}

	rows := make([]string, height)
	for i := range grid {
		rows[i] = strings.TrimRight(strings.Join(grid[i], ""), " ")
	}
	return strings.Join(rows, "\n")
}

// canvasSize derives the cell grid size from the window, falling back to
// a fixed size before the first WindowSizeMsg, and growing to fit nodes
// placed beyond the window.
func (m editorModel) canvasSize() (w, h int) {
	w, h = 80, 20
	if m.width > 0 {
		w = m.width
	}
	if m.height > canvasTop+4 {
		h = m.height - canvasTop - 3
	}
	for _, c := range layoutChips(m.ctrl.Graph()) {
		if c.x+c.w+1 > w {
			w = c.x + c.w + 1
		}
		if c.y+1 > h {
			h = c.y + 1
		}
	}
	return w, h
}

// drawChip renders one node as a bracketed chip, e.g. "[Call Start]".
func drawChip(grid [][]string, c chip, selected, connectSource bool) {
	if c.y < 0 || c.y >= len(grid) {
		return
	}
	style := formatter.NodeKindColor(c.kind)
	if selected {
		style = style.Bold(true).Reverse(true)
	}
	lb, rb := "[", "]"
	if connectSource {
		lb, rb = "(", ")"
	}
	cells := []string{lb}
	for _, r := range c.text {
		cells = append(cells, string(r))
	}
	cells = append(cells, rb)
	for i, cell := range cells {
		x := c.x + i
		if x >= 0 && x < len(grid[c.y]) {
			grid[c.y][x] = style.Render(cell)
		}
	}
}

// drawEdge draws an L-shaped path between two chips with an arrowhead at
// the destination and the connection label near the bend.
func drawEdge(grid [][]string, from, to chip, label string) {
	x1, y1 := from.x+from.w, from.y
	x2, y2 := to.x-1, to.y

	put := func(x, y int, s string) {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = formatter.Dim(s)
		}
	}

	// Horizontal run on the source row, then a vertical drop to the
	// destination row.
	step := 1
	if x2 < x1 {
		step = -1
	}
	for x := x1; x != x2; x += step {
		put(x, y1, "─")
	}
	if y1 != y2 {
		corner := "┐"
		if y2 < y1 {
			corner = "┘"
		}
		put(x2, y1, corner)
		vstep := 1
		if y2 < y1 {
			vstep = -1
		}
		for y := y1 + vstep; y != y2; y += vstep {
			put(x2, y, "│")
		}
	}
	put(x2, y2, "▶")
	if label != "" {
		for i, r := range label {
			put(x1+1+i, y1-1, string(r))
		}
	}
}

func (m editorModel) renderFooter() string {
	width := m.width
	if width < 20 {
		width = 20
	}
	var sections []string
	sections = append(sections, formatter.Dim(strings.Repeat("─", width)))

	if m.notice != "" {
		sections = append(sections, formatter.StyleYellow.Render(m.notice))
	}
	if m.showFindings {
		sections = append(sections, formatter.FormatFindings(m.findings))
	}

	hints := []string{"click: select", "drag: move", "shift+click,release: connect"}
	for _, b := range editorKeys.shortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	if m.ctrl.Mode() == editor.ModeConnecting {
		hints = []string{"release on a node to connect, elsewhere to abort"}
	}
	sections = append(sections, formatter.Dim(strings.Join(hints, "  ")))

	return strings.Join(sections, "\n")
}
