package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"labelforge/internal/document"
	"labelforge/internal/element"
	"labelforge/internal/render"
)

// viewport maps canvas units to terminal cells. A screen point is
// canvas*zoom + pan, the same space the engine's pan lives in; fx and fy
// convert screen points to cells.
type viewport struct {
	fx, fy     float64
	zoom       float64
	pan        document.Point
	cols, rows int
}

func newViewport(v document.RenderView, cols, rows int) viewport {
	vp := viewport{zoom: v.Zoom, pan: v.Pan, cols: cols, rows: rows}
	if vp.zoom <= 0 {
		vp.zoom = 1
	}
	if v.CanvasWidth <= 0 || v.CanvasHeight <= 0 || cols <= 0 || rows <= 0 {
		vp.fx, vp.fy = 1, 1/cellAspect
		return vp
	}
	vp.fx = math.Min(float64(cols)/v.CanvasWidth, float64(rows)*cellAspect/v.CanvasHeight)
	vp.fy = vp.fx / cellAspect
	return vp
}

func (vp viewport) toCell(x, y float64) (int, int) {
	col := (x*vp.zoom + vp.pan.X) * vp.fx
	row := (y*vp.zoom + vp.pan.Y) * vp.fy
	return int(math.Floor(col)), int(math.Floor(row))
}

// toCanvas returns the canvas point at the centre of a cell.
func (vp viewport) toCanvas(col, row int) (float64, float64) {
	sx, sy := vp.toScreen(col, row)
	return (sx - vp.pan.X) / vp.zoom, (sy - vp.pan.Y) / vp.zoom
}

func (vp viewport) toScreen(col, row int) (float64, float64) {
	return (float64(col) + 0.5) / vp.fx, (float64(row) + 0.5) / vp.fy
}

// cellsPerUnit is how many columns one canvas unit spans.
func (vp viewport) cellsPerUnit() float64 { return vp.fx * vp.zoom }

type cellGrid [][]rune

func newCellGrid(cols, rows int) cellGrid {
	g := make(cellGrid, rows)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g cellGrid) set(col, row int, r rune) {
	if row >= 0 && row < len(g) && col >= 0 && col < len(g[row]) {
		g[row][col] = r
	}
}

func (g cellGrid) lines() []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = string(row)
	}
	return out
}

// renderCanvas draws a character preview of view. Rotation is not shown.
func renderCanvas(view document.RenderView, selected map[string]bool, cols, rows int) []string {
	return renderCanvasWith(view, selected, newViewport(view, cols, rows))
}

func renderCanvasWith(view document.RenderView, selected map[string]bool, vp viewport) []string {
	g := newCellGrid(vp.cols, vp.rows)

	// label area
	x0, y0 := vp.toCell(0, 0)
	x1, y1 := vp.toCell(view.CanvasWidth, view.CanvasHeight)
	if view.GridVisible && view.GridSize > 0 {
		for gy := view.GridSize; gy < view.CanvasHeight; gy += view.GridSize {
			for gx := view.GridSize; gx < view.CanvasWidth; gx += view.GridSize {
				c, r := vp.toCell(gx, gy)
				g.set(c, r, '.')
			}
		}
	}
	drawFrame(g, x0-1, y0-1, x1, y1, '┈', '┊', '┌', '┐', '└', '┘')

	p := &cellPainter{g: g, vp: vp}
	for _, el := range view.Elements {
		if !el.Base().Visible {
			continue
		}
		el.Accept(p)
	}
	for _, el := range view.Elements {
		c := el.Base()
		if !selected[c.ID] {
			continue
		}
		l, t := vp.toCell(c.X, c.Y)
		r, b := vp.toCell(c.X+c.Width, c.Y+c.Height)
		if c.Locked {
			drawFrame(g, l-1, t-1, r, b, '╌', '╎', '┏', '┓', '┗', '┛')
		} else {
			drawFrame(g, l-1, t-1, r, b, '═', '║', '╔', '╗', '╚', '╝')
		}
	}
	return g.lines()
}

func drawFrame(g cellGrid, l, t, r, b int, h, v, tl, tr, bl, br rune) {
	for c := l + 1; c < r; c++ {
		g.set(c, t, h)
		g.set(c, b, h)
	}
	for row := t + 1; row < b; row++ {
		g.set(l, row, v)
		g.set(r, row, v)
	}
	g.set(l, t, tl)
	g.set(r, t, tr)
	g.set(l, b, bl)
	g.set(r, b, br)
}

// shade picks a fill character for a colour: darker colours look denser,
// near-white is blank. It returns 0 for no paint.
func shade(hex string, opacity float64) rune {
	l := render.Luminance(hex)
	if l < 0 {
		return 0
	}
	density := (1 - math.Min(l, 1)) * math.Max(0, math.Min(opacity, 1))
	i := int(math.Round(density * float64(len(shades))))
	if i == 0 {
		return ' '
	}
	return shades[i-1]
}

type cellPainter struct {
	g  cellGrid
	vp viewport
}

func (p *cellPainter) box(c element.Common) (l, t, r, b int) {
	l, t = p.vp.toCell(c.X, c.Y)
	r, b = p.vp.toCell(c.X+c.Width, c.Y+c.Height)
	if r <= l {
		r = l + 1
	}
	if b <= t {
		b = t + 1
	}
	return l, t, r, b
}

func (p *cellPainter) VisitText(t *element.Text) {
	l, top, r, _ := p.box(t.Common)
	width := r - l
	row := top
	for _, line := range strings.Split(t.Content, "\n") {
		for _, chunk := range wrapRunes(line, width) {
			off := 0
			switch t.Align {
			case element.AlignCenter:
				off = (width - len(chunk)) / 2
			case element.AlignRight:
				off = width - len(chunk)
			}
			for i, ch := range chunk {
				p.g.set(l+off+i, row, ch)
			}
			row++
		}
	}
}

func wrapRunes(s string, width int) [][]rune {
	if width < 1 {
		width = 1
	}
	runes := []rune(s)
	if len(runes) == 0 {
		return [][]rune{nil}
	}
	var out [][]rune
	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, runes[:cut])
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	return append(out, runes)
}

func (p *cellPainter) VisitShape(s *element.Shape) {
	l, t, r, b := p.box(s.Common)
	fill := shade(s.Fill, s.Opacity)
	switch s.ShapeType {
	case element.ShapeRectangle:
		if fill != 0 {
			for row := t; row < b; row++ {
				for col := l; col < r; col++ {
					p.g.set(col, row, fill)
				}
			}
		}
		if st := shade(s.Stroke, s.Opacity); st != 0 && st != ' ' && s.StrokeWidth > 0 {
			corner := [4]rune{'┌', '┐', '└', '┘'}
			if s.CornerRadius > 0 {
				corner = [4]rune{'╭', '╮', '╰', '╯'}
			}
			drawFrame(p.g, l, t, r-1, b-1, '─', '│', corner[0], corner[1], corner[2], corner[3])
		}
	case element.ShapeCircle:
		if fill == 0 {
			fill = 'o'
		}
		cx, cy := float64(l+r)/2, float64(t+b)/2
		rx, ry := float64(r-l)/2, float64(b-t)/2
		for row := t; row < b; row++ {
			for col := l; col < r; col++ {
				dx := (float64(col) + 0.5 - cx) / rx
				dy := (float64(row) + 0.5 - cy) / ry
				if dx*dx+dy*dy <= 1 {
					p.g.set(col, row, fill)
				}
			}
		}
	case element.ShapeLine:
		pts := s.Points
		if len(pts) < 4 {
			pts = []float64{0, 0, s.Width, s.Height}
		}
		for i := 0; i+3 < len(pts); i += 2 {
			c0, r0 := p.vp.toCell(s.X+pts[i], s.Y+pts[i+1])
			c1, r1 := p.vp.toCell(s.X+pts[i+2], s.Y+pts[i+3])
			p.line(c0, r0, c1, r1, '•')
		}
	case element.ShapePolygon:
		if fill == 0 {
			fill = '+'
		}
		for row := t; row < b; row++ {
			for col := l; col < r; col++ {
				x, y := p.vp.toCanvas(col, row)
				if insidePolygon(s.Points, x-s.X, y-s.Y) {
					p.g.set(col, row, fill)
				}
			}
		}
	}
}

// line draws with Bresenham's algorithm.
func (p *cellPainter) line(c0, r0, c1, r1 int, ch rune) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	e := dc + dr
	for {
		p.g.set(c0, r0, ch)
		if c0 == c1 && r0 == r1 {
			return
		}
		if e2 := 2 * e; e2 >= dr {
			e += dr
			c0 += sc
		} else {
			e += dc
			r0 += sr
		}
	}
}

func insidePolygon(pts []float64, x, y float64) bool {
	n := len(pts) / 2
	in := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := pts[2*i], pts[2*i+1]
		xj, yj := pts[2*j], pts[2*j+1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			in = !in
		}
	}
	return in
}

func (p *cellPainter) VisitImage(i *element.Image) {
	l, t, r, b := p.box(i.Common)
	drawFrame(p.g, l, t, r-1, b-1, '-', '|', '+', '+', '+', '+')
	label := []rune("img:" + i.Src)
	for k, ch := range label {
		if l+1+k >= r-1 {
			break
		}
		p.g.set(l+1+k, t+(b-t)/2, ch)
	}
}

func (p *cellPainter) VisitIcon(i *element.Icon) {
	l, t, r, b := p.box(i.Common)
	name := []rune(i.IconName)
	ch := '◉'
	if len(name) > 0 {
		ch = []rune(strings.ToUpper(string(name[0])))[0]
	}
	p.g.set((l+r)/2, (t+b)/2, ch)
	if r-l >= 3 {
		p.g.set((l+r)/2-1, (t+b)/2, '(')
		p.g.set((l+r)/2+1, (t+b)/2, ')')
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var (
	layersBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	layersTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	layersGroup    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	layersSelected = lipgloss.NewStyle().Reverse(true)
	layersHidden   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// layerRows lists elements highest z first, editable before locked.
func layerRows(s *document.State) (editable, locked []element.Element) {
	ordered := s.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Base().Locked {
			locked = append(locked, ordered[i])
		} else {
			editable = append(editable, ordered[i])
		}
	}
	return editable, locked
}

func layerName(el element.Element) string {
	switch v := el.(type) {
	case *element.Text:
		name := strings.ReplaceAll(v.Content, "\n", " ")
		if name == "" {
			name = "(empty text)"
		}
		return "T " + name
	case *element.Shape:
		return "S " + string(v.ShapeType)
	case *element.Image:
		return "I " + v.Src
	case *element.Icon:
		return "◉ " + v.IconName
	}
	return el.Base().ID
}

// layerLine is one row of the layers panel. id is empty for headings.
type layerLine struct {
	id    string
	text  string
	style lipgloss.Style
}

func layerLines(s *document.State, width int) []layerLine {
	editable, locked := layerRows(s)
	lines := []layerLine{{text: fmt.Sprintf("Layers (%d)", len(s.Elements)), style: layersTitle}}

	row := func(el element.Element) layerLine {
		c := el.Base()
		mark := " "
		if !c.Visible {
			mark = "-"
		}
		l := layerLine{id: c.ID, text: truncate(fmt.Sprintf("%s %s", mark, layerName(el)), width), style: lipgloss.NewStyle()}
		switch {
		case s.IsSelected(c.ID):
			l.style = layersSelected
		case !c.Visible:
			l.style = layersHidden
		}
		return l
	}
	if len(editable) > 0 {
		lines = append(lines, layerLine{text: "Editable", style: layersGroup})
		for _, el := range editable {
			lines = append(lines, row(el))
		}
	}
	if len(locked) > 0 {
		lines = append(lines, layerLine{text: "Locked", style: layersGroup})
		for _, el := range locked {
			lines = append(lines, row(el))
		}
	}
	return lines
}

// layersInner is the text width inside the panel border and padding.
func layersInner(width int) int {
	if width-4 < 8 {
		return 8
	}
	return width - 4
}

func renderLayers(s *document.State, width, height int) string {
	inner := layersInner(width)
	lines := layerLines(s, inner)
	if limit := height - 2; limit > 1 && len(lines) > limit {
		more := len(lines) - limit + 1
		lines = append(lines[:limit-1], layerLine{text: fmt.Sprintf("… %d more", more), style: layersGroup})
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.style.Render(l.text)
	}
	return layersBorder.Width(inner + 2).Height(max(height-2, 1)).Render(strings.Join(out, "\n"))
}

// layerAt returns the element on content row of the layers panel.
func layerAt(s *document.State, width, row int) (string, bool) {
	lines := layerLines(s, layersInner(width))
	if row < 0 || row >= len(lines) || lines[row].id == "" {
		return "", false
	}
	return lines[row].id, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
