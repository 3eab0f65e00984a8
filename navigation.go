package main

func (m *model) handleNavigation(key string) {
	switch {
	case m.zPanMode:
		m.handlePan(key, panStep*m.getMoveSpeed(key))
	case m.mode == ModeNormal && isArrow(key) && m.hasSelection():
		m.handleNudge(key)
	default:
		m.handleCursorMove(key, m.getMoveSpeed(key))
		if m.mode == ModeMove {
			m.dragToCursor()
		}
	}
}

// handlePan shifts the view by step cells.
func (m *model) handlePan(key string, step int) {
	eng := m.engine()
	vp, ok := m.viewport()
	if eng == nil || !ok {
		return
	}
	s := eng.State()
	dx, dy := float64(step)/vp.fx, float64(step)/vp.fy
	switch key {
	case "h", "left", "H", "shift+left":
		eng.SetPan(s.Pan.X+dx, s.Pan.Y)
	case "l", "right", "L", "shift+right":
		eng.SetPan(s.Pan.X-dx, s.Pan.Y)
	case "k", "up", "K", "shift+up":
		eng.SetPan(s.Pan.X, s.Pan.Y+dy)
	case "j", "down", "J", "shift+down":
		eng.SetPan(s.Pan.X, s.Pan.Y-dy)
	}
}

// handleNudge moves the selection by the configured step, ten times that
// with shift.
func (m *model) handleNudge(key string) {
	step := m.config.Nudge
	if isFast(key) {
		step *= fastMultiplier
	}
	var dx, dy float64
	switch key {
	case "left", "shift+left":
		dx = -step
	case "right", "shift+right":
		dx = step
	case "up", "shift+up":
		dy = -step
	case "down", "shift+down":
		dy = step
	}
	if !m.controller().NudgeSelected(dx, dy) {
		m.errorMessage = "Nothing to move (selection is locked)"
		return
	}
	m.errorMessage = ""
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	if isFast(key) {
		return 2
	}
	return 1
}

func isFast(key string) bool {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}

func isArrow(key string) bool {
	switch key {
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}

func isNavKey(key string) bool {
	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L":
		return true
	}
	return isArrow(key)
}

func (m *model) ensureCursorInBounds() {
	top, cols, rows := m.canvasArea()
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < top {
		m.cursorY = top
	}
	if cols > 0 && m.cursorX >= cols {
		m.cursorX = cols - 1
	}
	if maxY := top + rows - 1; m.cursorY > maxY {
		m.cursorY = maxY
	}
}

func (m *model) showBufferBar() bool {
	return m.mode != ModeStartup && len(m.buffers) > 1
}

// canvasArea returns the first screen row of the canvas and its size in
// cells. The layers panel takes the right edge when it fits.
func (m *model) canvasArea() (top, cols, rows int) {
	if m.showBufferBar() {
		top = 1
	}
	cols = m.width
	if m.layersVisible() {
		cols -= layersWidth
	}
	rows = m.height - 1 - top
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return top, cols, rows
}

func (m *model) layersVisible() bool {
	return m.showLayers && m.width-layersWidth >= minCanvasCols
}

func (m *model) viewport() (viewport, bool) {
	eng := m.engine()
	if eng == nil {
		return viewport{}, false
	}
	_, cols, rows := m.canvasArea()
	return newViewport(eng.View(), cols, rows), true
}

// cursorCanvas is the canvas point under the cursor.
func (m *model) cursorCanvas() point {
	vp, ok := m.viewport()
	if !ok {
		return point{}
	}
	top, _, _ := m.canvasArea()
	x, y := vp.toCanvas(m.cursorX, m.cursorY-top)
	return point{X: x, Y: y}
}

// cursorScreen is the cursor in the engine's screen space, the anchor for
// zooming.
func (m *model) cursorScreen() point {
	vp, ok := m.viewport()
	if !ok {
		return point{}
	}
	top, _, _ := m.canvasArea()
	x, y := vp.toScreen(m.cursorX, m.cursorY-top)
	return point{X: x, Y: y}
}

func (m *model) hasSelection() bool {
	eng := m.engine()
	return eng != nil && len(eng.Selection()) > 0
}
