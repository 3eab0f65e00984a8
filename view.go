package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"labelforge/internal/export"
	"labelforge/internal/templates"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	menuStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 3)
	menuSelected = lipgloss.NewStyle().Reverse(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (m model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	if m.mode == ModeStartup {
		return m.startupView()
	}

	top, cols, rows := m.canvasArea()
	var body []string
	switch {
	case m.mode == ModeFileInput && m.fileOp == FileOpOpen,
		m.mode == ModeConfirm && m.confirmAction == ConfirmDeleteLabel:
		body = m.fileListView(cols, rows)
	case m.mode == ModeTemplates:
		body = m.templatesView(cols, rows)
	case m.mode == ModeSize:
		body = m.sizeView(rows)
	case m.mode == ModeProperties, m.mode == ModePropertyValue:
		body = m.propertiesView(rows)
	default:
		body = m.canvasView(top, cols, rows)
	}
	for len(body) < rows {
		body = append(body, "")
	}
	body = body[:rows]

	block := strings.Join(body, "\n")
	if ctl := m.controller(); ctl != nil && m.layersVisible() {
		block = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(cols).Render(block),
			renderLayers(ctl.State(), layersWidth, rows))
	}

	var result strings.Builder
	if m.showBufferBar() {
		result.WriteString(m.renderBufferBar(m.width))
		result.WriteString("\n")
	}
	result.WriteString(block)
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) canvasView(top, cols, rows int) []string {
	ctl := m.controller()
	if ctl == nil {
		return nil
	}
	s := ctl.State()
	selected := make(map[string]bool, len(s.Selected))
	for _, id := range s.Selected {
		selected[id] = true
	}
	lines := renderCanvas(s.View(), selected, cols, rows)

	cy := m.cursorY - top
	if m.mode != ModeFileInput && cy >= 0 && cy < len(lines) {
		line := []rune(lines[cy])
		if m.cursorX >= 0 && m.cursorX < len(line) {
			line[m.cursorX] = '█'
			lines[cy] = string(line)
		}
	}
	return lines
}

func (m *model) renderBufferBar(width int) string {
	var bar strings.Builder
	bar.WriteString("Open labels: ")
	for i := range m.buffers {
		buf := &m.buffers[i]
		if i > 0 {
			bar.WriteString(" | ")
		}
		name := buf.name
		if name == "" {
			name = fmt.Sprintf("Untitled %d", i+1)
		}
		if buf.dirty() {
			name += "*"
		}
		if i == m.currentBufferIndex {
			name = "[" + name + "]"
		}
		bar.WriteString(name)
	}
	return truncate(bar.String(), width)
}

func (m model) modeString() string {
	switch m.mode {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		if m.zPanMode {
			return "PAN"
		}
		return "NORMAL"
	case ModeTextInput:
		return "TEXT"
	case ModeEditing:
		return "EDIT"
	case ModeMove:
		return "MOVE"
	case ModeResize:
		return "RESIZE"
	case ModeProperties, ModePropertyValue:
		return "PROPS"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeTemplates:
		return "TEMPLATES"
	case ModeSize:
		return "SIZE"
	default:
		return "UNKNOWN"
	}
}

// inputLine shows the input buffer with a cursor.
func (m model) inputLine() string {
	runes := []rune(strings.ReplaceAll(m.editText, "\n", "⏎"))
	pos := m.editCursorPos
	if pos > len(runes) {
		pos = len(runes)
	}
	return string(runes[:pos]) + "│" + string(runes[pos:])
}

func (m model) statusLine() string {
	var status string
	switch m.mode {
	case ModeTextInput:
		status = "New text: " + m.inputLine() + "  (Enter add, Alt+Enter newline, Esc cancel)"
	case ModeEditing:
		status = "Edit text: " + m.inputLine() + "  (Enter save, Alt+Enter newline, Esc cancel)"
	case ModeFileInput:
		switch m.fileOp {
		case FileOpSave:
			status = "Save as: " + m.inputLine()
		case FileOpExport:
			status = fmt.Sprintf("Export %s as: %s", exportFormatName(m.exportFormat), m.inputLine())
		default:
			status = "Enter open, D delete, Esc cancel"
		}
	case ModeResize:
		status = "Resize: h/j/k/l size (Shift faster), , . rotate, Enter done, Esc cancel"
	case ModePropertyValue:
		if f, ok := m.currentProperty(); ok {
			status = f.label + ": " + m.inputLine() + "  (Enter apply, Esc back)"
		}
	case ModeConfirm:
		status = m.confirmPrompt()
	default:
		status = m.summary()
	}

	switch {
	case m.errorMessage != "":
		status += "  " + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		status += "  " + successStyle.Render(m.successMessage)
	}
	return statusStyle.Width(max(m.width, 1)).MaxWidth(max(m.width, 1)).Render(status)
}

func (m model) summary() string {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return m.modeString()
	}
	s := buf.engine().State()
	name := buf.name
	if name == "" {
		name = "untitled"
	}
	if buf.dirty() {
		name += "*"
	}
	parts := []string{
		m.modeString(),
		name,
		templates.SizeKeyFor(s.CanvasWidth, s.CanvasHeight),
		fmt.Sprintf("%d%%", int(s.Zoom*100+0.5)),
		fmt.Sprintf("%d/%d sel", len(s.Selected), len(s.Elements)),
	}
	if s.GridVisible {
		parts = append(parts, "grid")
	}
	if s.SnapToGrid {
		parts = append(parts, "snap")
	}
	if n := m.controller().Clipboard(); n > 0 {
		parts = append(parts, fmt.Sprintf("clip %d", n))
	}
	if g, ok := m.gate.(*export.CreditGate); ok {
		parts = append(parts, fmt.Sprintf("credits %d", g.Remaining()))
	}
	return strings.Join(parts, " │ ") + "  ? help"
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Unsaved changes. Quit anyway? (y/n)"
	case ConfirmNewLabel:
		return "Discard changes and start a new label? (y/n)"
	case ConfirmCloseBuffer:
		return "Close this label without saving? (y/n)"
	case ConfirmDeleteLabel:
		if m.selectedFileIndex >= 0 && m.selectedFileIndex < len(m.fileList) {
			return fmt.Sprintf("Delete %q? (y/n)", m.fileList[m.selectedFileIndex].Name)
		}
		return "Delete label? (y/n)"
	case ConfirmOverwriteLabel:
		return fmt.Sprintf("A label named %q exists. Save another? (y/n)", m.filename)
	case ConfirmChooseExportType:
		var opts []string
		for _, f := range exportFormatKeys {
			opts = append(opts, fmt.Sprintf("(%s) %s", f.key, f.label))
		}
		return "Export as: " + strings.Join(opts, "  ") + "  Esc cancel"
	}
	return ""
}

func (m model) startupView() string {
	var items []string
	for i, item := range startupMenu {
		line := fmt.Sprintf(" %s  %s ", startupKeys[i], item)
		if i == m.menuIndex {
			line = menuSelected.Render(line)
		}
		items = append(items, line)
	}
	menu := menuStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("LabelForge"),
		dimStyle.Render("Design printable labels in your terminal"),
		"",
		strings.Join(items, "\n"),
	))
	if m.width <= 0 || m.height <= 0 {
		return menu
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, menu)
}

func (m model) fileListView(cols, rows int) []string {
	lines := []string{titleStyle.Render("Select a saved label:"), strings.Repeat("─", cols)}
	if len(m.fileList) == 0 {
		return append(lines, "(No saved labels yet)")
	}
	maxFiles := rows - len(lines)
	if maxFiles < 1 {
		maxFiles = 1
	}
	start := 0
	if m.selectedFileIndex >= maxFiles {
		start = m.selectedFileIndex - maxFiles + 1
	}
	end := min(start+maxFiles, len(m.fileList))
	for i := start; i < end; i++ {
		f := m.fileList[i]
		line := fmt.Sprintf("  %-28s %-10s %-5s %s",
			truncate(f.Name, 28), f.SizeKey, f.Format, f.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if i == m.selectedFileIndex {
			line = menuSelected.Render(truncate(line, cols))
		}
		lines = append(lines, line)
	}
	return lines
}

func (m model) templatesView(cols, rows int) []string {
	category := "All"
	if m.templateCategory >= 0 && m.templateCategory < len(templates.Categories) {
		category = templates.Categories[m.templateCategory].Name
	}
	lines := []string{
		titleStyle.Render("Templates: "+category) + dimStyle.Render("  (Tab category, Enter use, Esc back)"),
		strings.Repeat("─", cols),
	}
	list := m.templateList()
	if len(list) == 0 {
		return append(lines, "(No templates in this category)")
	}
	for i, t := range list {
		line := fmt.Sprintf("  %-20s %-10s %-12s %s", t.Name, t.Size, t.Difficulty, t.Description)
		line = truncate(line, cols)
		if i == m.menuIndex {
			line = menuSelected.Render(line)
		}
		lines = append(lines, line)
		if len(lines) >= rows {
			break
		}
	}
	return lines
}

func (m model) sizeView(rows int) []string {
	lines := []string{titleStyle.Render("Label size") + dimStyle.Render("  (Enter apply, Esc back)"), ""}
	current := ""
	if buf := m.getCurrentBuffer(); buf != nil {
		s := buf.engine().State()
		current = templates.SizeKeyFor(s.CanvasWidth, s.CanvasHeight)
	}
	for i, size := range templates.LabelSizes {
		mark := " "
		if size.Key == current {
			mark = "•"
		}
		line := fmt.Sprintf(" %s %-10s %s", mark, size.Key, size.Label)
		if i == m.menuIndex {
			line = menuSelected.Render(line)
		}
		lines = append(lines, line)
		if len(lines) >= rows {
			break
		}
	}
	return lines
}

func (m model) propertiesView(rows int) []string {
	lines := []string{titleStyle.Render("Properties") + dimStyle.Render("  (Enter or key edit, Esc done)"), ""}
	el, ok := m.propertyElement()
	if !ok {
		return lines
	}
	lines[0] = titleStyle.Render("Properties: "+layerName(el)) + dimStyle.Render("  (Enter or key edit, Esc done)")
	for i, f := range fieldsFor(el) {
		cur, _ := f.get(el)
		if cur == "" {
			cur = dimStyle.Render("none")
		}
		line := fmt.Sprintf(" %s  %-13s %s", f.key, f.label, cur)
		if i == m.menuIndex {
			line = menuSelected.Render(line)
		}
		lines = append(lines, line)
		if len(lines) >= rows {
			break
		}
	}
	return lines
}

var helpLines = []string{
	"LabelForge Help",
	"===============",
	"",
	"Navigation:",
	"-----------",
	"  h/j/k/l          Move cursor (H/J/K/L faster)",
	"  arrows           Move cursor, or nudge the selection (Shift: 10x)",
	"  z                Toggle pan mode; movement keys then pan the view",
	"  + / -            Zoom to next preset around the cursor",
	"  0                Reset zoom and pan",
	"  mouse wheel      Zoom around the pointer",
	"",
	"Selection:",
	"----------",
	"  Space/Enter      Select element under cursor (empty space clears)",
	"  a                Add element under cursor to selection",
	"  Ctrl+A           Select all",
	"  Esc              Clear selection",
	"  mouse            Click to select, Shift+click to add, drag to move",
	"",
	"Elements:",
	"---------",
	"  t                New text at cursor",
	"  e                Edit text under cursor",
	"  r / c / / / i    New rectangle, circle, line, icon",
	"  Ctrl+T           New text from the system clipboard",
	"  m                Move element under cursor (Enter drop, Esc cancel)",
	"  R                Resize/rotate element under cursor (, . rotate)",
	"  P                Edit properties of the selected element",
	"  d / Delete       Delete selection (locked elements stay)",
	"  D / Ctrl+D       Duplicate selection",
	"  y / Ctrl+C       Copy selection",
	"  Ctrl+X           Cut selection",
	"  p / Ctrl+V       Paste",
	"  x                Toggle lock on selection",
	"  v                Toggle visibility on selection",
	"",
	"Arrange:",
	"--------",
	"  ] / [            Bring forward / send backward",
	"  } / {            Bring to front / send to back",
	"  < | >            Align left / center / right",
	"  ^ = _            Align top / middle / bottom",
	"",
	"Canvas:",
	"-------",
	"  g                Toggle grid",
	"  G                Toggle snap to grid",
	"  b                Cycle background colour",
	"  S                Label size",
	"  f                Toggle layers panel",
	"",
	"History:",
	"--------",
	"  u / Ctrl+Z       Undo",
	"  U / Ctrl+Y       Redo",
	"",
	"Labels:",
	"-------",
	"  s                Save",
	"  o / O            Open (O opens in a new buffer)",
	"  n / N            New label (N in a new buffer)",
	"  T                New label from a template",
	"  E                Export (PNG, print sheet, JSON, CBOR, text)",
	"  Tab / Shift+Tab  Switch buffers",
	"  W                Close buffer",
	"  q                Quit (Ctrl+Q without asking)",
	"",
	"Press ? or Esc to close help",
}

func (m model) helpView() string {
	height := m.height
	if height < 1 {
		height = len(helpLines)
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	end := min(start+height, len(helpLines))
	return strings.Join(helpLines[start:end], "\n")
}
