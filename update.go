package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"labelforge/internal/element"
	"labelforge/internal/engine"
	"labelforge/internal/export"
	"labelforge/internal/interaction"
	"labelforge/internal/templates"
)

// Background colours cycled with "b".
var backgrounds = []string{"#ffffff", "#fffbeb", "#eff6ff", "#f0fdf4", "#fdf2f8", "#1f2937"}

var alignKeys = map[string]engine.Edge{
	"<": engine.EdgeLeft,
	"|": engine.EdgeCenter,
	">": engine.EdgeRight,
	"^": engine.EdgeTop,
	"=": engine.EdgeMiddle,
	"_": engine.EdgeBottom,
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			m.handleHelpKey(msg.String())
			return m, nil
		}
		var cmd tea.Cmd
		switch m.mode {
		case ModeStartup:
			cmd = m.handleStartupKey(msg.String())
		case ModeNormal:
			cmd = m.handleNormalKey(msg)
		case ModeMove:
			m.handleMoveKey(msg.String())
		case ModeResize:
			m.handleResizeKey(msg.String())
		case ModeProperties:
			m.handlePropertiesKey(msg.String())
		case ModeTextInput, ModeEditing, ModePropertyValue:
			m.handleTextKey(msg)
		case ModeFileInput:
			m.handleFileKey(msg)
		case ModeConfirm:
			cmd = m.handleConfirmKey(msg.String())
		case ModeTemplates:
			m.handleTemplatesKey(msg.String())
		case ModeSize:
			m.handleSizeKey(msg.String())
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
}

var (
	startupMenu = []string{"New label", "Open label", "From template", "Quit"}
	startupKeys = []string{"n", "o", "t", "q"}
)

func (m *model) handleStartupKey(key string) tea.Cmd {
	switch key {
	case "j", "down":
		m.menuIndex = (m.menuIndex + 1) % len(startupMenu)
		return nil
	case "k", "up":
		m.menuIndex = (m.menuIndex + len(startupMenu) - 1) % len(startupMenu)
		return nil
	case "enter", " ":
		key = startupKeys[m.menuIndex]
	}

	switch key {
	case "n":
		m.newLabel(true)
		m.mode = ModeNormal
	case "o":
		m.fromStartup = true
		m.openInNewBuffer = true
		m.startOpen()
	case "t":
		m.fromStartup = true
		m.menuIndex = 0
		m.templateCategory = -1
		m.mode = ModeTemplates
	case "q", "ctrl+c", "ctrl+q":
		return tea.Quit
	}
	return nil
}

// keyEvent converts a bubbletea key into a controller key event.
func keyEvent(msg tea.KeyMsg, focus interaction.Focus) interaction.KeyEvent {
	key := msg.String()
	k := interaction.KeyEvent{Focus: focus}
	if rest, ok := strings.CutPrefix(key, "ctrl+"); ok {
		k.Ctrl = true
		key = rest
	}
	if rest, ok := strings.CutPrefix(key, "shift+"); ok {
		k.Shift = true
		key = rest
	}
	if key == "esc" {
		key = "escape"
	}
	k.Key = key
	return k
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	ctl := m.controller()
	if ctl == nil {
		m.mode = ModeStartup
		return nil
	}
	eng := ctl.Engine()

	if isNavKey(key) {
		m.handleNavigation(key)
		return nil
	}
	if key == "z" {
		m.zPanMode = !m.zPanMode
		return nil
	}
	m.zPanMode = false
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "?":
		m.help = true
		return nil
	case "q":
		if m.config.Confirmations && m.anyDirty() {
			m.confirm(ConfirmQuit)
			return nil
		}
		return tea.Quit
	case "ctrl+q":
		return tea.Quit

	case " ", "enter":
		p := m.cursorCanvas()
		if _, ok := ctl.ClickAt(p.X, p.Y, interaction.Modifiers{}); !ok {
			m.successMessage = "Selection cleared"
		}
		return nil
	case "a":
		p := m.cursorCanvas()
		ctl.ClickAt(p.X, p.Y, interaction.Modifiers{Shift: true})
		return nil
	case "m":
		m.startMove()
		return nil
	case "R":
		m.startResize()
		return nil
	case "P":
		m.startProperties()
		return nil

	case "t":
		m.mode = ModeTextInput
		m.editText = ""
		m.editCursorPos = 0
		return nil
	case "e":
		m.startEdit()
		return nil
	case "r", "c", "/", "i":
		m.addShape(key)
		return nil
	case "ctrl+t":
		m.importClipboardText()
		return nil

	case "d":
		if !ctl.DeleteSelected() {
			m.errorMessage = "Nothing deletable selected"
		}
		return nil
	case "D":
		if ids := ctl.DuplicateSelected(); len(ids) == 0 {
			m.errorMessage = "Nothing to duplicate"
		}
		return nil
	case "y":
		if n := ctl.Copy(); n > 0 {
			m.successMessage = pluralize(n, "element") + " copied"
		}
		return nil
	case "p":
		if ids := ctl.Paste(); len(ids) == 0 {
			m.errorMessage = "Clipboard is empty"
		}
		return nil
	case "x":
		for _, id := range eng.Selection() {
			ctl.ToggleLock(id)
		}
		return nil
	case "v":
		for _, id := range eng.Selection() {
			ctl.ToggleVisible(id)
		}
		return nil

	case "]":
		ctl.BringForward()
		return nil
	case "[":
		ctl.SendBackward()
		return nil
	case "}":
		ctl.BringToFront()
		return nil
	case "{":
		ctl.SendToBack()
		return nil

	case "+", "-":
		cur := eng.State().Zoom
		next := interaction.NextZoomPreset(cur, key == "+")
		anchor := m.cursorScreen()
		ctl.SetZoomAround(next/cur, anchor.X, anchor.Y)
		return nil
	case "0":
		eng.SetZoom(1)
		eng.SetPan(0, 0)
		return nil
	case "g":
		eng.ToggleGrid()
		return nil
	case "G":
		eng.SetSnapToGrid(!eng.State().SnapToGrid)
		return nil
	case "b":
		m.cycleBackground()
		return nil
	case "f":
		m.showLayers = !m.showLayers
		m.ensureCursorInBounds()
		return nil

	case "S":
		m.menuIndex = 0
		m.mode = ModeSize
		return nil
	case "T":
		m.menuIndex = 0
		m.templateCategory = -1
		m.mode = ModeTemplates
		return nil
	case "s", "ctrl+s":
		m.startSave()
		return nil
	case "o", "O":
		m.fromStartup = false
		m.openInNewBuffer = key == "O"
		m.startOpen()
		return nil
	case "E":
		m.confirm(ConfirmChooseExportType)
		return nil
	case "n":
		if m.config.Confirmations && m.getCurrentBuffer().dirty() {
			m.confirm(ConfirmNewLabel)
			return nil
		}
		m.newLabel(false)
		return nil
	case "N":
		m.newLabel(true)
		return nil
	case "W":
		if m.config.Confirmations && m.getCurrentBuffer().dirty() {
			m.confirm(ConfirmCloseBuffer)
			return nil
		}
		m.closeBuffer()
		return nil
	case "tab":
		m.currentBufferIndex = (m.currentBufferIndex + 1) % len(m.buffers)
		return nil
	case "shift+tab":
		m.currentBufferIndex = (m.currentBufferIndex + len(m.buffers) - 1) % len(m.buffers)
		return nil
	case "u":
		m.undo()
		return nil
	case "U":
		m.redo()
		return nil
	}

	if edge, ok := alignKeys[key]; ok {
		if !ctl.AlignSelected(edge) {
			m.errorMessage = "Select two or more unlocked elements to align"
		}
		return nil
	}
	ctl.HandleKey(keyEvent(msg, interaction.FocusCanvas))
	return nil
}

// startMove arms a drag of the selection under the cursor.
func (m *model) startMove() {
	ctl := m.controller()
	p := m.cursorCanvas()
	el, ok := ctl.State().HitTest(p.X, p.Y)
	if !ok {
		m.errorMessage = "Nothing under the cursor to move"
		return
	}
	if el.Base().Locked {
		m.errorMessage = "That element is locked"
		return
	}
	ctl.PointerDown(p.X, p.Y, interaction.Modifiers{})
	m.mode = ModeMove
}

func (m *model) dragToCursor() {
	p := m.cursorCanvas()
	m.controller().PointerMove(p.X, p.Y)
}

// startResize arms a transform of the element under the cursor, or of the
// single selected element.
func (m *model) startResize() {
	ctl := m.controller()
	p := m.cursorCanvas()
	if el, ok := ctl.State().HitTest(p.X, p.Y); ok {
		ctl.Click(el.Base().ID, interaction.Modifiers{})
	}
	if !ctl.BeginTransform() {
		m.errorMessage = "Select one unlocked element to resize"
		return
	}
	m.mode = ModeResize
}

func (m *model) handleResizeKey(key string) {
	ctl := m.controller()
	step := float64(resizeStep * m.getMoveSpeed(key))
	switch key {
	case "h", "left", "H", "shift+left":
		ctl.ResizeBy(-step, 0)
	case "l", "right", "L", "shift+right":
		ctl.ResizeBy(step, 0)
	case "k", "up", "K", "shift+up":
		ctl.ResizeBy(0, -step)
	case "j", "down", "J", "shift+down":
		ctl.ResizeBy(0, step)
	case ",":
		ctl.RotateBy(-rotateStep)
	case ".":
		ctl.RotateBy(rotateStep)
	case "enter", "R":
		if ctl.EndTransform() {
			m.successMessage = "Resized"
		}
		m.mode = ModeNormal
	case "esc":
		ctl.CancelTransform()
		m.mode = ModeNormal
	}
}

func (m *model) handleMoveKey(key string) {
	ctl := m.controller()
	switch {
	case isNavKey(key):
		m.handleNavigation(key)
	case key == "enter" || key == "m":
		if ctl.PointerUp() {
			m.successMessage = "Moved"
		}
		m.mode = ModeNormal
	case key == "esc":
		ctl.PointerCancel()
		m.mode = ModeNormal
	}
}

// startEdit opens the text under the cursor, or the single selected text,
// for editing.
func (m *model) startEdit() {
	ctl := m.controller()
	s := ctl.State()
	var target element.Element
	p := m.cursorCanvas()
	if el, ok := s.HitTest(p.X, p.Y); ok {
		target = el
	} else if sel := s.SelectedElements(); len(sel) == 1 {
		target = sel[0]
	}
	t, ok := target.(*element.Text)
	if !ok {
		m.errorMessage = "No text to edit here"
		return
	}
	if t.Locked {
		m.errorMessage = "That text is locked"
		return
	}
	ctl.Click(t.ID, interaction.Modifiers{})
	m.editID = t.ID
	m.editText = t.Content
	m.editCursorPos = len([]rune(t.Content))
	m.mode = ModeEditing
}

func (m *model) addShape(key string) {
	ctl := m.controller()
	eng := ctl.Engine()
	p := m.cursorCanvas()
	var el element.Element
	switch key {
	case "r":
		el = element.NewRect(eng.NewID(element.KindShape), p.X, p.Y)
	case "c":
		el = element.NewCircle(eng.NewID(element.KindShape), p.X, p.Y)
	case "/":
		el = element.NewLine(eng.NewID(element.KindShape), p.X, p.Y, p.X+100, p.Y)
	case "i":
		el = element.NewIcon(eng.NewID(element.KindIcon), "Star", p.X, p.Y, 48)
	}
	if err := ctl.Add(el); err != nil {
		m.errorMessage = err.Error()
		return
	}
	ctl.Click(el.Base().ID, interaction.Modifiers{})
}

func (m *model) addText(content string) {
	ctl := m.controller()
	eng := ctl.Engine()
	p := m.cursorCanvas()
	el := element.NewText(eng.NewID(element.KindText), content, p.X, p.Y)
	if err := ctl.Add(el); err != nil {
		m.errorMessage = err.Error()
		return
	}
	ctl.Click(el.ID, interaction.Modifiers{})
}

// importClipboardText places the OS clipboard text on the label.
func (m *model) importClipboardText() {
	raw, err := readClipboardText()
	if err != nil {
		m.errorMessage = "Clipboard: " + err.Error()
		return
	}
	text := cleanClipboardText(raw)
	if text == "" {
		m.errorMessage = "Clipboard has no text"
		return
	}
	m.addText(text)
	m.successMessage = "Pasted text from clipboard"
}

func (m *model) cycleBackground() {
	eng := m.engine()
	cur := strings.ToLower(eng.State().Background)
	next := backgrounds[0]
	for i, c := range backgrounds {
		if c == cur {
			next = backgrounds[(i+1)%len(backgrounds)]
			break
		}
	}
	eng.SetBackgroundColor(next)
}

// handleTextKey edits m.editText for new text and text edits. Enter
// commits, alt+enter breaks the line, Escape cancels.
func (m *model) handleTextKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		if m.mode == ModePropertyValue {
			m.mode = ModeProperties
			return
		}
		m.mode = ModeNormal
		m.editID = ""
		return
	case "enter":
		m.commitText()
		return
	case "alt+enter":
		if m.mode != ModePropertyValue {
			m.insertInput("\n")
		}
		return
	}
	m.editInput(msg)
}

func (m *model) commitText() {
	if m.mode == ModePropertyValue {
		m.commitProperty()
		return
	}
	ctl := m.controller()
	text := m.editText
	switch m.mode {
	case ModeTextInput:
		if strings.TrimSpace(text) != "" {
			m.addText(text)
		}
	case ModeEditing:
		if !ctl.EditProperty(m.editID, element.Patch{Content: &text}) {
			if _, ok := ctl.Engine().Find(m.editID); !ok {
				m.errorMessage = "The text was removed"
			}
		}
	}
	m.editID = ""
	m.mode = ModeNormal
}

// editInput applies line-editing keys to m.editText.
func (m *model) editInput(msg tea.KeyMsg) {
	runes := []rune(m.editText)
	switch msg.Type {
	case tea.KeyBackspace:
		if m.editCursorPos > 0 {
			m.editText = string(append(runes[:m.editCursorPos-1], runes[m.editCursorPos:]...))
			m.editCursorPos--
		}
	case tea.KeyDelete:
		if m.editCursorPos < len(runes) {
			m.editText = string(append(runes[:m.editCursorPos], runes[m.editCursorPos+1:]...))
		}
	case tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
	case tea.KeyRight:
		if m.editCursorPos < len(runes) {
			m.editCursorPos++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.editCursorPos = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.editCursorPos = len(runes)
	case tea.KeySpace:
		m.insertInput(" ")
	case tea.KeyRunes:
		m.insertInput(string(msg.Runes))
	}
}

func (m *model) insertInput(s string) {
	runes := []rune(m.editText)
	if m.editCursorPos > len(runes) {
		m.editCursorPos = len(runes)
	}
	ins := []rune(s)
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:m.editCursorPos]...)
	out = append(out, ins...)
	out = append(out, runes[m.editCursorPos:]...)
	m.editText = string(out)
	m.editCursorPos += len(ins)
}

func (m *model) startSave() {
	buf := m.getCurrentBuffer()
	if buf.labelID != "" && buf.name != "" {
		if err := m.saveLabel(buf.name); err != nil {
			m.errorMessage = "Save failed: " + err.Error()
		}
		return
	}
	m.fileOp = FileOpSave
	m.editText = buf.name
	m.editCursorPos = len([]rune(m.editText))
	m.mode = ModeFileInput
}

func (m *model) startOpen() {
	m.fileOp = FileOpOpen
	m.scanLabels()
	m.mode = ModeFileInput
}

func (m *model) leaveFileInput() {
	switch {
	case m.fromStartup && m.getCurrentBuffer() == nil:
		m.mode = ModeStartup
	default:
		m.mode = ModeNormal
	}
	m.fromStartup = false
}

func (m *model) handleFileKey(msg tea.KeyMsg) {
	key := msg.String()
	if key == "esc" {
		m.leaveFileInput()
		return
	}

	if m.fileOp == FileOpOpen {
		switch key {
		case "j", "down":
			if m.selectedFileIndex < len(m.fileList)-1 {
				m.selectedFileIndex++
			}
		case "k", "up":
			if m.selectedFileIndex > 0 {
				m.selectedFileIndex--
			}
		case "D", "delete":
			if m.selectedFileIndex >= 0 {
				m.confirm(ConfirmDeleteLabel)
			}
		case "enter":
			if m.selectedFileIndex < 0 || m.selectedFileIndex >= len(m.fileList) {
				return
			}
			sel := m.fileList[m.selectedFileIndex]
			if err := m.openLabel(sel.ID, m.openInNewBuffer); err != nil {
				m.errorMessage = "Open failed: " + err.Error()
				return
			}
			m.fromStartup = false
			m.mode = ModeNormal
		}
		return
	}

	if key != "enter" {
		m.editInput(msg)
		return
	}
	name := strings.TrimSpace(m.editText)
	if name == "" {
		m.errorMessage = "Enter a name"
		return
	}
	m.filename = name
	switch m.fileOp {
	case FileOpSave:
		if m.config.Confirmations && m.nameTaken(name) {
			m.confirm(ConfirmOverwriteLabel)
			return
		}
		if err := m.saveLabel(name); err != nil {
			m.errorMessage = "Save failed: " + err.Error()
		}
	case FileOpExport:
		if err := m.exportLabel(m.exportFormat, name); err != nil {
			m.errorMessage = "Export failed: " + err.Error()
		}
	}
	m.mode = ModeNormal
}

func (m *model) confirm(action ConfirmAction) {
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m *model) handleConfirmKey(key string) tea.Cmd {
	if m.confirmAction == ConfirmChooseExportType {
		if key == "esc" {
			m.mode = ModeNormal
			return nil
		}
		for _, f := range exportFormatKeys {
			if f.key == key {
				m.exportFormat = f.format
				m.fileOp = FileOpExport
				m.editText = m.getCurrentBuffer().name
				if m.editText == "" {
					m.editText = "label"
				}
				m.editCursorPos = len([]rune(m.editText))
				m.mode = ModeFileInput
				return nil
			}
		}
		return nil
	}

	switch key {
	case "y", "Y":
	case "n", "N", "esc":
		switch m.confirmAction {
		case ConfirmDeleteLabel, ConfirmOverwriteLabel:
			m.mode = ModeFileInput
		default:
			m.mode = ModeNormal
		}
		return nil
	default:
		return nil
	}

	switch m.confirmAction {
	case ConfirmQuit:
		return tea.Quit
	case ConfirmNewLabel:
		m.newLabel(false)
	case ConfirmCloseBuffer:
		m.closeBuffer()
		return nil
	case ConfirmDeleteLabel:
		if m.selectedFileIndex < 0 || m.selectedFileIndex >= len(m.fileList) {
			m.mode = ModeFileInput
			return nil
		}
		sel := m.fileList[m.selectedFileIndex]
		if err := m.deleteLabel(sel.ID); err != nil {
			m.errorMessage = "Delete failed: " + err.Error()
		} else {
			m.successMessage = "Deleted " + sel.Name
		}
		m.scanLabels()
		m.mode = ModeFileInput
		return nil
	case ConfirmOverwriteLabel:
		if err := m.saveLabel(m.filename); err != nil {
			m.errorMessage = "Save failed: " + err.Error()
		}
	}
	m.mode = ModeNormal
	return nil
}

func (m *model) closeBuffer() {
	m.closeCurrentBuffer()
	if len(m.buffers) == 0 {
		m.menuIndex = 0
		m.mode = ModeStartup
		return
	}
	m.mode = ModeNormal
}

func (m *model) anyDirty() bool {
	for i := range m.buffers {
		if m.buffers[i].dirty() {
			return true
		}
	}
	return false
}

// templateList is the templates shown for the selected category.
func (m *model) templateList() []templates.Template {
	if m.templateCategory < 0 || m.templateCategory >= len(templates.Categories) {
		return templates.All()
	}
	return templates.ByCategory(templates.Categories[m.templateCategory].ID)
}

func (m *model) handleTemplatesKey(key string) {
	list := m.templateList()
	switch key {
	case "esc":
		m.leaveFileInput()
	case "j", "down":
		if m.menuIndex < len(list)-1 {
			m.menuIndex++
		}
	case "k", "up":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "tab":
		m.templateCategory++
		if m.templateCategory >= len(templates.Categories) {
			m.templateCategory = -1
		}
		m.menuIndex = 0
	case "enter":
		if m.menuIndex >= len(list) {
			return
		}
		if err := m.newFromTemplate(list[m.menuIndex]); err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.fromStartup = false
		m.mode = ModeNormal
	}
}

func (m *model) handleSizeKey(key string) {
	switch key {
	case "esc":
		m.mode = ModeNormal
	case "j", "down":
		if m.menuIndex < len(templates.LabelSizes)-1 {
			m.menuIndex++
		}
	case "k", "up":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "enter":
		size := templates.LabelSizes[m.menuIndex]
		if m.engine().SetCanvasSize(size.Width, size.Height) {
			m.getCurrentBuffer().sizeKey = size.Key
			m.successMessage = "Label size " + size.Label
		}
		m.mode = ModeNormal
	}
}

// handleMouse drives pointer gestures on the canvas, zooms with the wheel
// and selects from the layers panel.
func (m *model) handleMouse(msg tea.MouseMsg) {
	ctl := m.controller()
	if ctl == nil {
		return
	}
	top, cols, rows := m.canvasArea()
	vp, _ := m.viewport()
	col, row := msg.X, msg.Y-top
	inCanvas := col >= 0 && col < cols && row >= 0 && row < rows
	x, y := vp.toCanvas(col, row)

	switch msg.Type {
	case tea.MouseLeft:
		if !inCanvas {
			if m.layersVisible() && col >= cols {
				// one row of border above the panel content
				if id, ok := layerAt(ctl.State(), layersWidth, row-1); ok {
					ctl.Click(id, interaction.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl})
				}
			}
			return
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		ctl.PointerDown(x, y, interaction.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl})
		m.mouseDown = true
	case tea.MouseMotion:
		if m.mouseDown {
			ctl.PointerMove(x, y)
		}
	case tea.MouseRelease:
		if m.mouseDown {
			ctl.PointerUp()
			m.mouseDown = false
		}
	case tea.MouseWheelUp, tea.MouseWheelDown:
		if !inCanvas {
			return
		}
		factor := interaction.WheelFactor
		if msg.Type == tea.MouseWheelDown {
			factor = 1 / factor
		}
		sx, sy := vp.toScreen(col, row)
		ctl.SetZoomAround(factor, sx, sy)
	}
}

// exportFormatName is the chooser label for f.
func exportFormatName(f export.Format) string {
	for _, k := range exportFormatKeys {
		if k.format == f {
			return k.label
		}
	}
	return string(f)
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
