package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelforge/internal/document"
	"labelforge/internal/element"
	"labelforge/internal/export"
	"labelforge/internal/interaction"
	"labelforge/internal/render"
	"labelforge/internal/store"
)

func newTestModel(t *testing.T, st store.Store, startMenu bool) model {
	t.Helper()
	cfg := defaultConfig()
	cfg.SaveDirectory = t.TempDir()
	cfg.StartMenu = startMenu
	if st == nil {
		var err error
		st, err = store.NewFileStore(filepath.Join(cfg.SaveDirectory, "labels"), zerolog.Nop())
		require.NoError(t, err)
	}
	m := initialModel(cfg, zerolog.Nop(), st, render.New("", "", zerolog.Nop()), export.AllowAll)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model)
}

var specialKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"delete": tea.KeyDelete,
	"bksp":   tea.KeyBackspace,
	"ctrl+z": tea.KeyCtrlZ,
	"ctrl+y": tea.KeyCtrlY,
	"ctrl+c": tea.KeyCtrlC,
	"ctrl+v": tea.KeyCtrlV,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
}

func keyMsg(key string) tea.KeyMsg {
	if kt, ok := specialKeys[key]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(model)
	}
	return m
}

func elements(m model) []element.Element {
	return m.controller().State().Ordered()
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want interaction.KeyEvent
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, interaction.KeyEvent{Key: "z", Ctrl: true}},
		{tea.KeyMsg{Type: tea.KeyEsc}, interaction.KeyEvent{Key: "escape"}},
		{tea.KeyMsg{Type: tea.KeyDelete}, interaction.KeyEvent{Key: "delete"}},
		{keyMsg("x"), interaction.KeyEvent{Key: "x"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyEvent(tt.msg, interaction.FocusCanvas), tt.msg.String())
	}
	assert.Equal(t, interaction.FocusTextInput, keyEvent(keyMsg("a"), interaction.FocusTextInput).Focus)
}

func TestAddUndoRedo(t *testing.T) {
	m := newTestModel(t, nil, false)
	require.Equal(t, ModeNormal, m.mode)

	m = press(t, m, "r")
	require.Len(t, elements(m), 1)
	assert.Equal(t, []string{elements(m)[0].Base().ID}, m.engine().Selection())
	assert.True(t, m.getCurrentBuffer().dirty())

	m = press(t, m, "u")
	assert.Empty(t, elements(m))
	m = press(t, m, "U")
	assert.Len(t, elements(m), 1)

	m = press(t, m, "ctrl+z")
	assert.Empty(t, elements(m))
	m = press(t, m, "ctrl+y")
	assert.Len(t, elements(m), 1)
}

func TestTextInputAndEdit(t *testing.T) {
	m := newTestModel(t, nil, false)

	m = press(t, m, "t", "Jam", "enter")
	require.Equal(t, ModeNormal, m.mode)
	els := elements(m)
	require.Len(t, els, 1)
	txt, ok := els[0].(*element.Text)
	require.True(t, ok)
	assert.Equal(t, "Jam", txt.Content)

	// the cursor sits on the new text's top-left cell
	m = press(t, m, "e")
	require.Equal(t, ModeEditing, m.mode)
	assert.Equal(t, "Jam", m.editText)
	m = press(t, m, "left", "left", "left", "Fig ", "enter")

	txt = elements(m)[0].(*element.Text)
	assert.Equal(t, "Fig Jam", txt.Content)

	// escape inside the editor cancels the edit, not the selection
	m = press(t, m, "e", "!", "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Fig Jam", elements(m)[0].(*element.Text).Content)
	assert.NotEmpty(t, m.engine().Selection())
}

func TestLockedSelectionSurvivesDelete(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r", "x")
	require.True(t, elements(m)[0].Base().Locked)

	m = press(t, m, "d")
	assert.Len(t, elements(m), 1)
	assert.NotEmpty(t, m.errorMessage)

	m = press(t, m, "delete")
	assert.Len(t, elements(m), 1)

	m = press(t, m, "x", "d")
	assert.Empty(t, elements(m))
}

func TestNudgeWithArrows(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r")
	before := elements(m)[0].Base()

	m = press(t, m, "right")
	after := elements(m)[0].Base()
	assert.Equal(t, before.X+m.config.Nudge, after.X)
	assert.Equal(t, before.Y, after.Y)
	// the cursor stays put while nudging
	assert.Equal(t, 0, m.cursorX)
}

func TestResizeMode(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r")
	past := m.engine().PastLen()

	m = press(t, m, "R")
	require.Equal(t, ModeResize, m.mode, m.errorMessage)
	m = press(t, m, "l", "l", "J", ",", "enter")
	require.Equal(t, ModeNormal, m.mode)

	b := elements(m)[0].Base()
	assert.Equal(t, 160.0, b.Width)
	assert.Equal(t, 110.0, b.Height)
	assert.Equal(t, 345.0, b.Rotation)
	assert.Equal(t, past+1, m.engine().PastLen())

	m = press(t, m, "u")
	b = elements(m)[0].Base()
	assert.Equal(t, 150.0, b.Width)
	assert.Equal(t, 100.0, b.Height)
	assert.Equal(t, 0.0, b.Rotation)

	// locked elements refuse the transform
	m = press(t, m, "x", "R")
	assert.Equal(t, ModeNormal, m.mode)
	assert.NotEmpty(t, m.errorMessage)
}

func TestPropertiesEdit(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r", "P")
	require.Equal(t, ModeProperties, m.mode, m.errorMessage)
	assert.Contains(t, m.View(), "Stroke width")

	m = press(t, m, "S")
	require.Equal(t, ModePropertyValue, m.mode)
	assert.Equal(t, "2", m.editText)
	m = press(t, m, "bksp", "6", "enter")
	require.Equal(t, ModeProperties, m.mode)
	assert.Empty(t, m.errorMessage)
	assert.Equal(t, 6.0, elements(m)[0].(*element.Shape).StrokeWidth)

	// a width that would break the element is refused without a checkpoint
	past := m.engine().PastLen()
	m = press(t, m, "w", "bksp", "bksp", "bksp", "-3", "enter")
	assert.NotEmpty(t, m.errorMessage)
	assert.Equal(t, 150.0, elements(m)[0].Base().Width)
	assert.Equal(t, past, m.engine().PastLen())

	m = press(t, m, "f", "bksp", "bksp", "bksp", "bksp", "bksp", "bksp", "bksp", "zzz", "enter")
	assert.Contains(t, m.errorMessage, "not a colour")

	m = press(t, m, "esc")
	require.Equal(t, ModeNormal, m.mode)
	m = press(t, m, "u")
	assert.Equal(t, 2.0, elements(m)[0].(*element.Shape).StrokeWidth)
}

func TestCopyPasteOffsets(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r", "y", "p")
	els := elements(m)
	require.Len(t, els, 2)
	assert.Equal(t, els[0].Base().X+20, els[1].Base().X)
	assert.Equal(t, els[0].Base().Y+20, els[1].Base().Y)
}

func TestSaveAndOpen(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r", "s")
	require.Equal(t, ModeFileInput, m.mode)
	m = press(t, m, "pantry", "enter")
	require.Equal(t, ModeNormal, m.mode, m.errorMessage)

	buf := m.getCurrentBuffer()
	assert.Equal(t, "pantry", buf.name)
	assert.NotEmpty(t, buf.labelID)
	assert.False(t, buf.dirty())

	list, err := m.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pantry", list[0].Name)
	assert.Equal(t, store.FormatJSON, list[0].Format)

	// a second save goes straight to the same record
	m = press(t, m, "c", "s")
	assert.Equal(t, ModeNormal, m.mode)
	list, err = m.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	other := newTestModel(t, m.store, true)
	require.Equal(t, ModeStartup, other.mode)
	other = press(t, other, "o")
	require.Equal(t, ModeFileInput, other.mode)
	require.Len(t, other.fileList, 1)
	other = press(t, other, "enter")
	require.Equal(t, ModeNormal, other.mode, other.errorMessage)
	assert.Equal(t, "pantry", other.getCurrentBuffer().name)
	assert.Len(t, elements(other), 2)
	assert.False(t, other.engine().CanUndo())
}

func TestExportLabel(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r")

	require.NoError(t, m.exportLabel(export.FormatJSON, "jar"))
	data, err := os.ReadFile(filepath.Join(m.config.SaveDirectory, "jar.json"))
	require.NoError(t, err)
	snap, err := store.DecodeSnapshot(store.FormatJSON, data)
	require.NoError(t, err)
	assert.Len(t, snap.Elements, 1)

	require.NoError(t, m.exportLabel(formatPreview, "jar"))
	txt, err := os.ReadFile(filepath.Join(m.config.SaveDirectory, "jar.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "┈")

	m.gate = export.NewCreditGate(0)
	err = m.exportLabel(export.FormatJSON, "refused")
	assert.ErrorContains(t, err, "credits")
	_, statErr := os.Stat(filepath.Join(m.config.SaveDirectory, "refused.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTemplatesMenu(t *testing.T) {
	m := newTestModel(t, nil, true)
	m = press(t, m, "t")
	require.Equal(t, ModeTemplates, m.mode)
	m = press(t, m, "enter")
	require.Equal(t, ModeNormal, m.mode)
	assert.NotEmpty(t, elements(m))
	assert.False(t, m.engine().CanUndo())
	assert.False(t, m.getCurrentBuffer().dirty())
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t, nil, false)
	m = press(t, m, "r")
	out := m.View()
	assert.Contains(t, out, "Layers (1)")
	assert.Contains(t, out, "NORMAL")

	m = press(t, m, "?")
	assert.True(t, strings.HasPrefix(m.View(), "LabelForge Help"))
}

func TestRenderCanvas(t *testing.T) {
	r := element.NewRect("r1", 0, 0)
	r.Width, r.Height = 100, 100
	r.Fill, r.Stroke = "#000000", ""
	view := document.RenderView{
		Elements:     []element.Element{r},
		Zoom:         1,
		CanvasWidth:  200,
		CanvasHeight: 100,
	}

	lines := renderCanvas(view, nil, 20, 5)
	require.Len(t, lines, 5)
	row := []rune(lines[2])
	assert.Equal(t, '█', row[5])
	assert.Equal(t, ' ', row[15])

	lines = renderCanvas(view, map[string]bool{"r1": true}, 20, 5)
	assert.Equal(t, '║', []rune(lines[2])[10])
}

func TestViewportRoundTrip(t *testing.T) {
	view := document.RenderView{Zoom: 2, Pan: document.Point{X: 10, Y: 5}, CanvasWidth: 675, CanvasHeight: 375}
	vp := newViewport(view, 90, 39)
	for _, c := range [][2]int{{0, 0}, {17, 3}, {89, 38}} {
		x, y := vp.toCanvas(c[0], c[1])
		col, row := vp.toCell(x, y)
		assert.Equal(t, c[0], col)
		assert.Equal(t, c[1], row)
	}
}
