package main

import (
	"github.com/rs/zerolog"

	"labelforge/internal/engine"
	"labelforge/internal/export"
	"labelforge/internal/interaction"
	"labelforge/internal/render"
	"labelforge/internal/store"
)

// Buffer is one open label.
type Buffer struct {
	ctl     *interaction.Controller
	labelID string
	name    string
	sizeKey string
	// savedAt is the history depth at the last save.
	savedAt int
	saved   bool
}

func (b *Buffer) engine() *engine.Engine { return b.ctl.Engine() }

// dirty reports whether the label changed since it was saved or opened.
func (b *Buffer) dirty() bool {
	e := b.engine()
	if !b.saved {
		return e.CanUndo()
	}
	return e.PastLen() != b.savedAt
}

type model struct {
	width              int
	height             int
	cursorX            int
	cursorY            int
	zPanMode           bool
	showLayers         bool
	buffers            []Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	helpScroll         int
	editID             string
	editText           string
	editCursorPos      int
	propertyKey        string
	filename           string
	fileList           []store.Summary
	selectedFileIndex  int
	fileOp             FileOperation
	exportFormat       export.Format
	openInNewBuffer    bool
	confirmAction      ConfirmAction
	menuIndex          int
	templateCategory   int // index into templates.Categories, -1 for all
	errorMessage       string
	successMessage     string
	fromStartup        bool
	mouseDown          bool

	config     *Config
	log        zerolog.Logger
	store      store.Store
	rasterizer *render.Rasterizer
	gate       export.Gate
}

type point struct {
	X, Y float64
}
