package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeTextInput
	ModeEditing
	ModeMove
	ModeResize
	ModeFileInput
	ModeConfirm
	ModeTemplates
	ModeSize
	ModeProperties
	ModePropertyValue
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExport
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmNewLabel
	ConfirmCloseBuffer
	ConfirmDeleteLabel
	ConfirmOverwriteLabel
	ConfirmChooseExportType
)

// Preview cells are roughly twice as tall as they are wide.
const (
	cellAspect     = 2.0
	layersWidth    = 30
	minCanvasCols  = 20
	panStep        = 10
	fastMultiplier = 10
	resizeStep     = 5
	rotateStep     = 15
)

// Fill shades from light to dark, picked by colour luminance.
var shades = []rune{'·', '░', '▒', '▓', '█'}
