package main

func (m *model) undo() {
	ctl := m.controller()
	if ctl == nil {
		return
	}
	ctl.PointerCancel()
	if !ctl.Engine().Undo() {
		m.successMessage = "Nothing to undo"
		return
	}
	m.errorMessage = ""
	m.successMessage = "Undone"
}

func (m *model) redo() {
	ctl := m.controller()
	if ctl == nil {
		return
	}
	if !ctl.Engine().Redo() {
		m.successMessage = "Nothing to redo"
		return
	}
	m.errorMessage = ""
	m.successMessage = "Redone"
}
