package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"labelforge/internal/idgen"
	"labelforge/internal/store"
	"labelforge/internal/templates"
)

// saveLabel writes the current buffer to the store under name. A buffer
// that was never saved gets a new label id.
func (m *model) saveLabel(name string) error {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return fmt.Errorf("no label open")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("label name is empty")
	}
	if buf.labelID == "" {
		buf.labelID = idgen.UUID{}.New("label")
	}
	eng := buf.engine()
	snap := eng.Snapshot()
	sizeKey := templates.SizeKeyFor(snap.CanvasWidth, snap.CanvasHeight)
	rec, err := store.NewRecord(buf.labelID, name, sizeKey, m.config.Format, snap)
	if err != nil {
		return err
	}
	if err := m.store.Save(context.Background(), rec); err != nil {
		return err
	}
	buf.name = name
	buf.sizeKey = sizeKey
	buf.savedAt = eng.PastLen()
	buf.saved = true
	m.log.Info().Str("id", rec.ID).Str("name", name).Str("format", rec.Format).Msg("saved label")
	m.successMessage = "Saved " + name
	return nil
}

// nameTaken reports whether another label already uses name.
func (m *model) nameTaken(name string) bool {
	buf := m.getCurrentBuffer()
	list, err := m.store.List(context.Background())
	if err != nil {
		return false
	}
	for _, s := range list {
		if strings.EqualFold(s.Name, name) && (buf == nil || s.ID != buf.labelID) {
			return true
		}
	}
	return false
}

// openLabel loads a stored label into the current buffer, or a new one.
func (m *model) openLabel(id string, newBuffer bool) error {
	rec, err := m.store.Load(context.Background(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("label %q no longer exists", id)
	}
	if err != nil {
		return err
	}
	snap, err := rec.Snapshot()
	if err != nil {
		return err
	}
	ctl := m.newController()
	if err := ctl.Engine().LoadDocument(snap); err != nil {
		return err
	}
	if newBuffer || m.getCurrentBuffer() == nil {
		m.addNewBuffer(ctl, rec.ID, rec.Name, rec.SizeKey)
	} else {
		*m.getCurrentBuffer() = Buffer{ctl: ctl, labelID: rec.ID, name: rec.Name, sizeKey: rec.SizeKey}
	}
	buf := m.getCurrentBuffer()
	buf.saved = true
	buf.savedAt = ctl.Engine().PastLen()
	m.successMessage = "Opened " + rec.Name
	return nil
}

func (m *model) deleteLabel(id string) error {
	if err := m.store.Delete(context.Background(), id); err != nil {
		return err
	}
	for i := range m.buffers {
		if m.buffers[i].labelID == id {
			m.buffers[i].labelID = ""
			m.buffers[i].saved = false
		}
	}
	return nil
}

// scanLabels refreshes the file list from the store.
func (m *model) scanLabels() {
	m.fileList = nil
	m.selectedFileIndex = -1
	list, err := m.store.List(context.Background())
	if err != nil {
		m.errorMessage = "Listing labels: " + err.Error()
		return
	}
	m.fileList = list
	if len(list) > 0 {
		m.selectedFileIndex = 0
	}
}

// newLabel starts an empty label of the configured size.
func (m *model) newLabel(newBuffer bool) {
	ctl := m.newController()
	size, ok := templates.SizeFor(m.config.LabelSize)
	if !ok {
		size, _ = templates.SizeFor(templates.DefaultSizeKey)
	}
	// sizing a fresh label is not an edit
	snap := ctl.Engine().Snapshot()
	snap.CanvasWidth, snap.CanvasHeight = size.Width, size.Height
	if err := ctl.Engine().LoadDocument(snap); err != nil {
		m.log.Error().Err(err).Msg("sizing new label")
	}
	if newBuffer || m.getCurrentBuffer() == nil {
		m.addNewBuffer(ctl, "", "", size.Key)
	} else {
		*m.getCurrentBuffer() = Buffer{ctl: ctl, sizeKey: size.Key}
	}
}

// newFromTemplate opens a template in a new buffer.
func (m *model) newFromTemplate(t templates.Template) error {
	ctl := m.newController()
	if err := ctl.Engine().LoadDocument(t.Snapshot()); err != nil {
		return err
	}
	m.addNewBuffer(ctl, "", t.Name, t.Size)
	m.successMessage = "New label from " + t.Name
	return nil
}
