package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"labelforge/internal/export"
)

// exportFormatKeys maps the keys of the export chooser to formats. "t" is
// the character preview, which is not an export.Format.
var exportFormatKeys = []struct {
	key    string
	format export.Format
	label  string
}{
	{"p", export.FormatPNG, "PNG"},
	{"s", export.FormatSheet, "print sheet"},
	{"j", export.FormatJSON, "JSON"},
	{"c", export.FormatCBOR, "CBOR"},
	{"t", formatPreview, "text preview"},
}

const formatPreview export.Format = "txt"

func (m *model) exportLabel(format export.Format, filename string) error {
	eng := m.engine()
	if eng == nil {
		return fmt.Errorf("no label open")
	}
	path := m.config.GetSavePath(filename)
	if format == formatPreview {
		if filepath.Ext(path) == "" {
			path += ".txt"
		}
		if err := m.exportPreviewTXT(path); err != nil {
			return err
		}
		m.successMessage = "Exported to " + path
		return nil
	}

	exp, err := export.NewExporter(format, m.rasterizer, export.Options{
		Layout:  export.Layout(m.config.Layout),
		Printer: m.config.Printer,
		Copies:  1,
		Log:     m.log,
	})
	if err != nil {
		return err
	}
	written, err := export.Save(context.Background(), m.gate, exp, eng.Snapshot(), path)
	if errors.Is(err, export.ErrNotEntitled) {
		return fmt.Errorf("no export credits left")
	}
	if err != nil {
		return err
	}
	m.log.Info().Str("format", exp.FormatName()).Strs("files", written).Msg("exported label")
	m.successMessage = fmt.Sprintf("Exported %s to %s", exp.FormatName(), strings.Join(written, ", "))
	return nil
}

// exportPreviewTXT writes the character preview of the label, without
// selection or cursor, sized to the label at the current terminal width.
func (m *model) exportPreviewTXT(path string) error {
	eng := m.engine()
	if eng == nil {
		return fmt.Errorf("no label open")
	}
	view := eng.View()
	view.Zoom = 1
	view.Pan.X, view.Pan.Y = 0, 0
	view.GridVisible = false

	cols := m.width
	if cols < minCanvasCols {
		cols = 80
	}
	rows := int(float64(cols)*view.CanvasHeight/view.CanvasWidth/cellAspect) + 1
	vp := newViewport(view, cols, rows)
	// room for the frame, which sits one cell outside the label
	vp.cols, vp.rows = cols+2, rows+2
	vp.pan.X, vp.pan.Y = 1/vp.fx, 1/vp.fy
	lines := renderCanvasWith(view, nil, vp)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, line := range lines {
		fmt.Fprintln(file, strings.TrimRight(line, " "))
	}
	return nil
}
