package export

import (
	"context"
	"io"

	"labelforge/internal/document"
	"labelforge/internal/render"
)

// PNGExporter rasterizes the visible elements without the grid.
type PNGExporter struct {
	r     *render.Rasterizer
	scale float64
}

func NewPNGExporter(r *render.Rasterizer, scale float64) *PNGExporter {
	if scale <= 0 {
		scale = 1
	}
	return &PNGExporter{r: r, scale: scale}
}

func (e *PNGExporter) Export(ctx context.Context, snap document.Snapshot, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	view := document.FromSnapshot(snap).View()
	return e.r.EncodePNG(w, view, render.Options{Scale: e.scale})
}

func (e *PNGExporter) FileExtension() string { return ".png" }

func (e *PNGExporter) FormatName() string { return "PNG" }
