package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"labelforge/internal/document"
	"labelforge/internal/store"
)

// DocumentExporter writes the document itself through a store codec.
type DocumentExporter struct {
	codec store.Codec
}

func NewDocumentExporter(c store.Codec) *DocumentExporter {
	return &DocumentExporter{codec: c}
}

func (e *DocumentExporter) Export(ctx context.Context, snap document.Snapshot, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := e.codec.Encode(snap)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s document: %w", e.codec.Name(), err)
	}
	return nil
}

func (e *DocumentExporter) FileExtension() string { return "." + e.codec.Name() }

func (e *DocumentExporter) FormatName() string { return strings.ToUpper(e.codec.Name()) }
