// Package export writes a label document out in the supported formats:
// a PNG raster, a printable sheet of copies, or the document itself.
package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"labelforge/internal/document"
	"labelforge/internal/render"
	"labelforge/internal/store"
)

// Format represents an export format
type Format string

const (
	// FormatPNG rasterizes the label at its canvas size
	FormatPNG Format = "png"
	// FormatSheet lays out print copies for a printer profile
	FormatSheet Format = "sheet"
	// FormatJSON writes the document as JSON
	FormatJSON Format = "json"
	// FormatCBOR writes the document as deterministic CBOR
	FormatCBOR Format = "cbor"
)

// Exporter writes one document in a target format.
type Exporter interface {
	Export(ctx context.Context, snap document.Snapshot, w io.Writer) error
	// FileExtension returns the recommended file extension, with the dot
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
}

// Pager is implemented by exporters whose output spans several pages.
type Pager interface {
	Pages(ctx context.Context, snap document.Snapshot) ([]image.Image, error)
}

// Options configure the exporters built by NewExporter. Zero values pick
// defaults.
type Options struct {
	Scale   float64
	Layout  Layout
	Printer string
	Copies  int
	Log     zerolog.Logger
}

// NewExporter creates an exporter for the specified format. Raster formats
// draw with r.
func NewExporter(format Format, r *render.Rasterizer, opt Options) (Exporter, error) {
	switch format {
	case FormatPNG:
		if r == nil {
			return nil, fmt.Errorf("png export needs a rasterizer")
		}
		return NewPNGExporter(r, opt.Scale), nil
	case FormatSheet:
		if r == nil {
			return nil, fmt.Errorf("sheet export needs a rasterizer")
		}
		profile, err := ProfileFor(opt.Printer)
		if err != nil {
			return nil, err
		}
		layout := opt.Layout
		if layout == "" {
			layout = LayoutSingle
		}
		if _, err := ParseLayout(string(layout)); err != nil {
			return nil, err
		}
		return NewSheetExporter(r, layout, profile, opt.Copies, opt.Log), nil
	case FormatJSON:
		return NewDocumentExporter(store.JSONCodec{}), nil
	case FormatCBOR:
		return NewDocumentExporter(store.NewCBORCodec()), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png", "image":
		return FormatPNG, nil
	case "sheet", "print":
		return FormatSheet, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{
		FormatPNG,
		FormatSheet,
		FormatJSON,
		FormatCBOR,
	}
}

// FormatDescriptions returns human-readable descriptions of all formats
func FormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatPNG:   "PNG image at canvas resolution",
		FormatSheet: "Print sheet of copies (single, 6-up, 12-up)",
		FormatJSON:  "Label document as JSON",
		FormatCBOR:  "Label document as CBOR",
	}
}
