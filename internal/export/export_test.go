package export_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelforge/internal/document"
	"labelforge/internal/element"
	"labelforge/internal/export"
	"labelforge/internal/render"
	"labelforge/internal/store"
)

func label() document.Snapshot {
	s := document.New()
	s.CanvasWidth, s.CanvasHeight = 600, 300
	s.Background = "#ff0000"
	s.GridVisible = true
	s.Elements = []element.Element{element.NewText("text-1", "Basil", 20, 20)}
	return s.Snapshot()
}

func rasterizer() *render.Rasterizer {
	return render.New("", "", zerolog.Nop())
}

func rgba(im image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(im.At(x, y)).(color.RGBA)
}

var (
	red   = color.RGBA{R: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected export.Format
		wantErr  bool
	}{
		{"png", export.FormatPNG, false},
		{"image", export.FormatPNG, false},
		{"PNG", export.FormatPNG, false},
		{"sheet", export.FormatSheet, false},
		{"print", export.FormatSheet, false},
		{"json", export.FormatJSON, false},
		{"cbor", export.FormatCBOR, false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewExporter(t *testing.T) {
	t.Parallel()

	for _, format := range export.AvailableFormats() {
		t.Run(string(format), func(t *testing.T) {
			exp, err := export.NewExporter(format, rasterizer(), export.Options{})
			require.NoError(t, err)
			assert.NotEmpty(t, exp.FileExtension())
			assert.NotEmpty(t, exp.FormatName())
			assert.Contains(t, export.FormatDescriptions(), format)
		})
	}

	_, err := export.NewExporter("tiff", rasterizer(), export.Options{})
	require.Error(t, err)
	_, err = export.NewExporter(export.FormatPNG, nil, export.Options{})
	require.Error(t, err)
	_, err = export.NewExporter(export.FormatSheet, rasterizer(), export.Options{Printer: "laserjet"})
	require.Error(t, err)
	_, err = export.NewExporter(export.FormatSheet, rasterizer(), export.Options{Layout: "9-up"})
	require.Error(t, err)
}

func TestPNGExporter(t *testing.T) {
	t.Parallel()

	exp := export.NewPNGExporter(rasterizer(), 0.5)
	var buf bytes.Buffer
	require.NoError(t, exp.Export(context.Background(), label(), &buf))

	im, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 150), im.Bounds())
	assert.Equal(t, red, rgba(im, 290, 140))
}

func TestDocumentExporter(t *testing.T) {
	t.Parallel()

	for _, format := range []export.Format{export.FormatJSON, export.FormatCBOR} {
		exp, err := export.NewExporter(format, nil, export.Options{})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, exp.Export(context.Background(), label(), &buf))
		snap, err := store.DecodeSnapshot(string(format), buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, label(), snap)
		assert.Equal(t, "."+string(format), exp.FileExtension())
	}
}

func TestSheet_SixUp(t *testing.T) {
	t.Parallel()

	profile, err := export.ProfileFor("dymo")
	require.NoError(t, err)
	exp := export.NewSheetExporter(rasterizer(), export.Layout6Up, profile, 2, zerolog.Nop())

	pages, err := exp.Pages(context.Background(), label())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	page := pages[0]
	assert.Equal(t, image.Rect(0, 0, 2550, 3300), page.Bounds(), "US Letter at 300 dpi")
	assert.Equal(t, white, rgba(page, 50, 50), "36pt sheet margin")
	assert.Equal(t, red, rgba(page, 450, 300), "first slot")
	assert.Equal(t, white, rgba(page, 770, 300), "10pt gutter")
	assert.Equal(t, red, rgba(page, 1000, 300), "second column")
	assert.Equal(t, red, rgba(page, 450, 700), "second row")
}

func TestSheet_SingleWithMargins(t *testing.T) {
	t.Parallel()

	profile, err := export.ProfileFor("hp")
	require.NoError(t, err)
	exp := export.NewSheetExporter(rasterizer(), export.LayoutSingle, profile, 0, zerolog.Nop())

	pages, err := exp.Pages(context.Background(), label())
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.Equal(t, image.Rect(0, 0, 600, 300), page.Bounds())
	assert.Equal(t, white, rgba(page, 10, 10))
	assert.Equal(t, red, rgba(page, 300, 200))
	assert.Equal(t, white, rgba(page, 500, 100), "label scaled to fit inside margins")
}

func TestSheet_GenericDPI(t *testing.T) {
	t.Parallel()

	profile, err := export.ProfileFor("GENERIC")
	require.NoError(t, err)
	exp := export.NewSheetExporter(rasterizer(), export.LayoutSingle, profile, 1, zerolog.Nop())

	pages, err := exp.Pages(context.Background(), label())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 406, 203), pages[0].Bounds())
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]export.Layout{
		"":       export.LayoutSingle,
		"single": export.LayoutSingle,
		"6-up":   export.Layout6Up,
		"12UP":   export.Layout12Up,
	} {
		got, err := export.ParseLayout(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := export.ParseLayout("3-up")
	require.Error(t, err)
	assert.Equal(t, []string{"brother", "dymo", "generic", "hp"}, export.ProfileIDs())
}

func TestCreditGate(t *testing.T) {
	t.Parallel()

	g := export.NewCreditGate(1)
	ok, err := g.Allow(context.Background(), export.ActionExport)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Allow(context.Background(), export.ActionExport)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, g.Remaining())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = export.NewCreditGate(5).Allow(ctx, export.ActionExport)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	pngExp, err := export.NewExporter(export.FormatPNG, rasterizer(), export.Options{})
	require.NoError(t, err)
	paths, err := export.Save(ctx, nil, pngExp, label(), filepath.Join(dir, "basil"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "basil.png")}, paths)
	assert.FileExists(t, paths[0])

	sheet, err := export.NewExporter(export.FormatSheet, rasterizer(), export.Options{Copies: 3, Printer: "generic"})
	require.NoError(t, err)
	paths, err = export.Save(ctx, export.AllowAll, sheet, label(), filepath.Join(dir, "out", "jar.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "out", "jar-1.png"),
		filepath.Join(dir, "out", "jar-2.png"),
		filepath.Join(dir, "out", "jar-3.png"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestSave_Refused(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	exp, err := export.NewExporter(export.FormatJSON, nil, export.Options{})
	require.NoError(t, err)
	_, err = export.Save(context.Background(), export.NewCreditGate(0), exp, label(), filepath.Join(dir, "x"))
	require.ErrorIs(t, err, export.ErrNotEntitled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
