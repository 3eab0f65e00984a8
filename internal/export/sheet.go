package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"labelforge/internal/document"
	"labelforge/internal/render"
)

// CanvasDPI is the resolution label canvases are designed at.
const CanvasDPI = 300

// Page geometry in points (1/72 inch).
const (
	letterWidthPt  = 612
	letterHeightPt = 792
	sheetMarginPt  = 36
)

// Layout arranges copies on a page.
type Layout string

const (
	LayoutSingle Layout = "single"
	Layout6Up    Layout = "6-up"
	Layout12Up   Layout = "12-up"
)

type grid struct {
	cols, rows int
	spacingPt  float64
}

var layoutGrids = map[Layout]grid{
	Layout6Up:  {cols: 2, rows: 3, spacingPt: 10},
	Layout12Up: {cols: 3, rows: 4, spacingPt: 8},
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single", "1-up":
		return LayoutSingle, nil
	case "6-up", "6up", "6":
		return Layout6Up, nil
	case "12-up", "12up", "12":
		return Layout12Up, nil
	}
	return "", fmt.Errorf("unknown layout: %s", s)
}

// PrinterProfile describes a label printer. Margins are in inches.
type PrinterProfile struct {
	ID           string
	Name         string
	DPI          float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	Type         string
}

var Profiles = map[string]PrinterProfile{
	"dymo": {
		ID: "dymo", Name: "Dymo LabelWriter", DPI: 300, Type: "thermal",
	},
	"brother": {
		ID: "brother", Name: "Brother QL Series", DPI: 180, Type: "thermal",
		MarginTop: 0.05, MarginRight: 0.05, MarginBottom: 0.05, MarginLeft: 0.05,
	},
	"hp": {
		ID: "hp", Name: "HP Inkjet", DPI: 300, Type: "inkjet",
		MarginTop: 0.25, MarginRight: 0.25, MarginBottom: 0.25, MarginLeft: 0.25,
	},
	"generic": {
		ID: "generic", Name: "Generic Thermal", DPI: 203, Type: "thermal",
	},
}

// ProfileFor looks up a printer profile. An empty id is dymo.
func ProfileFor(id string) (PrinterProfile, error) {
	if id == "" {
		id = "dymo"
	}
	p, ok := Profiles[strings.ToLower(id)]
	if !ok {
		return PrinterProfile{}, fmt.Errorf("unknown printer profile %q (have %s)", id, strings.Join(ProfileIDs(), ", "))
	}
	return p, nil
}

func ProfileIDs() []string {
	ids := make([]string, 0, len(Profiles))
	for id := range Profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SheetExporter renders print pages. Single layout gives one label-sized
// page per copy; the n-up layouts fill one US Letter page per copy.
type SheetExporter struct {
	r       *render.Rasterizer
	layout  Layout
	profile PrinterProfile
	copies  int
	log     zerolog.Logger
}

func NewSheetExporter(r *render.Rasterizer, layout Layout, profile PrinterProfile, copies int, log zerolog.Logger) *SheetExporter {
	if copies < 1 {
		copies = 1
	}
	return &SheetExporter{r: r, layout: layout, profile: profile, copies: copies, log: log}
}

func (e *SheetExporter) px(pt float64) int {
	return int(math.Round(pt * e.profile.DPI / 72))
}

func (e *SheetExporter) Pages(ctx context.Context, snap document.Snapshot) ([]image.Image, error) {
	view := document.FromSnapshot(snap).View()
	labelWPt := view.CanvasWidth / CanvasDPI * 72
	labelHPt := view.CanvasHeight / CanvasDPI * 72

	p := e.profile
	contentW := (labelWPt - (p.MarginLeft+p.MarginRight)*72) * p.DPI / 72
	contentH := (labelHPt - (p.MarginTop+p.MarginBottom)*72) * p.DPI / 72
	scale := math.Min(contentW/view.CanvasWidth, contentH/view.CanvasHeight)
	if scale <= 0 || math.IsNaN(scale) {
		return nil, fmt.Errorf("label %gx%g does not fit inside %s margins", view.CanvasWidth, view.CanvasHeight, p.Name)
	}

	label, err := e.r.Render(view, render.Options{Scale: scale})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var dc *gg.Context
	place := func(xPt, yPt float64) {
		dc.DrawImage(label, e.px(xPt+p.MarginLeft*72), e.px(yPt+p.MarginTop*72))
	}

	if g, ok := layoutGrids[e.layout]; ok {
		dc = gg.NewContext(e.px(letterWidthPt), e.px(letterHeightPt))
		dc.SetColor(color.White)
		dc.Clear()
		for i := 0; i < g.cols*g.rows; i++ {
			col, row := i%g.cols, i/g.cols
			place(
				float64(col)*(labelWPt+g.spacingPt)+sheetMarginPt,
				float64(row)*(labelHPt+g.spacingPt)+sheetMarginPt,
			)
		}
	} else {
		dc = gg.NewContext(e.px(labelWPt), e.px(labelHPt))
		dc.SetColor(color.White)
		dc.Clear()
		place(0, 0)
	}

	page := dc.Image()
	pages := make([]image.Image, e.copies)
	for i := range pages {
		pages[i] = page
	}
	e.log.Debug().
		Str("layout", string(e.layout)).
		Str("printer", p.ID).
		Int("pages", len(pages)).
		Float64("scale", scale).
		Msg("sheet laid out")
	return pages, nil
}

// Export writes the first page. Use Pages or Save for every copy.
func (e *SheetExporter) Export(ctx context.Context, snap document.Snapshot, w io.Writer) error {
	pages, err := e.Pages(ctx, snap)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(pages[0]).EncodePNG(w)
}

func (e *SheetExporter) FileExtension() string { return ".png" }

func (e *SheetExporter) FormatName() string {
	return fmt.Sprintf("Print sheet (%s, %s)", e.layout, e.profile.Name)
}
