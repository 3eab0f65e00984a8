// Package render rasterizes a label with fogleman/gg. It only reads the
// render view of a document; it never sees the engine.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"labelforge/internal/document"
	"labelforge/internal/element"
)

// Options control one rendering pass.
type Options struct {
	// Scale is output pixels per canvas unit. Zero means 1.
	Scale float64
	// Grid draws the canvas grid when the view has it on. Exports leave it
	// off.
	Grid bool
}

type Rasterizer struct {
	Fonts  *Fonts
	Images ImageLoader
	Log    zerolog.Logger
}

// New returns a rasterizer using fonts from fontDir and images from
// imageDir.
func New(fontDir, imageDir string, log zerolog.Logger) *Rasterizer {
	return &Rasterizer{
		Fonts:  NewFonts(fontDir),
		Images: FileImages(imageDir),
		Log:    log,
	}
}

// Render draws view onto a new image sized to the canvas.
func (r *Rasterizer) Render(view document.RenderView, opt Options) (image.Image, error) {
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(view.CanvasWidth * scale))
	h := int(math.Ceil(view.CanvasHeight * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: canvas is %gx%g", view.CanvasWidth, view.CanvasHeight)
	}

	dc := gg.NewContext(w, h)
	if bg, ok := Paint(view.Background, 1); ok {
		dc.SetColor(bg)
	} else {
		dc.SetColor(color.White)
	}
	dc.Clear()

	if opt.Grid && view.GridVisible && view.GridSize > 0 {
		drawGrid(dc, view.GridSize*scale, w, h)
	}

	p := painter{r: r, dc: dc, scale: scale}
	for _, el := range view.Elements {
		if !el.Base().Visible {
			continue
		}
		c := el.Base()
		dc.Push()
		dc.Translate(c.X*scale, c.Y*scale)
		if c.Rotation != 0 {
			dc.Rotate(gg.Radians(c.Rotation))
		}
		el.Accept(&p)
		dc.Pop()
		if p.err != nil {
			return nil, p.err
		}
	}
	return dc.Image(), nil
}

// EncodePNG renders view and writes it as PNG.
func (r *Rasterizer) EncodePNG(w io.Writer, view document.RenderView, opt Options) error {
	im, err := r.Render(view, opt)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(im)
	return dc.EncodePNG(w)
}

func drawGrid(dc *gg.Context, step float64, w, h int) {
	dc.SetColor(color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff})
	dc.SetLineWidth(1)
	for x := step; x < float64(w); x += step {
		dc.DrawLine(x, 0, x, float64(h))
	}
	for y := step; y < float64(h); y += step {
		dc.DrawLine(0, y, float64(w), y)
	}
	dc.Stroke()
}

// painter draws one element at the origin of the current transform.
type painter struct {
	r     *Rasterizer
	dc    *gg.Context
	scale float64
	err   error
}

func (p *painter) fillStroke(fill, stroke string, strokeWidth, opacity float64) {
	fc, hasFill := Paint(fill, opacity)
	sc, hasStroke := Paint(stroke, opacity)
	hasStroke = hasStroke && strokeWidth > 0
	if hasFill {
		p.dc.SetColor(fc)
		if hasStroke {
			p.dc.FillPreserve()
		} else {
			p.dc.Fill()
		}
	}
	if hasStroke {
		p.dc.SetColor(sc)
		p.dc.SetLineWidth(strokeWidth * p.scale)
		p.dc.Stroke()
	}
	p.dc.ClearPath()
}

func (p *painter) VisitText(t *element.Text) {
	size := t.FontSize * p.scale
	face, err := p.r.Fonts.Face(t.FontFamily, t.FontWeight, t.FontStyle == element.FontStyleItalic, size)
	if err != nil {
		p.err = err
		return
	}
	col, ok := Paint(t.Color, t.Opacity)
	if !ok {
		col = color.NRGBA{A: alpha(t.Opacity)}
	}
	dc := p.dc
	dc.SetFontFace(face)
	dc.SetColor(col)

	width := t.Width * p.scale
	lineHeight := t.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	advance := size * lineHeight

	var lines []string
	for _, para := range strings.Split(t.Content, "\n") {
		wrapped := dc.WordWrap(para, width)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		lines = append(lines, wrapped...)
	}

	for i, line := range lines {
		baseline := float64(i)*advance + size
		lw, _ := dc.MeasureString(line)
		lw += t.LetterSpacing * p.scale * float64(max(len([]rune(line))-1, 0))

		var x float64
		switch t.Align {
		case element.AlignCenter:
			x = (width - lw) / 2
		case element.AlignRight:
			x = width - lw
		}
		if t.LetterSpacing == 0 {
			dc.DrawString(line, x, baseline)
		} else {
			cx := x
			for _, r := range line {
				s := string(r)
				dc.DrawString(s, cx, baseline)
				rw, _ := dc.MeasureString(s)
				cx += rw + t.LetterSpacing*p.scale
			}
		}

		switch t.Decoration {
		case element.DecorationUnderline:
			dc.SetLineWidth(math.Max(1, size/16))
			dc.DrawLine(x, baseline+size/10, x+lw, baseline+size/10)
			dc.Stroke()
		case element.DecorationLineThrough:
			dc.SetLineWidth(math.Max(1, size/16))
			dc.DrawLine(x, baseline-size/3, x+lw, baseline-size/3)
			dc.Stroke()
		}
	}
}

func (p *painter) VisitShape(s *element.Shape) {
	dc := p.dc
	w, h := s.Width*p.scale, s.Height*p.scale
	switch s.ShapeType {
	case element.ShapeRectangle:
		if s.CornerRadius > 0 {
			dc.DrawRoundedRectangle(0, 0, w, h, s.CornerRadius*p.scale)
		} else {
			dc.DrawRectangle(0, 0, w, h)
		}
		p.fillStroke(s.Fill, s.Stroke, s.StrokeWidth, s.Opacity)
	case element.ShapeCircle:
		dc.DrawCircle(w/2, h/2, math.Min(w, h)/2)
		p.fillStroke(s.Fill, s.Stroke, s.StrokeWidth, s.Opacity)
	case element.ShapeLine:
		pts := s.Points
		if len(pts) < 4 {
			pts = []float64{0, 0, s.Width, s.Height}
		}
		dc.MoveTo(pts[0]*p.scale, pts[1]*p.scale)
		for i := 2; i+1 < len(pts); i += 2 {
			dc.LineTo(pts[i]*p.scale, pts[i+1]*p.scale)
		}
		p.fillStroke("", s.Stroke, s.StrokeWidth, s.Opacity)
	case element.ShapePolygon:
		if len(s.Points) < 6 {
			return
		}
		dc.MoveTo(s.Points[0]*p.scale, s.Points[1]*p.scale)
		for i := 2; i+1 < len(s.Points); i += 2 {
			dc.LineTo(s.Points[i]*p.scale, s.Points[i+1]*p.scale)
		}
		dc.ClosePath()
		p.fillStroke(s.Fill, s.Stroke, s.StrokeWidth, s.Opacity)
	}
}

func (p *painter) VisitImage(i *element.Image) {
	w := int(math.Round(i.Width * p.scale))
	h := int(math.Round(i.Height * p.scale))
	if w <= 0 || h <= 0 {
		return
	}
	var src image.Image
	var err error
	if p.r.Images != nil {
		src, err = p.r.Images(i.Src)
	} else {
		err = fmt.Errorf("no image loader")
	}
	if err != nil {
		p.r.Log.Warn().Err(err).Str("id", i.ID).Msg("image placeholder")
		p.placeholder(float64(w), float64(h))
		return
	}
	p.dc.DrawImage(prepare(src, i, w, h, i.Opacity), 0, 0)
}

func (p *painter) placeholder(w, h float64) {
	dc := p.dc
	dc.SetColor(color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff})
	dc.SetLineWidth(math.Max(1, p.scale))
	dc.SetDash(6*p.scale, 4*p.scale)
	dc.DrawRectangle(0, 0, w, h)
	dc.Stroke()
	dc.DrawLine(0, 0, w, h)
	dc.DrawLine(w, 0, 0, h)
	dc.Stroke()
	dc.SetDash()
}

// VisitIcon draws a badge: a ring with the icon name's initial.
func (p *painter) VisitIcon(i *element.Icon) {
	dc := p.dc
	w, h := i.Width*p.scale, i.Height*p.scale
	r := math.Min(w, h) / 2
	col, ok := Paint(i.Color, i.Opacity)
	if !ok {
		col = color.NRGBA{A: alpha(i.Opacity)}
	}
	dc.SetColor(col)
	dc.SetLineWidth(math.Max(1, r/8))
	dc.DrawCircle(w/2, h/2, r-r/8)
	dc.Stroke()

	if i.IconName == "" {
		return
	}
	face, err := p.r.Fonts.Face("", 700, false, r)
	if err != nil {
		p.err = err
		return
	}
	dc.SetFontFace(face)
	initial := strings.ToUpper(string([]rune(i.IconName)[0]))
	dc.DrawStringAnchored(initial, w/2, h/2, 0.5, 0.35)
}
