package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"labelforge/internal/element"
)

// ImageLoader resolves an image element's Src to pixels.
type ImageLoader func(src string) (image.Image, error)

// FileImages loads Src as a file path, relative paths resolving against
// dir.
func FileImages(dir string) ImageLoader {
	return func(src string) (image.Image, error) {
		path := src
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		im, err := gg.LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("load image %s: %w", src, err)
		}
		return im, nil
	}
}

// prepare crops, adjusts, flips and scales src to w x h pixels with the
// given opacity.
func prepare(src image.Image, el *element.Image, w, h int, opacity float64) *image.NRGBA {
	if el.Crop != nil {
		b := src.Bounds()
		r := image.Rect(
			b.Min.X+int(el.Crop.X), b.Min.Y+int(el.Crop.Y),
			b.Min.X+int(el.Crop.X+el.Crop.Width), b.Min.Y+int(el.Crop.Y+el.Crop.Height),
		).Intersect(b)
		if !r.Empty() {
			src = crop(src, r)
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if el.Adjust != nil {
		adjust(dst, *el.Adjust)
	}
	if el.FlipX || el.FlipY {
		flip(dst, el.FlipX, el.FlipY)
	}
	if opacity < 1 {
		a := alpha(opacity)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = uint8(uint16(dst.Pix[i]) * uint16(a) / 255)
		}
	}
	return dst
}

func crop(src image.Image, r image.Rectangle) image.Image {
	if s, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(r)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

func flip(im *image.NRGBA, x, y bool) {
	b := im.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(b)
	for py := 0; py < h; py++ {
		sy := py
		if y {
			sy = h - 1 - py
		}
		for px := 0; px < w; px++ {
			sx := px
			if x {
				sx = w - 1 - px
			}
			out.SetNRGBA(px, py, im.NRGBAAt(sx, sy))
		}
	}
	copy(im.Pix, out.Pix)
}

// adjust applies brightness, contrast and saturation, each in [-1, 1]
// with 0 meaning unchanged. Blur is left to richer renderers.
func adjust(im *image.NRGBA, a element.Adjustments) {
	if a.Brightness == 0 && a.Contrast == 0 && a.Saturation == 0 {
		return
	}
	contrast := 1 + a.Contrast
	sat := 1 + a.Saturation
	ch := func(v float64) uint8 {
		return uint8(math.Max(0, math.Min(255, v)))
	}
	b := im.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := im.NRGBAAt(x, y)
			r, g, bl := float64(c.R), float64(c.G), float64(c.B)
			grey := 0.299*r + 0.587*g + 0.114*bl
			r, g, bl = grey+(r-grey)*sat, grey+(g-grey)*sat, grey+(bl-grey)*sat
			r = (r-128)*contrast + 128 + a.Brightness*255
			g = (g-128)*contrast + 128 + a.Brightness*255
			bl = (bl-128)*contrast + 128 + a.Brightness*255
			im.SetNRGBA(x, y, color.NRGBA{R: ch(r), G: ch(g), B: ch(bl), A: c.A})
		}
	}
}
