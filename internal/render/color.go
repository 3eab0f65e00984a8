package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Paint parses a "#rrggbb" or "#rgb" colour and applies opacity to its
// alpha. It reports false for an empty, "transparent" or unparsable value.
func Paint(hex string, opacity float64) (color.NRGBA, bool) {
	if hex == "" || hex == "transparent" || hex == "none" {
		return color.NRGBA{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha(opacity)}, true
}

func alpha(opacity float64) uint8 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return 255
	}
	return uint8(opacity*255 + 0.5)
}

// Luminance returns the perceived lightness of hex in [0, 1], or -1 when it
// cannot be parsed. The terminal preview uses it to pick shading.
func Luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return -1
	}
	l, _, _ := c.Lab()
	return l
}
