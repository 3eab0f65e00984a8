// Package templates holds the label size presets and the starter designs
// a new label can begin from.
package templates

// LabelSize is a preset canvas size in pixels at 300 DPI.
type LabelSize struct {
	Key    string
	Width  float64
	Height float64
	Label  string
}

// LabelSizes lists the presets from smallest to largest.
var LabelSizes = []LabelSize{
	{Key: "2x1", Width: 600, Height: 300, Label: `Small Label (2" × 1") - Spice jars`},
	{Key: "2.25x1.25", Width: 675, Height: 375, Label: `Standard Label (2.25" × 1.25") - Mason jars`},
	{Key: "3x2", Width: 900, Height: 600, Label: `Medium Label (3" × 2") - Storage containers`},
	{Key: "4x2", Width: 1200, Height: 600, Label: `Wide Label (4" × 2") - Freezer bags`},
	{Key: "4x3", Width: 1200, Height: 900, Label: `Large Label (4" × 3") - Big jars`},
	{Key: "4x6", Width: 1200, Height: 1800, Label: `Tall Label (4" × 6") - Bottles`},
}

// DefaultSizeKey is the preset new labels start with.
const DefaultSizeKey = "2.25x1.25"

func SizeFor(key string) (LabelSize, bool) {
	for _, s := range LabelSizes {
		if s.Key == key {
			return s, true
		}
	}
	return LabelSize{}, false
}

// SizeKeyFor returns the preset matching w x h, or "" for a custom size.
func SizeKeyFor(w, h float64) string {
	for _, s := range LabelSizes {
		if s.Width == w && s.Height == h {
			return s.Key
		}
	}
	return ""
}
