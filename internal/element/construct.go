package element

import "math"

const (
	DefaultText       = "Click to edit text"
	DefaultFontFamily = "Inter"
	DefaultIconSize   = 24
)

func defaults(id string, x, y, w, h float64) Common {
	return Common{ID: id, X: x, Y: y, Width: w, Height: h, Visible: true, Opacity: 1}
}

// NewText returns a text element with the editor's default styling.
func NewText(id, content string, x, y float64) *Text {
	if content == "" {
		content = DefaultText
	}
	return &Text{
		Common:     defaults(id, x, y, 200, 40),
		Content:    content,
		FontSize:   24,
		FontFamily: DefaultFontFamily,
		FontWeight: 400,
		Color:      "#000000",
		Align:      AlignLeft,
		LineHeight: 1.2,
	}
}

// NewRect returns a rounded rectangle.
func NewRect(id string, x, y float64) *Shape {
	return &Shape{
		Common:       defaults(id, x, y, 150, 100),
		ShapeType:    ShapeRectangle,
		Fill:         "#6366F1",
		Stroke:       "#4F46E5",
		StrokeWidth:  2,
		CornerRadius: 8,
	}
}

// NewCircle returns a circle.
func NewCircle(id string, x, y float64) *Shape {
	return &Shape{
		Common:      defaults(id, x, y, 100, 100),
		ShapeType:   ShapeCircle,
		Fill:        "#EC4899",
		Stroke:      "#DB2777",
		StrokeWidth: 2,
	}
}

// NewLine returns a line from (x1, y1) to (x2, y2). The element origin is
// the top-left of the segment's box.
func NewLine(id string, x1, y1, x2, y2 float64) *Shape {
	x, y := math.Min(x1, x2), math.Min(y1, y2)
	w, h := math.Max(math.Abs(x2-x1), 1), math.Max(math.Abs(y2-y1), 1)
	return &Shape{
		Common:      defaults(id, x, y, w, h),
		ShapeType:   ShapeLine,
		Stroke:      "#000000",
		StrokeWidth: 2,
		Points:      []float64{x1 - x, y1 - y, x2 - x, y2 - y},
	}
}

// NewPolygon returns a closed polygon at (x, y) with points relative to
// that origin. The size is the points' extent.
func NewPolygon(id string, x, y float64, points []float64) *Shape {
	var w, h float64
	for i := 0; i+1 < len(points); i += 2 {
		w = math.Max(w, points[i])
		h = math.Max(h, points[i+1])
	}
	return &Shape{
		Common:      defaults(id, x, y, math.Max(w, 1), math.Max(h, 1)),
		ShapeType:   ShapePolygon,
		Fill:        "#6366F1",
		Stroke:      "#4F46E5",
		StrokeWidth: 2,
		Points:      append([]float64(nil), points...),
	}
}

// NewImage returns an image element showing src at its natural size.
func NewImage(id, src string, x, y, w, h float64) *Image {
	return &Image{
		Common:         defaults(id, x, y, w, h),
		Src:            src,
		OriginalWidth:  w,
		OriginalHeight: h,
	}
}

// NewIcon returns a square icon. A non-positive size uses DefaultIconSize.
func NewIcon(id, name string, x, y, size float64) *Icon {
	if size <= 0 {
		size = DefaultIconSize
	}
	return &Icon{
		Common:   defaults(id, x, y, size, size),
		IconName: name,
		Color:    "#000000",
	}
}
