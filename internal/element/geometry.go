package element

import "math"

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point lies inside the rectangle. Edges on the
// right and bottom are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.Right(), o.Right())
	maxY := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds returns the unrotated box of el. Rotation is ignored: alignment
// and hit testing both work on this box.
func Bounds(el Element) Rect {
	c := el.Base()
	return Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// BoundsOf returns the union of the boxes of els and false when els is empty.
func BoundsOf(els []Element) (Rect, bool) {
	if len(els) == 0 {
		return Rect{}, false
	}
	r := Bounds(els[0])
	for _, el := range els[1:] {
		r = r.Union(Bounds(el))
	}
	return r, true
}
