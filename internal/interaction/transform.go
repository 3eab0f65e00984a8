package interaction

import (
	"math"

	"labelforge/internal/element"
)

// MinSize is the smallest width or height a transform leaves.
const MinSize = 5

type transform struct {
	id string
}

// BeginTransform arms a resize and rotate of the single selected element.
// Locked elements and multi-selections are refused.
func (c *Controller) BeginTransform() bool {
	c.xf = nil
	sel := c.eng.Selection()
	if len(sel) != 1 {
		return false
	}
	el, ok := c.eng.Find(sel[0])
	if !ok {
		return false
	}
	if el.Base().Locked {
		c.log.Debug().Str("cmd", "transform").Str("id", sel[0]).Msg("refused: locked")
		return false
	}
	c.eng.BeginGesture()
	c.xf = &transform{id: sel[0]}
	return true
}

// Transforming reports whether a transform is armed.
func (c *Controller) Transforming() bool { return c.xf != nil }

// TransformTarget returns the id of the element being transformed.
func (c *Controller) TransformTarget() (string, bool) {
	if c.xf == nil {
		return "", false
	}
	return c.xf.id, true
}

// ResizeBy grows the element by dw, dh. Neither side goes below MinSize.
func (c *Controller) ResizeBy(dw, dh float64) bool {
	if c.xf == nil {
		return false
	}
	el, ok := c.eng.Find(c.xf.id)
	if !ok {
		return false
	}
	b := el.Base()
	w := math.Max(MinSize, b.Width+dw)
	h := math.Max(MinSize, b.Height+dh)
	return c.eng.UpdateElementLive(c.xf.id, element.Patch{Width: &w, Height: &h})
}

// RotateBy turns the element by deg degrees clockwise. The result is kept
// in [0, 360).
func (c *Controller) RotateBy(deg float64) bool {
	if c.xf == nil {
		return false
	}
	el, ok := c.eng.Find(c.xf.id)
	if !ok {
		return false
	}
	r := math.Mod(el.Base().Rotation+deg, 360)
	if r < 0 {
		r += 360
	}
	return c.eng.UpdateElementLive(c.xf.id, element.Patch{Rotation: &r})
}

// EndTransform commits the transform as one undo step.
func (c *Controller) EndTransform() bool {
	if c.xf == nil {
		return false
	}
	c.xf = nil
	return c.eng.CommitGesture()
}

// CancelTransform abandons the transform and restores the element.
func (c *Controller) CancelTransform() bool {
	if c.xf == nil {
		return false
	}
	c.xf = nil
	return c.eng.CancelGesture()
}
