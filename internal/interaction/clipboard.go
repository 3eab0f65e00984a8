package interaction

import (
	"labelforge/internal/document"
	"labelforge/internal/element"
)

// Copy stores value copies of the selected elements, back to front. Later
// edits to the document do not reach the copies. An empty selection leaves
// the clipboard as it was.
func (c *Controller) Copy() int {
	s := c.eng.State()
	var picked []element.Element
	for _, el := range s.Ordered() {
		if s.IsSelected(el.Base().ID) {
			picked = append(picked, el.Clone())
		}
	}
	if len(picked) == 0 {
		return 0
	}
	c.clipboard = picked
	return len(picked)
}

// Cut copies the selection, then deletes the part of it that is not
// locked.
func (c *Controller) Cut() int {
	n := c.Copy()
	if n > 0 {
		c.DeleteSelected()
	}
	return n
}

// Paste inserts fresh copies of the clipboard, shifted from where they were
// copied or last pasted, and selects them. Repeated pastes keep stepping
// by the same offset.
func (c *Controller) Paste() []string {
	if len(c.clipboard) == 0 {
		return nil
	}
	pasted := c.eng.PasteElements(c.clipboard)
	if len(pasted) > 0 {
		c.clipboard = pasted
	}
	return element.IDs(pasted)
}

// Clipboard returns the number of elements on the session clipboard.
func (c *Controller) Clipboard() int { return len(c.clipboard) }

// ClipboardElements returns copies of the clipboard contents.
func (c *Controller) ClipboardElements() []element.Element {
	return element.CloneAll(c.clipboard)
}

// drag is an armed or running pointer drag.
type drag struct {
	startX, startY float64
	origin         map[string]document.Point
	started        bool
}

// PointerDown presses the pointer at a canvas point. A press on an element
// selects it (keeping a multi-selection it already belongs to) and arms a
// drag of the unlocked selected elements. A press on empty canvas clears
// the selection.
func (c *Controller) PointerDown(x, y float64, mods Modifiers) {
	c.drag = nil
	el, ok := c.hit(x, y)
	if !ok {
		c.ClickEmpty()
		return
	}
	id := el.Base().ID
	if mods.Multi() || !c.eng.State().IsSelected(id) {
		c.Click(id, mods)
	}
	if el.Base().Locked {
		return
	}

	s := c.eng.State()
	d := &drag{startX: x, startY: y, origin: make(map[string]document.Point)}
	for _, sel := range s.SelectedElements() {
		b := sel.Base()
		if !b.Locked {
			d.origin[b.ID] = document.Point{X: b.X, Y: b.Y}
		}
	}
	c.drag = d
}

// Dragging reports whether a drag has moved since the press.
func (c *Controller) Dragging() bool { return c.drag != nil && c.drag.started }

// PointerMove moves the dragged elements with the pointer. The first move
// opens the gesture; later moves add no checkpoints.
func (c *Controller) PointerMove(x, y float64) bool {
	d := c.drag
	if d == nil {
		return false
	}
	dx, dy := x-d.startX, y-d.startY
	if !d.started {
		if dx == 0 && dy == 0 {
			return false
		}
		d.started = true
		c.eng.BeginGesture()
	}
	moved := false
	for id, o := range d.origin {
		if c.eng.UpdateElementLive(id, element.Position(o.X+dx, o.Y+dy)) {
			moved = true
		}
	}
	return moved
}

// PointerUp ends the drag, snapping to the grid when that is on, and
// commits the gesture as one undo step.
func (c *Controller) PointerUp() bool {
	d := c.drag
	c.drag = nil
	if d == nil || !d.started {
		return false
	}
	s := c.eng.State()
	if s.SnapToGrid {
		for id := range d.origin {
			if el, _, ok := s.Find(id); ok {
				b := el.Base()
				c.eng.UpdateElementLive(id, element.Position(
					document.Snap(b.X, s.GridSize),
					document.Snap(b.Y, s.GridSize),
				))
			}
		}
	}
	return c.eng.CommitGesture()
}

// PointerCancel abandons the drag and restores the positions from before
// it.
func (c *Controller) PointerCancel() bool {
	d := c.drag
	c.drag = nil
	if d == nil || !d.started {
		return false
	}
	return c.eng.CancelGesture()
}
