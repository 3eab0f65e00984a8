// Package interaction turns pointer and keyboard input into engine
// commands. It owns the selection rules, the keyboard shortcuts, the
// session clipboard and drag gestures, and it refuses commands that would
// move, reorder or delete locked elements before they reach the engine.
package interaction

import (
	"github.com/rs/zerolog"

	"labelforge/internal/document"
	"labelforge/internal/element"
	"labelforge/internal/engine"
)

// Modifiers are the modifier keys held during a click or key press.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
}

// Multi reports whether the modifiers extend the selection.
func (m Modifiers) Multi() bool { return m.Shift || m.Ctrl || m.Meta }

type Controller struct {
	eng *engine.Engine
	log zerolog.Logger

	clipboard []element.Element
	drag      *drag
	xf        *transform
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func New(eng *engine.Engine, opts ...Option) *Controller {
	c := &Controller{eng: eng, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the engine the controller drives.
func (c *Controller) Engine() *engine.Engine { return c.eng }

// Click handles a click on the element with id. Without modifiers the
// selection becomes that element; with shift, ctrl or meta it is added and
// never removed.
func (c *Controller) Click(id string, mods Modifiers) {
	c.eng.SelectElement(id, mods.Multi())
}

// ClickEmpty handles a click on the bare canvas.
func (c *Controller) ClickEmpty() {
	c.eng.ClearSelection()
}

// ClickAt hit-tests a canvas point and dispatches to Click or ClickEmpty.
// It returns the id that was hit, if any.
func (c *Controller) ClickAt(x, y float64, mods Modifiers) (string, bool) {
	el, ok := c.hit(x, y)
	if !ok {
		c.ClickEmpty()
		return "", false
	}
	id := el.Base().ID
	c.Click(id, mods)
	return id, true
}

func (c *Controller) hit(x, y float64) (element.Element, bool) {
	return c.eng.State().HitTest(x, y)
}

// unlocked filters ids down to the elements that exist and are not locked.
func (c *Controller) unlocked(ids []string) []string {
	s := c.eng.State()
	var out []string
	for _, id := range ids {
		if el, _, ok := s.Find(id); ok && !el.Base().Locked {
			out = append(out, id)
		}
	}
	return out
}

// run calls op with the unlocked part of the selection. When nothing is
// left op is not called, so no checkpoint can appear.
func (c *Controller) run(name string, op func(ids []string) bool) bool {
	sel := c.eng.Selection()
	ids := c.unlocked(sel)
	if len(ids) == 0 {
		if len(sel) > 0 {
			c.log.Debug().Str("cmd", name).Strs("ids", sel).Msg("refused: locked")
		}
		return false
	}
	return op(ids)
}

// DeleteSelected deletes the selected elements that are not locked.
func (c *Controller) DeleteSelected() bool {
	return c.run("delete", c.eng.DeleteElements)
}

// DuplicateSelected duplicates the unlocked part of the selection and
// returns the ids of the copies.
func (c *Controller) DuplicateSelected() []string {
	var copies []string
	c.run("duplicate", func(ids []string) bool {
		copies = c.eng.DuplicateElements(ids)
		return len(copies) > 0
	})
	return copies
}

func (c *Controller) BringToFront() bool { return c.run("front", c.eng.MoveToFront) }
func (c *Controller) SendToBack() bool   { return c.run("back", c.eng.MoveToBack) }
func (c *Controller) BringForward() bool { return c.run("forward", c.eng.MoveForward) }
func (c *Controller) SendBackward() bool { return c.run("backward", c.eng.MoveBackward) }

// AlignSelected aligns the unlocked part of the selection.
func (c *Controller) AlignSelected(edge engine.Edge) bool {
	return c.run("align", func(ids []string) bool { return c.eng.Align(ids, edge) })
}

// NudgeSelected moves the unlocked part of the selection by dx, dy.
func (c *Controller) NudgeSelected(dx, dy float64) bool {
	return c.run("nudge", func(ids []string) bool { return c.eng.Nudge(ids, dx, dy) })
}

// ToggleLock flips the lock of id. It works on locked elements.
func (c *Controller) ToggleLock(id string) bool {
	el, ok := c.eng.Find(id)
	if !ok {
		return false
	}
	return c.eng.SetLocked([]string{id}, !el.Base().Locked)
}

// ToggleVisible flips the visibility of id.
func (c *Controller) ToggleVisible(id string) bool {
	el, ok := c.eng.Find(id)
	if !ok {
		return false
	}
	return c.eng.SetVisible([]string{id}, !el.Base().Visible)
}

// EditProperty applies a discrete, checkpointed edit from a property
// panel. Locked elements only take lock and visibility edits.
func (c *Controller) EditProperty(id string, p element.Patch) bool {
	return c.eng.UpdateElement(id, p)
}

// Add places a new element on top of the others and selects it.
func (c *Controller) Add(el element.Element) error {
	z := c.eng.NextZ()
	return c.eng.AddElement(element.With(el, func(cm *element.Common) { cm.ZIndex = z }))
}

// SetZoomAround zooms by factor keeping the screen point (px, py) fixed.
func (c *Controller) SetZoomAround(factor, px, py float64) float64 {
	s := c.eng.State()
	old := s.Zoom
	z := c.eng.SetZoom(old * factor)
	// canvas point under the cursor stays put
	cx := (px - s.Pan.X) / old
	cy := (py - s.Pan.Y) / old
	c.eng.SetPan(px-cx*z, py-cy*z)
	return z
}

// ZoomPresets are the zoom levels offered by the zoom menu.
var ZoomPresets = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3}

// WheelFactor is the zoom step of one wheel notch.
const WheelFactor = 1.1

// NextZoomPreset returns the first preset above (up) or below the current
// zoom, or the current zoom when there is none.
func NextZoomPreset(cur float64, up bool) float64 {
	if up {
		for _, p := range ZoomPresets {
			if p > cur+1e-9 {
				return p
			}
		}
		return cur
	}
	for i := len(ZoomPresets) - 1; i >= 0; i-- {
		if ZoomPresets[i] < cur-1e-9 {
			return ZoomPresets[i]
		}
	}
	return cur
}

// State returns a copy of the document.
func (c *Controller) State() *document.State { return c.eng.State() }
