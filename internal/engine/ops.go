package engine

import (
	"math"
	"slices"

	"labelforge/internal/document"
	"labelforge/internal/element"
)

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// DeleteElements removes the unlocked elements in ids and prunes the
// selection. Unknown and locked ids are skipped.
func (e *Engine) DeleteElements(ids []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	set := idSet(ids)
	return e.mutate("delete", ids, func(s *document.State) bool {
		kept := s.Elements[:0:0]
		for _, el := range s.Elements {
			c := el.Base()
			if set[c.ID] && !c.Locked {
				continue
			}
			kept = append(kept, el)
		}
		if len(kept) == len(s.Elements) {
			return false
		}
		s.Elements = kept
		return true
	})
}

// DuplicateElements copies the elements in ids with fresh ids, shifted by
// Offset, and selects the copies. It returns the new ids.
func (e *Engine) DuplicateElements(ids []string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	set := idSet(ids)
	var added []string
	e.mutate("duplicate", ids, func(s *document.State) bool {
		var src []element.Element
		for _, el := range s.Ordered() {
			if set[el.Base().ID] {
				src = append(src, el)
			}
		}
		added = e.insertCopies(s, src)
		return len(added) > 0
	})
	return added
}

// PasteElements inserts copies of els with fresh ids, shifted by Offset, and
// selects them. It returns the pasted copies so the caller can paste again
// from where these landed.
func (e *Engine) PasteElements(els []element.Element) []element.Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	var pasted []element.Element
	e.mutate("paste", element.IDs(els), func(s *document.State) bool {
		ids := e.insertCopies(s, els)
		for _, id := range ids {
			el, _, _ := s.Find(id)
			pasted = append(pasted, el.Clone())
		}
		return len(ids) > 0
	})
	return pasted
}

func (e *Engine) insertCopies(s *document.State, src []element.Element) []string {
	if len(src) == 0 {
		return nil
	}
	ids := make([]string, 0, len(src))
	for _, el := range src {
		id := e.freshID(s, el.Kind())
		cp := element.With(el, func(c *element.Common) {
			c.ID = id
			c.X += Offset
			c.Y += Offset
		})
		s.Elements = append(s.Elements, cp)
		ids = append(ids, id)
	}
	s.Selected = ids
	return ids
}

// setZ assigns zIndex values to the unlocked elements in ids. z is given the
// element's current zIndex.
func setZ(s *document.State, ids []string, z func(cur int) int) bool {
	set := idSet(ids)
	changed := false
	for i, el := range s.Elements {
		c := el.Base()
		if !set[c.ID] || c.Locked {
			continue
		}
		if nz := z(c.ZIndex); nz != c.ZIndex {
			s.Elements[i] = element.With(el, func(c *element.Common) { c.ZIndex = nz })
			changed = true
		}
	}
	return changed
}

// MoveToFront puts the unlocked elements in ids above every element.
func (e *Engine) MoveToFront(ids []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("front", ids, func(s *document.State) bool {
		top := s.MaxZ() + 1
		return setZ(s, ids, func(int) int { return top })
	})
}

// MoveToBack puts the unlocked elements in ids below every element.
func (e *Engine) MoveToBack(ids []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("back", ids, func(s *document.State) bool {
		bottom := s.MinZ() - 1
		return setZ(s, ids, func(int) int { return bottom })
	})
}

// MoveForward raises the unlocked elements in ids by one.
func (e *Engine) MoveForward(ids []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("forward", ids, func(s *document.State) bool {
		return setZ(s, ids, func(z int) int { return z + 1 })
	})
}

// MoveBackward lowers the unlocked elements in ids by one.
func (e *Engine) MoveBackward(ids []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("backward", ids, func(s *document.State) bool {
		return setZ(s, ids, func(z int) int { return z - 1 })
	})
}

// Nudge moves the unlocked elements in ids by dx, dy. With snap-to-grid on,
// each non-zero step becomes one grid cell and the result lands on the grid.
func (e *Engine) Nudge(ids []string, dx, dy float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	set := idSet(ids)
	return e.mutate("nudge", ids, func(s *document.State) bool {
		move := func(v, d float64) float64 {
			if !s.SnapToGrid || d == 0 {
				return v + d
			}
			return document.Snap(v+math.Copysign(s.GridSize, d), s.GridSize)
		}
		changed := false
		for i, el := range s.Elements {
			c := el.Base()
			if !set[c.ID] || c.Locked {
				continue
			}
			x, y := move(c.X, dx), move(c.Y, dy)
			if x == c.X && y == c.Y {
				continue
			}
			s.Elements[i] = element.With(el, func(c *element.Common) { c.X, c.Y = x, y })
			changed = true
		}
		return changed
	})
}

func setFlag(s *document.State, ids []string, apply func(c *element.Common) bool) bool {
	set := idSet(ids)
	changed := false
	for i, el := range s.Elements {
		if !set[el.Base().ID] {
			continue
		}
		var did bool
		out := element.With(el, func(c *element.Common) { did = apply(c) })
		if did {
			s.Elements[i] = out
			changed = true
		}
	}
	return changed
}

// SetLocked locks or unlocks the elements in ids. It works on locked
// elements too; this is the explicit unlock path.
func (e *Engine) SetLocked(ids []string, locked bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("lock", ids, func(s *document.State) bool {
		return setFlag(s, ids, func(c *element.Common) bool {
			if c.Locked == locked {
				return false
			}
			c.Locked = locked
			return true
		})
	})
}

// SetVisible shows or hides the elements in ids.
func (e *Engine) SetVisible(ids []string, visible bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("visible", ids, func(s *document.State) bool {
		return setFlag(s, ids, func(c *element.Common) bool {
			if c.Visible == visible {
				return false
			}
			c.Visible = visible
			return true
		})
	})
}

// SetBackgroundColor changes the canvas background.
func (e *Engine) SetBackgroundColor(color string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("background", nil, func(s *document.State) bool {
		if color == "" || s.Background == color {
			return false
		}
		s.Background = color
		return true
	})
}

// SetCanvasSize resizes the canvas. Non-positive sizes are refused.
func (e *Engine) SetCanvasSize(w, h float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("canvas-size", nil, func(s *document.State) bool {
		if !document.ValidCanvasSize(w, h) || (s.CanvasWidth == w && s.CanvasHeight == h) {
			return false
		}
		s.CanvasWidth, s.CanvasHeight = w, h
		return true
	})
}

// The operations below change the selection or the view. They record no
// checkpoint.

// SelectElement selects id alone, or adds it to the selection when add is
// set. Unknown ids are ignored.
func (e *Engine) SelectElement(id string, add bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Has(id) {
		return
	}
	switch {
	case !add:
		e.state.Selected = []string{id}
	case !e.state.IsSelected(id):
		e.state.Selected = append(e.state.Selected, id)
	}
}

// SelectElements replaces the selection with the known ids in ids.
func (e *Engine) SelectElements(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Selected = slices.Clone(ids)
	e.state.PruneSelection()
}

func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Selected = nil
}

// SelectAll selects every element, including locked ones.
func (e *Engine) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Selected = e.state.IDs()
}

// SetZoom stores z clamped to the supported range.
func (e *Engine) SetZoom(z float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Zoom = document.ClampZoom(z)
	return e.state.Zoom
}

// SetPan moves the view offset. Non-finite offsets are ignored.
func (e *Engine) SetPan(x, y float64) bool {
	if !finite(x) || !finite(y) {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Pan = document.Point{X: x, Y: y}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (e *Engine) ToggleGrid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.GridVisible = !e.state.GridVisible
	return e.state.GridVisible
}

func (e *Engine) SetSnapToGrid(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SnapToGrid = on
}

func (e *Engine) SetGridSize(size float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.GridSize = document.ClampGrid(size)
}
