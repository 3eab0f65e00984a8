package engine

import (
	"labelforge/internal/document"
	"labelforge/internal/element"
)

// Edge names a line that alignment moves elements onto.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeCenter
	EdgeRight
	EdgeTop
	EdgeMiddle
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeCenter:
		return "center"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeMiddle:
		return "middle"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

func (e *Engine) AlignLeft(ids []string) bool   { return e.Align(ids, EdgeLeft) }
func (e *Engine) AlignCenter(ids []string) bool { return e.Align(ids, EdgeCenter) }
func (e *Engine) AlignRight(ids []string) bool  { return e.Align(ids, EdgeRight) }
func (e *Engine) AlignTop(ids []string) bool    { return e.Align(ids, EdgeTop) }
func (e *Engine) AlignMiddle(ids []string) bool { return e.Align(ids, EdgeMiddle) }
func (e *Engine) AlignBottom(ids []string) bool { return e.Align(ids, EdgeBottom) }

// Align moves the unlocked elements in ids so that the chosen edge or
// center of each lies on the same line, taken from the extremes of those
// elements. Only positions change. Fewer than two elements is a no-op.
func (e *Engine) Align(ids []string, edge Edge) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	set := idSet(ids)
	return e.mutate("align-"+edge.String(), ids, func(s *document.State) bool {
		var idx []int
		var matched []element.Element
		for i, el := range s.Elements {
			c := el.Base()
			if set[c.ID] && !c.Locked {
				idx = append(idx, i)
				matched = append(matched, el)
			}
		}
		if len(matched) < 2 {
			return false
		}
		box, _ := element.BoundsOf(matched)

		changed := false
		for n, i := range idx {
			c := matched[n].Base()
			x, y := c.X, c.Y
			switch edge {
			case EdgeLeft:
				x = box.X
			case EdgeCenter:
				x = box.X + box.Width/2 - c.Width/2
			case EdgeRight:
				x = box.Right() - c.Width
			case EdgeTop:
				y = box.Y
			case EdgeMiddle:
				y = box.Y + box.Height/2 - c.Height/2
			case EdgeBottom:
				y = box.Bottom() - c.Height
			}
			if x == c.X && y == c.Y {
				continue
			}
			s.Elements[i] = element.With(matched[n], func(c *element.Common) { c.X, c.Y = x, y })
			changed = true
		}
		return changed
	})
}
