// Package document holds the canvas-level state of a label: its elements,
// the selection, the view and the canvas settings.
//
// A State is a plain value. The engine package is its only writer; every
// other package reads it through the accessors and views below.
package document

import (
	"math"
	"reflect"
	"slices"
	"sort"

	"labelforge/internal/element"
)

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBackground = "#ffffff"
	DefaultGridSize   = 20
	MinGridSize       = 1
)

// Point is a pan offset in screen units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the whole editable document.
type State struct {
	Elements []element.Element
	Selected []string

	Zoom float64
	Pan  Point

	CanvasWidth  float64
	CanvasHeight float64
	Background   string
	GridVisible  bool
	GridSize     float64
	SnapToGrid   bool
}

// New returns an empty document with the default view and canvas.
func New() *State {
	return &State{
		Zoom:         1,
		CanvasWidth:  DefaultWidth,
		CanvasHeight: DefaultHeight,
		Background:   DefaultBackground,
		GridSize:     DefaultGridSize,
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Elements = element.CloneAll(s.Elements)
	if s.Selected != nil {
		c.Selected = slices.Clone(s.Selected)
	}
	return &c
}

// Equal reports whether a and b are structurally equal. Nil and empty
// collections compare equal.
func Equal(a, b *State) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Elements) != len(b.Elements) || len(a.Selected) != len(b.Selected) {
		return false
	}
	for i := range a.Elements {
		if !reflect.DeepEqual(a.Elements[i], b.Elements[i]) {
			return false
		}
	}
	if !slices.Equal(a.Selected, b.Selected) {
		return false
	}
	return a.Zoom == b.Zoom &&
		a.Pan == b.Pan &&
		a.CanvasWidth == b.CanvasWidth &&
		a.CanvasHeight == b.CanvasHeight &&
		a.Background == b.Background &&
		a.GridVisible == b.GridVisible &&
		a.GridSize == b.GridSize &&
		a.SnapToGrid == b.SnapToGrid
}

// Find returns the element with id, its index in Elements, and whether it
// exists.
func (s *State) Find(id string) (element.Element, int, bool) {
	for i, el := range s.Elements {
		if el.Base().ID == id {
			return el, i, true
		}
	}
	return nil, -1, false
}

func (s *State) Has(id string) bool {
	_, _, ok := s.Find(id)
	return ok
}

func (s *State) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

// SelectedElements returns the selected elements in selection order.
func (s *State) SelectedElements() []element.Element {
	out := make([]element.Element, 0, len(s.Selected))
	for _, id := range s.Selected {
		if el, _, ok := s.Find(id); ok {
			out = append(out, el)
		}
	}
	return out
}

// IDs returns every element id in collection order.
func (s *State) IDs() []string {
	return element.IDs(s.Elements)
}

// Less is the stacking order: zIndex ascending, ties broken by id. Painting
// and hit testing both use it.
func Less(a, b element.Element) bool {
	ca, cb := a.Base(), b.Base()
	if ca.ZIndex != cb.ZIndex {
		return ca.ZIndex < cb.ZIndex
	}
	return ca.ID < cb.ID
}

// Ordered returns the elements back to front. The slice is new but the
// elements are shared; callers must not modify them.
func (s *State) Ordered() []element.Element {
	out := slices.Clone(s.Elements)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Visible is Ordered without hidden elements.
func (s *State) Visible() []element.Element {
	var out []element.Element
	for _, el := range s.Ordered() {
		if el.Base().Visible {
			out = append(out, el)
		}
	}
	return out
}

// HitTest returns the top-most visible element whose box contains the
// canvas point.
func (s *State) HitTest(x, y float64) (element.Element, bool) {
	vis := s.Visible()
	for i := len(vis) - 1; i >= 0; i-- {
		if element.Bounds(vis[i]).Contains(x, y) {
			return vis[i], true
		}
	}
	return nil, false
}

// MaxZ returns the highest zIndex, or 0 for an empty document.
func (s *State) MaxZ() int {
	if len(s.Elements) == 0 {
		return 0
	}
	z := math.MinInt
	for _, el := range s.Elements {
		z = max(z, el.Base().ZIndex)
	}
	return z
}

// MinZ returns the lowest zIndex, or 0 for an empty document.
func (s *State) MinZ() int {
	if len(s.Elements) == 0 {
		return 0
	}
	z := math.MaxInt
	for _, el := range s.Elements {
		z = min(z, el.Base().ZIndex)
	}
	return z
}

// PruneSelection drops ids that no longer reference an element and removes
// duplicates, keeping first-seen order. It reports whether anything was
// dropped.
func (s *State) PruneSelection() bool {
	if len(s.Selected) == 0 {
		return false
	}
	seen := make(map[string]bool, len(s.Selected))
	kept := s.Selected[:0:0]
	for _, id := range s.Selected {
		if seen[id] || !s.Has(id) {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}
	changed := len(kept) != len(s.Selected)
	s.Selected = kept
	return changed
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN maps to 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// ValidCanvasSize reports whether w x h can be stored.
func ValidCanvasSize(w, h float64) bool {
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0)
}

// ClampGrid enforces the minimum grid size.
func ClampGrid(size float64) float64 {
	if math.IsNaN(size) || size < MinGridSize {
		return MinGridSize
	}
	return size
}

// Snap rounds v to the nearest multiple of grid.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}
