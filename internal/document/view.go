package document

import (
	"labelforge/internal/element"
)

// RenderView is what renderers and exporters consume: the visible elements
// back to front plus the view and canvas settings. It holds copies, so it
// stays valid after later edits.
type RenderView struct {
	Elements     []element.Element
	Zoom         float64
	Pan          Point
	CanvasWidth  float64
	CanvasHeight float64
	Background   string
	GridVisible  bool
	GridSize     float64
}

// View derives a RenderView from s.
func (s *State) View() RenderView {
	return RenderView{
		Elements:     element.CloneAll(s.Visible()),
		Zoom:         s.Zoom,
		Pan:          s.Pan,
		CanvasWidth:  s.CanvasWidth,
		CanvasHeight: s.CanvasHeight,
		Background:   s.Background,
		GridVisible:  s.GridVisible,
		GridSize:     s.GridSize,
	}
}

// Snapshot is the persisted form of a document. Selection is not saved.
type Snapshot struct {
	Elements     element.List `json:"elements" cbor:"-"`
	Zoom         float64      `json:"zoom" cbor:"zoom"`
	Pan          Point        `json:"pan" cbor:"pan"`
	CanvasWidth  float64      `json:"canvasWidth" cbor:"canvasWidth"`
	CanvasHeight float64      `json:"canvasHeight" cbor:"canvasHeight"`
	Background   string       `json:"backgroundColor" cbor:"backgroundColor"`
	GridVisible  bool         `json:"gridVisible" cbor:"gridVisible"`
	GridSize     float64      `json:"gridSize" cbor:"gridSize"`
	SnapToGrid   bool         `json:"snapToGrid" cbor:"snapToGrid"`
}

// Snapshot copies the persistable part of s.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Elements:     element.CloneAll(s.Elements),
		Zoom:         s.Zoom,
		Pan:          s.Pan,
		CanvasWidth:  s.CanvasWidth,
		CanvasHeight: s.CanvasHeight,
		Background:   s.Background,
		GridVisible:  s.GridVisible,
		GridSize:     s.GridSize,
		SnapToGrid:   s.SnapToGrid,
	}
}

// FromSnapshot builds a State from a saved snapshot. Out-of-range view and
// canvas values fall back to defaults; the selection starts empty.
func FromSnapshot(snap Snapshot) *State {
	s := New()
	s.Elements = element.CloneAll(snap.Elements)
	s.Zoom = ClampZoom(snap.Zoom)
	if snap.Zoom == 0 {
		s.Zoom = 1
	}
	s.Pan = snap.Pan
	if ValidCanvasSize(snap.CanvasWidth, snap.CanvasHeight) {
		s.CanvasWidth, s.CanvasHeight = snap.CanvasWidth, snap.CanvasHeight
	}
	if snap.Background != "" {
		s.Background = snap.Background
	}
	s.GridVisible = snap.GridVisible
	if snap.GridSize > 0 {
		s.GridSize = ClampGrid(snap.GridSize)
	}
	s.SnapToGrid = snap.SnapToGrid
	return s
}
