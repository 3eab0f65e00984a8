package engine

import (
	"bytes"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelforge/internal/document"
	"labelforge/internal/element"
	"labelforge/internal/idgen"
)

func newEngine() *Engine {
	return New(WithIDs(&idgen.Sequence{}))
}

func box(id string, x, y, w float64, z int) element.Element {
	return element.With(element.NewRect(id, x, y), func(c *element.Common) {
		c.Width = w
		c.ZIndex = z
	})
}

func mustAdd(t *testing.T, e *Engine, els ...element.Element) {
	t.Helper()
	for _, el := range els {
		require.NoError(t, e.AddElement(el))
	}
}

func x(t *testing.T, e *Engine, id string) float64 {
	t.Helper()
	el, ok := e.Find(id)
	require.True(t, ok, "missing %s", id)
	return el.Base().X
}

func z(t *testing.T, e *Engine, id string) int {
	t.Helper()
	el, ok := e.Find(id)
	require.True(t, ok, "missing %s", id)
	return el.Base().ZIndex
}

func TestScenario_AddToEmpty(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, element.NewText("t1", "A", 50, 50))

	s := e.State()
	require.Len(t, s.Elements, 1)
	assert.Equal(t, "t1", s.Elements[0].Base().ID)
	assert.Equal(t, []string{"t1"}, s.Selected)
	assert.Equal(t, 1, e.PastLen())
}

func TestScenario_UpdateThenUndo(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, element.NewText("t1", "A", 50, 50))

	require.True(t, e.UpdateElement("t1", element.Patch{X: element.Ptr(100.0)}))
	assert.Equal(t, 100.0, x(t, e, "t1"))

	require.True(t, e.Undo())
	assert.Equal(t, 50.0, x(t, e, "t1"))
	assert.Equal(t, 1, e.FutureLen())
}

func TestScenario_MoveToBack(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 20, 0), box("b", 0, 0, 20, 1))

	require.True(t, e.MoveToBack([]string{"b"}))
	assert.Equal(t, -1, z(t, e, "b"))
	assert.Less(t, z(t, e, "b"), z(t, e, "a"))
}

func TestScenario_AlignLeft(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 10, 0, 20, 0), box("b", 50, 30, 20, 0))

	require.True(t, e.AlignLeft([]string{"a", "b"}))
	assert.Equal(t, 10.0, x(t, e, "a"))
	assert.Equal(t, 10.0, x(t, e, "b"))

	el, _ := e.Find("b")
	assert.Equal(t, 30.0, el.Base().Y, "alignment is horizontal only")
	assert.Equal(t, 20.0, el.Base().Width)
}

func TestAddElement_Rejects(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))

	err := e.AddElement(box("a", 5, 5, 10, 0))
	require.ErrorIs(t, err, ErrDuplicateID)

	err = e.AddElement(element.NewText("", "x", 0, 0))
	require.ErrorIs(t, err, element.ErrInvalid)

	assert.Equal(t, 1, e.PastLen(), "rejected adds record nothing")
}

func TestUpdateElement_Tolerant(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	past := e.PastLen()

	assert.False(t, e.UpdateElement("missing", element.Position(1, 1)))
	assert.False(t, e.UpdateElement("a", element.Position(0, 0)), "same values")
	assert.Equal(t, past, e.PastLen())
}

func TestLocked_Protection(t *testing.T) {
	t.Parallel()

	e := newEngine()
	locked := element.With(box("lock", 0, 0, 10, 5), func(c *element.Common) { c.Locked = true })
	mustAdd(t, e, locked, box("free", 40, 40, 10, 0))
	past := e.PastLen()

	assert.False(t, e.DeleteElements([]string{"lock"}))
	assert.False(t, e.MoveToBack([]string{"lock"}))
	assert.False(t, e.MoveForward([]string{"lock"}))
	assert.False(t, e.Nudge([]string{"lock"}, 5, 5))
	assert.False(t, e.UpdateElement("lock", element.Position(9, 9)))
	assert.False(t, e.UpdateElementLive("lock", element.Position(9, 9)))
	assert.False(t, e.AlignLeft([]string{"lock", "free"}), "one unlocked match is not enough")
	assert.Equal(t, past, e.PastLen(), "refusals record no checkpoint")
	assert.Len(t, e.State().Elements, 2)

	assert.True(t, e.UpdateElement("lock", element.Patch{Visible: element.Ptr(false)}), "flag edits pass")

	e.SelectElement("lock", false)
	assert.Equal(t, []string{"lock"}, e.Selection(), "locked stays selectable")

	require.True(t, e.SetLocked([]string{"lock"}, false))
	require.True(t, e.DeleteElements([]string{"lock"}))
	assert.Empty(t, e.Selection())
}

func TestDelete_PrunesSelection(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0), box("b", 0, 0, 10, 0), box("c", 0, 0, 10, 0))
	e.SelectElements([]string{"a", "b", "c"})

	require.True(t, e.DeleteElements([]string{"b", "missing"}))
	s := e.State()
	assert.Equal(t, []string{"a", "c"}, s.Selected)
	for _, id := range s.Selected {
		assert.True(t, s.Has(id))
	}

	assert.False(t, e.DeleteElements(nil), "empty delete is a no-op")
}

func TestDuplicate(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 10, 15, 10, 3))

	ids := e.DuplicateElements([]string{"a"})
	require.Len(t, ids, 1)
	assert.NotEqual(t, "a", ids[0])
	assert.Equal(t, ids, e.Selection())

	dup, ok := e.Find(ids[0])
	require.True(t, ok)
	assert.Equal(t, 30.0, dup.Base().X)
	assert.Equal(t, 35.0, dup.Base().Y)
	assert.Equal(t, 3, dup.Base().ZIndex)

	past := e.PastLen()
	assert.Empty(t, e.DuplicateElements([]string{"missing"}))
	assert.Equal(t, past, e.PastLen())
}

func TestDuplicate_DriftIsUnbounded(t *testing.T) {
	t.Parallel()

	e := newEngine()
	require.True(t, e.SetCanvasSize(100, 100))
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	ids := []string{"a"}
	for i := 0; i < 10; i++ {
		ids = e.DuplicateElements(ids)
	}
	el, ok := e.Find(ids[0])
	require.True(t, ok)
	assert.Equal(t, 200.0, el.Base().X, "copies leave the 100x100 canvas")
}

func TestIDsStayUnique(t *testing.T) {
	t.Parallel()

	e := New(WithIDs(&idgen.Sequence{}))
	// an id the sequence will also produce
	mustAdd(t, e, box("shape-1", 0, 0, 10, 0))

	e.DuplicateElements([]string{"shape-1"})
	e.PasteElements([]element.Element{box("shape-1", 0, 0, 10, 0)})
	e.DuplicateElements(e.State().IDs())

	seen := map[string]bool{}
	for _, id := range e.State().IDs() {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 6)
}

func TestMoveToFront_Idempotent(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0), box("b", 0, 0, 10, 1), box("c", 0, 0, 10, 2))

	require.True(t, e.MoveToFront([]string{"a", "b"}))
	once := element.IDs(e.State().Ordered())
	assert.Equal(t, 3, z(t, e, "a"))
	assert.Equal(t, 3, z(t, e, "b"), "max is computed once")

	e.MoveToFront([]string{"a", "b"})
	assert.Equal(t, once, element.IDs(e.State().Ordered()))
	assert.Equal(t, []string{"c", "a", "b"}, once)
}

func TestMoveForwardBackward(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0), box("b", 0, 0, 10, 1))

	require.True(t, e.MoveForward([]string{"a"}))
	assert.Equal(t, 1, z(t, e, "a"))
	assert.Equal(t, []string{"a", "b"}, element.IDs(e.State().Ordered()), "tie broken by id")

	require.True(t, e.MoveBackward([]string{"b"}))
	assert.Equal(t, 0, z(t, e, "b"))
}

func TestAlign_Convergence(t *testing.T) {
	t.Parallel()

	edges := []Edge{EdgeLeft, EdgeCenter, EdgeRight, EdgeTop, EdgeMiddle, EdgeBottom}
	for _, edge := range edges {
		t.Run(edge.String(), func(t *testing.T) {
			e := newEngine()
			mustAdd(t, e, box("a", 10, 10, 20, 0), box("b", 50, 70, 40, 0), box("c", 0, 200, 60, 0))
			ids := []string{"a", "b", "c"}

			require.True(t, e.Align(ids, edge))
			past := e.PastLen()
			assert.False(t, e.Align(ids, edge), "second call changes nothing")
			assert.Equal(t, past, e.PastLen())
		})
	}
}

func TestAlign_Values(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 20, 0), box("b", 80, 50, 40, 0))
	ids := []string{"a", "b"}

	e.AlignRight(ids)
	assert.Equal(t, 100.0, x(t, e, "a"))
	assert.Equal(t, 80.0, x(t, e, "b"))

	e.AlignCenter(ids)
	assert.Equal(t, 90.0, x(t, e, "a"))
	assert.Equal(t, 80.0, x(t, e, "b"))

	e.AlignBottom(ids)
	a, _ := e.Find("a")
	b, _ := e.Find("b")
	assert.Equal(t, a.Base().Y+a.Base().Height, b.Base().Y+b.Base().Height)

	assert.False(t, e.AlignTop([]string{"a"}))
	assert.False(t, e.AlignTop(nil))
}

func TestHistory_RoundTripEveryOperation(t *testing.T) {
	t.Parallel()

	ops := map[string]func(e *Engine){
		"add":        func(e *Engine) { _ = e.AddElement(box("n", 1, 1, 10, 0)) },
		"update":     func(e *Engine) { e.UpdateElement("a", element.Patch{Fill: element.Ptr("#000000")}) },
		"delete":     func(e *Engine) { e.DeleteElements([]string{"a"}) },
		"duplicate":  func(e *Engine) { e.DuplicateElements([]string{"a", "b"}) },
		"paste":      func(e *Engine) { e.PasteElements([]element.Element{box("a", 0, 0, 5, 0)}) },
		"front":      func(e *Engine) { e.MoveToFront([]string{"a"}) },
		"back":       func(e *Engine) { e.MoveToBack([]string{"b"}) },
		"forward":    func(e *Engine) { e.MoveForward([]string{"a"}) },
		"backward":   func(e *Engine) { e.MoveBackward([]string{"a"}) },
		"align":      func(e *Engine) { e.AlignMiddle([]string{"a", "b"}) },
		"nudge":      func(e *Engine) { e.Nudge([]string{"a"}, 3, -2) },
		"lock":       func(e *Engine) { e.SetLocked([]string{"a"}, true) },
		"hide":       func(e *Engine) { e.SetVisible([]string{"b"}, false) },
		"background": func(e *Engine) { e.SetBackgroundColor("#123456") },
		"canvas":     func(e *Engine) { e.SetCanvasSize(600, 300) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			e := newEngine()
			mustAdd(t, e, box("a", 0, 0, 10, 0), box("b", 40, 30, 20, 1))
			e.SelectElements([]string{"a", "b"})

			before := e.State()
			op(e)
			after := e.State()
			require.False(t, document.Equal(before, after), "op must change the document")

			require.True(t, e.Undo())
			assert.True(t, document.Equal(before, e.State()))
			require.True(t, e.Redo())
			assert.True(t, document.Equal(after, e.State()))
		})
	}
}

func TestHistory_Truncation(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	e.Nudge([]string{"a"}, 1, 0)
	e.Nudge([]string{"a"}, 1, 0)

	e.Undo()
	e.Undo()
	require.Equal(t, 2, e.FutureLen())

	e.Nudge([]string{"a"}, 0, 5)
	assert.Equal(t, 0, e.FutureLen())
	assert.False(t, e.Redo())
}

func TestHistory_UnderflowIsNoop(t *testing.T) {
	t.Parallel()

	e := newEngine()
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
}

func TestUndo_PrunesSelection(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	ids := e.DuplicateElements([]string{"a"})
	require.Equal(t, ids, e.Selection())

	e.Undo()
	for _, id := range e.Selection() {
		assert.True(t, e.State().Has(id))
	}
}

func TestGesture_OneCheckpoint(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	past := e.PastLen()

	e.BeginGesture()
	for i := 1; i <= 30; i++ {
		e.UpdateElementLive("a", element.Position(float64(i), float64(i)))
	}
	require.True(t, e.CommitGesture())
	assert.Equal(t, past+1, e.PastLen())
	assert.Equal(t, 30.0, x(t, e, "a"))

	require.True(t, e.Undo())
	assert.Equal(t, 0.0, x(t, e, "a"), "one undo rewinds the whole drag")
}

func TestGesture_NoChangeLeavesNoCheckpoint(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	past := e.PastLen()

	e.BeginGesture()
	e.UpdateElementLive("a", element.Position(5, 5))
	e.UpdateElementLive("a", element.Position(0, 0))
	assert.False(t, e.CommitGesture())
	assert.Equal(t, past, e.PastLen())
}

func TestGesture_Cancel(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	e.Nudge([]string{"a"}, 1, 1)
	e.Undo()
	require.Equal(t, 1, e.FutureLen())
	past := e.PastLen()

	e.BeginGesture()
	e.UpdateElementLive("a", element.Position(70, 70))
	require.True(t, e.CancelGesture())

	assert.Equal(t, 0.0, x(t, e, "a"))
	assert.Equal(t, past, e.PastLen())
	assert.Equal(t, 1, e.FutureLen(), "a cancelled gesture keeps the redo path")
	assert.False(t, e.InGesture())
	assert.False(t, e.CancelGesture())

	require.True(t, e.Redo())
	assert.Equal(t, 1.0, x(t, e, "a"))
}

func TestGesture_NetZeroKeepsRedo(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	require.True(t, e.UpdateElement("a", element.Position(3, 3)))
	require.True(t, e.Undo())
	past := e.PastLen()
	require.Equal(t, 1, e.FutureLen())

	e.BeginGesture()
	require.True(t, e.UpdateElementLive("a", element.Position(5, 5)))
	assert.True(t, e.CanUndo())
	require.True(t, e.UpdateElementLive("a", element.Position(0, 0)))
	assert.False(t, e.CommitGesture())

	assert.Equal(t, past, e.PastLen())
	assert.Equal(t, 1, e.FutureLen())
	require.True(t, e.Redo())
	assert.Equal(t, 3.0, x(t, e, "a"))
}

func TestUpdate_RejectsInvalidResult(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 50, 0))
	past := e.PastLen()

	negative := -30.0
	triangle := element.ShapeType("triangle")
	assert.False(t, e.UpdateElement("a", element.Patch{Width: &negative}))
	assert.False(t, e.UpdateElement("a", element.Patch{ShapeType: &triangle}))
	assert.Equal(t, past, e.PastLen(), "a rejected edit records no checkpoint")

	zero := 0.0
	assert.False(t, e.UpdateElementLive("a", element.Patch{Height: &zero}))
	assert.False(t, e.InGesture())

	for _, el := range e.State().Elements {
		require.NoError(t, element.Validate(el))
	}
	require.NoError(t, New().LoadDocument(e.Snapshot()))
}

func TestGesture_LiveUpdateOpensGesture(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))

	require.True(t, e.UpdateElementLive("a", element.Position(8, 8)))
	assert.True(t, e.InGesture())

	// a discrete mutation closes the gesture first
	e.SetBackgroundColor("#eeeeee")
	assert.False(t, e.InGesture())

	e.Undo()
	assert.Equal(t, 8.0, x(t, e, "a"))
	e.Undo()
	assert.Equal(t, 0.0, x(t, e, "a"))
}

func TestSelection_NoCheckpoint(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0), box("b", 0, 0, 10, 0))
	past := e.PastLen()

	e.SelectElement("a", false)
	e.SelectElement("b", true)
	e.SelectElement("b", true)
	assert.Equal(t, []string{"a", "b"}, e.Selection())

	e.SelectElement("ghost", false)
	assert.Equal(t, []string{"a", "b"}, e.Selection())

	e.SelectElements([]string{"ghost", "b"})
	assert.Equal(t, []string{"b"}, e.Selection())

	e.SelectAll()
	assert.ElementsMatch(t, []string{"a", "b"}, e.Selection())
	e.ClearSelection()
	assert.Empty(t, e.Selection())

	assert.Equal(t, past, e.PastLen())
}

func TestViewSettings(t *testing.T) {
	t.Parallel()

	e := newEngine()
	assert.Equal(t, document.MaxZoom, e.SetZoom(12))
	assert.Equal(t, document.MinZoom, e.SetZoom(0))
	require.True(t, e.SetPan(10, -4))
	assert.False(t, e.SetPan(math.NaN(), 0))
	assert.False(t, e.SetPan(0, math.Inf(-1)))
	assert.True(t, e.ToggleGrid())
	e.SetSnapToGrid(true)
	e.SetGridSize(-3)

	s := e.State()
	assert.Equal(t, document.Point{X: 10, Y: -4}, s.Pan)
	assert.True(t, s.GridVisible)
	assert.True(t, s.SnapToGrid)
	assert.Equal(t, 1.0, s.GridSize)
	assert.Equal(t, 0, e.PastLen(), "view settings are not undoable")

	assert.False(t, e.SetCanvasSize(0, 100))
	assert.False(t, e.SetBackgroundColor(""))
	assert.Equal(t, 0, e.PastLen())
}

func TestNudge_Snap(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 7, 0, 10, 0))
	e.SetSnapToGrid(true)

	require.True(t, e.Nudge([]string{"a"}, 1, 0))
	assert.Equal(t, 20.0, x(t, e, "a"))
	require.True(t, e.Nudge([]string{"a"}, -1, 0))
	assert.Equal(t, 0.0, x(t, e, "a"))
}

func TestResetAndLoad(t *testing.T) {
	t.Parallel()

	e := newEngine()
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	e.Reset()
	assert.Empty(t, e.State().Elements)
	assert.Equal(t, 0, e.PastLen())

	snap := document.Snapshot{
		Elements:     element.List{box("x", 1, 1, 10, 0), box("y", 2, 2, 10, 1)},
		Zoom:         2,
		CanvasWidth:  600,
		CanvasHeight: 300,
	}
	mustAdd(t, e, box("old", 0, 0, 10, 0))
	require.NoError(t, e.LoadDocument(snap))

	s := e.State()
	assert.Equal(t, []string{"x", "y"}, s.IDs())
	assert.Empty(t, s.Selected)
	assert.Equal(t, 600.0, s.CanvasWidth)
	assert.False(t, e.CanUndo(), "a loaded document is a new baseline")

	bad := document.Snapshot{Elements: element.List{box("x", 0, 0, 10, 0), box("x", 0, 0, 10, 0)}}
	require.ErrorIs(t, e.LoadDocument(bad), ErrDuplicateID)
	assert.Equal(t, []string{"x", "y"}, e.State().IDs(), "failed load keeps the document")
}

func TestLogsMutations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)), WithIDs(&idgen.Sequence{}))
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	assert.Contains(t, buf.String(), `"op":"add"`)
	assert.Contains(t, buf.String(), `"past":1`)
}

func TestHistoryLimit(t *testing.T) {
	t.Parallel()

	e := New(WithHistoryLimit(3))
	mustAdd(t, e, box("a", 0, 0, 10, 0))
	for i := 0; i < 10; i++ {
		e.Nudge([]string{"a"}, 1, 0)
	}
	assert.Equal(t, 3, e.PastLen())
}

func TestNextZ(t *testing.T) {
	t.Parallel()

	e := newEngine()
	assert.Equal(t, 0, e.NextZ())
	mustAdd(t, e, box("a", 0, 0, 10, 4))
	assert.Equal(t, 5, e.NextZ())
	assert.NotEqual(t, "a", e.NewID(element.KindShape))
}
