package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelforge/internal/element"
)

func rect(id string, x, y float64, z int) element.Element {
	return element.With(element.NewRect(id, x, y), func(c *element.Common) { c.ZIndex = z })
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, Point{}, s.Pan)
	assert.Equal(t, 800.0, s.CanvasWidth)
	assert.Equal(t, 600.0, s.CanvasHeight)
	assert.Equal(t, "#ffffff", s.Background)
	assert.False(t, s.GridVisible)
	assert.Equal(t, 20.0, s.GridSize)
	assert.Empty(t, s.Elements)
	assert.Equal(t, 0, s.MaxZ())
	assert.Equal(t, 0, s.MinZ())
}

func TestClone_Independent(t *testing.T) {
	t.Parallel()

	s := New()
	s.Elements = []element.Element{rect("a", 0, 0, 0)}
	s.Selected = []string{"a"}

	c := s.Clone()
	require.True(t, Equal(s, c))

	c.Elements[0] = element.With(c.Elements[0], func(cm *element.Common) { cm.X = 5 })
	c.Selected[0] = "b"
	assert.Equal(t, 0.0, s.Elements[0].Base().X)
	assert.Equal(t, "a", s.Selected[0])
	assert.False(t, Equal(s, c))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	assert.True(t, Equal(a, b))
	b.Zoom = 2
	assert.False(t, Equal(a, b))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestOrdered_TieBreakByID(t *testing.T) {
	t.Parallel()

	s := New()
	s.Elements = []element.Element{
		rect("c", 0, 0, 1),
		rect("b", 0, 0, 1),
		rect("a", 0, 0, 2),
		rect("d", 0, 0, -1),
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, element.IDs(s.Ordered()))
	assert.Equal(t, []string{"c", "b", "a", "d"}, s.IDs(), "collection order untouched")
	assert.Equal(t, 2, s.MaxZ())
	assert.Equal(t, -1, s.MinZ())
}

func TestHitTest_TopMostVisible(t *testing.T) {
	t.Parallel()

	s := New()
	hidden := element.With(rect("top", 0, 0, 9), func(c *element.Common) { c.Visible = false })
	s.Elements = []element.Element{rect("low", 0, 0, 0), rect("high", 10, 10, 1), hidden}

	el, ok := s.HitTest(20, 20)
	require.True(t, ok)
	assert.Equal(t, "high", el.Base().ID)

	el, ok = s.HitTest(5, 5)
	require.True(t, ok)
	assert.Equal(t, "low", el.Base().ID)

	_, ok = s.HitTest(700, 500)
	assert.False(t, ok)
}

func TestPruneSelection(t *testing.T) {
	t.Parallel()

	s := New()
	s.Elements = []element.Element{rect("a", 0, 0, 0), rect("b", 0, 0, 0)}
	s.Selected = []string{"b", "gone", "a", "b"}

	require.True(t, s.PruneSelection())
	assert.Equal(t, []string{"b", "a"}, s.Selected)
	assert.False(t, s.PruneSelection())
}

func TestClamps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MinZoom, ClampZoom(0.01))
	assert.Equal(t, MaxZoom, ClampZoom(50))
	assert.Equal(t, 1.5, ClampZoom(1.5))
	assert.False(t, ValidCanvasSize(0, 10))
	assert.False(t, ValidCanvasSize(10, -1))
	assert.True(t, ValidCanvasSize(600, 300))
	assert.Equal(t, 1.0, ClampGrid(0))
	assert.Equal(t, 40.0, Snap(47, 20))
	assert.Equal(t, 60.0, Snap(50, 20))
	assert.Equal(t, 13.0, Snap(13, 0))
}

func TestView_IsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	hidden := element.With(rect("h", 0, 0, 0), func(c *element.Common) { c.Visible = false })
	s.Elements = []element.Element{rect("b", 0, 0, 1), rect("a", 0, 0, 0), hidden}

	v := s.View()
	assert.Equal(t, []string{"a", "b"}, element.IDs(v.Elements))

	s.Elements[0] = element.With(s.Elements[0], func(c *element.Common) { c.X = 99 })
	assert.Equal(t, 0.0, v.Elements[1].Base().X)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	s := New()
	s.Elements = []element.Element{rect("a", 1, 2, 0)}
	s.Selected = []string{"a"}
	s.Background = "#fafafa"
	s.GridVisible = true

	back := FromSnapshot(s.Snapshot())
	assert.Empty(t, back.Selected)
	back.Selected = []string{"a"}
	assert.True(t, Equal(s, back))
}

func TestFromSnapshot_FallsBack(t *testing.T) {
	t.Parallel()

	s := FromSnapshot(Snapshot{Zoom: 40, CanvasWidth: -5, CanvasHeight: 10})
	assert.Equal(t, MaxZoom, s.Zoom)
	assert.Equal(t, 800.0, s.CanvasWidth)
	assert.Equal(t, "#ffffff", s.Background)
	assert.Equal(t, 20.0, s.GridSize)
}
