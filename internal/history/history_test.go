package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelforge/internal/document"
	"labelforge/internal/element"
)

func withText(s *document.State, id string) *document.State {
	next := s.Clone()
	next.Elements = append(next.Elements, element.NewText(id, id, 0, 0))
	return next
}

func TestHistory_UndoRedo(t *testing.T) {
	t.Parallel()

	h := New(0)
	s0 := document.New()

	h.Checkpoint(s0)
	s1 := withText(s0, "a")
	h.Checkpoint(s1)
	s2 := withText(s1, "b")

	require.Equal(t, 2, h.PastLen())
	require.Equal(t, 0, h.FutureLen())

	got, ok := h.Undo(s2)
	require.True(t, ok)
	assert.True(t, document.Equal(s1, got))
	assert.Equal(t, 1, h.PastLen())
	assert.Equal(t, 1, h.FutureLen())

	got, ok = h.Undo(got)
	require.True(t, ok)
	assert.True(t, document.Equal(s0, got))
	assert.False(t, h.CanUndo())

	_, ok = h.Undo(got)
	assert.False(t, ok, "underflow is a no-op")

	got, ok = h.Redo(got)
	require.True(t, ok)
	assert.True(t, document.Equal(s1, got))
	got, ok = h.Redo(got)
	require.True(t, ok)
	assert.True(t, document.Equal(s2, got))

	_, ok = h.Redo(got)
	assert.False(t, ok)
	assert.Equal(t, 2, h.PastLen())
}

func TestHistory_CheckpointTruncatesFuture(t *testing.T) {
	t.Parallel()

	h := New(0)
	s0 := document.New()
	h.Checkpoint(s0)
	s1 := withText(s0, "a")

	back, ok := h.Undo(s1)
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Checkpoint(back)
	assert.False(t, h.CanRedo())
	_, ok = h.Redo(back)
	assert.False(t, ok)
}

func TestHistory_SnapshotsAreIndependent(t *testing.T) {
	t.Parallel()

	h := New(0)
	s := document.New()
	h.Checkpoint(s)
	s.Background = "#000000"

	got, ok := h.Undo(s)
	require.True(t, ok)
	assert.Equal(t, document.DefaultBackground, got.Background)
}

func TestHistory_Limit(t *testing.T) {
	t.Parallel()

	h := New(2)
	s := document.New()
	for i := 0; i < 5; i++ {
		h.Checkpoint(s)
	}
	assert.Equal(t, 2, h.PastLen())
}

func TestHistory_LimitReleasesTrimmedSnapshots(t *testing.T) {
	t.Parallel()

	h := New(2)
	s := document.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		s = withText(s, id)
		h.Checkpoint(s)
	}
	require.Equal(t, 2, h.PastLen())
	assert.Equal(t, 2, cap(h.past), "trimmed entries must not stay behind in the backing array")

	got, ok := h.Undo(s)
	require.True(t, ok)
	assert.Len(t, got.Elements, 4)
	got, ok = h.Undo(got)
	require.True(t, ok)
	assert.Len(t, got.Elements, 3)
	_, ok = h.Undo(got)
	assert.False(t, ok)
}

func TestHistory_RewindRestoresRedo(t *testing.T) {
	t.Parallel()

	h := New(2)
	s0 := document.New()
	s1 := withText(s0, "a")
	s2 := withText(s1, "b")
	h.Checkpoint(s0)
	h.Checkpoint(s1)
	back, ok := h.Undo(s2)
	require.True(t, ok)
	require.Equal(t, 1, h.FutureLen())

	mark := h.Mark()
	h.Checkpoint(back)
	h.Checkpoint(back)
	require.Equal(t, 2, h.PastLen())
	require.False(t, h.CanRedo())

	h.Rewind(mark)
	assert.Equal(t, 1, h.PastLen())
	require.True(t, h.CanRedo())
	next, ok := h.Redo(back)
	require.True(t, ok)
	assert.Len(t, next.Elements, 2)
}

func TestHistory_Clear(t *testing.T) {
	t.Parallel()

	h := New(0)
	s := document.New()
	h.Checkpoint(s)
	h.Checkpoint(s)
	_, _ = h.Undo(s)
	require.Equal(t, 1, h.FutureLen())
	h.Clear()
	assert.Equal(t, 0, h.PastLen())
	assert.Equal(t, 0, h.FutureLen())
}
