// Package history keeps undo and redo stacks of full document snapshots.
package history

import (
	"labelforge/internal/document"
)

// History is a two-stack undo/redo automaton. past holds the states before
// each checkpointed mutation, oldest first; future holds undone states with
// the most recent undo on top.
type History struct {
	past   []*document.State
	future []*document.State

	// Limit caps the number of past entries. Zero keeps everything.
	Limit int
}

// New returns an empty history with the given limit.
func New(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{Limit: limit}
}

// Checkpoint records a copy of present and discards the redo path.
func (h *History) Checkpoint(present *document.State) {
	h.Push(present.Clone())
}

// Push records snap as-is. The caller hands over ownership of snap.
func (h *History) Push(snap *document.State) {
	h.past = append(h.past, snap)
	h.future = nil
	if h.Limit > 0 && len(h.past) > h.Limit {
		kept := make([]*document.State, h.Limit)
		copy(kept, h.past[len(h.past)-h.Limit:])
		h.past = kept
	}
}

// Undo returns the state to restore in place of present. It returns false
// when there is nothing to undo.
func (h *History) Undo(present *document.State) (*document.State, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past[last] = nil
	h.past = h.past[:last]
	h.future = append(h.future, present.Clone())
	return prev, true
}

// Redo returns the state to restore in place of present. It returns false
// when there is nothing to redo.
func (h *History) Redo(present *document.State) (*document.State, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	last := len(h.future) - 1
	next := h.future[last]
	h.future[last] = nil
	h.future = h.future[:last]
	h.past = append(h.past, present.Clone())
	return next, true
}

// Mark is a position in the history. Rewinding to it discards the
// checkpoints taken since and brings back the redo path they cleared.
type Mark struct {
	past   []*document.State
	future []*document.State
}

// Mark returns the current position.
func (h *History) Mark() Mark {
	n := len(h.past)
	return Mark{past: h.past[:n:n], future: h.future}
}

// Rewind returns to m. It is only valid while no undo or redo has run
// since m was taken.
func (h *History) Rewind(m Mark) {
	h.past = m.past
	h.future = m.future
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History) PastLen() int   { return len(h.past) }
func (h *History) FutureLen() int { return len(h.future) }
func (h *History) CanUndo() bool  { return len(h.past) > 0 }
func (h *History) CanRedo() bool  { return len(h.future) > 0 }
