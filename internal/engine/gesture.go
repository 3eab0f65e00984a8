package engine

import (
	"labelforge/internal/document"
	"labelforge/internal/element"
)

// BeginGesture opens a continuous gesture such as a drag. It records one
// checkpoint; the live updates that follow record none. Calling it while a
// gesture is open does nothing.
func (e *Engine) BeginGesture() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginGesture()
}

func (e *Engine) beginGesture() {
	if e.gesture != nil {
		return
	}
	g := &openGesture{start: e.state.Clone(), mark: e.hist.Mark()}
	e.hist.Push(g.start)
	e.gesture = g
	e.log.Debug().Str("op", "gesture-begin").Int("past", e.hist.PastLen()).Msg("gesture")
}

// InGesture reports whether a gesture is open.
func (e *Engine) InGesture() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gesture != nil
}

// UpdateElementLive applies a gesture frame without a checkpoint. Locked
// and unknown elements are ignored, and so is a frame that would leave the
// element invalid. A gesture is opened if none is, so the change can always
// be undone.
func (e *Engine) UpdateElementLive(id string, p element.Patch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	el, i, ok := e.state.Find(id)
	if !ok || el.Base().Locked {
		return false
	}
	out, changed := element.Apply(el, p)
	if !changed {
		return false
	}
	if err := element.Validate(out); err != nil {
		e.log.Debug().Str("op", "live-update").Str("id", id).Err(err).Msg("rejected")
		return false
	}
	e.beginGesture()
	e.state.Elements[i] = out
	return true
}

// CommitGesture closes the open gesture. A gesture that changed nothing
// is rewound out of the history, so the redo path survives it.
func (e *Engine) CommitGesture() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endGesture()
}

func (e *Engine) endGesture() bool {
	g := e.gesture
	if g == nil {
		return false
	}
	e.gesture = nil
	e.state.PruneSelection()
	changed := !document.Equal(g.start, e.state)
	if !changed {
		e.hist.Rewind(g.mark)
	}
	e.log.Debug().Str("op", "gesture-commit").Bool("changed", changed).
		Int("past", e.hist.PastLen()).Int("future", e.hist.FutureLen()).Msg("gesture")
	return changed
}

// CancelGesture abandons the open gesture. Its checkpoint is undone, which
// restores the state from before it began and leaves the history as it was.
func (e *Engine) CancelGesture() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.gesture
	if g == nil {
		return false
	}
	e.gesture = nil
	e.hist.Rewind(g.mark)
	e.state = g.start
	e.log.Debug().Str("op", "gesture-cancel").Int("past", e.hist.PastLen()).Msg("gesture")
	return true
}
