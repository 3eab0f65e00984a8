// Package engine is the single writer of a label document. Every change to
// the document goes through an Engine method, which records an undo
// checkpoint for it and keeps the selection valid.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"labelforge/internal/document"
	"labelforge/internal/element"
	"labelforge/internal/history"
	"labelforge/internal/idgen"
)

// Offset is the distance, on both axes, between an element and its
// duplicate or pasted copy.
const Offset = 20

// ErrDuplicateID is returned when an added element reuses an id.
var ErrDuplicateID = errors.New("duplicate element id")

type Engine struct {
	mu    sync.Mutex
	state *document.State
	hist  *history.History
	ids   idgen.Generator
	log   zerolog.Logger

	// gesture is the open gesture, nil when there is none.
	gesture *openGesture
}

// openGesture holds the checkpoint taken when a gesture began and the history
// position before it, so a gesture that changes nothing can be rewound.
type openGesture struct {
	start *document.State
	mark  history.Mark
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithIDs(g idgen.Generator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithHistoryLimit caps the undo depth. Zero keeps every step.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.hist.Limit = n }
}

// New returns an engine holding an empty document.
func New(opts ...Option) *Engine {
	e := &Engine{
		state: document.New(),
		hist:  history.New(0),
		ids:   idgen.Default,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current document.
func (e *Engine) State() *document.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// View returns the read-only render view of the current document.
func (e *Engine) View() document.RenderView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.View()
}

// Snapshot returns the persistable form of the current document.
func (e *Engine) Snapshot() document.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Snapshot()
}

// Find returns a copy of the element with id.
func (e *Engine) Find(id string) (element.Element, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	el, _, ok := e.state.Find(id)
	if !ok {
		return nil, false
	}
	return el.Clone(), true
}

// Selection returns the selected ids in order.
func (e *Engine) Selection() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.state.Selected...)
}

// NextZ returns the zIndex that puts a new element above everything else.
func (e *Engine) NextZ() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.state.Elements) == 0 {
		return 0
	}
	return e.state.MaxZ() + 1
}

// NewID mints an id that is not in use in the document.
func (e *Engine) NewID(kind element.Kind) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.freshID(e.state, kind)
}

func (e *Engine) freshID(s *document.State, kind element.Kind) string {
	for {
		id := e.ids.New(string(kind))
		if !s.Has(id) {
			return id
		}
	}
}

func (e *Engine) PastLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.PastLen()
}

func (e *Engine) FutureLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.FutureLen()
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanRedo()
}

// mutate applies fn to a working copy of the document. When fn reports a
// change the copy becomes the document and the previous document is pushed
// as the undo checkpoint. When it does not, nothing is recorded. The caller
// holds e.mu.
func (e *Engine) mutate(op string, ids []string, fn func(s *document.State) bool) bool {
	e.endGesture()
	next := e.state.Clone()
	changed := fn(next)
	if changed {
		next.PruneSelection()
		e.hist.Push(e.state)
		e.state = next
	}
	e.log.Debug().
		Str("op", op).
		Strs("ids", ids).
		Bool("changed", changed).
		Int("past", e.hist.PastLen()).
		Int("future", e.hist.FutureLen()).
		Msg("mutation")
	return changed
}

// AddElement appends el and selects it alone.
func (e *Engine) AddElement(el element.Element) error {
	if err := element.Validate(el); err != nil {
		return fmt.Errorf("add element: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	id := el.Base().ID
	if e.state.Has(id) {
		return fmt.Errorf("add element %s: %w", id, ErrDuplicateID)
	}
	e.mutate("add", []string{id}, func(s *document.State) bool {
		s.Elements = append(s.Elements, el.Clone())
		s.Selected = []string{id}
		return true
	})
	return nil
}

// UpdateElement applies a discrete edit to the element with id. A locked
// element only accepts patches that change Locked or Visible. Unknown ids
// and patches that would leave the element invalid are ignored.
func (e *Engine) UpdateElement(id string, p element.Patch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutate("update", []string{id}, func(s *document.State) bool {
		return update(s, id, p)
	})
}

func update(s *document.State, id string, p element.Patch) bool {
	el, i, ok := s.Find(id)
	if !ok {
		return false
	}
	if el.Base().Locked && !p.FlagsOnly() {
		return false
	}
	out, changed := element.Apply(el, p)
	if !changed || element.Validate(out) != nil {
		return false
	}
	s.Elements[i] = out
	return true
}

// Undo restores the state before the last checkpointed change. An open
// gesture is committed first, so undo reverts it.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endGesture()
	prev, ok := e.hist.Undo(e.state)
	if ok {
		e.state = prev
		e.state.PruneSelection()
	}
	e.log.Debug().Str("op", "undo").Bool("changed", ok).
		Int("past", e.hist.PastLen()).Int("future", e.hist.FutureLen()).Msg("history")
	return ok
}

// Redo reapplies the last undone change.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endGesture()
	next, ok := e.hist.Redo(e.state)
	if ok {
		e.state = next
		e.state.PruneSelection()
	}
	e.log.Debug().Str("op", "redo").Bool("changed", ok).
		Int("past", e.hist.PastLen()).Int("future", e.hist.FutureLen()).Msg("history")
	return ok
}

// Reset discards the document and its history.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gesture = nil
	e.state = document.New()
	e.hist.Clear()
	e.log.Debug().Str("op", "reset").Msg("history")
}

// LoadDocument replaces the document with snap. History and selection are
// cleared; the loaded state is the new baseline.
func (e *Engine) LoadDocument(snap document.Snapshot) error {
	seen := make(map[string]bool, len(snap.Elements))
	for _, el := range snap.Elements {
		if err := element.Validate(el); err != nil {
			return fmt.Errorf("load document: %w", err)
		}
		id := el.Base().ID
		if seen[id] {
			return fmt.Errorf("load document: %s: %w", id, ErrDuplicateID)
		}
		seen[id] = true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.gesture = nil
	e.state = document.FromSnapshot(snap)
	e.hist.Clear()
	e.log.Debug().Str("op", "load").Int("elements", len(snap.Elements)).Msg("history")
	return nil
}
