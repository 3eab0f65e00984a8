// Package idgen mints element ids.
package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a fresh id for a prefix such as "text" or "shape".
type Generator interface {
	New(prefix string) string
}

// UUID generates time-ordered ids of the form prefix-<uuidv7>.
type UUID struct{}

func (UUID) New(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		id = uuid.New()
	}
	if prefix == "" {
		return id.String()
	}
	return prefix + "-" + id.String()
}

// Sequence generates prefix-1, prefix-2, ... and is meant for tests and
// deterministic fixtures.
type Sequence struct {
	mu sync.Mutex
	n  int
}

func (s *Sequence) New(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

// Default is the generator used when none is configured.
var Default Generator = UUID{}
