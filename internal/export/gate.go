package export

import (
	"context"
	"errors"
	"sync"
)

// ErrNotEntitled is returned when a Gate refuses an export.
var ErrNotEntitled = errors.New("export not permitted")

// ActionExport is the action name asked of a Gate before each export.
const ActionExport = "export"

// Gate decides whether an action may run. Billing and accounts live behind
// it.
type Gate interface {
	Allow(ctx context.Context, action string) (bool, error)
}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) (bool, error) { return true, nil }

// AllowAll permits everything.
var AllowAll Gate = allowAll{}

// CreditGate permits one action per credit.
type CreditGate struct {
	mu      sync.Mutex
	credits int
}

func NewCreditGate(credits int) *CreditGate {
	return &CreditGate{credits: credits}
}

func (g *CreditGate) Allow(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.credits <= 0 {
		return false, nil
	}
	g.credits--
	return true, nil
}

func (g *CreditGate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.credits
}
