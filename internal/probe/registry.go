package probe

import (
	"context"
	"fmt"

	"github.com/waabox/ingestwatch/internal/domain"
)

// Check performs the completion check for one stage kind.
type Check func(ctx context.Context, identifier string) (domain.ProbeResult, error)

// Registry maps stage keys to their checks.
type Registry struct {
	checks map[domain.StageKey]Check
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[domain.StageKey]Check)}
}

// Register associates a stage key with a check, replacing any previous one.
func (r *Registry) Register(key domain.StageKey, check Check) {
	r.checks[key] = check
}

// Lookup returns the check registered for key.
// Returns an error wrapping domain.ErrUnknownStage if none is registered.
func (r *Registry) Lookup(key domain.StageKey) (Check, error) {
	check, ok := r.checks[key]
	if !ok {
		return nil, fmt.Errorf("no check registered for stage %q: %w", key, domain.ErrUnknownStage)
	}
	return check, nil
}
