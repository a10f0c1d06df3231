package dispatch

import (
	"sync"

	"github.com/goliatone/go-interactions/core"
)

// Registry stores (constraint, handler) entries in registration order,
// separated into an action table and an options table. Registration never
// rejects overlapping constraints; resolution is the matcher's job.
type Registry struct {
	mu      sync.RWMutex
	actions []core.HandlerEntry
	options []core.HandlerEntry
	nextSeq int
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterAction(constraint core.Constraint, handler core.ActionHandler) error {
	if r == nil {
		return registryInternal("dispatch: registry is nil", nil)
	}
	if handler == nil {
		return registryBadInput("dispatch: action handler is nil", nil)
	}
	if err := constraint.Validate(); err != nil {
		return registryBadInput("dispatch: invalid action constraint", map[string]any{
			"cause": err.Error(),
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, core.HandlerEntry{
		Kind:       core.DispatchKindAction,
		Constraint: constraint,
		Action:     handler,
		Seq:        r.nextSeq,
	})
	r.nextSeq++
	return nil
}

func (r *Registry) RegisterOptions(constraint core.Constraint, handler core.OptionsHandler) error {
	if r == nil {
		return registryInternal("dispatch: registry is nil", nil)
	}
	if handler == nil {
		return registryBadInput("dispatch: options handler is nil", nil)
	}
	if err := constraint.Validate(); err != nil {
		return registryBadInput("dispatch: invalid options constraint", map[string]any{
			"cause": err.Error(),
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.options = append(r.options, core.HandlerEntry{
		Kind:       core.DispatchKindOptions,
		Constraint: constraint,
		Options:    handler,
		Seq:        r.nextSeq,
	})
	r.nextSeq++
	return nil
}

// Snapshot returns a point-in-time copy of one table. The copy is immutable
// from the registry's perspective; concurrent registration affects only
// later snapshots.
func (r *Registry) Snapshot(kind core.DispatchKind) []core.HandlerEntry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var table []core.HandlerEntry
	switch kind {
	case core.DispatchKindOptions:
		table = r.options
	default:
		table = r.actions
	}
	return append([]core.HandlerEntry(nil), table...)
}

// Len reports the number of entries in one table.
func (r *Registry) Len(kind core.DispatchKind) int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if kind == core.DispatchKindOptions {
		return len(r.options)
	}
	return len(r.actions)
}
