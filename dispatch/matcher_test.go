package dispatch

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/goliatone/go-interactions/core"
)

type stubActionHandler struct{ id string }

func (h *stubActionHandler) HandleAction(context.Context, core.Event, core.Responder) (*core.ResponseEnvelope, error) {
	return nil, nil
}

type stubOptionsHandler struct{}

func (h *stubOptionsHandler) HandleOptions(context.Context, core.Event) (*core.ResponseEnvelope, error) {
	return nil, nil
}

func mustRegisterAction(t *testing.T, r *Registry, constraint core.Constraint, id string) {
	t.Helper()
	if err := r.RegisterAction(constraint, &stubActionHandler{id: id}); err != nil {
		t.Fatalf("register action %q: %v", id, err)
	}
}

func handlerID(t *testing.T, entry core.HandlerEntry) string {
	t.Helper()
	handler, ok := entry.Action.(*stubActionHandler)
	if !ok {
		t.Fatalf("expected stub action handler, got %T", entry.Action)
	}
	return handler.id
}

func TestMatchPrefersHigherSpecificity(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.Constraint{CallbackID: core.Exact("flow")}, "one-field")
	mustRegisterAction(t, registry, core.Constraint{
		CallbackID: core.Exact("flow"),
		ActionID:   core.Exact("new_order"),
	}, "two-field")

	evt := core.Event{Kind: core.EventKindBlockAction, CallbackID: "flow", ActionID: "new_order"}
	entry, ok := Match(evt, registry.Snapshot(core.DispatchKindAction))
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := handlerID(t, entry); got != "two-field" {
		t.Fatalf("expected two-field entry regardless of registration order, got %q", got)
	}
}

func TestMatchSpecificityBeatsRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	// catch-all registered first must still lose to a named constraint
	mustRegisterAction(t, registry, core.Constraint{}, "catch-all")
	mustRegisterAction(t, registry, core.Constraint{ActionID: core.Exact("new_order")}, "named")

	evt := core.Event{Kind: core.EventKindBlockAction, ActionID: "new_order"}
	entry, ok := Match(evt, registry.Snapshot(core.DispatchKindAction))
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := handlerID(t, entry); got != "named" {
		t.Fatalf("expected named entry, got %q", got)
	}

	other := core.Event{Kind: core.EventKindBlockAction, ActionID: "other"}
	entry, ok = Match(other, registry.Snapshot(core.DispatchKindAction))
	if !ok {
		t.Fatalf("expected catch-all match")
	}
	if got := handlerID(t, entry); got != "catch-all" {
		t.Fatalf("expected catch-all for unmatched action id, got %q", got)
	}
}

func TestMatchTieBreaksByRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.Constraint{CallbackID: core.Exact("flow")}, "first")
	mustRegisterAction(t, registry, core.Constraint{CallbackID: core.Exact("flow")}, "second")

	evt := core.Event{Kind: core.EventKindAttachmentAction, CallbackID: "flow"}
	entry, ok := Match(evt, registry.Snapshot(core.DispatchKindAction))
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := handlerID(t, entry); got != "first" {
		t.Fatalf("expected earliest registration on tie, got %q", got)
	}
}

func TestMatchPatternConstraint(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.CallbackPattern(regexp.MustCompile(`^order_\d+$`)), "pattern")

	evt := core.Event{Kind: core.EventKindAttachmentAction, CallbackID: "order_42"}
	if _, ok := Match(evt, registry.Snapshot(core.DispatchKindAction)); !ok {
		t.Fatalf("expected pattern constraint to match")
	}

	miss := core.Event{Kind: core.EventKindAttachmentAction, CallbackID: "invoice_42"}
	if _, ok := Match(miss, registry.Snapshot(core.DispatchKindAction)); ok {
		t.Fatalf("expected no match for non-matching callback id")
	}
}

func TestMatchNoCandidates(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.CallbackID("known"), "known")

	evt := core.Event{Kind: core.EventKindBlockAction, CallbackID: "unknown"}
	if _, ok := Match(evt, registry.Snapshot(core.DispatchKindAction)); ok {
		t.Fatalf("expected no match")
	}
	if _, ok := Match(evt, nil); ok {
		t.Fatalf("expected no match on empty snapshot")
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.Constraint{}, "catch-all")
	mustRegisterAction(t, registry, core.CallbackID("flow"), "callback")
	mustRegisterAction(t, registry, core.Constraint{
		CallbackID: core.Exact("flow"),
		Type:       "button",
	}, "typed")

	evt := core.Event{Kind: core.EventKindAttachmentAction, CallbackID: "flow", Type: "button"}
	snapshot := registry.Snapshot(core.DispatchKindAction)
	first, ok := Match(evt, snapshot)
	if !ok {
		t.Fatalf("expected a match")
	}
	for i := 0; i < 50; i++ {
		again, ok := Match(evt, snapshot)
		if !ok || again.Seq != first.Seq {
			t.Fatalf("expected deterministic result, got seq %d want %d", again.Seq, first.Seq)
		}
	}
}

func TestRegistrySnapshotIsolatedFromConcurrentRegistration(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.Constraint{}, "base")

	snapshot := registry.Snapshot(core.DispatchKindAction)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- registry.RegisterAction(core.CallbackID("late"), &stubActionHandler{id: "late"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent register: %v", err)
		}
	}

	if len(snapshot) != 1 {
		t.Fatalf("expected snapshot to stay at 1 entry, got %d", len(snapshot))
	}
	if registry.Len(core.DispatchKindAction) != 17 {
		t.Fatalf("expected 17 registered entries, got %d", registry.Len(core.DispatchKindAction))
	}
}

func TestRegistrySeparatesDispatchKinds(t *testing.T) {
	registry := NewRegistry()
	mustRegisterAction(t, registry, core.CallbackID("flow"), "action")
	if err := registry.RegisterOptions(core.CallbackID("flow"), &stubOptionsHandler{}); err != nil {
		t.Fatalf("register options: %v", err)
	}

	if registry.Len(core.DispatchKindAction) != 1 {
		t.Fatalf("expected one action entry")
	}
	if registry.Len(core.DispatchKindOptions) != 1 {
		t.Fatalf("expected one options entry")
	}
	for _, entry := range registry.Snapshot(core.DispatchKindOptions) {
		if entry.Kind != core.DispatchKindOptions {
			t.Fatalf("expected options kind, got %q", entry.Kind)
		}
	}
}

func TestRegistryRejectsNilHandlerAndEmptyMatcher(t *testing.T) {
	registry := NewRegistry()
	if err := registry.RegisterAction(core.Constraint{}, nil); err == nil {
		t.Fatalf("expected nil handler rejection")
	}
	if err := registry.RegisterAction(core.CallbackID("   "), &stubActionHandler{}); err == nil {
		t.Fatalf("expected empty matcher rejection")
	}
	if err := registry.RegisterOptions(core.Constraint{}, nil); err == nil {
		t.Fatalf("expected nil options handler rejection")
	}
}
