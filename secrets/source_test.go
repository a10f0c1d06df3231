package secrets

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStaticDropsBlankValues(t *testing.T) {
	source := Static("primary", " ", "", "secondary")
	got, err := source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("static secrets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 secrets, got %d", len(got))
	}
	if string(got[0]) != "primary" || string(got[1]) != "secondary" {
		t.Fatalf("unexpected secret order: %q %q", got[0], got[1])
	}
}

func TestFromEnvResolvesPerCall(t *testing.T) {
	t.Setenv("INTERACTIONS_TEST_SECRET", "from-env")
	source, err := FromEnv("INTERACTIONS_TEST_SECRET")
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	got, err := source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("env secrets: %v", err)
	}
	if len(got) != 1 || string(got[0]) != "from-env" {
		t.Fatalf("unexpected secrets %v", got)
	}

	t.Setenv("INTERACTIONS_TEST_SECRET", "rotated")
	got, err = source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("env secrets after rotation: %v", err)
	}
	if string(got[0]) != "rotated" {
		t.Fatalf("expected rotated value, got %q", got[0])
	}
}

func TestFromEnvRequiresNames(t *testing.T) {
	if _, err := FromEnv("", "  "); err == nil {
		t.Fatalf("expected blank names to fail")
	}
}

func TestFromEnvFailsWhenUnset(t *testing.T) {
	source, err := FromEnv("INTERACTIONS_TEST_SECRET_UNSET")
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if _, err := source.Secrets(context.Background()); err == nil {
		t.Fatalf("expected missing environment value to fail")
	}
}

func TestRotatingSourceOverlapWindow(t *testing.T) {
	cutover := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []VersionedSecret{
		{Secret: "old-secret", Version: 1, Window: RotationWindow{NotAfter: cutover.Add(24 * time.Hour)}},
		{Secret: "new-secret", Version: 2, Window: RotationWindow{NotBefore: cutover}},
	}

	current := cutover.Add(-time.Hour)
	source, err := NewRotatingSource(entries, WithRotationClock(func() time.Time { return current }))
	if err != nil {
		t.Fatalf("new rotating source: %v", err)
	}

	got, err := source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("before cutover: %v", err)
	}
	if len(got) != 1 || string(got[0]) != "old-secret" {
		t.Fatalf("expected only old secret before cutover, got %v", got)
	}

	current = cutover.Add(time.Hour)
	got, err = source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("overlap: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both secrets during overlap, got %d", len(got))
	}
	if string(got[0]) != "new-secret" {
		t.Fatalf("expected newer version first, got %q", got[0])
	}

	current = cutover.Add(48 * time.Hour)
	got, err = source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("after overlap: %v", err)
	}
	if len(got) != 1 || string(got[0]) != "new-secret" {
		t.Fatalf("expected only new secret after overlap, got %v", got)
	}
}

func TestRotatingSourceFailsOutsideAllWindows(t *testing.T) {
	source, err := NewRotatingSource([]VersionedSecret{
		{Secret: "expired", Version: 1, Window: RotationWindow{
			NotAfter: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}, WithRotationClock(func() time.Time {
		return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("new rotating source: %v", err)
	}
	if _, err := source.Secrets(context.Background()); err == nil {
		t.Fatalf("expected no active window to fail")
	}
}

func TestRotatingSourceRejectsEmptyEntries(t *testing.T) {
	if _, err := NewRotatingSource(nil); err == nil {
		t.Fatalf("expected empty entries to fail")
	}
	if _, err := NewRotatingSource([]VersionedSecret{{Secret: " ", Version: 1}}); err == nil {
		t.Fatalf("expected blank secret material to fail")
	}
}

type failingSource struct{ err error }

func (s failingSource) Secrets(context.Context) ([][]byte, error) { return nil, s.err }

func TestFailoverStrictSurfacesPrimaryError(t *testing.T) {
	primaryErr := errors.New("vault unavailable")
	events := []Diagnostic{}
	source, err := NewFailoverSource(failingSource{err: primaryErr},
		WithDiagnosticHook(func(event Diagnostic) { events = append(events, event) }),
	)
	if err != nil {
		t.Fatalf("new failover source: %v", err)
	}
	if _, err := source.Secrets(context.Background()); !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error under strict policy, got %v", err)
	}
	if len(events) != 1 || events[0].Outcome != "primary_failed" {
		t.Fatalf("expected primary_failed diagnostic, got %v", events)
	}
}

func TestFailoverFallbackUsedOnPrimaryFailure(t *testing.T) {
	events := []Diagnostic{}
	source, err := NewFailoverSource(failingSource{err: errors.New("vault unavailable")},
		WithFailurePolicy(FailurePolicyFallback),
		WithFallbackSource(Static("cached-secret")),
		WithDiagnosticHook(func(event Diagnostic) { events = append(events, event) }),
	)
	if err != nil {
		t.Fatalf("new failover source: %v", err)
	}
	got, err := source.Secrets(context.Background())
	if err != nil {
		t.Fatalf("fallback secrets: %v", err)
	}
	if len(got) != 1 || string(got[0]) != "cached-secret" {
		t.Fatalf("expected fallback secret, got %v", got)
	}
	if len(events) != 1 || events[0].Outcome != "fallback_used" {
		t.Fatalf("expected fallback_used diagnostic, got %v", events)
	}
}

func TestFailoverFallbackPolicyRequiresFallback(t *testing.T) {
	if _, err := NewFailoverSource(Static("s"), WithFailurePolicy(FailurePolicyFallback)); err == nil {
		t.Fatalf("expected fallback policy without fallback source to fail")
	}
}
