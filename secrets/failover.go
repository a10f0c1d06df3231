package secrets

import (
	"context"
	"fmt"
	"time"
)

type FailurePolicy string

const (
	FailurePolicyStrict   FailurePolicy = "strict_fail"
	FailurePolicyFallback FailurePolicy = "fallback_allowed"
)

// Diagnostic describes one failover decision for operator visibility.
type Diagnostic struct {
	OccurredAt time.Time
	Policy     FailurePolicy
	Outcome    string
	Error      string
}

type DiagnosticHook func(event Diagnostic)

type FailoverOption func(*FailoverSource)

func WithFallbackSource(source Source) FailoverOption {
	return func(f *FailoverSource) {
		if source != nil {
			f.fallback = source
		}
	}
}

func WithFailurePolicy(policy FailurePolicy) FailoverOption {
	return func(f *FailoverSource) {
		f.policy = policy
	}
}

func WithDiagnosticHook(hook DiagnosticHook) FailoverOption {
	return func(f *FailoverSource) {
		f.diagnosticHook = hook
	}
}

func WithFailoverClock(now func() time.Time) FailoverOption {
	return func(f *FailoverSource) {
		if now != nil {
			f.now = now
		}
	}
}

// FailoverSource resolves secrets from a primary source and, under the
// fallback policy, from a secondary source when the primary fails. The
// strict policy surfaces primary failures to the caller, which rejects the
// request rather than verifying against possibly outdated material.
type FailoverSource struct {
	primary        Source
	fallback       Source
	policy         FailurePolicy
	diagnosticHook DiagnosticHook
	now            func() time.Time
}

func NewFailoverSource(primary Source, opts ...FailoverOption) (*FailoverSource, error) {
	if primary == nil {
		return nil, fmt.Errorf("secrets: primary source is required")
	}
	source := &FailoverSource{
		primary: primary,
		policy:  FailurePolicyStrict,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(source)
	}
	switch source.policy {
	case FailurePolicyStrict, FailurePolicyFallback:
	default:
		source.policy = FailurePolicyStrict
	}
	if source.policy == FailurePolicyFallback && source.fallback == nil {
		return nil, fmt.Errorf("secrets: fallback policy requires a configured fallback source")
	}
	return source, nil
}

func (f *FailoverSource) Secrets(ctx context.Context) ([][]byte, error) {
	if f == nil || f.primary == nil {
		return nil, fmt.Errorf("secrets: failover source is not configured")
	}
	secrets, err := f.primary.Secrets(ctx)
	if err == nil {
		return secrets, nil
	}
	if f.policy != FailurePolicyFallback {
		f.emit(Diagnostic{
			OccurredAt: f.now(),
			Policy:     f.policy,
			Outcome:    "primary_failed",
			Error:      err.Error(),
		})
		return nil, err
	}
	secrets, fallbackErr := f.fallback.Secrets(ctx)
	if fallbackErr != nil {
		f.emit(Diagnostic{
			OccurredAt: f.now(),
			Policy:     f.policy,
			Outcome:    "fallback_failed",
			Error:      fallbackErr.Error(),
		})
		return nil, fmt.Errorf("secrets: primary and fallback sources failed: %w", fallbackErr)
	}
	f.emit(Diagnostic{
		OccurredAt: f.now(),
		Policy:     f.policy,
		Outcome:    "fallback_used",
		Error:      err.Error(),
	})
	return secrets, nil
}

func (f *FailoverSource) emit(event Diagnostic) {
	if f.diagnosticHook == nil {
		return
	}
	f.diagnosticHook(event)
}
