package secrets

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// RotationWindow gates when a secret version is accepted for verification.
// Zero bounds are open ended.
type RotationWindow struct {
	NotBefore time.Time
	NotAfter  time.Time
}

func (w RotationWindow) Allows(at time.Time) bool {
	ts := at.UTC()
	if !w.NotBefore.IsZero() && ts.Before(w.NotBefore.UTC()) {
		return false
	}
	if !w.NotAfter.IsZero() && ts.After(w.NotAfter.UTC()) {
		return false
	}
	return true
}

// VersionedSecret is one rotation entry. Higher versions are preferred when
// several windows overlap.
type VersionedSecret struct {
	Secret  string
	Version int
	Window  RotationWindow
}

type RotatingOption func(*RotatingSource)

func WithRotationClock(now func() time.Time) RotatingOption {
	return func(s *RotatingSource) {
		if now != nil {
			s.now = now
		}
	}
}

// RotatingSource serves the secrets whose rotation windows cover the current
// instant. Overlapping windows let old and new secrets verify side by side
// until the old window closes.
type RotatingSource struct {
	entries []VersionedSecret
	now     func() time.Time
}

func NewRotatingSource(entries []VersionedSecret, opts ...RotatingOption) (*RotatingSource, error) {
	cleaned := []VersionedSecret{}
	for _, entry := range entries {
		if strings.TrimSpace(entry.Secret) == "" {
			return nil, fmt.Errorf("secrets: rotation entry version %d has no secret material", entry.Version)
		}
		cleaned = append(cleaned, entry)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("secrets: at least one rotation entry is required")
	}
	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].Version > cleaned[j].Version
	})
	source := &RotatingSource{
		entries: cleaned,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(source)
	}
	return source, nil
}

func (s *RotatingSource) Secrets(context.Context) ([][]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("secrets: rotating source is not configured")
	}
	at := s.now()
	out := [][]byte{}
	for _, entry := range s.entries {
		if !entry.Window.Allows(at) {
			continue
		}
		out = append(out, []byte(strings.TrimSpace(entry.Secret)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("secrets: no rotation window covers %s", at.Format(time.RFC3339))
	}
	return out, nil
}
