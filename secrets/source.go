// Package secrets supplies signing-secret sources for request verification:
// static material, environment lookups, versioned rotation windows, and
// primary/fallback failover between backing stores.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Source yields the signing secrets currently accepted for verification, in
// preference order. An empty result means no secret is active.
type Source interface {
	Secrets(ctx context.Context) ([][]byte, error)
}

type staticSource [][]byte

func (s staticSource) Secrets(context.Context) ([][]byte, error) {
	return append([][]byte(nil), s...), nil
}

// Static builds a source over fixed secret material. Blank values are
// dropped.
func Static(values ...string) Source {
	out := staticSource{}
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, []byte(trimmed))
	}
	return out
}

type envSource []string

func (s envSource) Secrets(context.Context) ([][]byte, error) {
	out := [][]byte{}
	for _, name := range s {
		value, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, []byte(trimmed))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("secrets: no secret material in environment variables %v", []string(s))
	}
	return out, nil
}

// FromEnv builds a source that resolves secrets from environment variables
// on every call, so a process restart is not required to pick up new values
// written by an external secret manager.
func FromEnv(names ...string) (Source, error) {
	cleaned := []string{}
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("secrets: at least one environment variable name is required")
	}
	return envSource(cleaned), nil
}
