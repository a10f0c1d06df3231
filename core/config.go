package core

import (
	"fmt"
	"strings"
	"time"
)

// The platform acknowledges within 3000ms; a synchronous deadline above that
// can never win the race, so it is rejected at validation.
const MaxSyncResponseTimeoutMS = 3000

type Config struct {
	SigningSecret         string `koanf:"signing_secret" mapstructure:"signing_secret"`
	SyncResponseTimeoutMS int    `koanf:"sync_response_timeout_ms" mapstructure:"sync_response_timeout_ms"`
	LateResponseFallback  bool   `koanf:"late_response_fallback" mapstructure:"late_response_fallback"`
}

func DefaultConfig() Config {
	return Config{
		SyncResponseTimeoutMS: 2500,
		LateResponseFallback:  true,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("core: signing_secret is required")
	}
	if c.SyncResponseTimeoutMS <= 0 {
		return fmt.Errorf("core: sync_response_timeout_ms must be positive, got %d", c.SyncResponseTimeoutMS)
	}
	if c.SyncResponseTimeoutMS > MaxSyncResponseTimeoutMS {
		return fmt.Errorf(
			"core: sync_response_timeout_ms cannot exceed %d, got %d",
			MaxSyncResponseTimeoutMS,
			c.SyncResponseTimeoutMS,
		)
	}
	return nil
}

func (c Config) SyncResponseTimeout() time.Duration {
	return time.Duration(c.SyncResponseTimeoutMS) * time.Millisecond
}
