// Package interactions is a webhook adapter for platform interaction events:
// block actions, message actions, dialog submissions, legacy attachment
// actions, and dynamic options loads.
//
// An Adapter authenticates each inbound request with the signing secret,
// normalizes the payload into one tagged event, routes it to the registered
// handler whose constraint matches most specifically, and races the handler
// against the synchronous response deadline. Handlers that settle in time
// reply synchronously; late results are delivered to the event's response
// URL when late-response fallback is enabled.
//
// The adapter is mounted as an http.Handler; server lifecycle stays with the
// application.
package interactions

import (
	"context"
	"net/http"
	"regexp"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-interactions/core"
	"github.com/goliatone/go-interactions/delivery"
	"github.com/goliatone/go-interactions/dispatch"
	"github.com/goliatone/go-interactions/inbound"
	"github.com/goliatone/go-interactions/verify"
)

// Adapter is one independent interaction endpoint: one signing secret, one
// handler registry, one coordinator. Multiple adapters may coexist in a
// process.
type Adapter struct {
	config      core.Config
	observer    core.Observer
	registry    *dispatch.Registry
	coordinator *inbound.Coordinator
	handler     *inbound.HTTPHandler
}

// New builds an Adapter for a signing secret. Configuration defaults are
// merged with the configured provider's values and runtime overrides, then
// validated; the secret is required.
func New(signingSecret string, options ...Option) (*Adapter, error) {
	builder := defaultAdapterBuilder()
	for _, option := range options {
		if option == nil {
			continue
		}
		option(&builder)
	}

	defaults := core.DefaultConfig()
	defaults.SigningSecret = signingSecret

	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, err
	}
	config, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, err
	}
	if builder.syncResponseTimeoutMS != nil {
		config.SyncResponseTimeoutMS = *builder.syncResponseTimeoutMS
	}
	if builder.lateResponseFallback != nil {
		config.LateResponseFallback = *builder.lateResponseFallback
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	provider, logger := glog.Resolve("interactions", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("interactions"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	observer := core.Observer{Logger: logger, Metrics: builder.metricsRecorder}

	channel := builder.channel
	if channel == nil {
		channel = delivery.NewClient(delivery.ClientConfig{
			HTTPClient: builder.httpClient,
			Observer:   observer,
		})
	}

	verifier := builder.verifier
	if verifier == nil {
		verifierOptions := []verify.VerifierOption{}
		if builder.replayWindow > 0 {
			verifierOptions = append(verifierOptions, verify.WithReplayWindow(builder.replayWindow))
		}
		if builder.now != nil {
			verifierOptions = append(verifierOptions, verify.WithClock(builder.now))
		}
		if builder.secretSource != nil {
			verifier = verify.NewVerifier(builder.secretSource, verifierOptions...)
		} else {
			verifier = verify.NewSigningSecretVerifier(config.SigningSecret, verifierOptions...)
		}
	}

	registry := dispatch.NewRegistry()
	coordinator, err := inbound.NewCoordinator(inbound.CoordinatorConfig{
		Verifier:  verifier,
		Normalize: builder.normalize,
		Registry:  registry,
		Channel:   channel,
		Config:    config,
		Observer:  observer,
		Now:       builder.now,
	})
	if err != nil {
		return nil, err
	}

	return &Adapter{
		config:      config,
		observer:    observer,
		registry:    registry,
		coordinator: coordinator,
		handler:     inbound.NewHTTPHandler(coordinator, observer),
	}, nil
}

// Action registers an action handler under a constraint. Registration is
// append-only and may happen at any time, including while requests are in
// flight.
func (a *Adapter) Action(constraint core.Constraint, handler core.ActionHandler) error {
	return a.registry.RegisterAction(constraint, handler)
}

func (a *Adapter) ActionFunc(constraint core.Constraint, handler core.ActionHandlerFunc) error {
	return a.Action(constraint, handler)
}

// ActionCallback registers an action handler for an exact callback ID.
func (a *Adapter) ActionCallback(callbackID string, handler core.ActionHandler) error {
	return a.Action(core.CallbackID(callbackID), handler)
}

// ActionCallbackPattern registers an action handler for callback IDs
// matching a compiled pattern.
func (a *Adapter) ActionCallbackPattern(pattern *regexp.Regexp, handler core.ActionHandler) error {
	return a.Action(core.CallbackPattern(pattern), handler)
}

// Options registers an options handler under a constraint.
func (a *Adapter) Options(constraint core.Constraint, handler core.OptionsHandler) error {
	return a.registry.RegisterOptions(constraint, handler)
}

func (a *Adapter) OptionsFunc(constraint core.Constraint, handler core.OptionsHandlerFunc) error {
	return a.Options(constraint, handler)
}

// OptionsCallback registers an options handler for an exact callback ID.
func (a *Adapter) OptionsCallback(callbackID string, handler core.OptionsHandler) error {
	return a.Options(core.CallbackID(callbackID), handler)
}

// Handler returns the inbound HTTP surface to mount.
func (a *Adapter) Handler() http.Handler {
	return a.handler
}

// ServeHTTP lets the Adapter itself be mounted directly.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Config returns the resolved configuration.
func (a *Adapter) Config() core.Config {
	return a.config
}

var _ http.Handler = (*Adapter)(nil)
