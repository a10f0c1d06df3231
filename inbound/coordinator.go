package inbound

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-interactions/core"
	"github.com/goliatone/go-interactions/delivery"
	"github.com/goliatone/go-interactions/dispatch"
	"github.com/goliatone/go-interactions/payload"
)

type dispatchState string

const (
	stateReceived   dispatchState = "received"
	stateVerified   dispatchState = "verified"
	stateNormalized dispatchState = "normalized"
	stateDispatched dispatchState = "dispatched"
	stateReplied    dispatchState = "replied"
	stateTimedOut   dispatchState = "timed_out"
	stateClosed     dispatchState = "closed"
)

type Verifier interface {
	Verify(ctx context.Context, req core.RawRequest) error
}

type NormalizeFunc func(body []byte) (core.Event, error)

// DeliveryChannel is the out-of-band side: fallback deliveries plus responder
// handles bound to an event's response URL.
type DeliveryChannel interface {
	Deliver(ctx context.Context, url string, message any) error
	Bind(url string) core.Responder
}

type handlerResult struct {
	envelope *core.ResponseEnvelope
	err      error
}

// Coordinator orchestrates one dispatch cycle per inbound request. All
// fields are fixed at construction; Handle is safe for concurrent use.
type Coordinator struct {
	verifier  Verifier
	normalize NormalizeFunc
	registry  *dispatch.Registry
	channel   DeliveryChannel

	syncResponseTimeout  time.Duration
	lateResponseFallback bool

	observer core.Observer
	now      func() time.Time
}

type CoordinatorConfig struct {
	Verifier  Verifier
	Normalize NormalizeFunc
	Registry  *dispatch.Registry
	Channel   DeliveryChannel
	Config    core.Config
	Observer  core.Observer
	Now       func() time.Time
}

func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Verifier == nil {
		return nil, coordinatorInternal("inbound: verifier is required", nil)
	}
	if cfg.Registry == nil {
		return nil, coordinatorInternal("inbound: registry is required", nil)
	}
	normalize := cfg.Normalize
	if normalize == nil {
		normalize = payload.Normalize
	}
	timeout := cfg.Config.SyncResponseTimeout()
	if timeout <= 0 {
		timeout = core.DefaultConfig().SyncResponseTimeout()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Coordinator{
		verifier:             cfg.Verifier,
		normalize:            normalize,
		registry:             cfg.Registry,
		channel:              cfg.Channel,
		syncResponseTimeout:  timeout,
		lateResponseFallback: cfg.Config.LateResponseFallback,
		observer:             cfg.Observer,
		now:                  now,
	}, nil
}

// VerifyRequest authenticates a raw request without dispatching it. The
// transport uses it for ssl_check probes that carry authentication headers.
func (c *Coordinator) VerifyRequest(ctx context.Context, req core.RawRequest) error {
	if c == nil || c.verifier == nil {
		return coordinatorInternal("inbound: coordinator is nil", nil)
	}
	return c.verifier.Verify(ctx, req)
}

// Handle runs one request through the state machine and returns the single
// synchronous reply. The caller always gets exactly one reply, bounded by the
// configured timeout plus negligible overhead, regardless of handler
// behavior.
func (c *Coordinator) Handle(ctx context.Context, req core.RawRequest) core.Reply {
	if c == nil {
		return errorReply(coordinatorInternal("inbound: coordinator is nil", nil))
	}
	startedAt := time.Now()
	fields := map[string]any{
		"request_id": req.RequestID,
		"state":      stateReceived,
	}

	if err := c.verifier.Verify(ctx, req); err != nil {
		fields["state"] = stateClosed
		c.observer.ObserveOperation(ctx, startedAt, "dispatch", err, fields)
		return errorReply(err)
	}
	fields["state"] = stateVerified

	evt, err := c.normalize(normalizeSource(req))
	if err != nil {
		fields["state"] = stateClosed
		c.observer.ObserveOperation(ctx, startedAt, "dispatch", err, fields)
		return errorReply(err)
	}
	fields["state"] = stateNormalized
	fields["event_kind"] = string(evt.Kind)
	fields["dispatch_kind"] = string(evt.Kind.DispatchKind())

	entry, ok := dispatch.Match(evt, c.registry.Snapshot(evt.Kind.DispatchKind()))
	if !ok {
		err := dispatch.NoMatchError(evt)
		fields["state"] = stateClosed
		c.observer.ObserveOperation(ctx, startedAt, "dispatch", err, fields)
		return errorReply(err)
	}
	fields["state"] = stateDispatched
	fields["handler_seq"] = entry.Seq

	// The loser of the deadline race is never canceled: the handler keeps the
	// values of ctx but outlives the request/response cycle.
	handlerCtx := context.WithoutCancel(ctx)
	results := make(chan handlerResult, 1)
	go c.invoke(handlerCtx, entry, evt, results)

	timer := time.NewTimer(c.syncResponseTimeout)
	defer timer.Stop()

	select {
	case result := <-results:
		fields["state"] = stateReplied
		c.observer.ObserveOperation(ctx, startedAt, "dispatch", result.err, fields)
		return replyFor(result)
	case <-timer.C:
		fields["state"] = stateTimedOut
		c.observer.ObserveOperation(ctx, startedAt, "dispatch", nil, fields)
		go c.settleLate(handlerCtx, evt, results, cloneLogFields(fields))
		return core.Reply{StatusCode: http.StatusOK}
	}
}

func (c *Coordinator) invoke(ctx context.Context, entry core.HandlerEntry, evt core.Event, results chan<- handlerResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			results <- handlerResult{err: handlerFault(
				fmt.Errorf("inbound: handler panic: %v", recovered),
				map[string]any{"event_kind": string(evt.Kind)},
			)}
		}
	}()

	var envelope *core.ResponseEnvelope
	var err error
	switch entry.Kind {
	case core.DispatchKindOptions:
		envelope, err = entry.Options.HandleOptions(ctx, evt)
	default:
		envelope, err = entry.Action.HandleAction(ctx, evt, c.responderFor(evt))
	}
	if err != nil {
		err = handlerFault(err, map[string]any{"event_kind": string(evt.Kind)})
	}
	results <- handlerResult{envelope: envelope, err: err}
}

// settleLate waits for the losing side of the race to settle. The already
// sent synchronous reply is never rewritten; the result is either delivered
// out of band or dropped.
func (c *Coordinator) settleLate(ctx context.Context, evt core.Event, results <-chan handlerResult, fields map[string]any) {
	result := <-results
	fields["state"] = stateClosed

	if result.err != nil {
		c.observer.LogError(ctx, "late handler result failed", withField(fields, "error", result.err.Error()))
		return
	}
	if result.envelope == nil || result.envelope.Value == nil {
		return
	}
	if !c.lateResponseFallback {
		c.observer.LogInfo(ctx, "late handler result discarded, fallback disabled", fields)
		return
	}
	if c.channel == nil || evt.ResponseURL == "" || !evt.Kind.SupportsResponseURL() {
		c.observer.LogError(ctx, "late handler result has no delivery endpoint", fields)
		return
	}
	if err := c.channel.Deliver(ctx, evt.ResponseURL, result.envelope.Value); err != nil {
		// logged only, never retried, and the sync reply already went out
		c.observer.LogError(ctx, "fallback delivery failed", withField(fields, "error", err.Error()))
		return
	}
	c.observer.LogInfo(ctx, "fallback delivery completed", fields)
}

func (c *Coordinator) responderFor(evt core.Event) core.Responder {
	if !evt.Kind.SupportsResponseURL() {
		return delivery.UnavailableResponder("delivery: options requests have no response url")
	}
	if evt.ResponseURL == "" {
		return delivery.UnavailableResponder("delivery: event carries no response url")
	}
	if c.channel == nil {
		return delivery.UnavailableResponder("delivery: no delivery channel configured")
	}
	return c.channel.Bind(evt.ResponseURL)
}

func normalizeSource(req core.RawRequest) []byte {
	if len(req.Payload) > 0 {
		return req.Payload
	}
	return req.Body
}

func replyFor(result handlerResult) core.Reply {
	if result.err != nil {
		return core.Reply{StatusCode: http.StatusInternalServerError}
	}
	if result.envelope == nil || result.envelope.Value == nil {
		return core.Reply{StatusCode: http.StatusOK}
	}
	body, err := json.Marshal(result.envelope.Value)
	if err != nil {
		return core.Reply{StatusCode: http.StatusInternalServerError}
	}
	return core.Reply{
		StatusCode:  http.StatusOK,
		Body:        body,
		ContentType: "application/json",
	}
}

func errorReply(err error) core.Reply {
	if mapped := core.ErrorMapper()(err); mapped != nil && mapped.Code != 0 {
		return core.Reply{StatusCode: mapped.Code}
	}
	return core.Reply{StatusCode: http.StatusInternalServerError}
}

func cloneLogFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func withField(fields map[string]any, key string, value any) map[string]any {
	copied := cloneLogFields(fields)
	copied[key] = value
	return copied
}
