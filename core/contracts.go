package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// ActionHandler receives one normalized action event together with a
// Responder bound to the event's out-of-band delivery endpoint. The returned
// envelope, if any, becomes the synchronous reply when it settles before the
// configured deadline.
type ActionHandler interface {
	HandleAction(ctx context.Context, evt Event, responder Responder) (*ResponseEnvelope, error)
}

type ActionHandlerFunc func(ctx context.Context, evt Event, responder Responder) (*ResponseEnvelope, error)

func (f ActionHandlerFunc) HandleAction(ctx context.Context, evt Event, responder Responder) (*ResponseEnvelope, error) {
	return f(ctx, evt, responder)
}

// OptionsHandler receives one options-load event. Options requests have no
// out-of-band channel, so the synchronous reply is the only way to answer.
type OptionsHandler interface {
	HandleOptions(ctx context.Context, evt Event) (*ResponseEnvelope, error)
}

type OptionsHandlerFunc func(ctx context.Context, evt Event) (*ResponseEnvelope, error)

func (f OptionsHandlerFunc) HandleOptions(ctx context.Context, evt Event) (*ResponseEnvelope, error) {
	return f(ctx, evt)
}

// Responder delivers content to the event's out-of-band endpoint. It may be
// invoked any number of times, at any point after dispatch, independent of
// the handler's own return value. Deliveries are best effort and never
// retried.
type Responder interface {
	Respond(ctx context.Context, message any) error
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
