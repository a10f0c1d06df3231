package delivery

import (
	"context"

	"github.com/goliatone/go-interactions/core"
)

// URLResponder is the DeferredResponse handle bound to one event's response
// URL. Application code may invoke it any number of times after dispatch;
// each invocation is one independent out-of-band delivery.
type URLResponder struct {
	client *Client
	url    string
}

func NewURLResponder(client *Client, url string) *URLResponder {
	return &URLResponder{client: client, url: url}
}

// Bind returns the responder handle for one event's response URL.
func (c *Client) Bind(url string) core.Responder {
	return NewURLResponder(c, url)
}

func (r *URLResponder) Respond(ctx context.Context, message any) error {
	if r == nil || r.client == nil {
		return deliveryInternal("delivery: responder is not configured", nil)
	}
	return r.client.Deliver(ctx, r.url, message)
}

// unavailableResponder answers events that carry no out-of-band endpoint,
// such as options requests, with a typed error instead of a misdirected POST.
type unavailableResponder struct {
	reason string
}

func (r unavailableResponder) Respond(context.Context, any) error {
	return deliveryBadInput(r.reason, nil)
}

// UnavailableResponder returns a Responder whose every invocation fails with
// the given reason.
func UnavailableResponder(reason string) core.Responder {
	if reason == "" {
		reason = "delivery: no response url available for this event"
	}
	return unavailableResponder{reason: reason}
}

var (
	_ core.Responder = (*URLResponder)(nil)
	_ core.Responder = unavailableResponder{}
)
