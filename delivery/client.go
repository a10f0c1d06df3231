package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-interactions/core"
)

const (
	defaultDeliveryTimeout   = 10 * time.Second
	maxDeliveryResponseBytes = 1 << 16
	deliveryContentType      = "application/json"
	operationDelivery        = "delivery"
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	HTTPClient HTTPDoer
	Timeout    time.Duration
	Observer   core.Observer
}

// Client posts JSON bodies to per-event response URLs.
type Client struct {
	httpClient HTTPDoer
	observer   core.Observer
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		observer:   cfg.Observer,
	}
}

// Deliver posts one message to a response URL. Failures are reported to the
// caller and observed; the caller decides whether they matter (fallback and
// deferred deliveries only log them).
func (c *Client) Deliver(ctx context.Context, url string, message any) error {
	startedAt := time.Now()
	err := c.deliver(ctx, url, message)
	c.observer.ObserveOperation(ctx, startedAt, operationDelivery, err, map[string]any{
		"response_url": url,
	})
	return err
}

func (c *Client) deliver(ctx context.Context, url string, message any) error {
	if c == nil || c.httpClient == nil {
		return deliveryInternal("delivery: http client is not configured", nil)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return deliveryBadInput("delivery: response url is required", nil)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return deliveryBadInput("delivery: encode message", map[string]any{
			"cause": err.Error(),
		})
	}

	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return deliveryInternal("delivery: build request", map[string]any{
			"cause": err.Error(),
		})
	}
	req.Header.Set("Content-Type", deliveryContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return deliveryFailed("delivery: post to response url failed", err, map[string]any{
			"response_url": url,
		})
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDeliveryResponseBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return deliveryFailed("delivery: response url rejected delivery", nil, map[string]any{
			"response_url": url,
			"status_code":  resp.StatusCode,
		})
	}
	return nil
}
