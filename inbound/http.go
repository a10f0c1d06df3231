package inbound

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/goliatone/go-interactions/core"
)

const (
	// HeaderSignature and HeaderTimestamp carry the request authentication
	// material on every platform call.
	HeaderSignature = "X-Slack-Signature"
	HeaderTimestamp = "X-Slack-Request-Timestamp"

	formFieldPayload  = "payload"
	formFieldSSLCheck = "ssl_check"

	maxRequestBodyBytes = 3 << 20
)

// HTTPHandler is the inbound transport surface. It owns body reading, form
// decoding, the ssl_check probe, and reply writing; everything after that is
// the coordinator's job. Mounting the handler into a server or framework is
// the application's responsibility.
type HTTPHandler struct {
	coordinator *Coordinator
	observer    core.Observer
	requestID   func() string
}

func NewHTTPHandler(coordinator *Coordinator, observer core.Observer) *HTTPHandler {
	return &HTTPHandler{
		coordinator: coordinator,
		observer:    observer,
		requestID:   uuid.NewString,
	}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.coordinator == nil {
		http.Error(w, "interaction adapter is not configured", http.StatusInternalServerError)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeReply(w, core.Reply{StatusCode: http.StatusMethodNotAllowed})
		return
	}

	requestID := h.requestID()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		// an intervening middleware already consumed the body, or the read
		// failed mid-flight; this is an internal fault, not a client error
		h.observer.LogError(r.Context(), "read request body failed", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		writeReply(w, core.Reply{StatusCode: http.StatusInternalServerError})
		return
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		writeReply(w, errorReply(coordinatorBadInput("inbound: parse form body", map[string]any{
			"request_id": requestID,
		})))
		return
	}

	if values.Get(formFieldSSLCheck) != "" {
		// TLS verification probe; acknowledged without dispatch. Probes that
		// carry authentication headers are still verified.
		if r.Header.Get(HeaderSignature) != "" || r.Header.Get(HeaderTimestamp) != "" {
			if err := h.coordinator.VerifyRequest(r.Context(), core.RawRequest{
				Body:      body,
				Signature: r.Header.Get(HeaderSignature),
				Timestamp: r.Header.Get(HeaderTimestamp),
				RequestID: requestID,
			}); err != nil {
				writeReply(w, errorReply(err))
				return
			}
		}
		writeReply(w, core.Reply{StatusCode: http.StatusOK})
		return
	}

	if len(values[formFieldPayload]) > 1 {
		writeReply(w, errorReply(coordinatorBadInput("inbound: duplicate payload field", map[string]any{
			"request_id": requestID,
		})))
		return
	}

	payloadField := values.Get(formFieldPayload)
	if strings.TrimSpace(payloadField) == "" {
		writeReply(w, errorReply(coordinatorBadInput("inbound: payload field is required", map[string]any{
			"request_id": requestID,
		})))
		return
	}

	reply := h.coordinator.Handle(r.Context(), core.RawRequest{
		Body:        body,
		Payload:     []byte(payloadField),
		Signature:   r.Header.Get(HeaderSignature),
		Timestamp:   r.Header.Get(HeaderTimestamp),
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   requestID,
	})
	writeReply(w, reply)
}

func writeReply(w http.ResponseWriter, reply core.Reply) {
	if reply.ContentType != "" {
		w.Header().Set("Content-Type", reply.ContentType)
	}
	if reply.StatusCode == 0 {
		reply.StatusCode = http.StatusOK
	}
	w.WriteHeader(reply.StatusCode)
	if !reply.Empty() {
		_, _ = w.Write(reply.Body)
	}
}

var _ http.Handler = (*HTTPHandler)(nil)
