package verify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-interactions/core"
)

const (
	// SignatureVersion prefixes both the signed base string and the signature
	// header value.
	SignatureVersion = "v0"

	DefaultReplayWindow = 5 * time.Minute
)

// SecretSource yields the signing secrets currently accepted for
// verification. Multiple secrets are valid simultaneously during a rotation;
// a request authenticates when its signature matches any of them.
type SecretSource interface {
	Secrets(ctx context.Context) ([][]byte, error)
}

type staticSecretSource [][]byte

func (s staticSecretSource) Secrets(context.Context) ([][]byte, error) {
	return s, nil
}

// SigningSecretVerifier checks the platform request signature: an HMAC-SHA256
// over "v0:<timestamp>:<body>" keyed with a shared signing secret, hex
// encoded and prefixed "v0=".
type SigningSecretVerifier struct {
	source       SecretSource
	replayWindow time.Duration
	now          func() time.Time
}

type VerifierOption func(*SigningSecretVerifier)

func WithReplayWindow(window time.Duration) VerifierOption {
	return func(v *SigningSecretVerifier) {
		if window > 0 {
			v.replayWindow = window
		}
	}
}

func WithClock(now func() time.Time) VerifierOption {
	return func(v *SigningSecretVerifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewSigningSecretVerifier builds a verifier over a single fixed secret.
func NewSigningSecretVerifier(secret string, options ...VerifierOption) *SigningSecretVerifier {
	return NewVerifier(staticSecretSource{[]byte(strings.TrimSpace(secret))}, options...)
}

// NewVerifier builds a verifier over a secret source, for deployments that
// rotate signing secrets without restarts.
func NewVerifier(source SecretSource, options ...VerifierOption) *SigningSecretVerifier {
	verifier := &SigningSecretVerifier{
		source:       source,
		replayWindow: DefaultReplayWindow,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(verifier)
	}
	return verifier
}

// Verify authenticates one raw request. The staleness check and the signature
// comparison both run regardless of the other's outcome; a stale timestamp is
// reported even when the signature is otherwise correct.
func (v *SigningSecretVerifier) Verify(ctx context.Context, req core.RawRequest) error {
	if v == nil || v.source == nil {
		return verifyInternal("verify: signing secret is required", nil)
	}
	secrets, err := v.source.Secrets(ctx)
	if err != nil {
		return verifyInternal("verify: secret source failed", map[string]any{
			"cause": err.Error(),
		})
	}
	secrets = nonEmptySecrets(secrets)
	if len(secrets) == 0 {
		return verifyInternal("verify: signing secret is required", nil)
	}

	stale := v.checkTimestamp(req.Timestamp)
	invalid := v.checkSignature(secrets, req)

	if stale != nil {
		return stale
	}
	return invalid
}

func (v *SigningSecretVerifier) checkTimestamp(header string) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return staleError("verify: stale request: timestamp header is required", nil)
	}
	seconds, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return staleError("verify: stale request: malformed timestamp header", map[string]any{
			"timestamp": header,
		})
	}
	issuedAt := time.Unix(seconds, 0)
	drift := v.now().Sub(issuedAt)
	if drift < 0 {
		drift = -drift
	}
	if drift > v.replayWindow {
		return staleError("verify: stale request: timestamp outside replay window", map[string]any{
			"timestamp": header,
			"drift_ms":  drift.Milliseconds(),
		})
	}
	return nil
}

func (v *SigningSecretVerifier) checkSignature(secrets [][]byte, req core.RawRequest) error {
	header := strings.TrimSpace(req.Signature)
	if header == "" {
		return signatureError("verify: signature header is required", nil)
	}
	timestamp := strings.TrimSpace(req.Timestamp)
	matched := false
	for _, secret := range secrets {
		expected := Signature(secret, timestamp, req.Body)
		if subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1 {
			matched = true
		}
	}
	if !matched {
		return signatureError("verify: signature verification failed", nil)
	}
	return nil
}

func nonEmptySecrets(secrets [][]byte) [][]byte {
	out := secrets[:0:0]
	for _, secret := range secrets {
		if len(secret) > 0 {
			out = append(out, secret)
		}
	}
	return out
}

// Signature computes the expected signature header value for a secret,
// timestamp header, and raw body.
func Signature(secret []byte, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(SignatureVersion))
	_, _ = mac.Write([]byte(":"))
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte(":"))
	_, _ = mac.Write(body)
	return SignatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}
