package verify

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/goliatone/go-interactions/core"
)

func rawRequest(body, signature, timestamp string) core.RawRequest {
	return core.RawRequest{
		Body:      []byte(body),
		Signature: signature,
		Timestamp: timestamp,
	}
}

var testNow = time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)

func testVerifier(secret string) *SigningSecretVerifier {
	return NewSigningSecretVerifier(secret, WithClock(func() time.Time { return testNow }))
}

func signedRequest(secret string, issuedAt time.Time, body string) (string, string) {
	timestamp := strconv.FormatInt(issuedAt.Unix(), 10)
	return Signature([]byte(secret), timestamp, []byte(body)), timestamp
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	verifier := testVerifier("abc")
	body := `payload={"type":"block_actions"}`
	signature, timestamp := signedRequest("abc", testNow.Add(-30*time.Second), body)

	err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp))
	if err != nil {
		t.Fatalf("expected valid request to verify, got %v", err)
	}
}

func TestVerifyRejectsMutatedSignature(t *testing.T) {
	verifier := testVerifier("abc")
	body := `payload={}`
	signature, timestamp := signedRequest("abc", testNow, body)

	mutated := []byte(signature)
	// flip one bit in the hex digest
	mutated[len(mutated)-1] ^= 0x01
	err := verifier.Verify(context.Background(), rawRequest(body, string(mutated), timestamp))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected signature rejection, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := testVerifier("abc")
	body := `payload={}`
	signature, timestamp := signedRequest("othersecret", testNow, body)

	err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected signature rejection, got %v", err)
	}
}

func TestVerifyRejectsStaleTimestampEvenWithCorrectSignature(t *testing.T) {
	verifier := testVerifier("abc")
	body := `payload={}`
	signature, timestamp := signedRequest("abc", testNow.Add(-400*time.Second), body)

	err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp))
	if !errors.Is(err, ErrStaleRequest) {
		t.Fatalf("expected stale rejection, got %v", err)
	}
}

func TestVerifyRejectsFutureTimestampOutsideWindow(t *testing.T) {
	verifier := testVerifier("abc")
	body := `payload={}`
	signature, timestamp := signedRequest("abc", testNow.Add(6*time.Minute), body)

	err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp))
	if !errors.Is(err, ErrStaleRequest) {
		t.Fatalf("expected stale rejection, got %v", err)
	}
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	verifier := testVerifier("abc")

	if err := verifier.Verify(context.Background(), rawRequest("body", "", "")); err == nil {
		t.Fatalf("expected missing headers to be rejected")
	}

	signature, _ := signedRequest("abc", testNow, "body")
	err := verifier.Verify(context.Background(), rawRequest("body", signature, "not-a-number"))
	if !errors.Is(err, ErrStaleRequest) {
		t.Fatalf("expected malformed timestamp rejection, got %v", err)
	}
}

type sourceFunc func(ctx context.Context) ([][]byte, error)

func (f sourceFunc) Secrets(ctx context.Context) ([][]byte, error) { return f(ctx) }

func TestVerifyAcceptsAnySourceSecret(t *testing.T) {
	verifier := NewVerifier(sourceFunc(func(context.Context) ([][]byte, error) {
		return [][]byte{[]byte("new-secret"), []byte("old-secret")}, nil
	}), WithClock(func() time.Time { return testNow }))
	body := `payload={}`

	signature, timestamp := signedRequest("old-secret", testNow, body)
	if err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp)); err != nil {
		t.Fatalf("expected old rotation secret to verify, got %v", err)
	}

	signature, timestamp = signedRequest("new-secret", testNow, body)
	if err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp)); err != nil {
		t.Fatalf("expected new rotation secret to verify, got %v", err)
	}

	signature, timestamp = signedRequest("retired-secret", testNow, body)
	err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected retired secret rejection, got %v", err)
	}
}

func TestVerifyFailsWhenSourceErrors(t *testing.T) {
	verifier := NewVerifier(sourceFunc(func(context.Context) ([][]byte, error) {
		return nil, errors.New("backend unavailable")
	}))
	signature, timestamp := signedRequest("abc", time.Now(), "body")
	if err := verifier.Verify(context.Background(), rawRequest("body", signature, timestamp)); err == nil {
		t.Fatalf("expected source failure to reject the request")
	}
}

func TestVerifyCustomReplayWindow(t *testing.T) {
	verifier := NewSigningSecretVerifier("abc",
		WithClock(func() time.Time { return testNow }),
		WithReplayWindow(time.Second),
	)
	body := `payload={}`
	signature, timestamp := signedRequest("abc", testNow.Add(-2*time.Second), body)

	err := verifier.Verify(context.Background(), rawRequest(body, signature, timestamp))
	if !errors.Is(err, ErrStaleRequest) {
		t.Fatalf("expected narrowed window rejection, got %v", err)
	}
}
