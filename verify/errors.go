package verify

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interactions/core"
)

var (
	ErrSignatureInvalid = errors.New("verify: signature invalid")
	ErrStaleRequest     = errors.New("verify: stale request")
)

func signatureError(message string, metadata map[string]any) error {
	err := goerrors.Wrap(ErrSignatureInvalid, goerrors.CategoryAuth, message).
		WithCode(http.StatusUnauthorized).
		WithTextCode(core.AdapterErrorSignatureInvalid)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func staleError(message string, metadata map[string]any) error {
	err := goerrors.Wrap(ErrStaleRequest, goerrors.CategoryAuth, message).
		WithCode(http.StatusUnauthorized).
		WithTextCode(core.AdapterErrorStaleRequest)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func verifyInternal(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.AdapterErrorInternal)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
