package payload

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interactions/core"
)

var ErrMalformedPayload = errors.New("payload: malformed interaction payload")

func malformedError(message string, metadata map[string]any) error {
	err := goerrors.Wrap(ErrMalformedPayload, goerrors.CategoryBadInput, message).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.AdapterErrorMalformedPayload)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
