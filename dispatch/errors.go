package dispatch

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interactions/core"
)

var ErrNoMatch = errors.New("dispatch: no handler matched event")

func NoMatchError(evt core.Event) error {
	return goerrors.Wrap(ErrNoMatch, goerrors.CategoryNotFound, "dispatch: no handler matched event").
		WithCode(http.StatusNotFound).
		WithTextCode(core.AdapterErrorNoMatch).
		WithMetadata(map[string]any{
			"event_kind":  string(evt.Kind),
			"callback_id": evt.CallbackID,
			"action_id":   evt.ActionID,
		})
}

func registryBadInput(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.AdapterErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func registryInternal(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.AdapterErrorInternal)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
