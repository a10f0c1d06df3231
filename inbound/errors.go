package inbound

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interactions/core"
)

func handlerFault(source error, metadata map[string]any) error {
	err := goerrors.Wrap(source, goerrors.CategoryOperation, "inbound: handler execution failed").
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.AdapterErrorHandlerFault)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func coordinatorBadInput(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.AdapterErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func coordinatorInternal(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.AdapterErrorInternal)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
