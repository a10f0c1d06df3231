package delivery

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interactions/core"
)

var ErrDeliveryFailed = errors.New("delivery: delivery failed")

func deliveryFailed(message string, cause error, metadata map[string]any) error {
	source := ErrDeliveryFailed
	if cause != nil {
		source = errors.Join(ErrDeliveryFailed, cause)
	}
	err := goerrors.Wrap(source, goerrors.CategoryOperation, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(core.AdapterErrorDeliveryFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func deliveryBadInput(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.AdapterErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func deliveryInternal(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.AdapterErrorInternal)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
