package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AdapterErrorBadInput         = "INTERACTIONS_BAD_INPUT"
	AdapterErrorSignatureInvalid = "INTERACTIONS_SIGNATURE_INVALID"
	AdapterErrorStaleRequest     = "INTERACTIONS_STALE_REQUEST"
	AdapterErrorMalformedPayload = "INTERACTIONS_MALFORMED_PAYLOAD"
	AdapterErrorNoMatch          = "INTERACTIONS_NO_MATCH"
	AdapterErrorHandlerFault     = "INTERACTIONS_HANDLER_FAULT"
	AdapterErrorDeliveryFailed   = "INTERACTIONS_DELIVERY_FAILED"
	AdapterErrorInternal         = "INTERACTIONS_INTERNAL_ERROR"
)

func adapterErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAdapterErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "signature"):
		return newAdapterError(err.Error(), goerrors.CategoryAuth, AdapterErrorSignatureInvalid)
	case strings.Contains(msg, "stale"), strings.Contains(msg, "timestamp"):
		return newAdapterError(err.Error(), goerrors.CategoryAuth, AdapterErrorStaleRequest)
	case strings.Contains(msg, "malformed"), strings.Contains(msg, "parse"), strings.Contains(msg, "decode"):
		return newAdapterError(err.Error(), goerrors.CategoryBadInput, AdapterErrorMalformedPayload)
	case strings.Contains(msg, "no handler"), strings.Contains(msg, "no match"):
		return newAdapterError(err.Error(), goerrors.CategoryNotFound, AdapterErrorNoMatch)
	case strings.Contains(msg, "deliver"):
		return newAdapterError(err.Error(), goerrors.CategoryOperation, AdapterErrorDeliveryFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newAdapterError(err.Error(), goerrors.CategoryBadInput, AdapterErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAdapterErrorEnvelope(mapped)
}

// ErrorMapper normalizes arbitrary errors into adapter error envelopes with a
// stable text code and HTTP status.
func ErrorMapper() func(err error) *goerrors.Error {
	return adapterErrorMapper
}

func newAdapterError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAdapterErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureAdapterErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = adapterHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAdapterTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAdapterTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AdapterErrorBadInput
	case goerrors.CategoryNotFound:
		return AdapterErrorNoMatch
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return AdapterErrorSignatureInvalid
	case goerrors.CategoryOperation:
		return AdapterErrorHandlerFault
	default:
		return AdapterErrorInternal
	}
}

func adapterHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
