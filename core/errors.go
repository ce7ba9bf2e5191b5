package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	WebhookErrorBadInput        = "WEBHOOK_BAD_INPUT"
	WebhookErrorMissingHeaders  = "WEBHOOK_MISSING_HEADERS"
	WebhookErrorUnauthorized    = "WEBHOOK_UNAUTHORIZED"
	WebhookErrorForbidden       = "WEBHOOK_FORBIDDEN"
	WebhookErrorNotFound        = "WEBHOOK_NOT_FOUND"
	WebhookErrorConflict        = "WEBHOOK_CONFLICT"
	WebhookErrorRateLimited     = "WEBHOOK_RATE_LIMITED"
	WebhookErrorExternalFailure = "WEBHOOK_EXTERNAL_FAILURE"
	WebhookErrorOperationFailed = "WEBHOOK_OPERATION_FAILED"
	WebhookErrorInternal        = "WEBHOOK_INTERNAL_ERROR"
)

type ErrorMapper func(err error) *goerrors.Error

// MapError converts any error into a go-errors envelope with an HTTP code and
// a WEBHOOK_* text code.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "missing") && strings.Contains(msg, "header"):
		return newError(err.Error(), goerrors.CategoryBadInput, WebhookErrorMissingHeaders)
	case strings.Contains(msg, "throttl"), strings.Contains(msg, "rate limit"):
		return newError(err.Error(), goerrors.CategoryRateLimit, WebhookErrorRateLimited)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newError(err.Error(), goerrors.CategoryBadInput, WebhookErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func newError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = HTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = TextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

// TextCode returns the default WEBHOOK_* text code for a category.
func TextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return WebhookErrorBadInput
	case goerrors.CategoryAuth:
		return WebhookErrorUnauthorized
	case goerrors.CategoryAuthz:
		return WebhookErrorForbidden
	case goerrors.CategoryNotFound:
		return WebhookErrorNotFound
	case goerrors.CategoryConflict:
		return WebhookErrorConflict
	case goerrors.CategoryRateLimit:
		return WebhookErrorRateLimited
	case goerrors.CategoryOperation:
		return WebhookErrorOperationFailed
	case goerrors.CategoryExternal:
		return WebhookErrorExternalFailure
	default:
		return WebhookErrorInternal
	}
}

func HTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
