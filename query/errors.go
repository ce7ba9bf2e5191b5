package query

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-shopify-webhooks/core"
)

func queryDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.WebhookErrorInternal)
}

func queryValidationError(field string, message string) error {
	return goerrors.NewValidation("query: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.WebhookErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func queryNotFoundError(topic string) error {
	return goerrors.New(fmt.Sprintf("query: no handler registered for topic %q", topic), goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(core.WebhookErrorNotFound).
		WithMetadata(map[string]any{"topic": topic})
}
