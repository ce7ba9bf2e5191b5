package command

import (
	"strings"

	"github.com/goliatone/go-shopify-webhooks/core"
)

const (
	TypeRegisterWebhook = "webhooks.command.register"
	TypeAddHandler      = "webhooks.command.handler.add"
	TypeDeleteLedger    = "webhooks.command.ledger.delete"
)

type RegisterWebhookMessage struct {
	Request core.RegisterRequest
}

func (RegisterWebhookMessage) Type() string { return TypeRegisterWebhook }

func (m RegisterWebhookMessage) Validate() error {
	if strings.TrimSpace(m.Request.Topic) == "" {
		return commandValidationError("topic", "topic is required")
	}
	if strings.TrimSpace(m.Request.Path) == "" {
		return commandValidationError("path", "path is required")
	}
	if strings.TrimSpace(m.Request.Shop) == "" {
		return commandValidationError("shop", "shop is required")
	}
	if strings.TrimSpace(m.Request.AccessToken) == "" {
		return commandValidationError("access_token", "access token is required")
	}
	if m.Request.Handler == nil {
		return commandValidationError("handler", "handler is required")
	}
	if !m.Request.DeliveryMethod.Valid() {
		return commandValidationError("delivery_method", "delivery method must be http or eventbridge")
	}
	return nil
}

type AddHandlerMessage struct {
	Topic   string
	Path    string
	Handler core.HandlerFunc
}

func (AddHandlerMessage) Type() string { return TypeAddHandler }

func (m AddHandlerMessage) Validate() error {
	if strings.TrimSpace(m.Topic) == "" {
		return commandValidationError("topic", "topic is required")
	}
	if m.Handler == nil {
		return commandValidationError("handler", "handler is required")
	}
	return nil
}

// DeleteLedgerEntryMessage removes the stored record of a subscription. The
// remote subscription is not touched.
type DeleteLedgerEntryMessage struct {
	Shop  string
	Topic string
}

func (DeleteLedgerEntryMessage) Type() string { return TypeDeleteLedger }

func (m DeleteLedgerEntryMessage) Validate() error {
	if strings.TrimSpace(m.Shop) == "" {
		return commandValidationError("shop", "shop is required")
	}
	if strings.TrimSpace(m.Topic) == "" {
		return commandValidationError("topic", "topic is required")
	}
	return nil
}
