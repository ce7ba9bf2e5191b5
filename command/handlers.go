package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/goliatone/go-shopify-webhooks/webhooks"
)

type MutatingService interface {
	Register(ctx context.Context, req core.RegisterRequest) (core.RegisterResult, error)
	AddHandler(topic string, path string, handler core.HandlerFunc) (webhooks.Entry, error)
}

type LedgerWriter interface {
	Delete(ctx context.Context, shop string, topic string) error
}

type RegisterWebhookCommand struct {
	service MutatingService
}

func NewRegisterWebhookCommand(service MutatingService) *RegisterWebhookCommand {
	return &RegisterWebhookCommand{service: service}
}

// Execute stores the RegisterResult in the context collector. A rejected
// registration is a stored result with Success=false, not an error.
func (c *RegisterWebhookCommand) Execute(ctx context.Context, msg RegisterWebhookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: register service is required")
	}
	out, err := c.service.Register(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type AddHandlerCommand struct {
	service MutatingService
}

func NewAddHandlerCommand(service MutatingService) *AddHandlerCommand {
	return &AddHandlerCommand{service: service}
}

func (c *AddHandlerCommand) Execute(ctx context.Context, msg AddHandlerMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: handler service is required")
	}
	out, err := c.service.AddHandler(msg.Topic, msg.Path, msg.Handler)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteLedgerEntryCommand struct {
	ledger LedgerWriter
}

func NewDeleteLedgerEntryCommand(ledger LedgerWriter) *DeleteLedgerEntryCommand {
	return &DeleteLedgerEntryCommand{ledger: ledger}
}

func (c *DeleteLedgerEntryCommand) Execute(ctx context.Context, msg DeleteLedgerEntryMessage) error {
	if c == nil || c.ledger == nil {
		return commandDependencyError("command: subscription ledger is required")
	}
	return c.ledger.Delete(ctx, msg.Shop, msg.Topic)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
