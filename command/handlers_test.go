package command

import (
	"context"
	"errors"
	"testing"

	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/goliatone/go-shopify-webhooks/webhooks"
)

type stubMutatingService struct {
	registerFn   func(ctx context.Context, req core.RegisterRequest) (core.RegisterResult, error)
	addHandlerFn func(topic string, path string, handler core.HandlerFunc) (webhooks.Entry, error)
}

func (s stubMutatingService) Register(ctx context.Context, req core.RegisterRequest) (core.RegisterResult, error) {
	if s.registerFn == nil {
		return core.RegisterResult{}, nil
	}
	return s.registerFn(ctx, req)
}

func (s stubMutatingService) AddHandler(topic string, path string, handler core.HandlerFunc) (webhooks.Entry, error) {
	if s.addHandlerFn == nil {
		return webhooks.Entry{}, nil
	}
	return s.addHandlerFn(topic, path, handler)
}

type stubLedgerWriter struct {
	deleted []string
	err     error
}

func (s *stubLedgerWriter) Delete(_ context.Context, shop string, topic string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, shop+"/"+topic)
	return nil
}

func noopHandler(context.Context, string, string, []byte) {}

func TestRegisterWebhookCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	called := false
	svc := stubMutatingService{
		registerFn: func(_ context.Context, req core.RegisterRequest) (core.RegisterResult, error) {
			called = true
			if req.Topic != "orders/create" || req.Shop != "shop.example.com" {
				t.Fatalf("unexpected register request %#v", req)
			}
			return core.RegisterResult{Success: true, Result: map[string]any{}}, nil
		},
	}

	cmd := NewRegisterWebhookCommand(svc)
	collector := gocmd.NewResult[core.RegisterResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, RegisterWebhookMessage{Request: core.RegisterRequest{
		Topic:       "orders/create",
		Path:        "/webhooks/orders",
		Shop:        "shop.example.com",
		AccessToken: "token",
		Handler:     noopHandler,
	}})
	if err != nil {
		t.Fatalf("execute register: %v", err)
	}
	if !called {
		t.Fatalf("expected register service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if !result.Success {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestRegisterWebhookCommand_PropagatesServiceError(t *testing.T) {
	svc := stubMutatingService{
		registerFn: func(context.Context, core.RegisterRequest) (core.RegisterResult, error) {
			return core.RegisterResult{}, errors.New("network down")
		},
	}
	collector := gocmd.NewResult[core.RegisterResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	if err := NewRegisterWebhookCommand(svc).Execute(ctx, RegisterWebhookMessage{}); err == nil {
		t.Fatalf("expected service error")
	}
	if _, ok := collector.Load(); ok {
		t.Fatalf("expected no stored result on error")
	}
}

func TestAddHandlerCommand_ExecuteStoresEntry(t *testing.T) {
	svc := stubMutatingService{
		addHandlerFn: func(topic string, path string, handler core.HandlerFunc) (webhooks.Entry, error) {
			return webhooks.Entry{Topic: core.CanonicalTopic(topic), Path: path, Handler: handler}, nil
		},
	}
	collector := gocmd.NewResult[webhooks.Entry]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewAddHandlerCommand(svc).Execute(ctx, AddHandlerMessage{
		Topic:   "app/uninstalled",
		Path:    "/webhooks/app",
		Handler: noopHandler,
	}); err != nil {
		t.Fatalf("execute add handler: %v", err)
	}
	entry, ok := collector.Load()
	if !ok || entry.Topic != "APP_UNINSTALLED" {
		t.Fatalf("expected stored entry, got %#v", entry)
	}
}

func TestDeleteLedgerEntryCommand_Delegates(t *testing.T) {
	ledger := &stubLedgerWriter{}
	if err := NewDeleteLedgerEntryCommand(ledger).Execute(context.Background(), DeleteLedgerEntryMessage{
		Shop:  "shop.example.com",
		Topic: "orders/create",
	}); err != nil {
		t.Fatalf("execute delete: %v", err)
	}
	if len(ledger.deleted) != 1 || ledger.deleted[0] != "shop.example.com/orders/create" {
		t.Fatalf("unexpected deletes %v", ledger.deleted)
	}
}

func TestMessages_ValidateReturnsRichError(t *testing.T) {
	cases := []interface{ Validate() error }{
		RegisterWebhookMessage{},
		RegisterWebhookMessage{Request: core.RegisterRequest{
			Topic:          "orders/create",
			Path:           "/x",
			Shop:           "shop",
			AccessToken:    "token",
			Handler:        noopHandler,
			DeliveryMethod: "pubsub",
		}},
		AddHandlerMessage{Topic: "orders/create"},
		DeleteLedgerEntryMessage{Shop: "shop"},
	}
	for _, msg := range cases {
		err := msg.Validate()
		if err == nil {
			t.Fatalf("expected validation error for %#v", msg)
		}
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("expected go-errors envelope, got %T", err)
		}
		if rich.Category != goerrors.CategoryValidation {
			t.Fatalf("expected validation category, got %q", rich.Category)
		}
		if rich.TextCode != core.WebhookErrorBadInput {
			t.Fatalf("expected %q text code, got %q", core.WebhookErrorBadInput, rich.TextCode)
		}
	}
}

func TestCommands_NilDependenciesReturnRichError(t *testing.T) {
	var register *RegisterWebhookCommand
	var add *AddHandlerCommand
	var del *DeleteLedgerEntryCommand
	errs := []error{
		register.Execute(context.Background(), RegisterWebhookMessage{}),
		add.Execute(context.Background(), AddHandlerMessage{}),
		del.Execute(context.Background(), DeleteLedgerEntryMessage{}),
	}
	for _, err := range errs {
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryInternal {
			t.Fatalf("expected internal go-errors envelope, got %#v", err)
		}
	}
}

func TestMessageTypes(t *testing.T) {
	if (RegisterWebhookMessage{}).Type() != "webhooks.command.register" {
		t.Fatalf("unexpected register message type")
	}
	if (AddHandlerMessage{}).Type() != TypeAddHandler {
		t.Fatalf("unexpected add handler message type")
	}
}
