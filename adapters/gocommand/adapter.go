package gocommand

import (
	"fmt"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	webhookcommand "github.com/goliatone/go-shopify-webhooks/command"
	webhookquery "github.com/goliatone/go-shopify-webhooks/query"
)

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// WebhookService is what the webhook commands and registry queries need.
type WebhookService interface {
	webhookcommand.MutatingService
	webhookquery.RegistryReader
}

// SubscriptionLedger backs the ledger command and query. It is optional.
type SubscriptionLedger interface {
	webhookcommand.LedgerWriter
	webhookquery.SubscriptionLister
}

// Subscriptions holds every dispatcher subscription made by WireWebhooks.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// WireWebhooks registers the webhook commands and queries on the adapter's
// registry, subscribes them on the go-command dispatcher, and initializes the
// registry. Ledger messages are wired only when ledger is not nil. On failure
// every subscription made so far is removed.
func WireWebhooks(
	adapter *RegistryAdapter,
	service WebhookService,
	ledger SubscriptionLedger,
	runnerOpts ...runner.Option,
) (Subscriptions, error) {
	if service == nil {
		return nil, fmt.Errorf("gocommand: webhook service is required")
	}
	subs := Subscriptions{}
	track := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs = append(subs, subscription)
		return nil
	}

	if err := track(RegisterAndSubscribe(adapter, webhookcommand.NewRegisterWebhookCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := track(RegisterAndSubscribe(adapter, webhookcommand.NewAddHandlerCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := track(RegisterAndSubscribeQuery(adapter, webhookquery.NewFindWebhookQuery(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := track(RegisterAndSubscribeQuery(adapter, webhookquery.NewListTopicsQuery(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if ledger != nil {
		if err := track(RegisterAndSubscribe(adapter, webhookcommand.NewDeleteLedgerEntryCommand(ledger), runnerOpts...)); err != nil {
			return nil, err
		}
		if err := track(RegisterAndSubscribeQuery(adapter, webhookquery.NewListSubscriptionsQuery(ledger), runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if err := adapter.registry.Initialize(); err != nil {
		subs.Unsubscribe()
		return nil, fmt.Errorf("gocommand: initialize registry: %w", err)
	}
	return subs, nil
}
