package shopifywebhooks

import (
	"fmt"

	webhookcommand "github.com/goliatone/go-shopify-webhooks/command"
	webhookquery "github.com/goliatone/go-shopify-webhooks/query"
)

type CommandQueryService interface {
	webhookcommand.MutatingService
	webhookquery.RegistryReader
}

// Ledger is the persisted subscription view used by the ledger command and
// query. sqlstore.SubscriptionLedger satisfies it.
type Ledger interface {
	webhookcommand.LedgerWriter
	webhookquery.SubscriptionLister
}

type Commands struct {
	Register          *webhookcommand.RegisterWebhookCommand
	AddHandler        *webhookcommand.AddHandlerCommand
	DeleteLedgerEntry *webhookcommand.DeleteLedgerEntryCommand
}

type Queries struct {
	FindWebhook       *webhookquery.FindWebhookQuery
	ListTopics        *webhookquery.ListTopicsQuery
	ListSubscriptions *webhookquery.ListSubscriptionsQuery
}

type Facade struct {
	service  CommandQueryService
	ledger   Ledger
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	ledger Ledger
}

// WithLedger enables the ledger command and query. Without it
// DeleteLedgerEntry and ListSubscriptions stay nil.
func WithLedger(ledger Ledger) FacadeOption {
	return func(options *facadeOptions) {
		options.ledger = ledger
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("shopifywebhooks: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{service: service, ledger: cfg.ledger}
	facade.commands = Commands{
		Register:   webhookcommand.NewRegisterWebhookCommand(service),
		AddHandler: webhookcommand.NewAddHandlerCommand(service),
	}
	facade.queries = Queries{
		FindWebhook: webhookquery.NewFindWebhookQuery(service),
		ListTopics:  webhookquery.NewListTopicsQuery(service),
	}
	if cfg.ledger != nil {
		facade.commands.DeleteLedgerEntry = webhookcommand.NewDeleteLedgerEntryCommand(cfg.ledger)
		facade.queries.ListSubscriptions = webhookquery.NewListSubscriptionsQuery(cfg.ledger)
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func (f *Facade) Ledger() Ledger {
	if f == nil {
		return nil
	}
	return f.ledger
}
