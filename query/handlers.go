package query

import (
	"context"

	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/goliatone/go-shopify-webhooks/webhooks"
)

type RegistryReader interface {
	Lookup(topic string) (webhooks.Entry, bool)
	Topics() []string
}

type SubscriptionLister interface {
	ListByShop(ctx context.Context, shop string) ([]core.SubscriptionRecord, error)
}

type FindWebhookQuery struct {
	reader RegistryReader
}

func NewFindWebhookQuery(reader RegistryReader) *FindWebhookQuery {
	return &FindWebhookQuery{reader: reader}
}

// Query returns a not-found error when no handler is mapped to the topic.
func (q *FindWebhookQuery) Query(_ context.Context, msg FindWebhookMessage) (webhooks.Entry, error) {
	if q == nil || q.reader == nil {
		return webhooks.Entry{}, queryDependencyError("query: registry reader is required")
	}
	entry, ok := q.reader.Lookup(msg.Topic)
	if !ok {
		return webhooks.Entry{}, queryNotFoundError(core.CanonicalTopic(msg.Topic))
	}
	return entry, nil
}

type ListTopicsQuery struct {
	reader RegistryReader
}

func NewListTopicsQuery(reader RegistryReader) *ListTopicsQuery {
	return &ListTopicsQuery{reader: reader}
}

func (q *ListTopicsQuery) Query(_ context.Context, _ ListTopicsMessage) ([]string, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: registry reader is required")
	}
	return q.reader.Topics(), nil
}

type ListSubscriptionsQuery struct {
	lister SubscriptionLister
}

func NewListSubscriptionsQuery(lister SubscriptionLister) *ListSubscriptionsQuery {
	return &ListSubscriptionsQuery{lister: lister}
}

func (q *ListSubscriptionsQuery) Query(ctx context.Context, msg ListSubscriptionsMessage) ([]core.SubscriptionRecord, error) {
	if q == nil || q.lister == nil {
		return nil, queryDependencyError("query: subscription ledger is required")
	}
	return q.lister.ListByShop(ctx, msg.Shop)
}
