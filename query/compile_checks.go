package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/goliatone/go-shopify-webhooks/webhooks"
)

var (
	_ gocmd.Querier[FindWebhookMessage, webhooks.Entry]                  = (*FindWebhookQuery)(nil)
	_ gocmd.Querier[ListTopicsMessage, []string]                         = (*ListTopicsQuery)(nil)
	_ gocmd.Querier[ListSubscriptionsMessage, []core.SubscriptionRecord] = (*ListSubscriptionsQuery)(nil)
	_ RegistryReader                                                     = (*webhooks.Service)(nil)
)
