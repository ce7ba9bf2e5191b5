package sqlstore

import "github.com/goliatone/go-shopify-webhooks/core"

var (
	_ core.SubscriptionRecorder = (*SubscriptionStore)(nil)
	_ core.SubscriptionRecorder = (*CachedSubscriptionStore)(nil)
	_ SubscriptionLedger        = (*SubscriptionStore)(nil)
	_ SubscriptionLedger        = (*CachedSubscriptionStore)(nil)
)
