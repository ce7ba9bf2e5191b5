package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/uptrace/bun"
)

type webhookSubscriptionRecord struct {
	bun.BaseModel `bun:"table:webhook_subscriptions,alias:ws"`

	ID                   string    `bun:"id,pk"`
	Shop                 string    `bun:"shop,notnull"`
	Topic                string    `bun:"topic,notnull"`
	Address              string    `bun:"address,notnull"`
	DeliveryMethod       string    `bun:"delivery_method,notnull"`
	RemoteSubscriptionID string    `bun:"remote_subscription_id"`
	CreatedAt            time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt            time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newWebhookSubscriptionRecord(in core.SubscriptionRecord, now time.Time) *webhookSubscriptionRecord {
	return &webhookSubscriptionRecord{
		Shop:                 in.Shop,
		Topic:                in.Topic,
		Address:              in.Address,
		DeliveryMethod:       string(in.DeliveryMethod),
		RemoteSubscriptionID: in.RemoteSubscriptionID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (r *webhookSubscriptionRecord) toDomain() core.SubscriptionRecord {
	if r == nil {
		return core.SubscriptionRecord{}
	}
	return core.SubscriptionRecord{
		ID:                   r.ID,
		Shop:                 r.Shop,
		Topic:                r.Topic,
		Address:              r.Address,
		DeliveryMethod:       core.DeliveryMethod(r.DeliveryMethod),
		RemoteSubscriptionID: r.RemoteSubscriptionID,
		CreatedAt:            r.CreatedAt.UTC(),
		UpdatedAt:            r.UpdatedAt.UTC(),
	}
}

func normalizeSubscriptionRecord(in core.SubscriptionRecord) core.SubscriptionRecord {
	in.Shop = strings.ToLower(strings.TrimSpace(in.Shop))
	in.Topic = core.CanonicalTopic(in.Topic)
	in.Address = strings.TrimSpace(in.Address)
	in.DeliveryMethod = in.DeliveryMethod.Normalize()
	in.RemoteSubscriptionID = strings.TrimSpace(in.RemoteSubscriptionID)
	return in
}
