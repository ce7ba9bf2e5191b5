package query

import "strings"

const (
	TypeFindWebhook       = "webhooks.query.find"
	TypeListTopics        = "webhooks.query.topics"
	TypeListSubscriptions = "webhooks.query.subscriptions"
)

type FindWebhookMessage struct {
	Topic string
}

func (FindWebhookMessage) Type() string { return TypeFindWebhook }

func (m FindWebhookMessage) Validate() error {
	if strings.TrimSpace(m.Topic) == "" {
		return queryValidationError("topic", "topic is required")
	}
	return nil
}

type ListTopicsMessage struct{}

func (ListTopicsMessage) Type() string { return TypeListTopics }

func (ListTopicsMessage) Validate() error { return nil }

type ListSubscriptionsMessage struct {
	Shop string
}

func (ListSubscriptionsMessage) Type() string { return TypeListSubscriptions }

func (m ListSubscriptionsMessage) Validate() error {
	if strings.TrimSpace(m.Shop) == "" {
		return queryValidationError("shop", "shop is required")
	}
	return nil
}
