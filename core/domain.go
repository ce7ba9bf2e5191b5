package core

import "strings"

type DeliveryMethod string

const (
	DeliveryMethodHTTP        DeliveryMethod = "http"
	DeliveryMethodEventBridge DeliveryMethod = "eventbridge"
)

const (
	HeaderHMAC       = "X-Shopify-Hmac-Sha256"
	HeaderTopic      = "X-Shopify-Topic"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
)

// Normalize maps an empty method to HTTP.
func (m DeliveryMethod) Normalize() DeliveryMethod {
	switch DeliveryMethod(strings.ToLower(strings.TrimSpace(string(m)))) {
	case "", DeliveryMethodHTTP:
		return DeliveryMethodHTTP
	case DeliveryMethodEventBridge:
		return DeliveryMethodEventBridge
	default:
		return m
	}
}

func (m DeliveryMethod) Valid() bool {
	switch m.Normalize() {
	case DeliveryMethodHTTP, DeliveryMethodEventBridge:
		return true
	default:
		return false
	}
}

// CanonicalTopic returns the registry key for a topic: orders/create becomes
// ORDERS_CREATE.
func CanonicalTopic(topic string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(topic), "/", "_"))
}
