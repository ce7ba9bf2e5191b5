package shopifywebhooks

import (
	"io/fs"

	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/goliatone/go-shopify-webhooks/migrations"
	"github.com/goliatone/go-shopify-webhooks/webhooks"
)

type Config = core.Config

type Option = webhooks.Option

type Service = webhooks.Service

type Entry = webhooks.Entry

type HandlerFunc = core.HandlerFunc

type DeliveryMethod = core.DeliveryMethod

type RegisterRequest = core.RegisterRequest
type RegisterResult = core.RegisterResult

type InboundMessage = core.InboundMessage
type DispatchResult = core.DispatchResult

type SubscriptionRecord = core.SubscriptionRecord

const (
	DeliveryMethodHTTP        = core.DeliveryMethodHTTP
	DeliveryMethodEventBridge = core.DeliveryMethodEventBridge
)

var (
	WithLogger               = webhooks.WithLogger
	WithLoggerProvider       = webhooks.WithLoggerProvider
	WithMetricsRecorder      = webhooks.WithMetricsRecorder
	WithConfigProvider       = webhooks.WithConfigProvider
	WithOptionsResolver      = webhooks.WithOptionsResolver
	WithRegistry             = webhooks.WithRegistry
	WithGraphQLClientFactory = webhooks.WithGraphQLClientFactory
	WithHTTPClient           = webhooks.WithHTTPClient
	WithVerifier             = webhooks.WithVerifier
	WithSubscriptionRecorder = webhooks.WithSubscriptionRecorder
	WithClock                = webhooks.WithClock
	IsMissingHeadersError    = webhooks.IsMissingHeadersError
	VerifySignature          = webhooks.VerifySignature
	ComputeSignature         = webhooks.ComputeSignature
	CanonicalTopic           = core.CanonicalTopic
	MapError                 = core.MapError
	NewRegistry              = webhooks.NewRegistry
	BuildExistenceQuery      = webhooks.BuildExistenceQuery
	BuildUpsertMutation      = webhooks.BuildUpsertMutation
	SubscriptionMutationName = webhooks.MutationName
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewService builds an isolated webhook service. Each service owns its own
// registry.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	return webhooks.NewService(cfg, opts...)
}

// Migrations returns the embedded SQL for the subscription ledger.
func Migrations() fs.FS {
	return migrations.FS()
}
