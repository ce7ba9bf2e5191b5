package webhooks

import (
	"context"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/goliatone/go-shopify-webhooks/transport"
)

// Service owns one Registry together with the configuration and collaborators
// used by registration and dispatch. Separate services never share state.
type Service struct {
	config        core.Config
	registry      *Registry
	clientFactory core.GraphQLClientFactory
	verifier      Verifier
	recorder      core.SubscriptionRecorder
	logger        core.Logger
	metrics       core.MetricsRecorder
	now           func() time.Time
}

type serviceBuilder struct {
	logger         core.Logger
	loggerProvider core.LoggerProvider
	metrics        core.MetricsRecorder
	configProvider core.ConfigProvider
	resolver       core.OptionsResolver
	registry       *Registry
	clientFactory  core.GraphQLClientFactory
	httpClient     transport.HTTPDoer
	verifier       Verifier
	recorder       core.SubscriptionRecorder
	now            func() time.Time
}

type Option func(*serviceBuilder)

func WithLogger(logger core.Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metrics = recorder
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.resolver = resolver
	}
}

func WithRegistry(registry *Registry) Option {
	return func(b *serviceBuilder) {
		b.registry = registry
	}
}

// WithGraphQLClientFactory replaces the Admin API client used during
// registration.
func WithGraphQLClientFactory(factory core.GraphQLClientFactory) Option {
	return func(b *serviceBuilder) {
		b.clientFactory = factory
	}
}

// WithHTTPClient sets the HTTP client for the default Admin API client.
func WithHTTPClient(client transport.HTTPDoer) Option {
	return func(b *serviceBuilder) {
		b.httpClient = client
	}
}

func WithVerifier(verifier Verifier) Option {
	return func(b *serviceBuilder) {
		b.verifier = verifier
	}
}

func WithSubscriptionRecorder(recorder core.SubscriptionRecorder) Option {
	return func(b *serviceBuilder) {
		b.recorder = recorder
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *serviceBuilder) {
		b.now = now
	}
}

func NewService(cfg core.Config, opts ...Option) (*Service, error) {
	builder := serviceBuilder{
		metrics: core.NopMetricsRecorder{},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	resolved, err := core.ResolveConfig(context.Background(), cfg, builder.configProvider, builder.resolver)
	if err != nil {
		return nil, webhookWrapError(
			err,
			goerrors.CategoryValidation,
			"webhooks: resolve config",
			http.StatusBadRequest,
			core.WebhookErrorBadInput,
			nil,
		)
	}

	provider, logger := glog.Resolve(resolved.ServiceName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(resolved.ServiceName); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.registry == nil {
		builder.registry = NewRegistry()
	}
	if builder.metrics == nil {
		builder.metrics = core.NopMetricsRecorder{}
	}
	if builder.now == nil {
		builder.now = func() time.Time { return time.Now().UTC() }
	}
	if builder.clientFactory == nil {
		builder.clientFactory = transport.NewAdminClientFactory(transport.AdminClientConfig{
			APIVersion: resolved.APIVersion,
			Timeout:    resolved.RequestTimeout,
			HTTPClient: builder.httpClient,
		})
	}

	return &Service{
		config:        resolved,
		registry:      builder.registry,
		clientFactory: builder.clientFactory,
		verifier:      builder.verifier,
		recorder:      builder.recorder,
		logger:        logger,
		metrics:       builder.metrics,
		now:           builder.now,
	}, nil
}

func (s *Service) Config() core.Config {
	if s == nil {
		return core.Config{}
	}
	return s.config
}

func (s *Service) Registry() *Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

// AddHandler maps a topic to a local handler without contacting the platform.
func (s *Service) AddHandler(topic string, path string, handler core.HandlerFunc) (Entry, error) {
	if s == nil || s.registry == nil {
		return Entry{}, internalError("webhooks: service is not configured", nil)
	}
	if strings.TrimSpace(topic) == "" {
		return Entry{}, badInput("webhooks: topic is required", nil)
	}
	if handler == nil {
		return Entry{}, badInput("webhooks: handler is required", map[string]any{"topic": topic})
	}
	return s.registry.Upsert(Entry{Topic: topic, Path: path, Handler: handler}), nil
}

// Lookup returns the entry registered for topic in any accepted spelling.
func (s *Service) Lookup(topic string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	return s.registry.FindByTopic(topic)
}

func (s *Service) Topics() []string {
	if s == nil {
		return []string{}
	}
	return s.registry.Topics()
}

// IsWebhookPath reports whether a registered entry serves path.
func (s *Service) IsWebhookPath(path string) bool {
	if s == nil {
		return false
	}
	_, ok := s.registry.FindByPath(path)
	return ok
}

func (s *Service) activeVerifier() Verifier {
	if s.verifier != nil {
		return s.verifier
	}
	return SignatureVerifier{Secret: s.config.APISecretKey}
}
