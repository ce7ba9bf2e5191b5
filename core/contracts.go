package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// GraphQLRequest is a single Admin API operation. Values are always carried
// as variables, never interpolated into Query.
type GraphQLRequest struct {
	Query         string
	OperationName string
	Variables     map[string]any
}

// GraphQLClient executes one operation against a shop and returns the parsed
// response body.
type GraphQLClient interface {
	Query(ctx context.Context, req GraphQLRequest) (map[string]any, error)
}

// GraphQLClientFactory builds a client bound to a shop and access token.
type GraphQLClientFactory func(shop string, accessToken string) (GraphQLClient, error)

// HandlerFunc receives a verified webhook. The topic is in canonical form.
type HandlerFunc func(ctx context.Context, topic string, shopDomain string, body []byte)

type InboundMessage struct {
	Headers map[string]string
	Body    []byte
}

type DispatchResult struct {
	StatusCode int
	Headers    map[string]string
}

type RegisterRequest struct {
	Topic          string
	Path           string
	Shop           string
	AccessToken    string
	DeliveryMethod DeliveryMethod
	Handler        HandlerFunc
}

type RegisterResult struct {
	Success bool
	Result  map[string]any
}

// SubscriptionRecord describes a remote subscription confirmed by the
// platform. Handlers are process-local and never part of a record.
type SubscriptionRecord struct {
	ID                   string
	Shop                 string
	Topic                string
	Address              string
	DeliveryMethod       DeliveryMethod
	RemoteSubscriptionID string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SubscriptionRecorder is notified after the platform confirms a subscription.
type SubscriptionRecorder interface {
	Record(ctx context.Context, record SubscriptionRecord) (SubscriptionRecord, error)
}
