package webhooks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-shopify-webhooks/core"
)

const (
	testHostName = "app.example.com"
	testSecret   = "hush"
)

func testConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.HostName = testHostName
	cfg.APISecretKey = testSecret
	return cfg
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		}),
	}
	svc, err := NewService(testConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type queryCall struct {
	shop  string
	token string
	req   core.GraphQLRequest
}

// stubGraphQL answers queries in order and records every call.
type stubGraphQL struct {
	mu        sync.Mutex
	responses []map[string]any
	errs      []error
	calls     []queryCall
	shop      string
	token     string
}

func (s *stubGraphQL) factory() core.GraphQLClientFactory {
	return func(shop string, accessToken string) (core.GraphQLClient, error) {
		return &boundStubClient{stub: s, shop: shop, token: accessToken}, nil
	}
}

func (s *stubGraphQL) snapshot() []queryCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]queryCall, len(s.calls))
	copy(out, s.calls)
	return out
}

type boundStubClient struct {
	stub  *stubGraphQL
	shop  string
	token string
}

func (c *boundStubClient) Query(_ context.Context, req core.GraphQLRequest) (map[string]any, error) {
	c.stub.mu.Lock()
	defer c.stub.mu.Unlock()
	index := len(c.stub.calls)
	c.stub.calls = append(c.stub.calls, queryCall{shop: c.shop, token: c.token, req: req})
	if index < len(c.stub.errs) && c.stub.errs[index] != nil {
		return nil, c.stub.errs[index]
	}
	if index < len(c.stub.responses) {
		return c.stub.responses[index], nil
	}
	return nil, errors.New("stub graphql: unexpected call")
}

func noSubscriptionPayload() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"webhookSubscriptions": map[string]any{"edges": []any{}},
		},
	}
}

func existingSubscriptionPayload(id string, endpoint map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"webhookSubscriptions": map[string]any{
				"edges": []any{
					map[string]any{
						"node": map[string]any{
							"id":       id,
							"endpoint": endpoint,
						},
					},
				},
			},
		},
	}
}

func mutationPayload(name string, id string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			name: map[string]any{
				"userErrors":          []any{},
				"webhookSubscription": map[string]any{"id": id},
			},
		},
	}
}

type countingVerifier struct {
	ok    bool
	calls int
}

func (v *countingVerifier) Verify([]byte, string) bool {
	v.calls++
	return v.ok
}

type handlerCall struct {
	topic  string
	domain string
	body   []byte
}

type recordingHandler struct {
	mu    sync.Mutex
	calls []handlerCall
}

func (h *recordingHandler) handle(_ context.Context, topic string, domain string, body []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, handlerCall{topic: topic, domain: domain, body: append([]byte(nil), body...)})
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

func noopHandler(context.Context, string, string, []byte) {}

type memoryRecorder struct {
	records []core.SubscriptionRecord
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, record core.SubscriptionRecord) (core.SubscriptionRecord, error) {
	if m.err != nil {
		return core.SubscriptionRecord{}, m.err
	}
	m.records = append(m.records, record)
	return record, nil
}

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu       sync.Mutex
	counters []capturedCounter
	observed []string
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string]string, len(tags))
	for key, val := range tags {
		copied[key] = val
	}
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: copied})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, _ float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, name)
}

func (m *captureMetricsRecorder) hasCounter(name string, status string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, counter := range m.counters {
		if counter.name == name && counter.tags["status"] == status {
			return true
		}
	}
	return false
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) core.Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) core.Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) find(level string, msg string) (capturedLog, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range *l.records {
		if entry.level == level && entry.msg == msg {
			return entry, true
		}
	}
	return capturedLog{}, false
}

type stubLoggerProvider struct {
	logger core.Logger
}

func (s stubLoggerProvider) GetLogger(string) core.Logger {
	return s.logger
}
