package shopifywebhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	promadapter "github.com/goliatone/go-shopify-webhooks/adapters/prometheus"
	"github.com/goliatone/go-shopify-webhooks/core"
	sqlstore "github.com/goliatone/go-shopify-webhooks/store/sql"
	"github.com/goliatone/go-shopify-webhooks/transport"
)

type adminAPIStub struct {
	mu         sync.Mutex
	operations []string
}

func (s *adminAPIStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.operations = append(s.operations, payload.OperationName)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if strings.HasPrefix(strings.TrimSpace(payload.Query), "query") {
		_, _ = w.Write([]byte(`{"data":{"webhookSubscriptions":{"edges":[]}}}`))
		return
	}
	_, _ = fmt.Fprintf(w, `{"data":{"%s":{"userErrors":[],"webhookSubscription":{"id":"gid://shopify/WebhookSubscription/7"}}}}`, payload.OperationName)
}

func TestComposition_RegisterPersistDispatch(t *testing.T) {
	ctx := context.Background()
	admin := &adminAPIStub{}
	server := httptest.NewServer(admin)
	defer server.Close()

	client, err := sqlstore.OpenClient(ctx, sqlstore.ClientConfig{
		Driver:      sqlstore.DriverSQLite,
		DSN:         fmt.Sprintf("file:composition-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano()),
		PingTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	defer client.Close()
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("repository factory: %v", err)
	}
	ledger := factory.Ledger()

	metrics := promadapter.NewRecorder()
	cfg := DefaultConfig()
	cfg.HostName = "app.example.com"
	cfg.APISecretKey = "hush"

	svc, err := NewService(cfg,
		WithMetricsRecorder(metrics),
		WithSubscriptionRecorder(ledger),
		WithGraphQLClientFactory(transport.NewAdminClientFactory(transport.AdminClientConfig{
			HTTPClient: server.Client(),
			EndpointFor: func(string, string) string {
				return server.URL
			},
		})),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	facade, err := NewFacade(svc, WithLedger(ledger))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	var (
		mu       sync.Mutex
		received []string
	)
	result, err := facade.Service().Register(ctx, RegisterRequest{
		Topic:       "orders/create",
		Path:        "/webhooks/orders",
		Shop:        "shop.example.com",
		AccessToken: "token",
		Handler: func(_ context.Context, topic string, shop string, body []byte) {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, topic+"|"+shop+"|"+string(body))
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected registration success, got %#v", result)
	}
	if len(admin.operations) != 2 || admin.operations[1] != "webhookSubscriptionCreate" {
		t.Fatalf("expected existence query then create mutation, got %v", admin.operations)
	}

	records, err := ledger.ListByShop(ctx, "shop.example.com")
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(records) != 1 || records[0].RemoteSubscriptionID != "gid://shopify/WebhookSubscription/7" {
		t.Fatalf("expected persisted subscription, got %#v", records)
	}
	if records[0].Address != "https://app.example.com/webhooks/orders" {
		t.Fatalf("unexpected persisted address %q", records[0].Address)
	}

	body := []byte(`{"id":1}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", bytes.NewReader(body))
	req.Header.Set(core.HeaderHMAC, ComputeSignature("hush", body))
	req.Header.Set(core.HeaderTopic, "orders/create")
	req.Header.Set(core.HeaderShopDomain, "shop.example.com")
	rec := httptest.NewRecorder()
	svc.HTTPHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(received) != 1 || received[0] != `ORDERS_CREATE|shop.example.com|{"id":1}` {
		t.Fatalf("unexpected handler deliveries %v", received)
	}

	families, err := metrics.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}
	if !names["webhooks_register_total"] || !names["webhooks_dispatch_total"] {
		t.Fatalf("expected register and dispatch counters, got %v", names)
	}
}

func TestMigrations_ExposesEmbeddedSQL(t *testing.T) {
	fsys := Migrations()
	if fsys == nil {
		t.Fatalf("expected embedded migrations")
	}
	if _, err := fsys.Open("data/sql/migrations/00001_webhook_subscriptions.up.sql"); err != nil {
		t.Fatalf("open postgres migration: %v", err)
	}
}
