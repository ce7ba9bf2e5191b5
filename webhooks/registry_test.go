package webhooks

import (
	"context"
	"testing"
)

func TestRegistry_UpsertReplacesEntryForCanonicalTopic(t *testing.T) {
	registry := NewRegistry()
	first := &recordingHandler{}
	second := &recordingHandler{}

	registry.Upsert(Entry{Topic: "orders/create", Path: "/a", Handler: first.handle})
	registry.Upsert(Entry{Topic: "ORDERS_CREATE", Path: "/b", Handler: second.handle})

	if registry.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", registry.Len())
	}
	entry, ok := registry.FindByTopic("orders/create")
	if !ok {
		t.Fatalf("expected entry for orders/create")
	}
	if entry.Path != "/b" {
		t.Fatalf("expected replaced path /b, got %q", entry.Path)
	}
	entry.Handler(context.Background(), entry.Topic, "shop", nil)
	if first.count() != 0 || second.count() != 1 {
		t.Fatalf("expected only the latest handler to be retained")
	}
}

func TestRegistry_FindByPath(t *testing.T) {
	registry := NewRegistry()
	registry.Upsert(Entry{Topic: "orders/create", Path: "webhooks/orders", Handler: noopHandler})
	registry.Upsert(Entry{Topic: "app/uninstalled", Path: "/webhooks/app", Handler: noopHandler})

	entry, ok := registry.FindByPath("/webhooks/orders")
	if !ok || entry.Topic != "ORDERS_CREATE" {
		t.Fatalf("expected ORDERS_CREATE for /webhooks/orders, got %#v", entry)
	}
	if _, ok := registry.FindByPath("/webhooks/missing"); ok {
		t.Fatalf("expected no entry for an unknown path")
	}
	if topics := registry.Topics(); len(topics) != 2 || topics[0] != "APP_UNINSTALLED" || topics[1] != "ORDERS_CREATE" {
		t.Fatalf("unexpected topics %v", topics)
	}
}

func TestRegistry_KeepsARNPathVerbatim(t *testing.T) {
	registry := NewRegistry()
	arn := "arn:aws:events:us-east-1::event-source/aws.partner/shopify.com/1/source"
	entry := registry.Upsert(Entry{Topic: "orders/paid", Path: arn, Handler: noopHandler})
	if entry.Path != arn {
		t.Fatalf("expected arn path to be kept verbatim, got %q", entry.Path)
	}
}

func TestRegistry_NilReceiverLookups(t *testing.T) {
	var registry *Registry
	if _, ok := registry.FindByTopic("x"); ok {
		t.Fatalf("expected nil registry to find nothing")
	}
	if registry.Len() != 0 || len(registry.Topics()) != 0 {
		t.Fatalf("expected nil registry to be empty")
	}
}
