package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-shopify-webhooks/core"
)

const subscriptionCacheKeyPrefix = "shopify-webhooks::subscription::v1"

// SubscriptionLedger is the subset of SubscriptionStore served through the
// cache.
type SubscriptionLedger interface {
	core.SubscriptionRecorder
	GetByTopic(ctx context.Context, shop string, topic string) (core.SubscriptionRecord, error)
	ListByShop(ctx context.Context, shop string) ([]core.SubscriptionRecord, error)
	Delete(ctx context.Context, shop string, topic string) error
}

// CachedSubscriptionStore reads GetByTopic through a go-repository-cache
// service and drops the cached entry on every write for the same key.
type CachedSubscriptionStore struct {
	base  SubscriptionLedger
	cache repositorycache.CacheService
}

func NewCachedSubscriptionStore(
	base SubscriptionLedger,
	cacheService repositorycache.CacheService,
) (*CachedSubscriptionStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base subscription store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: subscription cache service is required")
	}
	return &CachedSubscriptionStore{base: base, cache: cacheService}, nil
}

// SubscriptionCacheKey returns
// shopify-webhooks::subscription::v1::<shop>::<canonical topic> with each
// segment URL-path escaped.
func SubscriptionCacheKey(shop string, topic string) (string, error) {
	shop = strings.ToLower(strings.TrimSpace(shop))
	topic = core.CanonicalTopic(topic)
	if shop == "" || topic == "" {
		return "", badInput("sqlstore: shop and topic are required for cache key")
	}
	return strings.Join([]string{
		subscriptionCacheKeyPrefix,
		url.PathEscape(shop),
		url.PathEscape(topic),
	}, "::"), nil
}

func (s *CachedSubscriptionStore) GetByTopic(ctx context.Context, shop string, topic string) (core.SubscriptionRecord, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.SubscriptionRecord{}, fmt.Errorf("sqlstore: cached subscription store is not configured")
	}
	cacheKey, err := SubscriptionCacheKey(shop, topic)
	if err != nil {
		return core.SubscriptionRecord{}, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.SubscriptionRecord, error) {
		return s.base.GetByTopic(ctx, shop, topic)
	})
}

func (s *CachedSubscriptionStore) ListByShop(ctx context.Context, shop string) ([]core.SubscriptionRecord, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached subscription store is not configured")
	}
	return s.base.ListByShop(ctx, shop)
}

func (s *CachedSubscriptionStore) Record(ctx context.Context, record core.SubscriptionRecord) (core.SubscriptionRecord, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.SubscriptionRecord{}, fmt.Errorf("sqlstore: cached subscription store is not configured")
	}
	out, err := s.base.Record(ctx, record)
	if err != nil {
		return core.SubscriptionRecord{}, err
	}
	if err := s.invalidate(ctx, out.Shop, out.Topic); err != nil {
		return core.SubscriptionRecord{}, err
	}
	return out, nil
}

func (s *CachedSubscriptionStore) Delete(ctx context.Context, shop string, topic string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached subscription store is not configured")
	}
	if err := s.base.Delete(ctx, shop, topic); err != nil {
		return err
	}
	return s.invalidate(ctx, shop, topic)
}

func (s *CachedSubscriptionStore) invalidate(ctx context.Context, shop string, topic string) error {
	cacheKey, err := SubscriptionCacheKey(shop, topic)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}
