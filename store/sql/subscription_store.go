package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-shopify-webhooks/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubscriptionStore is the ledger of subscriptions the platform confirmed,
// one row per shop and canonical topic.
type SubscriptionStore struct {
	db   *bun.DB
	repo repository.Repository[*webhookSubscriptionRecord]
	now  func() time.Time
}

func NewSubscriptionStore(db *bun.DB) (*SubscriptionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*webhookSubscriptionRecord](db, webhookSubscriptionHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid webhook subscription repository wiring: %w", err)
		}
	}
	return &SubscriptionStore{
		db:   db,
		repo: repo,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// Record inserts or replaces the ledger row for the record's shop and topic.
func (s *SubscriptionStore) Record(ctx context.Context, in core.SubscriptionRecord) (core.SubscriptionRecord, error) {
	if s == nil || s.db == nil || s.repo == nil {
		return core.SubscriptionRecord{}, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	in = normalizeSubscriptionRecord(in)
	if in.Shop == "" || in.Topic == "" {
		return core.SubscriptionRecord{}, badInput("sqlstore: shop and topic are required")
	}
	if in.Address == "" {
		return core.SubscriptionRecord{}, badInput("sqlstore: address is required")
	}
	if !in.DeliveryMethod.Valid() {
		return core.SubscriptionRecord{}, badInput(fmt.Sprintf("sqlstore: unsupported delivery method %q", in.DeliveryMethod))
	}
	now := s.now()

	var out core.SubscriptionRecord
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.findByShopTopicTx(ctx, tx, in.Shop, in.Topic)
		if err != nil {
			return err
		}
		if existing == nil {
			record := newWebhookSubscriptionRecord(in, now)
			record.ID = uuid.NewString()
			if _, createErr := tx.NewInsert().Model(record).Exec(ctx); createErr != nil {
				return createErr
			}
			out = record.toDomain()
			return nil
		}

		existing.Address = in.Address
		existing.DeliveryMethod = string(in.DeliveryMethod)
		existing.RemoteSubscriptionID = in.RemoteSubscriptionID
		existing.UpdatedAt = now
		if _, updateErr := tx.NewUpdate().
			Model(existing).
			Where("id = ?", existing.ID).
			Exec(ctx); updateErr != nil {
			return updateErr
		}
		out = existing.toDomain()
		return nil
	})
	if err != nil {
		return core.SubscriptionRecord{}, err
	}
	return out, nil
}

func (s *SubscriptionStore) Get(ctx context.Context, id string) (core.SubscriptionRecord, error) {
	if s == nil || s.repo == nil {
		return core.SubscriptionRecord{}, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return core.SubscriptionRecord{}, err
	}
	return record.toDomain(), nil
}

func (s *SubscriptionStore) GetByTopic(ctx context.Context, shop string, topic string) (core.SubscriptionRecord, error) {
	if s == nil || s.repo == nil {
		return core.SubscriptionRecord{}, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	shop = strings.ToLower(strings.TrimSpace(shop))
	topic = core.CanonicalTopic(topic)
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("shop", "=", shop),
		repository.SelectBy("topic", "=", topic),
		repository.OrderBy("updated_at DESC"),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.SubscriptionRecord{}, err
	}
	if len(records) == 0 {
		return core.SubscriptionRecord{}, notFound(shop, topic)
	}
	return records[0].toDomain(), nil
}

func (s *SubscriptionStore) ListByShop(ctx context.Context, shop string) ([]core.SubscriptionRecord, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("shop", "=", strings.ToLower(strings.TrimSpace(shop))),
		repository.OrderBy("topic ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.SubscriptionRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// Delete removes the ledger row for shop and topic. Deleting a missing row
// is not an error.
func (s *SubscriptionStore) Delete(ctx context.Context, shop string, topic string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: subscription store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*webhookSubscriptionRecord)(nil)).
		Where("shop = ?", strings.ToLower(strings.TrimSpace(shop))).
		Where("topic = ?", core.CanonicalTopic(topic)).
		Exec(ctx)
	return err
}

func (s *SubscriptionStore) findByShopTopicTx(
	ctx context.Context,
	tx bun.Tx,
	shop string,
	topic string,
) (*webhookSubscriptionRecord, error) {
	record := &webhookSubscriptionRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.shop = ?", shop).
		Where("?TableAlias.topic = ?", topic).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(record.ID) == "" {
		return nil, nil
	}
	return record, nil
}

func badInput(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.WebhookErrorBadInput)
}

func notFound(shop string, topic string) error {
	return goerrors.New(
		fmt.Sprintf("sqlstore: subscription not found for shop %q topic %q", shop, topic),
		goerrors.CategoryNotFound,
	).
		WithCode(http.StatusNotFound).
		WithTextCode(core.WebhookErrorNotFound).
		WithMetadata(map[string]any{"shop": shop, "topic": topic})
}

// IsNotFound reports whether err is a missing ledger row.
func IsNotFound(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.Category == goerrors.CategoryNotFound
}
