package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cordoba/internal/domain"
)

const keyPrefix = "cordoba:preview:"

// RedisStore keeps previews in Redis so any API replica can confirm them.
// Keys embed the tenant id and expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a RedisStore whose entries live for ttl.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Put(ctx context.Context, entry *domain.PreviewEntry) error {
	now := s.now()
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(s.ttl)

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("previewStore.Put: encoding entry: %w", err)
	}
	if err := s.client.Set(ctx, previewKey(entry.TenantID, entry.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("previewStore.Put: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, tenantID, id uuid.UUID) (*domain.PreviewEntry, error) {
	payload, err := s.client.GetDel(ctx, previewKey(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPreviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("previewStore.Take: %w", err)
	}

	var entry domain.PreviewEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("previewStore.Take: decoding entry: %w", err)
	}
	if entry.Expired(s.now()) {
		return nil, domain.ErrPreviewNotFound
	}
	return &entry, nil
}

// EvictExpired is a no-op: Redis drops expired keys on its own.
func (s *RedisStore) EvictExpired(context.Context) (int, error) {
	return 0, nil
}

func previewKey(tenantID, id uuid.UUID) string {
	return keyPrefix + tenantID.String() + ":" + id.String()
}
