package preview

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cordoba/internal/domain"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s, mr := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()
	e := &domain.PreviewEntry{
		ID:         uuid.New(),
		TenantID:   uuid.New(),
		UserID:     uuid.New(),
		ImportType: domain.ImportIncremental,
		FileName:   "base.csv",
		Batch: domain.Batch{
			Source:  domain.SourceCSV,
			Headers: []string{"cpf", "nome"},
			Rows:    []domain.BatchRow{{Line: 2, Cells: []string{"11111111111", "Ana"}}},
		},
		Mapping: domain.ColumnMapping{"cpf": "cpf", "nome": "nome"},
	}

	require.NoError(t, s.Put(ctx, e))
	assert.Equal(t, 30*time.Minute, mr.TTL(previewKey(e.TenantID, e.ID)))

	_, err := s.Take(ctx, uuid.New(), e.ID)
	assert.ErrorIs(t, err, domain.ErrPreviewNotFound)

	got, err := s.Take(ctx, e.TenantID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.TenantID, got.TenantID)
	assert.Equal(t, e.Batch, got.Batch)
	assert.Equal(t, e.Mapping, got.Mapping)

	_, err = s.Take(ctx, e.TenantID, e.ID)
	assert.ErrorIs(t, err, domain.ErrPreviewNotFound)
}

func TestRedisStore_ExpiredKey(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()
	e := &domain.PreviewEntry{ID: uuid.New(), TenantID: uuid.New()}
	require.NoError(t, s.Put(ctx, e))

	mr.FastForward(2 * time.Minute)

	_, err := s.Take(ctx, e.TenantID, e.ID)
	assert.ErrorIs(t, err, domain.ErrPreviewNotFound)
}

func TestRedisStore_ConnectionFailure(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Minute)
	mr.Close()

	_, err := s.Take(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPreviewNotFound)
}
