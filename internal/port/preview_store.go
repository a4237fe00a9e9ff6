package port

import (
	"context"

	"github.com/google/uuid"

	"cordoba/internal/domain"
)

// PreviewStore holds analyzed batches until they are confirmed or expire.
type PreviewStore interface {
	// Put stores entry under entry.ID.
	Put(ctx context.Context, entry *domain.PreviewEntry) error
	// Take removes and returns the entry of tenantID. Unknown, expired or
	// already taken ids, and entries of other tenants, return
	// domain.ErrPreviewNotFound. An expired entry is removed by the lookup;
	// an entry of another tenant is left in place for its owner.
	Take(ctx context.Context, tenantID, id uuid.UUID) (*domain.PreviewEntry, error)
	// EvictExpired drops expired entries and reports how many were removed.
	EvictExpired(ctx context.Context) (int, error)
}
