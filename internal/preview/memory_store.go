package preview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cordoba/internal/domain"
)

// MemoryStore is a process-local PreviewStore bounded by entry count.
// When full, expired entries are dropped first and then the oldest one.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[uuid.UUID]*domain.PreviewEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore whose entries live for ttl.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[uuid.UUID]*domain.PreviewEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, entry *domain.PreviewEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(s.ttl)

	if _, exists := s.entries[entry.ID]; !exists {
		s.evictExpiredLocked(now)
		for s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
			s.evictOldestLocked()
		}
	}
	s.entries[entry.ID] = entry
	return nil
}

func (s *MemoryStore) Take(_ context.Context, tenantID, id uuid.UUID) (*domain.PreviewEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.TenantID != tenantID {
		return nil, domain.ErrPreviewNotFound
	}
	delete(s.entries, id)
	if entry.Expired(s.now()) {
		return nil, domain.ErrPreviewNotFound
	}
	return entry, nil
}

func (s *MemoryStore) EvictExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictExpiredLocked(s.now()), nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) evictExpiredLocked(now time.Time) int {
	n := 0
	for id, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   time.Time
		found    bool
	)
	for id, e := range s.entries {
		if !found || e.CreatedAt.Before(oldest) {
			oldestID, oldest, found = id, e.CreatedAt, true
		}
	}
	if found {
		delete(s.entries, oldestID)
	}
}
