package sessions

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in an expiring in-process cache
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose sessions expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Create starts a session for userID
func (s *MemoryStore) Create(ctx context.Context, userID uint64) (string, error) {
	id := newID()
	s.cache.Set(id, userID, s.ttl)
	return id, nil
}

// Get returns the user id bound to the session
func (s *MemoryStore) Get(ctx context.Context, id string) (uint64, error) {
	value, ok := s.cache.Get(id)
	if !ok {
		return 0, ErrNoSession
	}
	userID, ok := value.(uint64)
	if !ok {
		return 0, ErrNoSession
	}
	return userID, nil
}

// Destroy removes the session; unknown ids are ignored
func (s *MemoryStore) Destroy(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
