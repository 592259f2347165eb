package credential

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store is the session-scoped key-value capability the gate persists into.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps entries in process memory; they expire after the TTL.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a MemoryStore whose entries live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, ttl/2+time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := s.cache.Get(key); found {
		// Sliding expiry: reading keeps the session alive.
		s.cache.Set(key, x, cache.DefaultExpiration)
		return x.(string), true, nil
	}
	return "", false, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
