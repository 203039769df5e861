package cache

import (
	"context"
	"log"
	"time"

	"github.com/allegro/bigcache/v3"
	gocache "github.com/eko/gocache/lib/v4/cache"
	bigcache_store "github.com/eko/gocache/store/bigcache/v4"
	pkgerrors "github.com/pkg/errors"
)

// MemoryStore keeps slots in-process. Useful for single-instance deployments
// that can afford to refetch after a restart.
type MemoryStore struct {
	cache *gocache.Cache[[]byte]
}

func NewMemoryStore() (*MemoryStore, error) {
	client, err := bigcache.New(context.Background(), bigcache.DefaultConfig(24*time.Hour))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "error initializing bigcache")
	}

	return &MemoryStore{
		cache: gocache.New[[]byte](bigcache_store.NewBigcache(client)),
	}, nil
}

func (s *MemoryStore) Write(slot string, data []byte) error {
	if slot == "" {
		return nil
	}

	if err := s.cache.Set(context.Background(), slot, data); err != nil {
		return pkgerrors.Wrap(err, "error storing the slot")
	}

	return nil
}

func (s *MemoryStore) Read(slot string) ([]byte, error) {
	if slot == "" {
		return nil, ErrNotCached
	}

	data, err := s.cache.Get(context.Background(), slot)
	if err != nil {
		log.Printf("[DEBUG] entry not found in cache: %v", err)
		return nil, ErrNotCached
	}

	return data, nil
}
