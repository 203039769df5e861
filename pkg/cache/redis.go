package cache

import (
	"context"
	"log"

	gocache "github.com/eko/gocache/lib/v4/cache"
	redis_store "github.com/eko/gocache/store/redis/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps slots in redis so several instances can share one cache.
type RedisStore struct {
	cache *gocache.Cache[string]
}

func NewRedisStore(addr string) *RedisStore {
	client := redis.NewClient(&redis.Options{Addr: addr})

	return &RedisStore{
		cache: gocache.New[string](redis_store.NewRedis(client)),
	}
}

func (s *RedisStore) Write(slot string, data []byte) error {
	if slot == "" {
		return nil
	}

	if err := s.cache.Set(context.Background(), slot, string(data)); err != nil {
		return pkgerrors.Wrap(err, "error storing the slot")
	}

	return nil
}

func (s *RedisStore) Read(slot string) ([]byte, error) {
	if slot == "" {
		return nil, ErrNotCached
	}

	data, err := s.cache.Get(context.Background(), slot)
	if err != nil {
		log.Printf("[DEBUG] entry not found in cache: %v", err)
		return nil, ErrNotCached
	}

	return []byte(data), nil
}
