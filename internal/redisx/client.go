package redisx

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/blob"
	"github.com/redis/go-redis/v9"
	"time"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Store implements blob.Store on plain string keys. Values never expire.
type Store struct {
	RDB    *redis.Client
	Prefix string
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{RDB: rdb, Prefix: KeyPrefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.RDB.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, blob.Wrap("get", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return blob.Wrap("set", key, s.RDB.Set(ctx, s.Prefix+key, value, 0).Err())
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return blob.Wrap("remove", key, s.RDB.Del(ctx, s.Prefix+key).Err())
}
