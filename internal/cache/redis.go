package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const namespace = "offsetsdb:response:"

// RedisStore caches serialized responses in redis under a shared prefix.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{Client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.Client.Get(ctx, namespace+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "cache get")
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return errors.Wrap(s.Client.Set(ctx, namespace+key, value, ttl).Err(), "cache set")
}

// Clear walks the namespace with SCAN and deletes in batches. Called after
// a successful ingestion so responses never outlive the data they quote.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.Client.Scan(ctx, 0, namespace+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.Client.Del(ctx, batch...).Err(); err != nil {
				return errors.Wrap(err, "cache clear")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "cache scan")
	}
	if len(batch) > 0 {
		if err := s.Client.Del(ctx, batch...).Err(); err != nil {
			return errors.Wrap(err, "cache clear")
		}
	}
	return nil
}
