package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps session records in Redis so they survive process
// restarts and are shared across instances.
type RedisStore struct {
	redisdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb}
}

// Ping checks redis connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}

func (s *RedisStore) Set(ctx context.Context, sid string, identity Identity, ttl time.Duration) error {
	raw, err := json.Marshal(identity)

	if err != nil {
		return err
	}

	return s.redisdb.Set(ctx, redisKeyPrefix+sid, raw, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid string) (Identity, bool, error) {
	raw, err := s.redisdb.Get(ctx, redisKeyPrefix+sid).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, false, nil
		}

		return Identity{}, false, err
	}

	var identity Identity

	if err := json.Unmarshal(raw, &identity); err != nil {
		return Identity{}, false, err
	}

	return identity, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) (bool, error) {
	// Del on a missing key is a no-op, which matches logout semantics; the
	// count tells us whether this call removed a live record.
	n, err := s.redisdb.Del(ctx, redisKeyPrefix+sid).Result()

	return n > 0, err
}
