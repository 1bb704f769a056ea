package session

import (
	"context"
	"time"

	"github.com/docket-app/docket/internal/cache"
)

// MemStore keeps session records in process memory. Single-instance
// deployments and tests use it in place of Redis.
type MemStore struct {
	c *cache.Cache
}

func NewMemStore(defaultTTL time.Duration) *MemStore {
	return &MemStore{c: cache.New(defaultTTL)}
}

func (s *MemStore) Set(_ context.Context, sid string, identity Identity, ttl time.Duration) error {
	s.c.SetTTL(sid, identity, ttl)
	return nil
}

func (s *MemStore) Get(_ context.Context, sid string) (Identity, bool, error) {
	v, ok := s.c.Get(sid)

	if !ok {
		return Identity{}, false, nil
	}

	identity, ok := v.(Identity)

	if !ok {
		return Identity{}, false, nil
	}

	return identity, true, nil
}

func (s *MemStore) Delete(_ context.Context, sid string) (bool, error) {
	return s.c.Delete(sid), nil
}
