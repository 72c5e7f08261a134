package session

import (
	"context"
	"fmt"
	"time"

	"github.com/yeuxouverts/shop/pkg/cache"
)

// RedisStore keeps session data in Redis; the cookie carries only the id.
type RedisStore struct {
	prefix string
	ttl    time.Duration
}

func NewRedisStore(ttl time.Duration) *RedisStore {
	return &RedisStore{prefix: "shop:session:", ttl: ttl}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Load(ctx context.Context, cookie string) (string, map[string]interface{}, error) {
	var data map[string]interface{}
	if !cache.Get(ctx, s.key(cookie), &data) || data == nil {
		return "", nil, fmt.Errorf("session: redis: no session %q", cookie)
	}
	return cookie, data, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) (string, error) {
	if err := cache.Require(); err != nil {
		return "", fmt.Errorf("session: redis save: %w", err)
	}
	if err := cache.Set(ctx, s.key(sess.id), sess.data, s.ttl); err != nil {
		return "", fmt.Errorf("session: redis save: %w", err)
	}
	return sess.id, nil
}

func (s *RedisStore) Delete(ctx context.Context, sess *Session) error {
	if err := cache.Del(ctx, s.key(sess.id)); err != nil {
		return fmt.Errorf("session: redis delete: %w", err)
	}
	return nil
}
