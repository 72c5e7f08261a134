package session

import (
	"context"
	"fmt"
	"time"

	"github.com/yeuxouverts/shop/pkg/auth"
)

// CookieStore keeps the whole session in an HS256-signed cookie. The
// payload is readable by the client but cannot be altered without the key.
type CookieStore struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieStore(secret string, ttl time.Duration) *CookieStore {
	return &CookieStore{secret: []byte(secret), ttl: ttl}
}

func (c *CookieStore) Load(_ context.Context, cookie string) (string, map[string]interface{}, error) {
	claims, err := auth.ValidateToken(c.secret, cookie)
	if err != nil {
		return "", nil, fmt.Errorf("session: cookie: %w", err)
	}
	id := claims.ID
	if id == "" {
		id = newID()
	}
	return id, claims.Data, nil
}

func (c *CookieStore) Save(_ context.Context, s *Session) (string, error) {
	tok, err := auth.IssueToken(c.secret, s.id, s.data, c.ttl)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return tok, nil
}

// Delete is a no-op: a replaced cookie is the only copy.
func (c *CookieStore) Delete(context.Context, *Session) error { return nil }
