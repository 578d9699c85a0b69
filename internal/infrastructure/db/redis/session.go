package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one session blob per browser profile.
// Key format: profile:<profile>:auth:user
type SessionStore struct {
	client redis.Cmdable
}

func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Get returns nil without error when the profile has no session.
func (s *SessionStore) Get(ctx context.Context, profile string) ([]byte, error) {
	b, err := s.client.Get(ctx, sessionKey(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	return b, nil
}

// Put overwrites the profile's session. A zero ttl keeps it until deleted.
func (s *SessionStore) Put(ctx context.Context, profile string, blob []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(profile), blob, ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, profile string) error {
	if err := s.client.Del(ctx, sessionKey(profile)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func sessionKey(profile string) string {
	return fmt.Sprintf("profile:%s:auth:user", profile)
}
