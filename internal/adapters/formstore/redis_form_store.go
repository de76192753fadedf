package formstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTTL bounds how long abandoned form state lingers.
const defaultTTL = 24 * time.Hour

// Redis-backed implementation of the FormStore port. Form state is keyed by
// session id so concurrent sessions never see each other's drafts.
type RedisFormStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFormStore(client *redis.Client) *RedisFormStore {
	return &RedisFormStore{client: client, ttl: defaultTTL}
}

func key(sessionID string) string { return "tripform:" + sessionID }

// Retrieve the saved form payload for a session.
func (s *RedisFormStore) Get(ctx context.Context, sessionID string) ([]byte, bool, error) {
	if sessionID == "" {
		return nil, false, errors.New("form store get: session id is required")
	}

	payload, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("form store get: session %s: %w", sessionID, err)
	}
	return payload, true, nil
}

// Save the form payload for a session, refreshing its expiry.
func (s *RedisFormStore) Set(ctx context.Context, sessionID string, payload []byte) error {
	if sessionID == "" {
		return errors.New("form store set: session id is required")
	}

	if err := s.client.Set(ctx, key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("form store set: session %s: %w", sessionID, err)
	}
	return nil
}

// Drop the saved payload for a session. Clearing an absent session is not
// an error.
func (s *RedisFormStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("form store clear: session id is required")
	}

	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("form store clear: session %s: %w", sessionID, err)
	}
	return nil
}
