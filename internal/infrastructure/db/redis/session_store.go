package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studybuddy/accounts-service/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore persists authentication contexts in Redis.
// Key format: session:<session_id>, expiring after the configured TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// TTL <= 0 selects the default of 24 hours.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Save stores the authentication context under the session id.
func (s *SessionStore) Save(ctx context.Context, sessionID string, auth *domain.AuthContext) error {
	payload, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Find resolves a session id to its stored context. Expired and unknown
// sessions both return domain.ErrSessionNotFound.
func (s *SessionStore) Find(ctx context.Context, sessionID string) (*domain.AuthContext, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var auth domain.AuthContext
	if err := json.Unmarshal(payload, &auth); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &auth, nil
}

// Delete discards the session. Deleting an unknown id is a no-op.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}
