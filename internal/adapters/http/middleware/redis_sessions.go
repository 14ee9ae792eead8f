package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces session keys.
const RedisKeyPrefix = "clansite:session:"

// RedisSessionStore keeps sessions in Redis with a TTL, so they survive
// restarts and are shared between server instances.
type RedisSessionStore struct {
	client redis.UniversalClient
}

// Compile-time check that *RedisSessionStore satisfies SessionStore.
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore wraps a connected client.
// PRE: client is non-nil
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func redisKey(token string) string {
	return RedisKeyPrefix + token
}

// Create stores a new session with SessionTTL and returns the token.
// POST: key exists with a TTL of SessionTTL
func (rs *RedisSessionStore) Create(ctx context.Context, s Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if s.CreatedAt.IsZero() {
		return "", errors.New("session CreatedAt must be set")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	ok, err := rs.client.SetNX(ctx, redisKey(token), payload, SessionTTL).Result()
	if err != nil {
		return "", fmt.Errorf("redis create session: %w", err)
	}
	if !ok {
		return "", errors.New("redis create session: token collision")
	}
	return token, nil
}

// Get retrieves a session by token.
// POST: Returns ok=false for unknown or expired tokens
func (rs *RedisSessionStore) Get(ctx context.Context, token string) (Session, bool, error) {
	payload, err := rs.client.Get(ctx, redisKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("redis get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	s.Token = token
	return s, true, nil
}

// Update replaces an existing session, keeping its remaining TTL.
// POST: Returns false if the token is unknown or already expired
func (rs *RedisSessionStore) Update(ctx context.Context, token string, s Session) (bool, error) {
	key := redisKey(token)
	ttl, err := rs.client.TTL(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis session ttl: %w", err)
	}
	if ttl <= 0 {
		// -2: missing, -1: no expiry (never written by this store)
		return false, nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return false, err
	}
	ok, err := rs.client.SetXX(ctx, key, payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis update session: %w", err)
	}
	return ok, nil
}

// Delete removes a session by token.
func (rs *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := rs.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
