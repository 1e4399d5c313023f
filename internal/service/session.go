package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore tracks live sessions by JWT ID. A token only validates while
// its session record exists, which is what makes logout effective before
// token expiry.
type SessionStore interface {
	Create(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps session records in Redis with a TTL matching the
// token lifetime, so abandoned sessions expire on their own.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Create(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+jti, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, jti string) error {
	// DEL of a missing key is not an error, which keeps logout idempotent.
	if err := s.client.Del(ctx, sessionKeyPrefix+jti).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

type memorySession struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemorySessionStore is a process-local SessionStore used in tests and as a
// development fallback when Redis is not configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Create(_ context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[jti] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Exists(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, jti)
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, jti)
	return nil
}
