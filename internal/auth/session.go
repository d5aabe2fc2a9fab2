package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const SessionCookie = "session_id"

// SessionRegistry maps opaque tokens to logins. Tokens never expire
// unless a backend is explicitly configured with a TTL.
type SessionRegistry interface {
	// Create issues a fresh token bound to the login.
	Create(ctx context.Context, login string) (string, error)
	// Get returns the login for a token, or "" if the token is unknown.
	Get(ctx context.Context, token string) (string, error)
	// Delete removes a token. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error
}

// TokenFromRequest extracts the session token from the Authorization
// header (Bearer scheme) or, failing that, the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// MemorySessionRegistry is the reference registry: a mutex-guarded
// map with no expiry.
type MemorySessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{sessions: make(map[string]string)}
}

func (s *MemorySessionRegistry) Create(ctx context.Context, login string) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = login
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessionRegistry) Get(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[token], nil
}

func (s *MemorySessionRegistry) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// RedisSessionRegistry keeps sessions in Redis so they survive
// restarts. A zero TTL stores them without expiry.
type RedisSessionRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionRegistry(rdb *redis.Client, ttl time.Duration) *RedisSessionRegistry {
	return &RedisSessionRegistry{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionRegistry) Create(ctx context.Context, login string) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+token, login, s.ttl).Err()
	return token, err
}

func (s *RedisSessionRegistry) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisSessionRegistry) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}
