package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ideahouse/server/internal/logger"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie set on login.
const CookieName = "idea_house_session"

// TTL is how long a session stays valid without re-login.
const TTL = 7 * 24 * time.Hour

const keyPrefix = "session:"

// TokenStore is the backing store for session tokens. cache.RedisClient
// satisfies it in production; tests use an in-memory map. Get reports a
// missing key as redis.Nil.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Manager creates, resolves and destroys sessions. A session is an opaque
// token mapped to a user id with a TTL.
type Manager struct {
	store TokenStore
}

// NewManager creates a session manager on the given token store
func NewManager(store TokenStore) *Manager {
	return &Manager{store: store}
}

// Create establishes a new session bound to the user id and returns the
// opaque token for the cookie.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()

	if err := m.store.SetEx(ctx, keyPrefix+token, userID, TTL); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve maps a session token back to a user id. An unknown or expired
// token resolves to the empty string with no error: the caller is simply
// anonymous. Store transport failures are returned, not hidden, so an
// outage doesn't read as everyone logging out.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	userID, err := m.store.Get(ctx, keyPrefix+token)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		logger.ErrorWithFields("session store lookup failed", err)
		return "", err
	}

	// Sliding expiration: activity keeps the session alive
	if err := m.store.Expire(ctx, keyPrefix+token, TTL); err != nil {
		logger.WarnWithFields("failed to refresh session ttl", err)
	}

	return userID, nil
}

// Destroy invalidates a session token
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Del(ctx, keyPrefix+token)
}
