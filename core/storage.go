package core

import (
	"context"
	"time"
)

// Storage ports. The durable store is the only synchronization point between
// requests; every call takes a context so a disconnecting client can abort a
// not-yet-committed write.

type UserStorage interface {
	// CreateUser persists u and fills in store-generated fields.
	// Returns ErrDuplicateIdentity when the email is already taken; the
	// store's unique index is the source of truth for this, not the
	// application-level pre-check.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByEmail returns ErrUserNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type SessionStorage interface {
	CreateSession(ctx context.Context, s *Session) error

	// GetSessionByHash returns ErrSessionNotFound for an unknown hash.
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)

	DeleteSessionByHash(ctx context.Context, tokenHash string) error

	// DeleteExpiredSessions removes sessions past their expiry and reports
	// how many rows went away.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type BlockStorage interface {
	CreateBlock(ctx context.Context, b *Block) error
}

// Storage is the full set of ports the gateway needs from the durable store.
type Storage interface {
	UserStorage
	SessionStorage
	BlockStorage
}

// Cache sits in front of SessionStorage on the read path. Implementations
// must be safe for concurrent use. A nil Cache disables caching.
type Cache interface {
	Get(tokenHash string) (*Session, error)
	Set(tokenHash string, session *Session) error
	Delete(tokenHash string) error
	Clear() error
}

// CacheConfig configures cache behavior.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache counters.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}
