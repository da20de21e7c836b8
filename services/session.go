package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/engramhq/engram/core"
	"github.com/engramhq/engram/pkg/crypto"
)

// SessionConfig controls issued session lifetime.
type SessionConfig struct {
	MaxAge time.Duration
}

// SessionManager owns the session lifecycle: minting tokens on signup/login,
// resolving a presented token to a user id, and destroying sessions on
// logout. The durable store holds only the keyed hash of each token.
type SessionManager struct {
	config  SessionConfig
	storage core.SessionStorage
	cache   core.Cache // optional, nil disables caching
	tokens  *crypto.TokenKeeper
}

// CreateSessionResult carries the persisted session and the raw token to
// hand back to the client. The raw token is never stored or logged.
type CreateSessionResult struct {
	Session *core.Session
	Token   string
}

func NewSessionManager(config SessionConfig, storage core.SessionStorage, cache core.Cache, tokens *crypto.TokenKeeper) *SessionManager {
	return &SessionManager{config: config, storage: storage, cache: cache, tokens: tokens}
}

// Create mints a session for userID. Existing sessions for the same user are
// left alone; there is no single-session-per-user rule.
func (sm *SessionManager) Create(ctx context.Context, userID string) (*CreateSessionResult, error) {
	pair, err := sm.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sessionID, err := crypto.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	session := &core.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: pair.Hash,
		CreatedAt: now,
		ExpiresAt: now.Add(sm.config.MaxAge),
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSessionStore, err)
	}

	// Cache failures never fail the request
	if sm.cache != nil {
		_ = sm.cache.Set(pair.Hash, session)
	}

	return &CreateSessionResult{Session: session, Token: pair.Token}, nil
}

// Resolve maps a presented token to its session. Absent or unknown tokens
// and expired sessions resolve to ErrSessionNotFound / ErrSessionExpired;
// the caller treats both as the anonymous state.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrSessionNotFound
	}

	tokenHash := sm.tokens.Hash(token)

	if sm.cache != nil {
		if session, err := sm.cache.Get(tokenHash); err == nil {
			if time.Now().After(session.ExpiresAt) {
				_ = sm.cache.Delete(tokenHash)
				return nil, core.ErrSessionExpired
			}
			return session, nil
		}
		// cache miss, fall through to storage
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", core.ErrSessionStore, err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, core.ErrSessionExpired
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, session)
	}

	return session, nil
}

// Destroy deletes the session identified by token. A store failure means the
// session was not reliably destroyed; the caller should surface that and let
// the client retry.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return core.ErrSessionNotFound
	}

	tokenHash := sm.tokens.Hash(token)

	if err := sm.storage.DeleteSessionByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return core.ErrSessionNotFound
		}
		return fmt.Errorf("%w: %w", core.ErrSessionStore, err)
	}

	if sm.cache != nil {
		_ = sm.cache.Delete(tokenHash)
	}

	return nil
}
