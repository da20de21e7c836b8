package services

import (
	"context"
	"sync"
	"time"

	"github.com/engramhq/engram/core"
)

// FakeStorage is a test-only in-memory implementation of core.Storage. It
// enforces email uniqueness the way the real store's unique index does, and
// exposes error fields for behavior injection.
type FakeStorage struct {
	mu       sync.RWMutex
	users    map[string]*core.User    // by id
	sessions map[string]*core.Session // by token hash
	blocks   []*core.Block

	createUserErr    error
	getUserErr       error
	createSessionErr error
	getSessionErr    error
	deleteSessionErr error
	createBlockErr   error
}

var _ core.Storage = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users:    make(map[string]*core.User),
		sessions: make(map[string]*core.Session),
	}
}

func (f *FakeStorage) CreateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createUserErr != nil {
		return f.createUserErr
	}

	for _, existing := range f.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateIdentity
		}
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	f.users[u.ID] = u
	return nil
}

func (f *FakeStorage) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) CreateSession(_ context.Context, s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createSessionErr != nil {
		return f.createSessionErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeStorage) GetSessionByHash(_ context.Context, tokenHash string) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getSessionErr != nil {
		return nil, f.getSessionErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

func (f *FakeStorage) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteSessionErr != nil {
		return f.deleteSessionErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeStorage) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for hash, s := range f.sessions {
		if s.ExpiresAt.Before(now) {
			delete(f.sessions, hash)
			n++
		}
	}
	return n, nil
}

func (f *FakeStorage) CreateBlock(_ context.Context, b *core.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createBlockErr != nil {
		return f.createBlockErr
	}
	if b.Inserted.IsZero() {
		b.Inserted = time.Now()
	}
	f.blocks = append(f.blocks, b)
	return nil
}

// Blocks returns a snapshot of all stored blocks.
func (f *FakeStorage) Blocks() []*core.Block {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*core.Block, len(f.blocks))
	copy(out, f.blocks)
	return out
}

// SessionCount reports how many sessions are live.
func (f *FakeStorage) SessionCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}
