package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/engramhq/engram/core"
	"github.com/engramhq/engram/pkg/crypto"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthService(t *testing.T, storage *FakeStorage) *AuthService {
	t.Helper()
	tokens, err := crypto.NewTokenKeeper(testSecret)
	if err != nil {
		t.Fatalf("NewTokenKeeper: %v", err)
	}
	sm := NewSessionManager(SessionConfig{MaxAge: 24 * time.Hour}, storage, nil, tokens)
	return NewAuthService(storage, crypto.NewArgon2(), sm)
}

// Requirement: SignUp creates a user exactly once per email and returns a
// session token; invalid input and duplicates fail with typed errors.
func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(*FakeStorage)
		wantErr  error
		wantVal  bool // expect a ValidationError
	}{
		{
			name:     "creates user and session for valid input",
			email:    "alice@example.com",
			password: "longenough",
		},
		{
			name:     "rejects missing email",
			email:    "",
			password: "longenough",
			wantVal:  true,
		},
		{
			name:     "rejects malformed email",
			email:    "not-an-email",
			password: "longenough",
			wantVal:  true,
		},
		{
			name:     "rejects short password",
			email:    "alice@example.com",
			password: "short",
			wantVal:  true,
		},
		{
			name:     "rejects overlong password",
			email:    "alice@example.com",
			password: string(make([]byte, 65)),
			wantVal:  true,
		},
		{
			name:     "rejects duplicate email regardless of password",
			email:    "alice@example.com",
			password: "differentpassword",
			setup: func(storage *FakeStorage) {
				_ = storage.CreateUser(context.Background(), &core.User{
					ID:    "existing-user",
					Email: "alice@example.com",
				})
			},
			wantErr: core.ErrDuplicateIdentity,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			storage := NewFakeStorage()
			if test.setup != nil {
				test.setup(storage)
			}
			service := newTestAuthService(t, storage)

			result, err := service.SignUp(context.Background(), SignUpInput{
				Email:    test.email,
				Password: test.password,
			})

			if test.wantVal {
				var validation *core.ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("SignUp() error = %v, want ValidationError", err)
				}
				return
			}
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("SignUp() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignUp() unexpected error: %v", err)
			}
			if result.User == nil || result.User.ID == "" {
				t.Error("SignUp() should return a user with an id")
			}
			if result.Token == "" {
				t.Error("SignUp() should return a raw session token")
			}
			if result.User != nil && result.User.PasswordHash == test.password {
				t.Error("SignUp() must not store the plaintext password")
			}
		})
	}
}

// Requirement: a second signup with the same email always fails with
// DuplicateIdentity even when the pre-check is raced away — the store-level
// uniqueness is the source of truth.
func TestAuthService_SignUp_StoreLevelDuplicate(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestAuthService(t, storage)

	// Make the friendly pre-check blind so the insert itself has to catch it.
	if _, err := service.SignUp(context.Background(), SignUpInput{
		Email: "a@x.com", Password: "longenough",
	}); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	storage.getUserErr = core.ErrUserNotFound

	_, err := service.SignUp(context.Background(), SignUpInput{
		Email: "a@x.com", Password: "longenough",
	})
	if !errors.Is(err, core.ErrDuplicateIdentity) {
		t.Fatalf("SignUp() error = %v, want ErrDuplicateIdentity", err)
	}
}

// Requirement: SignIn with an unknown email and SignIn with a wrong password
// are indistinguishable; the correct password yields a session.
func TestAuthService_SignIn(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestAuthService(t, storage)

	if _, err := service.SignUp(context.Background(), SignUpInput{
		Email: "alice@example.com", Password: "correcthorse",
	}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "correct password signs in",
			email:    "alice@example.com",
			password: "correcthorse",
		},
		{
			name:     "wrong password fails",
			email:    "alice@example.com",
			password: "batterystaple",
			wantErr:  core.ErrAuthenticationFailure,
		},
		{
			name:     "unknown email fails identically",
			email:    "nobody@example.com",
			password: "correcthorse",
			wantErr:  core.ErrAuthenticationFailure,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := service.SignIn(context.Background(), SignInInput{
				Email:    test.email,
				Password: test.password,
			})
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("SignIn() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignIn() unexpected error: %v", err)
			}
			if result.Token == "" {
				t.Error("SignIn() should return a raw session token")
			}
		})
	}
}

// Requirement: login does not invalidate earlier sessions; multiple live
// sessions per user are allowed.
func TestAuthService_SignIn_KeepsOlderSessions(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestAuthService(t, storage)

	if _, err := service.SignUp(context.Background(), SignUpInput{
		Email: "alice@example.com", Password: "correcthorse",
	}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := service.SignIn(context.Background(), SignInInput{
		Email: "alice@example.com", Password: "correcthorse",
	}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if got := storage.SessionCount(); got != 2 {
		t.Errorf("session count = %d, want 2", got)
	}
}

// Requirement: SignOut destroys the session; a store failure surfaces as a
// session error the client can retry on.
func TestAuthService_SignOut(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestAuthService(t, storage)

	result, err := service.SignUp(context.Background(), SignUpInput{
		Email: "alice@example.com", Password: "longenough",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if err := service.SignOut(context.Background(), result.Token); err != nil {
		t.Fatalf("SignOut() unexpected error: %v", err)
	}
	if got := storage.SessionCount(); got != 0 {
		t.Errorf("session count after SignOut = %d, want 0", got)
	}

	// A second SignOut finds nothing.
	if err := service.SignOut(context.Background(), result.Token); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("second SignOut() error = %v, want ErrSessionNotFound", err)
	}

	// Store failure maps to ErrSessionStore.
	result, err = service.SignUp(context.Background(), SignUpInput{
		Email: "bob@example.com", Password: "longenough",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	storage.deleteSessionErr = errors.New("connection reset")
	if err := service.SignOut(context.Background(), result.Token); !errors.Is(err, core.ErrSessionStore) {
		t.Errorf("SignOut() with failing store error = %v, want ErrSessionStore", err)
	}
}
