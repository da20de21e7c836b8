package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/engramhq/engram/core"
	"github.com/engramhq/engram/pkg/crypto"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 64
)

// AuthService orchestrates identity operations: signup, login, logout.
type AuthService struct {
	db        core.UserStorage
	passwords crypto.PasswordHandler
	sessions  *SessionManager
}

func NewAuthService(db core.UserStorage, passwords crypto.PasswordHandler, sessions *SessionManager) *AuthService {
	return &AuthService{
		db:        db,
		passwords: passwords,
		sessions:  sessions,
	}
}

// SignUpInput is the validated shape of a signup request.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SignUpInput) validate() error {
	fields := map[string]string{}
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	switch {
	case in.Password == "":
		fields["password"] = "password is required"
	case len(in.Password) < minPasswordLen:
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	case len(in.Password) > maxPasswordLen:
		fields["password"] = fmt.Sprintf("must be at most %d characters", maxPasswordLen)
	}
	if len(fields) > 0 {
		return &core.ValidationError{Fields: fields}
	}
	return nil
}

// AuthResult is what a successful signup or login yields: the user and a
// fresh session with its raw token.
type AuthResult struct {
	User    *core.User
	Session *core.Session
	Token   string
}

// SignUp registers a new user and opens their first session.
//
// The email lookup before insert only produces a friendlier error in the
// common case; the store's unique index on email is the actual guard
// against a concurrent-signup race.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: checking existing user: %w", core.ErrPersistence, err)
	}
	if existing != nil {
		return nil, core.ErrDuplicateIdentity
	}

	hashed, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := crypto.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &core.User{
		ID:           id,
		Email:        input.Email,
		PasswordHash: hashed,
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateIdentity) {
			return nil, core.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%w: creating user: %w", core.ErrPersistence, err)
	}

	sessionResult, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:    user,
		Session: sessionResult.Session,
		Token:   sessionResult.Token,
	}, nil
}

// SignInInput is the validated shape of a login request.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SignInInput) validate() error {
	fields := map[string]string{}
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if in.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return &core.ValidationError{Fields: fields}
	}
	return nil
}

// SignIn authenticates a user and opens a new session. An unknown email and
// a wrong password both return ErrAuthenticationFailure so the response
// cannot be used for email enumeration.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrAuthenticationFailure
		}
		return nil, fmt.Errorf("%w: finding user: %w", core.ErrPersistence, err)
	}

	valid, err := s.passwords.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrAuthenticationFailure
	}

	sessionResult, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:    user,
		Session: sessionResult.Session,
		Token:   sessionResult.Token,
	}, nil
}

// SignOut destroys the session identified by token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}
