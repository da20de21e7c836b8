package core

import "time"

// User is an identity record.
//
// Email is stored case-sensitively, exactly as given at signup. PasswordHash
// is an encoded argon2id string and never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session binds an opaque client-held token to a user id. Only the keyed
// hash of the token is stored; the raw token exists in the cookie alone.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Block is an append-only note owned by a user.
//
// LocalID is a client-supplied handle used for client-side dedup; the server
// does not enforce its uniqueness. UserID is attached server-side from the
// resolved session, never read from the request body.
type Block struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	LocalID   string     `json:"localId"`
	Body      *string    `json:"body,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Inserted  time.Time  `json:"inserted"`
}
