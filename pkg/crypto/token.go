package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const (
	// DefaultTokenLength is 32 bytes, 256 bits.
	DefaultTokenLength = 32
)

// TokenPair is a freshly minted session token. The raw Token goes to the
// client (cookie); only the keyed Hash is persisted.
type TokenPair struct {
	Token string
	Hash  string
}

// TokenKeeper mints and hashes session tokens. The hash is an HMAC-SHA256
// keyed by the session-signing secret, so a leaked sessions table is useless
// without the secret.
type TokenKeeper struct {
	secret []byte
}

func NewTokenKeeper(secret string) (*TokenKeeper, error) {
	if secret == "" {
		return nil, errors.New("token secret cannot be empty")
	}
	return &TokenKeeper{secret: []byte(secret)}, nil
}

// Generate mints a random token and its storage hash.
func (k *TokenKeeper) Generate() (*TokenPair, error) {
	bytes := make([]byte, DefaultTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(bytes)
	return &TokenPair{
		Token: token,
		Hash:  k.Hash(token),
	}, nil
}

// Hash returns the storage hash for a presented token.
func (k *TokenKeeper) Hash(token string) string {
	mac := hmac.New(sha256.New, k.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
