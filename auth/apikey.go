package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuthorizer checks the shared secret sent by clients on destructive
// calls. Only a bcrypt hash of the key is held in memory.
type APIKeyAuthorizer struct {
	hash []byte
}

// NewAPIKeyAuthorizer hashes key with the given bcrypt cost.
func NewAPIKeyAuthorizer(key string, cost int) (*APIKeyAuthorizer, error) {
	if key == "" {
		return nil, errors.New("api key must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash api key: %w", err)
	}
	return &APIKeyAuthorizer{hash: hash}, nil
}

// NewAPIKeyAuthorizerFromHash uses a precomputed bcrypt hash.
func NewAPIKeyAuthorizerFromHash(hash string) (*APIKeyAuthorizer, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid api key hash: %w", err)
	}
	return &APIKeyAuthorizer{hash: []byte(hash)}, nil
}

// Valid reports whether key matches the configured secret. An empty key is
// never valid.
func (a *APIKeyAuthorizer) Valid(key string) bool {
	if key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(key)) == nil
}
