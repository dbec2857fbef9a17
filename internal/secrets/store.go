// Package secrets defines the secret store contract the sync core keeps
// workspace credentials behind. Encryption at rest is the store's problem;
// callers only see plaintext tokens.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Common secret store errors
var (
	// ErrTokenNotFound indicates that no token is stored under the key
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenCorrupt indicates that a stored token could not be decrypted
	ErrTokenCorrupt = errors.New("token corrupt")
)

// ServiceName is the service every workspace session token is keyed under.
const ServiceName = "timelapse"

// SessionAccount builds the store account for a workspace session.
func SessionAccount(workspaceID string) string {
	return fmt.Sprintf("workspace-session-%s", workspaceID)
}

//go:generate moq -out store_mock.go . Store

// Store persists opaque tokens keyed by (service, account).
type Store interface {
	// SaveToken stores a token. Fails if one already exists for the key.
	SaveToken(ctx context.Context, service, account, token string) error

	// GetToken retrieves a stored token.
	// Returns ErrTokenNotFound if no token exists for the key and
	// ErrTokenCorrupt if the stored value cannot be decrypted.
	GetToken(ctx context.Context, service, account string) (string, error)

	// DeleteToken removes a stored token.
	// Returns ErrTokenNotFound if no token exists for the key.
	DeleteToken(ctx context.Context, service, account string) error

	// HasToken reports whether a token exists for the key.
	HasToken(ctx context.Context, service, account string) (bool, error)

	// ReplaceToken stores a token, overwriting any existing one.
	ReplaceToken(ctx context.Context, service, account, token string) error
}
