package db

import (
	"context"
	"time"

	"github.com/opst/photoshare/pkg/domain"
)

type KeychainInterface interface {
	// Keys returns unexpired keys in the keychain, latest expiry first.
	Keys(ctx context.Context, name string) ([]domain.SigningKey, error)

	// Get returns the key with kid in the keychain.
	//
	// # Returns
	//
	// - error: ErrMissing if the key is not found or expired.
	Get(ctx context.Context, name string, kid string) (domain.SigningKey, error)

	// Current returns a key for signing.
	//
	// When no key lives longer than minTTL, a new key is issued and stored.
	// Expired keys are removed.
	Current(ctx context.Context, name string, minTTL time.Duration, issue func() (domain.SigningKey, error)) (domain.SigningKey, error)
}
