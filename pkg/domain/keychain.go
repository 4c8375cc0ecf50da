package domain

import (
	"fmt"
	"time"
)

// SigningKey is a secret to sign and verify session tokens.
type SigningKey struct {
	// Key ID. It is put in JWT header "kid".
	KID string

	// Algorithm name, like "HS256".
	Alg string

	Secret    []byte
	ExpiresAt time.Time
}

// Expired tells the key is expired at t.
func (k SigningKey) Expired(t time.Time) bool {
	return !t.Before(k.ExpiresAt)
}

func (k SigningKey) String() string {
	return fmt.Sprintf(
		"SigningKey{KID: %s, Alg: %s, Secret: (%d bytes), ExpiresAt: %s}",
		k.KID, k.Alg, len(k.Secret), k.ExpiresAt.Format(time.RFC3339),
	)
}
