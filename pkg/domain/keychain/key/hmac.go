package key

import (
	"crypto/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/opst/photoshare/pkg/domain"
)

// KeyPolicy issues new signing keys.
type KeyPolicy interface {
	Issue() (domain.SigningKey, error)

	// TTL of keys issued by this policy.
	TTL() time.Duration
}

type hs256policy struct {
	ttl    time.Duration
	keyLen uint
}

func (f hs256policy) Issue() (domain.SigningKey, error) {
	k := make([]byte, f.keyLen)
	if _, err := rand.Read(k); err != nil {
		return domain.SigningKey{}, err
	}
	kid, err := uuid.NewRandom()
	if err != nil {
		return domain.SigningKey{}, err
	}

	return domain.SigningKey{
		KID:       kid.String(),
		Alg:       jwt.SigningMethodHS256.Name,
		Secret:    k,
		ExpiresAt: time.Now().Add(f.ttl).Truncate(time.Second),
	}, nil
}

func (f hs256policy) TTL() time.Duration {
	return f.ttl
}

// HS256 returns a KeyPolicy for HMAC-SHA256 algorithm.
//
// # Args
//
// - ttl: Time to live of new keys
//
// - klen: Length of the key in *bytes*, not bits.
func HS256(ttl time.Duration, klen uint) KeyPolicy {
	return hs256policy{
		ttl:    ttl,
		keyLen: klen,
	}
}
