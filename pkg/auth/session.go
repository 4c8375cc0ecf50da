package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kkeychain "github.com/opst/photoshare/pkg/domain/keychain/db"
	"github.com/opst/photoshare/pkg/domain/keychain/key"
)

var ErrNoKeyFound = errors.New("no key found")
var ErrInvalidToken = errors.New("invalid token")

// Claims of session tokens.
//
// Subject is the user id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the user id in the subject.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject: %s", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// Verifier verifies session tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Sessions issues and verifies session tokens signed by keys in a keychain.
type Sessions struct {
	keychain kkeychain.KeychainInterface
	name     string
	policy   key.KeyPolicy
	ttl      time.Duration

	now func() time.Time
}

var _ Verifier = &Sessions{}

// NewSessions returns Sessions.
//
// # Args
//
// - kc, name: keychain storing signing keys.
//
// - policy: issues a new signing key when the current one expires sooner than tokens.
//
// - tokenTTL: lifetime of tokens.
func NewSessions(kc kkeychain.KeychainInterface, name string, policy key.KeyPolicy, tokenTTL time.Duration) *Sessions {
	return &Sessions{
		keychain: kc,
		name:     name,
		policy:   policy,
		ttl:      tokenTTL,
		now:      time.Now,
	}
}

// Issue signs a token for the user.
//
// # Returns
//
// - string: token
//
// - time.Time: when the token expires
//
// - error
func (s *Sessions) Issue(ctx context.Context, u domain.User) (string, time.Time, error) {
	k, err := s.keychain.Current(ctx, s.name, s.ttl, s.policy.Issue)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	exp := now.Add(s.ttl).Truncate(time.Second)
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Header["kid"] = k.KID
	signed, err := tok.SignedString(k.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify verifies the token and returns its claims.
//
// # Returns
//
// - error: ErrInvalidToken when the token is malformed, expired, or not signed
// by any unexpired key in the keychain. Other errors come from the keychain.
func (s *Sessions) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) {
			kid, ok := t.Header["kid"].(string)
			if !ok {
				return nil, ErrNoKeyFound
			}
			k, err := s.keychain.Get(ctx, s.name, kid)
			if errors.Is(err, domerr.ErrMissing) {
				return nil, ErrNoKeyFound
			} else if err != nil {
				return nil, err
			}
			if k.Alg != t.Method.Alg() {
				return nil, ErrNoKeyFound
			}
			return k.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoKeyFound),
			errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenInvalidClaims),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, errors.Join(ErrInvalidToken, err)
		}
		return nil, err
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
