// Package auth signs users in: password hashing, session tokens and
// the echo middleware resolving the actor of requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor of password hashes.
	BcryptCost = 12

	MinPasswordLength = 8

	// bcrypt ignores bytes after 72.
	maxPasswordBytes = 72
)

// HashPassword validates the password and hashes it.
func HashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", fmt.Errorf(
			"%w: password should have %d characters at least",
			domerr.ErrInvalidArgument, MinPasswordLength,
		)
	}
	if maxPasswordBytes < len(password) {
		return "", fmt.Errorf(
			"%w: password should be %d bytes at most",
			domerr.ErrInvalidArgument, maxPasswordBytes,
		)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword tells the password matches with the hash.
func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// hash of nothing, compared when the user is not found
// to take as long as a wrong password does.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("photoshare-dummy"), BcryptCost)

// Authenticate finds the user by email and checks the password.
//
// # Returns
//
// - error: ErrUnauthenticated when the user is unknown or the password is wrong.
func Authenticate(ctx context.Context, users kuser.UserInterface, email string, password string) (domain.User, error) {
	u, hash, err := users.PasswordHash(ctx, email)
	if errors.Is(err, domerr.ErrMissing) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return domain.User{}, fmt.Errorf("%w: wrong email or password", domerr.ErrUnauthenticated)
	} else if err != nil {
		return domain.User{}, err
	}
	if !CheckPassword(hash, password) {
		return domain.User{}, fmt.Errorf("%w: wrong email or password", domerr.ErrUnauthenticated)
	}
	return u, nil
}
