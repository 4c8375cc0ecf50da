package db

import (
	"context"

	"github.com/opst/photoshare/pkg/domain"
)

type UserInterface interface {
	// Create registers a new user with a hashed password.
	//
	// # Returns
	//
	// - domain.User: created user. The first user becomes an admin.
	//
	// - error: ErrConflict when the e-mail is already taken.
	Create(ctx context.Context, spec domain.NewUserSpec, passwordHash string) (domain.User, error)

	Get(ctx context.Context, id int64) (domain.User, error)

	// GetMany returns users found. Missing ids are ignored.
	GetMany(ctx context.Context, ids []int64) (map[int64]domain.User, error)

	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// PasswordHash returns the user and the hash of the password.
	PasswordHash(ctx context.Context, email string) (domain.User, string, error)

	SetRole(ctx context.Context, id int64, role domain.Role) (domain.User, error)

	// LinkFacebook links the user with a Facebook user id.
	LinkFacebook(ctx context.Context, id int64, facebookID string) error

	// Delete deletes the user and everything the user owns.
	//
	// Storage objects of photos are registered as garbage.
	Delete(ctx context.Context, id int64) error
}
