// Package policy decides who can do what on which record.
//
// Every rule is a pure function of the actor and the record.
// Actor nil means a guest.
//
// Rules return nil when permitted. Otherwise they return an error wrapping
//
//   - ErrUnauthenticated, when a guest would be permitted after signing in,
//   - ErrForbidden, when a signed-in actor is not permitted,
//   - ErrMissing, when the actor cannot even see the record.
package policy

import (
	"fmt"

	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

func deny(actor *domain.User, action string) error {
	if actor == nil {
		return fmt.Errorf("%w: sign in to %s", domerr.ErrUnauthenticated, action)
	}
	return fmt.Errorf("%w: %s", domerr.ErrForbidden, action)
}

func missing(what string) error {
	return fmt.Errorf("%w: %s", domerr.ErrMissing, what)
}

// SignedIn permits signed-in actors.
func SignedIn(actor *domain.User, action string) error {
	if actor == nil {
		return deny(nil, action)
	}
	return nil
}

// Admin permits admins only.
func Admin(actor *domain.User, action string) error {
	if actor.IsAdmin() {
		return nil
	}
	return deny(actor, action)
}

// scope of visible records for the actor.
func scope(actor *domain.User) domain.Scope {
	switch {
	case actor == nil:
		return domain.PublicOnly()
	case actor.IsAdmin():
		return domain.Everything()
	default:
		return domain.PublicOrOwnedBy(actor.ID)
	}
}

// PhotoScope is the visibility of photos in listings.
func PhotoScope(actor *domain.User) domain.Scope {
	return scope(actor)
}

// AlbumScope is the visibility of albums in listings.
func AlbumScope(actor *domain.User) domain.Scope {
	return scope(actor)
}
