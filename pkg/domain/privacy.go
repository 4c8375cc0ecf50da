package domain

import (
	"fmt"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

type Privacy string

const (
	Public Privacy = "public"

	// Unlisted album is not listed in gallery,
	// but it is readable with its share token.
	Unlisted Privacy = "unlisted"

	Private Privacy = "private"
)

func (p Privacy) String() string {
	return string(p)
}

// AsPhotoPrivacy parses privacy level for photos.
//
// Photos are public or private. Unlisted is for albums only.
func AsPhotoPrivacy(s string) (Privacy, error) {
	switch p := Privacy(s); p {
	case Public, Private:
		return p, nil
	default:
		return p, fmt.Errorf("%w: unknown privacy for photo: %s", domerr.ErrInvalidArgument, s)
	}
}

func AsAlbumPrivacy(s string) (Privacy, error) {
	switch p := Privacy(s); p {
	case Public, Unlisted, Private:
		return p, nil
	default:
		return p, fmt.Errorf("%w: unknown privacy for album: %s", domerr.ErrInvalidArgument, s)
	}
}

// Scope is visibility of records for an actor, used in listing queries.
type Scope struct {
	// when true, everything is visible.
	Everything bool

	// when not nil, records owned by this user are visible
	// in addition to public ones.
	OwnerID *int64
}

// PublicOnly is a Scope where only public records are visible.
func PublicOnly() Scope {
	return Scope{}
}

func PublicOrOwnedBy(userID int64) Scope {
	return Scope{OwnerID: &userID}
}

func Everything() Scope {
	return Scope{Everything: true}
}

// Visible tells whether the record is visible in this scope.
func (s Scope) Visible(ownerID int64, privacy Privacy) bool {
	if s.Everything || privacy == Public {
		return true
	}
	return s.OwnerID != nil && *s.OwnerID == ownerID
}
