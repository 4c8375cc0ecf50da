package policy

import (
	"fmt"

	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

// ShowAlbum permits to see public albums or own albums. Admins see all.
//
// byShareToken tells the album is looked up with a valid share token.
// Such albums are visible for everyone holding the token.
func ShowAlbum(actor *domain.User, a *domain.Album, byShareToken bool) error {
	if byShareToken || AlbumScope(actor).Visible(a.OwnerID, a.Privacy) {
		return nil
	}
	return missing(fmt.Sprintf("album %s", a.Slug))
}

func modifyAlbum(actor *domain.User, a *domain.Album, action string) error {
	if err := ShowAlbum(actor, a, false); err != nil {
		return err
	}
	if actor.Is(a.OwnerID) || actor.IsAdmin() {
		return nil
	}
	return deny(actor, action)
}

// CreateAlbum permits signed-in actors.
func CreateAlbum(actor *domain.User) error {
	return SignedIn(actor, "create albums")
}

func UpdateAlbum(actor *domain.User, a *domain.Album) error {
	return modifyAlbum(actor, a, "update the album")
}

func DestroyAlbum(actor *domain.User, a *domain.Album) error {
	return modifyAlbum(actor, a, "delete the album")
}

func ShareAlbum(actor *domain.User, a *domain.Album) error {
	return modifyAlbum(actor, a, "share the album")
}

// ArrangeAlbum covers adding, removing and reordering photos.
func ArrangeAlbum(actor *domain.User, a *domain.Album) error {
	return modifyAlbum(actor, a, "arrange photos in the album")
}

// PutPhotoInAlbum permits photos owned by the album owner only.
func PutPhotoInAlbum(a *domain.Album, p *domain.PhotoBody) error {
	if p.OwnerID == a.OwnerID {
		return nil
	}
	return fmt.Errorf("%w: photo %s is not owned by the album owner", domerr.ErrForbidden, p.Slug)
}
