package policy

import (
	"fmt"

	"github.com/opst/photoshare/pkg/domain"
)

// ShowPhoto permits to see public photos, or own photos. Admins see all.
//
// Invisible photos are reported as missing.
func ShowPhoto(actor *domain.User, p *domain.PhotoBody) error {
	if PhotoScope(actor).Visible(p.OwnerID, p.Privacy) {
		return nil
	}
	return missing(fmt.Sprintf("photo %s", p.Slug))
}

func modifyPhoto(actor *domain.User, p *domain.PhotoBody, action string) error {
	if err := ShowPhoto(actor, p); err != nil {
		return err
	}
	if actor.Is(p.OwnerID) || actor.IsAdmin() {
		return nil
	}
	return deny(actor, action)
}

// UpdatePhoto permits owners and admins.
func UpdatePhoto(actor *domain.User, p *domain.PhotoBody) error {
	return modifyPhoto(actor, p, "update the photo")
}

// DestroyPhoto permits owners and admins.
func DestroyPhoto(actor *domain.User, p *domain.PhotoBody) error {
	return modifyPhoto(actor, p, "delete the photo")
}

// CropPhoto permits owners and admins.
func CropPhoto(actor *domain.User, p *domain.PhotoBody) error {
	return modifyPhoto(actor, p, "crop the photo")
}

// TagPhoto permits owners and admins.
func TagPhoto(actor *domain.User, p *domain.PhotoBody) error {
	return modifyPhoto(actor, p, "tag the photo")
}

// CommentOnPhoto permits signed-in actors who can see the photo.
func CommentOnPhoto(actor *domain.User, p *domain.PhotoBody) error {
	if err := ShowPhoto(actor, p); err != nil {
		return err
	}
	return SignedIn(actor, "comment")
}

// UploadPhoto permits signed-in actors.
func UploadPhoto(actor *domain.User) error {
	return SignedIn(actor, "upload photos")
}

// DestroyComment permits the author, the owner of the photo and admins.
func DestroyComment(actor *domain.User, c *domain.Comment, p *domain.PhotoBody) error {
	if actor.Is(c.AuthorID) || actor.Is(p.OwnerID) || actor.IsAdmin() {
		return nil
	}
	return deny(actor, "delete the comment")
}
