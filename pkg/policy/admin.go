package policy

import (
	"github.com/opst/photoshare/pkg/domain"
)

// CreateClaim permits signed-in actors.
func CreateClaim(actor *domain.User) error {
	return SignedIn(actor, "claim Flickr users")
}

// ShowClaim permits the claimant and admins.
func ShowClaim(actor *domain.User, c *domain.FlickrUserClaim) error {
	if actor.Is(c.UserID) || actor.IsAdmin() {
		return nil
	}
	return deny(actor, "see the claim")
}

func ListClaims(actor *domain.User) error {
	return Admin(actor, "list claims")
}

func DecideClaim(actor *domain.User) error {
	return Admin(actor, "decide claims")
}

// ReadSetting permits everyone for public settings, and admins for all.
func ReadSetting(actor *domain.User, key string) error {
	if domain.IsPublicSetting(key) {
		return nil
	}
	return Admin(actor, "read the setting")
}

func WriteSetting(actor *domain.User) error {
	return Admin(actor, "change settings")
}

// ShowUser permits everyone. Profiles are public.
func ShowUser(actor *domain.User, u *domain.User) error {
	return nil
}

// ShowEmail permits the user oneself and admins.
func ShowEmail(actor *domain.User, u *domain.User) error {
	if actor.Is(u.ID) || actor.IsAdmin() {
		return nil
	}
	return deny(actor, "see the email")
}

func PromoteUser(actor *domain.User) error {
	return Admin(actor, "change roles")
}
