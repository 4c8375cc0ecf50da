package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/domain"
	"github.com/opst/photoshare/pkg/policy"
)

type userResolver struct {
	root *Resolver
	user domain.User

	// the user is the one who has just signed in.
	self bool
}

func (r *Resolver) userOf(u domain.User) *userResolver {
	return &userResolver{root: r, user: u}
}

// loadUser finds the user and wraps it as a resolver.
func (r *Resolver) loadUser(ctx context.Context, id int64) (*userResolver, error) {
	u, err := r.DB.User().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.userOf(u), nil
}

func (u *userResolver) ID() graphql.ID          { return toID(u.user.ID) }
func (u *userResolver) Name() string            { return u.user.Name }
func (u *userResolver) Role() string            { return enum(u.user.Role) }
func (u *userResolver) CreatedAt() graphql.Time { return toTime(u.user.CreatedAt) }

func (u *userResolver) Email(ctx context.Context) *string {
	if u.self {
		email := u.user.Email
		return &email
	}
	if err := policy.ShowEmail(auth.Actor(ctx), &u.user); err != nil {
		return nil
	}
	email := u.user.Email
	return &email
}

func (u *userResolver) Photos(ctx context.Context, args struct{ Page *pageInput }) (*photoPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	owner := u.user.ID
	return u.root.findPhotos(ctx, domain.PhotoQuery{
		Scope:   policy.PhotoScope(auth.Actor(ctx)),
		OwnerID: &owner,
		Page:    page,
	})
}

func (u *userResolver) Albums(ctx context.Context, args struct{ Page *pageInput }) (*albumPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	owner := u.user.ID
	return u.root.findAlbums(ctx, domain.AlbumQuery{
		Scope:   policy.AlbumScope(auth.Actor(ctx)),
		OwnerID: &owner,
		Page:    page,
	})
}

// FlickrUsers are Flickr identities claimed by the user.
func (u *userResolver) FlickrUsers(ctx context.Context) ([]*flickrUserResolver, error) {
	claims, err := u.root.DB.Flickr().ClaimsOf(ctx, u.user.ID)
	if err != nil {
		return nil, err
	}
	out := []*flickrUserResolver{}
	for _, c := range claims {
		if c.Status != domain.ClaimApproved {
			continue
		}
		fu, err := u.root.DB.Flickr().GetUser(ctx, c.NSID)
		if err != nil {
			return nil, err
		}
		if fu.ClaimedBy == nil || *fu.ClaimedBy != u.user.ID {
			continue
		}
		out = append(out, u.root.flickrUserOf(fu))
	}
	return out, nil
}

type sessionResolver struct {
	token     string
	expiresAt graphql.Time
	user      *userResolver
}

func (s *sessionResolver) Token() string           { return s.token }
func (s *sessionResolver) ExpiresAt() graphql.Time { return s.expiresAt }
func (s *sessionResolver) User() *userResolver     { return s.user }
