package graphql

import (
	"context"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	"github.com/opst/photoshare/pkg/policy"
)

type albumResolver struct {
	root  *Resolver
	album domain.Album
}

func (r *Resolver) albumOf(a domain.Album) *albumResolver {
	return &albumResolver{root: r, album: a}
}

func (a *albumResolver) ID() graphql.ID          { return toID(a.album.ID) }
func (a *albumResolver) Slug() string            { return a.album.Slug }
func (a *albumResolver) Title() string           { return a.album.Title }
func (a *albumResolver) Description() string     { return a.album.Description }
func (a *albumResolver) Privacy() string         { return enum(a.album.Privacy) }
func (a *albumResolver) PhotoCount() int32       { return int32(a.album.PhotoCount) }
func (a *albumResolver) CreatedAt() graphql.Time { return toTime(a.album.CreatedAt) }
func (a *albumResolver) UpdatedAt() graphql.Time { return toTime(a.album.UpdatedAt) }

func (a *albumResolver) Owner(ctx context.Context) (*userResolver, error) {
	return a.root.loadUser(ctx, a.album.OwnerID)
}

// ShareToken is shown only to who can share the album.
func (a *albumResolver) ShareToken(ctx context.Context) *string {
	if err := policy.ShareAlbum(auth.Actor(ctx), &a.album); err != nil {
		return nil
	}
	t := a.album.ShareToken
	return &t
}

// photoScope is visibility of photos in the album.
//
// A share token opens the album, not the photos in it:
// private photos stay hidden from who is not the owner.
func (a *albumResolver) photoScope(ctx context.Context) domain.Scope {
	return policy.PhotoScope(auth.Actor(ctx))
}

// Cover is the cover photo, or the first photo when no cover is set.
func (a *albumResolver) Cover(ctx context.Context) (*photoResolver, error) {
	scope := a.photoScope(ctx)
	if a.album.CoverPhotoID != nil {
		found, err := a.root.DB.Photo().Get(ctx, []int64{*a.album.CoverPhotoID})
		if err != nil {
			return nil, err
		}
		if p, ok := found[*a.album.CoverPhotoID]; ok && scope.Visible(p.OwnerID, p.Privacy) {
			return a.root.photoOf(p), nil
		}
	}

	albumID := a.album.ID
	first, err := a.root.DB.Photo().Find(ctx, domain.PhotoQuery{
		Scope:   scope,
		AlbumID: &albumID,
		Page:    domain.Page{Number: 1, PerPage: 1},
	})
	if err != nil {
		return nil, err
	}
	if len(first.Items) == 0 {
		return nil, nil
	}
	return a.root.photoOf(first.Items[0]), nil
}

func (a *albumResolver) Photos(ctx context.Context, args struct{ Page *pageInput }) (*photoPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	albumID := a.album.ID
	return a.root.findPhotos(ctx, domain.PhotoQuery{
		Scope:   a.photoScope(ctx),
		AlbumID: &albumID,
		Page:    page,
	})
}

// Shares are visible only to who can share the album. Others see nothing.
func (a *albumResolver) Shares(ctx context.Context) ([]*albumShareResolver, error) {
	if err := policy.ShareAlbum(auth.Actor(ctx), &a.album); err != nil {
		return []*albumShareResolver{}, nil
	}
	shares, err := a.root.DB.Album().Shares(ctx, a.album.ID)
	if err != nil {
		return nil, err
	}
	return sharesOf(shares), nil
}

func sharesOf(shares []domain.AlbumShare) []*albumShareResolver {
	out := make([]*albumShareResolver, 0, len(shares))
	for _, s := range shares {
		out = append(out, &albumShareResolver{share: s})
	}
	return out
}

// openAlbum finds an album by slug or share token, and checks the actor can see it.
func (r *Resolver) openAlbum(ctx context.Context, slug *string, shareToken *string) (*albumResolver, error) {
	actor := auth.Actor(ctx)

	if shareToken != nil && *shareToken != "" {
		a, err := r.DB.Album().GetByShareToken(ctx, *shareToken)
		if err != nil {
			return nil, err
		}
		if slug != nil && *slug != a.Slug {
			return nil, fmt.Errorf("%w: album %s", domerr.ErrMissing, *slug)
		}
		if err := policy.ShowAlbum(actor, &a, true); err != nil {
			return nil, err
		}
		return r.albumOf(a), nil
	}

	if slug == nil {
		return nil, fmt.Errorf("%w: slug or shareToken is required", domerr.ErrInvalidArgument)
	}
	a, err := r.DB.Album().GetBySlug(ctx, *slug)
	if err != nil {
		return nil, err
	}
	if err := policy.ShowAlbum(actor, &a, false); err != nil {
		return nil, err
	}
	return r.albumOf(a), nil
}

func (r *Resolver) findAlbums(ctx context.Context, q domain.AlbumQuery) (*albumPageResolver, error) {
	found, err := r.DB.Album().Find(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]*albumResolver, 0, len(found.Items))
	for _, a := range found.Items {
		items = append(items, r.albumOf(a))
	}
	return &albumPageResolver{items: items, pageInfo: pageInfoOf(found)}, nil
}

type albumPageResolver struct {
	items    []*albumResolver
	pageInfo *pageInfoResolver
}

func (p *albumPageResolver) Items() []*albumResolver     { return p.items }
func (p *albumPageResolver) PageInfo() *pageInfoResolver { return p.pageInfo }

type albumShareResolver struct {
	share domain.AlbumShare
}

func (s *albumShareResolver) Email() string           { return s.share.Email }
func (s *albumShareResolver) Token() string           { return s.share.Token }
func (s *albumShareResolver) CreatedAt() graphql.Time { return toTime(s.share.CreatedAt) }
