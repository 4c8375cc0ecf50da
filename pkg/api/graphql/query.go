package graphql

import (
	"context"
	"sort"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/domain"
	"github.com/opst/photoshare/pkg/policy"
)

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	actor := auth.Actor(ctx)
	if actor == nil {
		return nil, nil
	}
	return r.userOf(*actor), nil
}

func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	u, err := r.DB.User().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ShowUser(auth.Actor(ctx), &u); err != nil {
		return nil, err
	}
	return r.userOf(u), nil
}

// visiblePhoto finds the photo by slug, which the actor can see.
func (r *Resolver) visiblePhoto(ctx context.Context, slug string) (domain.Photo, error) {
	p, err := r.DB.Photo().GetBySlug(ctx, slug)
	if err != nil {
		return domain.Photo{}, err
	}
	if err := policy.ShowPhoto(auth.Actor(ctx), &p.PhotoBody); err != nil {
		return domain.Photo{}, err
	}
	return p, nil
}

func (r *Resolver) Photo(ctx context.Context, args struct{ Slug string }) (*photoResolver, error) {
	p, err := r.visiblePhoto(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	return r.photoOf(p), nil
}

type photoFilter struct {
	OwnerID *graphql.ID
	Tags    *[]string `validate:"omitempty,max=10"`
	Query   *string   `validate:"omitempty,max=200"`
}

func (r *Resolver) Photos(ctx context.Context, args struct {
	Filter *photoFilter
	Page   *pageInput
}) (*photoPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	q := domain.PhotoQuery{
		Scope: policy.PhotoScope(auth.Actor(ctx)),
		Page:  page,
	}
	if f := args.Filter; f != nil {
		if err := check(f); err != nil {
			return nil, err
		}
		if f.OwnerID != nil {
			owner, err := parseID(*f.OwnerID)
			if err != nil {
				return nil, err
			}
			q.OwnerID = &owner
		}
		if f.Tags != nil {
			for _, t := range *f.Tags {
				name, err := domain.NormalizeTagName(t)
				if err != nil {
					return nil, err
				}
				q.Tags = append(q.Tags, name)
			}
		}
		if f.Query != nil {
			q.Text = *f.Query
		}
	}
	return r.findPhotos(ctx, q)
}

func (r *Resolver) Album(ctx context.Context, args struct {
	Slug       *string
	ShareToken *string
}) (*albumResolver, error) {
	return r.openAlbum(ctx, args.Slug, args.ShareToken)
}

func (r *Resolver) Albums(ctx context.Context, args struct {
	OwnerID *graphql.ID
	Page    *pageInput
}) (*albumPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	q := domain.AlbumQuery{
		Scope: policy.AlbumScope(auth.Actor(ctx)),
		Page:  page,
	}
	if args.OwnerID != nil {
		owner, err := parseID(*args.OwnerID)
		if err != nil {
			return nil, err
		}
		q.OwnerID = &owner
	}
	return r.findAlbums(ctx, q)
}

func (r *Resolver) Tags(ctx context.Context, args struct {
	Prefix string
	Limit  *int32
}) ([]*tagCountResolver, error) {
	n, err := limit(args.Limit, 10)
	if err != nil {
		return nil, err
	}
	found, err := r.DB.Tag().Find(ctx, args.Prefix, n)
	if err != nil {
		return nil, err
	}
	return tagCountsOf(found), nil
}

func (r *Resolver) PopularTags(ctx context.Context, args struct{ Limit *int32 }) ([]*tagCountResolver, error) {
	n, err := limit(args.Limit, 20)
	if err != nil {
		return nil, err
	}
	found, err := r.DB.Tag().Popular(ctx, n)
	if err != nil {
		return nil, err
	}
	return tagCountsOf(found), nil
}

func (r *Resolver) RelatedTags(ctx context.Context, args struct {
	Tag   string
	Limit *int32
}) ([]*relatedTagResolver, error) {
	n, err := limit(args.Limit, 10)
	if err != nil {
		return nil, err
	}
	name, err := domain.NormalizeTagName(args.Tag)
	if err != nil {
		return nil, err
	}
	found, err := r.DB.Tag().Related(ctx, name, n)
	if err != nil {
		return nil, err
	}
	out := make([]*relatedTagResolver, 0, len(found))
	for _, rt := range found {
		out = append(out, &relatedTagResolver{related: rt})
	}
	return out, nil
}

func (r *Resolver) Comments(ctx context.Context, args struct {
	PhotoSlug string
	Page      *pageInput
}) (*commentPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	p, err := r.visiblePhoto(ctx, args.PhotoSlug)
	if err != nil {
		return nil, err
	}
	return r.commentsOn(ctx, p.ID, page)
}

func (r *Resolver) FlickrUser(ctx context.Context, args struct{ NSID string }) (*flickrUserResolver, error) {
	fu, err := r.DB.Flickr().GetUser(ctx, args.NSID)
	if err != nil {
		return nil, err
	}
	return r.flickrUserOf(fu), nil
}

func (r *Resolver) FlickrUserClaims(ctx context.Context, args struct {
	Status *string
	Page   *pageInput
}) (*claimPageResolver, error) {
	if err := policy.ListClaims(auth.Actor(ctx)); err != nil {
		return nil, err
	}
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	var status *domain.ClaimStatus
	if args.Status != nil {
		st, err := domain.AsClaimStatus(fromEnum(*args.Status))
		if err != nil {
			return nil, err
		}
		status = &st
	}
	found, err := r.DB.Flickr().Claims(ctx, status, page)
	if err != nil {
		return nil, err
	}
	items := make([]*claimResolver, 0, len(found.Items))
	for _, c := range found.Items {
		items = append(items, r.claimOf(c))
	}
	return &claimPageResolver{items: items, pageInfo: pageInfoOf(found)}, nil
}

// Settings lists settings readable for the actor, by key.
func (r *Resolver) Settings(ctx context.Context) ([]*settingResolver, error) {
	all, err := r.DB.Setting().All(ctx)
	if err != nil {
		return nil, err
	}
	actor := auth.Actor(ctx)
	out := []*settingResolver{}
	for key, s := range all {
		if policy.ReadSetting(actor, key) != nil {
			continue
		}
		out = append(out, &settingResolver{setting: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].setting.Key < out[j].setting.Key })
	return out, nil
}
