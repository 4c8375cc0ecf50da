package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/domain"
)

type flickrUserResolver struct {
	root *Resolver
	user domain.FlickrUser
}

func (r *Resolver) flickrUserOf(u domain.FlickrUser) *flickrUserResolver {
	return &flickrUserResolver{root: r, user: u}
}

func (f *flickrUserResolver) NSID() string            { return f.user.NSID }
func (f *flickrUserResolver) Username() string        { return f.user.Username }
func (f *flickrUserResolver) RealName() string        { return f.user.RealName }
func (f *flickrUserResolver) Description() string     { return f.user.Description }
func (f *flickrUserResolver) ProfileURL() string      { return f.user.ProfileURL }
func (f *flickrUserResolver) IconURL() string         { return f.user.IconURL }
func (f *flickrUserResolver) SyncedAt() *graphql.Time { return toTimeOrNil(f.user.SyncedAt) }

func (f *flickrUserResolver) ClaimedBy(ctx context.Context) (*userResolver, error) {
	if f.user.ClaimedBy == nil {
		return nil, nil
	}
	return f.root.loadUser(ctx, *f.user.ClaimedBy)
}

type claimResolver struct {
	root  *Resolver
	claim domain.FlickrUserClaim
}

func (r *Resolver) claimOf(c domain.FlickrUserClaim) *claimResolver {
	return &claimResolver{root: r, claim: c}
}

func (c *claimResolver) ID() graphql.ID           { return toID(c.claim.ID) }
func (c *claimResolver) Method() string           { return enum(c.claim.Method) }
func (c *claimResolver) Status() string           { return enum(c.claim.Status) }
func (c *claimResolver) Reason() string           { return c.claim.Reason }
func (c *claimResolver) CreatedAt() graphql.Time  { return toTime(c.claim.CreatedAt) }
func (c *claimResolver) DecidedAt() *graphql.Time { return toTimeOrNil(c.claim.DecidedAt) }

func (c *claimResolver) User(ctx context.Context) (*userResolver, error) {
	return c.root.loadUser(ctx, c.claim.UserID)
}

func (c *claimResolver) FlickrUser(ctx context.Context) (*flickrUserResolver, error) {
	fu, err := c.root.DB.Flickr().GetUser(ctx, c.claim.NSID)
	if err != nil {
		return nil, err
	}
	return c.root.flickrUserOf(fu), nil
}

// VerificationCode is shown only to the claimant.
func (c *claimResolver) VerificationCode(ctx context.Context) *string {
	if c.claim.VerificationCode == "" || !auth.Actor(ctx).Is(c.claim.UserID) {
		return nil
	}
	code := c.claim.VerificationCode
	return &code
}

type claimPageResolver struct {
	items    []*claimResolver
	pageInfo *pageInfoResolver
}

func (p *claimPageResolver) Items() []*claimResolver     { return p.items }
func (p *claimPageResolver) PageInfo() *pageInfoResolver { return p.pageInfo }
