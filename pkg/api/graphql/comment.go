package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/domain"
)

type commentResolver struct {
	root    *Resolver
	comment domain.Comment
}

func (c *commentResolver) ID() graphql.ID          { return toID(c.comment.ID) }
func (c *commentResolver) Body() string            { return c.comment.Body }
func (c *commentResolver) CreatedAt() graphql.Time { return toTime(c.comment.CreatedAt) }

func (c *commentResolver) Author(ctx context.Context) (*userResolver, error) {
	return c.root.loadUser(ctx, c.comment.AuthorID)
}

func (r *Resolver) commentsOn(ctx context.Context, photoID int64, page domain.Page) (*commentPageResolver, error) {
	found, err := r.DB.Comment().ForPhoto(ctx, photoID, page)
	if err != nil {
		return nil, err
	}
	items := make([]*commentResolver, 0, len(found.Items))
	for _, c := range found.Items {
		items = append(items, &commentResolver{root: r, comment: c})
	}
	return &commentPageResolver{items: items, pageInfo: pageInfoOf(found)}, nil
}

type commentPageResolver struct {
	items    []*commentResolver
	pageInfo *pageInfoResolver
}

func (p *commentPageResolver) Items() []*commentResolver   { return p.items }
func (p *commentPageResolver) PageInfo() *pageInfoResolver { return p.pageInfo }
