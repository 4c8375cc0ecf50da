package graphql

import (
	"context"
	"sort"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/domain"
)

type photoResolver struct {
	root  *Resolver
	photo domain.Photo
}

func (r *Resolver) photoOf(p domain.Photo) *photoResolver {
	return &photoResolver{root: r, photo: p}
}

func (p *photoResolver) ID() graphql.ID           { return toID(p.photo.ID) }
func (p *photoResolver) Slug() string             { return p.photo.Slug }
func (p *photoResolver) Title() string            { return p.photo.Title }
func (p *photoResolver) Description() string      { return p.photo.Description }
func (p *photoResolver) Privacy() string          { return enum(p.photo.Privacy) }
func (p *photoResolver) OriginalFilename() string { return p.photo.OriginalFilename }
func (p *photoResolver) ContentType() string      { return p.photo.ContentType }
func (p *photoResolver) Width() int32             { return int32(p.photo.Width) }
func (p *photoResolver) Height() int32            { return int32(p.photo.Height) }
func (p *photoResolver) TakenAt() *graphql.Time   { return toTimeOrNil(p.photo.TakenAt) }
func (p *photoResolver) FlickrID() *string        { return p.photo.FlickrID }
func (p *photoResolver) CreatedAt() graphql.Time  { return toTime(p.photo.CreatedAt) }
func (p *photoResolver) UpdatedAt() graphql.Time  { return toTime(p.photo.UpdatedAt) }

func (p *photoResolver) AutoTaggedAt() *graphql.Time {
	return toTimeOrNil(p.photo.AutoTaggedAt)
}

func (p *photoResolver) Owner(ctx context.Context) (*userResolver, error) {
	return p.root.loadUser(ctx, p.photo.OwnerID)
}

func (p *photoResolver) Exif() []*exifEntryResolver {
	out := make([]*exifEntryResolver, 0, len(p.photo.Exif))
	for k, v := range p.photo.Exif {
		out = append(out, &exifEntryResolver{name: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (p *photoResolver) Crop() *cropResolver {
	if p.photo.Crop == nil {
		return nil
	}
	return &cropResolver{crop: *p.photo.Crop}
}

func (p *photoResolver) Image(args struct{ Size *string }) *imageResolver {
	size := domain.SizeMedium
	if args.Size != nil {
		size = *args.Size
	}
	ref, ready := p.photo.Derivative(size)
	if size == domain.SizeOriginal {
		ready = true
	}
	return &imageResolver{
		size:   size,
		url:    p.root.imageURL(p.photo.Slug, size),
		width:  ref.Width,
		height: ref.Height,
		ready:  ready,
	}
}

func (p *photoResolver) Tags() []*taggingResolver {
	out := make([]*taggingResolver, 0, len(p.photo.Tags))
	for _, t := range p.photo.Tags {
		out = append(out, &taggingResolver{tagging: t})
	}
	return out
}

func (p *photoResolver) FlickrOwner(ctx context.Context) (*flickrUserResolver, error) {
	if p.photo.FlickrOwnerNSID == nil {
		return nil, nil
	}
	fu, err := p.root.DB.Flickr().GetUser(ctx, *p.photo.FlickrOwnerNSID)
	if err != nil {
		return nil, err
	}
	return p.root.flickrUserOf(fu), nil
}

func (p *photoResolver) Comments(ctx context.Context, args struct{ Page *pageInput }) (*commentPageResolver, error) {
	page, err := args.Page.page()
	if err != nil {
		return nil, err
	}
	return p.root.commentsOn(ctx, p.photo.ID, page)
}

// imageURL is the URL of the endpoint redirecting to the image.
func (r *Resolver) imageURL(slug string, size string) string {
	return r.PublicURL.JoinPath("photos", slug, "image", size).String()
}

func (r *Resolver) findPhotos(ctx context.Context, q domain.PhotoQuery) (*photoPageResolver, error) {
	found, err := r.DB.Photo().Find(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]*photoResolver, 0, len(found.Items))
	for _, p := range found.Items {
		items = append(items, r.photoOf(p))
	}
	return &photoPageResolver{items: items, pageInfo: pageInfoOf(found)}, nil
}

type photoPageResolver struct {
	items    []*photoResolver
	pageInfo *pageInfoResolver
}

func (p *photoPageResolver) Items() []*photoResolver     { return p.items }
func (p *photoPageResolver) PageInfo() *pageInfoResolver { return p.pageInfo }

type exifEntryResolver struct {
	name  string
	value string
}

func (e *exifEntryResolver) Name() string  { return e.name }
func (e *exifEntryResolver) Value() string { return e.value }

type cropResolver struct {
	crop domain.Crop
}

func (c *cropResolver) X() float64      { return c.crop.X }
func (c *cropResolver) Y() float64      { return c.crop.Y }
func (c *cropResolver) Width() float64  { return c.crop.Width }
func (c *cropResolver) Height() float64 { return c.crop.Height }

type imageResolver struct {
	size   string
	url    string
	width  int
	height int
	ready  bool
}

func (i *imageResolver) Size() string  { return i.size }
func (i *imageResolver) URL() string   { return i.url }
func (i *imageResolver) Width() int32  { return int32(i.width) }
func (i *imageResolver) Height() int32 { return int32(i.height) }
func (i *imageResolver) Ready() bool   { return i.ready }
