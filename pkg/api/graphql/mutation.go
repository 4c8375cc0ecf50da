package graphql

import (
	"context"
	"encoding/json"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/conn/events"
	"github.com/opst/photoshare/pkg/conn/mail"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	"github.com/opst/photoshare/pkg/facebook"
	"github.com/opst/photoshare/pkg/policy"
)

type signUpInput struct {
	Email    string `validate:"required,email,max=254"`
	Name     string `validate:"required,max=64"`
	Password string `validate:"required,min=8,max=72"`
}

func (r *Resolver) session(ctx context.Context, u domain.User) (*sessionResolver, error) {
	token, exp, err := r.Sessions.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	self := r.userOf(u)
	self.self = true
	return &sessionResolver{token: token, expiresAt: toTime(exp), user: self}, nil
}

func (r *Resolver) SignUp(ctx context.Context, args struct{ Input signUpInput }) (*sessionResolver, error) {
	if err := check(args.Input); err != nil {
		return nil, err
	}
	spec, err := domain.NewUserSpec{Email: args.Input.Email, Name: args.Input.Name}.Normalize()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(args.Input.Password)
	if err != nil {
		return nil, err
	}
	u, err := r.DB.User().Create(ctx, spec, hash)
	if err != nil {
		return nil, err
	}
	return r.session(ctx, u)
}

func (r *Resolver) SignIn(ctx context.Context, args struct {
	Email    string
	Password string
}) (*sessionResolver, error) {
	u, err := auth.Authenticate(ctx, r.DB.User(), args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	return r.session(ctx, u)
}

type photoInput struct {
	Title       *string
	Description *string
	Privacy     *string
}

func (r *Resolver) UpdatePhoto(ctx context.Context, args struct {
	Slug  string
	Input photoInput
}) (*photoResolver, error) {
	p, err := r.DB.Photo().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.UpdatePhoto(auth.Actor(ctx), &p.PhotoBody); err != nil {
		return nil, err
	}

	update := domain.PhotoUpdate{Title: args.Input.Title, Description: args.Input.Description}
	if args.Input.Privacy != nil {
		pr, err := domain.AsPhotoPrivacy(fromEnum(*args.Input.Privacy))
		if err != nil {
			return nil, err
		}
		update.Privacy = &pr
	}
	updated, err := r.DB.Photo().Update(ctx, p.ID, update)
	if err != nil {
		return nil, err
	}
	return r.photoOf(updated), nil
}

func (r *Resolver) DeletePhoto(ctx context.Context, args struct{ Slug string }) (*photoResolver, error) {
	actor := auth.Actor(ctx)
	p, err := r.DB.Photo().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.DestroyPhoto(actor, &p.PhotoBody); err != nil {
		return nil, err
	}
	deleted, err := r.DB.Photo().Delete(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, events.Event{
		Type:    events.PhotoDeleted,
		Subject: deleted.ID,
		Actor:   &actor.ID,
		Payload: map[string]any{"slug": deleted.Slug, "owner": deleted.OwnerID},
	})
	return r.photoOf(deleted), nil
}

type cropInput struct {
	X      float64 `validate:"gte=0,lte=1"`
	Y      float64 `validate:"gte=0,lte=1"`
	Width  float64 `validate:"gt=0,lte=1"`
	Height float64 `validate:"gt=0,lte=1"`
}

func (r *Resolver) SetPhotoCrop(ctx context.Context, args struct {
	Slug string
	Crop *cropInput
}) (*photoResolver, error) {
	p, err := r.DB.Photo().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.CropPhoto(auth.Actor(ctx), &p.PhotoBody); err != nil {
		return nil, err
	}

	var crop *domain.Crop
	if c := args.Crop; c != nil {
		if err := check(c); err != nil {
			return nil, err
		}
		crop = &domain.Crop{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
		if !crop.Valid() {
			return nil, fmt.Errorf("%w: crop should be inside of the photo", domerr.ErrInvalidArgument)
		}
	}
	updated, err := r.DB.Photo().SetCrop(ctx, p.ID, crop)
	if err != nil {
		return nil, err
	}
	return r.photoOf(updated), nil
}

func (r *Resolver) TagPhoto(ctx context.Context, args struct {
	Slug   string
	Add    *[]string
	Remove *[]string
}) (*photoResolver, error) {
	p, err := r.DB.Photo().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.TagPhoto(auth.Actor(ctx), &p.PhotoBody); err != nil {
		return nil, err
	}

	delta := domain.TagDelta{}
	if args.Add != nil {
		for _, name := range *args.Add {
			delta.Add = append(delta.Add, domain.Tagging{Tag: domain.Tag{Name: name}, Source: domain.TagByUser})
		}
	}
	if args.Remove != nil {
		delta.Remove = *args.Remove
	}
	delta, err = delta.Normalize()
	if err != nil {
		return nil, err
	}
	tags, err := r.DB.Tag().UpdateTags(ctx, p.ID, delta)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return r.photoOf(p), nil
}

type albumInput struct {
	Title       *string
	Description *string
	Privacy     *string
	CoverPhoto  *string
}

func (in albumInput) privacy() (*domain.Privacy, error) {
	if in.Privacy == nil {
		return nil, nil
	}
	p, err := domain.AsAlbumPrivacy(fromEnum(*in.Privacy))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Resolver) CreateAlbum(ctx context.Context, args struct{ Input albumInput }) (*albumResolver, error) {
	actor := auth.Actor(ctx)
	if err := policy.CreateAlbum(actor); err != nil {
		return nil, err
	}
	in := args.Input
	spec := domain.AlbumSpec{OwnerID: actor.ID}
	if in.Title != nil {
		spec.Title = *in.Title
	}
	if in.Description != nil {
		spec.Description = *in.Description
	}
	pr, err := in.privacy()
	if err != nil {
		return nil, err
	}
	if pr != nil {
		spec.Privacy = *pr
	}

	a, err := r.DB.Album().Create(ctx, spec)
	if err != nil {
		return nil, err
	}
	if in.CoverPhoto != nil {
		return r.updateAlbum(ctx, a, albumInput{CoverPhoto: in.CoverPhoto})
	}
	return r.albumOf(a), nil
}

func (r *Resolver) UpdateAlbum(ctx context.Context, args struct {
	Slug  string
	Input albumInput
}) (*albumResolver, error) {
	a, err := r.DB.Album().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.UpdateAlbum(auth.Actor(ctx), &a); err != nil {
		return nil, err
	}
	return r.updateAlbum(ctx, a, args.Input)
}

// updateAlbum applies the input. The cover photo should be in the album.
func (r *Resolver) updateAlbum(ctx context.Context, a domain.Album, in albumInput) (*albumResolver, error) {
	update := domain.AlbumUpdate{Title: in.Title, Description: in.Description}
	pr, err := in.privacy()
	if err != nil {
		return nil, err
	}
	update.Privacy = pr

	if in.CoverPhoto != nil {
		p, err := r.DB.Photo().GetBySlug(ctx, *in.CoverPhoto)
		if err != nil {
			return nil, err
		}
		ok, err := r.DB.Album().Contains(ctx, a.ID, p.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: cover photo %s is not in the album", domerr.ErrInvalidArgument, p.Slug)
		}
		update.CoverPhotoID = &p.ID
	}

	updated, err := r.DB.Album().Update(ctx, a.ID, update)
	if err != nil {
		return nil, err
	}
	return r.albumOf(updated), nil
}

func (r *Resolver) DeleteAlbum(ctx context.Context, args struct{ Slug string }) (*albumResolver, error) {
	a, err := r.DB.Album().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.DestroyAlbum(auth.Actor(ctx), &a); err != nil {
		return nil, err
	}
	deleted, err := r.DB.Album().Delete(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return r.albumOf(deleted), nil
}

// arrangeable finds the album the actor can arrange, and ids of photos by slugs.
func (r *Resolver) arrangeable(ctx context.Context, slug string, photoSlugs []string) (domain.Album, []int64, error) {
	a, err := r.DB.Album().GetBySlug(ctx, slug)
	if err != nil {
		return domain.Album{}, nil, err
	}
	if err := policy.ArrangeAlbum(auth.Actor(ctx), &a); err != nil {
		return domain.Album{}, nil, err
	}

	ids := make([]int64, 0, len(photoSlugs))
	for _, s := range photoSlugs {
		p, err := r.DB.Photo().GetBySlug(ctx, s)
		if err != nil {
			return domain.Album{}, nil, err
		}
		if err := policy.PutPhotoInAlbum(&a, &p.PhotoBody); err != nil {
			return domain.Album{}, nil, err
		}
		ids = append(ids, p.ID)
	}
	return a, ids, nil
}

type arrangeArgs struct {
	Slug   string
	Photos []string `validate:"max=500"`
}

func (r *Resolver) AddPhotosToAlbum(ctx context.Context, args arrangeArgs) (*albumResolver, error) {
	if err := check(args); err != nil {
		return nil, err
	}
	a, ids, err := r.arrangeable(ctx, args.Slug, args.Photos)
	if err != nil {
		return nil, err
	}
	updated, err := r.DB.Album().AddPhotos(ctx, a.ID, ids)
	if err != nil {
		return nil, err
	}
	return r.albumOf(updated), nil
}

func (r *Resolver) RemovePhotosFromAlbum(ctx context.Context, args arrangeArgs) (*albumResolver, error) {
	if err := check(args); err != nil {
		return nil, err
	}
	a, ids, err := r.arrangeable(ctx, args.Slug, args.Photos)
	if err != nil {
		return nil, err
	}
	updated, err := r.DB.Album().RemovePhotos(ctx, a.ID, ids)
	if err != nil {
		return nil, err
	}
	return r.albumOf(updated), nil
}

func (r *Resolver) ReorderAlbum(ctx context.Context, args arrangeArgs) (*albumResolver, error) {
	if err := check(args); err != nil {
		return nil, err
	}
	a, ids, err := r.arrangeable(ctx, args.Slug, args.Photos)
	if err != nil {
		return nil, err
	}
	updated, err := r.DB.Album().Reorder(ctx, a.ID, ids)
	if err != nil {
		return nil, err
	}
	return r.albumOf(updated), nil
}

// albumLink is the URL to open the album with the token.
func (r *Resolver) albumLink(a domain.Album, token string) string {
	u := r.PublicURL.JoinPath("albums", a.Slug)
	u.RawQuery = "token=" + token
	return u.String()
}

// ShareAlbum shares the album with e-mail addresses, and notifies them.
//
// Failures in sending mails are logged. Shares stay effective.
func (r *Resolver) ShareAlbum(ctx context.Context, args struct {
	Slug   string
	Emails []string `validate:"min=1,max=50"`
}) ([]*albumShareResolver, error) {
	actor := auth.Actor(ctx)
	if err := check(args); err != nil {
		return nil, err
	}
	a, err := r.DB.Album().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.ShareAlbum(actor, &a); err != nil {
		return nil, err
	}
	emails, err := domain.NormalizeEmails(args.Emails)
	if err != nil {
		return nil, err
	}

	shares := make([]domain.AlbumShare, 0, len(emails))
	messages := make([]mail.Message, 0, len(emails))
	for _, e := range emails {
		s, err := r.DB.Album().Share(ctx, a.ID, e)
		if err != nil {
			return nil, err
		}
		shares = append(shares, s)
		messages = append(messages, mail.Message{
			To:      s.Email,
			Subject: fmt.Sprintf("%s shared an album with you: %s", actor.Name, a.Title),
			Body: fmt.Sprintf(
				"%s shared the album \"%s\" with you.\n\nOpen it: %s\n",
				actor.Name, a.Title, r.albumLink(a, s.Token),
			),
		})
	}

	if err := r.Mail.Send(ctx, messages...); err != nil {
		r.Log.Warnf("graphql: sending share mails of album %s: %s", a.Slug, err)
	}
	r.publish(ctx, events.Event{
		Type:    events.AlbumShared,
		Subject: a.ID,
		Actor:   &actor.ID,
		Payload: map[string]any{"slug": a.Slug, "recipients": len(shares)},
	})
	return sharesOf(shares), nil
}

func (r *Resolver) RegenerateShareToken(ctx context.Context, args struct{ Slug string }) (*albumResolver, error) {
	a, err := r.DB.Album().GetBySlug(ctx, args.Slug)
	if err != nil {
		return nil, err
	}
	if err := policy.ShareAlbum(auth.Actor(ctx), &a); err != nil {
		return nil, err
	}
	updated, err := r.DB.Album().RegenerateShareToken(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return r.albumOf(updated), nil
}

func (r *Resolver) CreateComment(ctx context.Context, args struct {
	PhotoSlug string
	Body      string
}) (*commentResolver, error) {
	actor := auth.Actor(ctx)
	p, err := r.DB.Photo().GetBySlug(ctx, args.PhotoSlug)
	if err != nil {
		return nil, err
	}
	if err := policy.CommentOnPhoto(actor, &p.PhotoBody); err != nil {
		return nil, err
	}
	body, err := domain.NormalizeCommentBody(args.Body)
	if err != nil {
		return nil, err
	}
	c, err := r.DB.Comment().Create(ctx, p.ID, actor.ID, body)
	if err != nil {
		return nil, err
	}
	return &commentResolver{root: r, comment: c}, nil
}

func (r *Resolver) DeleteComment(ctx context.Context, args struct{ ID graphql.ID }) (*commentResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	c, err := r.DB.Comment().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := r.DB.Photo().Get(ctx, []int64{c.PhotoID})
	if err != nil {
		return nil, err
	}
	p, ok := photos[c.PhotoID]
	if !ok {
		return nil, fmt.Errorf("%w: photo of comment %d", domerr.ErrMissing, c.ID)
	}
	if err := policy.DestroyComment(auth.Actor(ctx), &c, &p.PhotoBody); err != nil {
		return nil, err
	}
	deleted, err := r.DB.Comment().Delete(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &commentResolver{root: r, comment: deleted}, nil
}

type claimArgs struct {
	NSID   string  `validate:"required,max=64"`
	Method string  `validate:"required"`
	Reason *string `validate:"omitempty,max=2000"`
}

func (r *Resolver) ClaimFlickrUser(ctx context.Context, args claimArgs) (*claimResolver, error) {
	actor := auth.Actor(ctx)
	if err := policy.CreateClaim(actor); err != nil {
		return nil, err
	}
	if err := check(args); err != nil {
		return nil, err
	}
	method, err := domain.AsClaimMethod(fromEnum(args.Method))
	if err != nil {
		return nil, err
	}
	reason := ""
	if args.Reason != nil {
		reason = *args.Reason
	}
	c, err := r.DB.Flickr().CreateClaim(ctx, actor.ID, args.NSID, method, reason)
	if err != nil {
		return nil, err
	}
	return r.claimOf(c), nil
}

func (r *Resolver) DecideFlickrUserClaim(ctx context.Context, args struct {
	ID      graphql.ID
	Approve bool
	Reason  *string
}) (*claimResolver, error) {
	actor := auth.Actor(ctx)
	if err := policy.DecideClaim(actor); err != nil {
		return nil, err
	}
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	decision := domain.ClaimDecision{Status: domain.ClaimDenied}
	if args.Approve {
		decision.Status = domain.ClaimApproved
	}
	if args.Reason != nil {
		decision.Reason = *args.Reason
	}
	c, err := r.DB.Flickr().Decide(ctx, id, decision)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, events.Event{
		Type:    events.ClaimDecided,
		Subject: c.ID,
		Actor:   &actor.ID,
		Payload: map[string]any{"nsid": c.NSID, "status": string(c.Status), "claimant": c.UserID},
	})
	return r.claimOf(c), nil
}

// LinkFacebook links the signed-in user with the Facebook user
// who signed the request.
func (r *Resolver) LinkFacebook(ctx context.Context, args struct{ SignedRequest string }) (*userResolver, error) {
	actor := auth.Actor(ctx)
	if err := policy.SignedIn(actor, "link a Facebook account"); err != nil {
		return nil, err
	}
	if r.FacebookAppSecret == "" {
		return nil, fmt.Errorf("%w: Facebook is not configured", domerr.ErrInvalidArgument)
	}
	req, err := facebook.Parse(args.SignedRequest, r.FacebookAppSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domerr.ErrInvalidArgument, err)
	}
	if err := r.DB.User().LinkFacebook(ctx, actor.ID, req.UserID); err != nil {
		return nil, err
	}
	u := *actor
	u.FacebookID = &req.UserID
	self := r.userOf(u)
	self.self = true
	return self, nil
}

func (r *Resolver) UpdateSetting(ctx context.Context, args struct {
	Key   string
	Value string
}) (*settingResolver, error) {
	if err := policy.WriteSetting(auth.Actor(ctx)); err != nil {
		return nil, err
	}
	if !json.Valid([]byte(args.Value)) {
		return nil, fmt.Errorf("%w: value should be JSON", domerr.ErrInvalidArgument)
	}
	s, err := r.DB.Setting().Set(ctx, args.Key, json.RawMessage(args.Value))
	if err != nil {
		return nil, err
	}
	return &settingResolver{setting: s}, nil
}

func (r *Resolver) PromoteUser(ctx context.Context, args struct {
	ID   graphql.ID
	Role string
}) (*userResolver, error) {
	if err := policy.PromoteUser(auth.Actor(ctx)); err != nil {
		return nil, err
	}
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	role, err := domain.AsRole(fromEnum(args.Role))
	if err != nil {
		return nil, err
	}
	u, err := r.DB.User().SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	return r.userOf(u), nil
}
