package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	kcomment "github.com/opst/photoshare/pkg/domain/comment/db"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
)

type CommentInterface struct {
	Impl struct {
		Create   func(context.Context, int64, int64, string) (domain.Comment, error)
		Get      func(context.Context, int64) (domain.Comment, error)
		Delete   func(context.Context, int64) (domain.Comment, error)
		ForPhoto func(context.Context, int64, domain.Page) (domain.Paginated[domain.Comment], error)
	}
	Calls struct {
		Create dbmock.CallLog[struct {
			PhotoID  int64
			AuthorID int64
			Body     string
		}]
		Get      dbmock.CallLog[int64]
		Delete   dbmock.CallLog[int64]
		ForPhoto dbmock.CallLog[struct {
			PhotoID int64
			Page    domain.Page
		}]
	}
}

var _ kcomment.CommentInterface = &CommentInterface{}

func New() *CommentInterface {
	return &CommentInterface{}
}

func (m *CommentInterface) Create(ctx context.Context, photoID int64, authorID int64, body string) (domain.Comment, error) {
	m.Calls.Create = append(m.Calls.Create, struct {
		PhotoID  int64
		AuthorID int64
		Body     string
	}{PhotoID: photoID, AuthorID: authorID, Body: body})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, photoID, authorID, body)
	}
	panic(errors.New("it should not be called"))
}

func (m *CommentInterface) Get(ctx context.Context, id int64) (domain.Comment, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *CommentInterface) Delete(ctx context.Context, id int64) (domain.Comment, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *CommentInterface) ForPhoto(ctx context.Context, photoID int64, page domain.Page) (domain.Paginated[domain.Comment], error) {
	m.Calls.ForPhoto = append(m.Calls.ForPhoto, struct {
		PhotoID int64
		Page    domain.Page
	}{PhotoID: photoID, Page: page})
	if m.Impl.ForPhoto != nil {
		return m.Impl.ForPhoto(ctx, photoID, page)
	}
	panic(errors.New("it should not be called"))
}

