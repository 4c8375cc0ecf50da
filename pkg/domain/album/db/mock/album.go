package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	kalbum "github.com/opst/photoshare/pkg/domain/album/db"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
)

type AlbumInterface struct {
	Impl struct {
		Create               func(context.Context, domain.AlbumSpec) (domain.Album, error)
		Get                  func(context.Context, int64) (domain.Album, error)
		GetBySlug            func(context.Context, string) (domain.Album, error)
		GetByShareToken      func(context.Context, string) (domain.Album, error)
		Find                 func(context.Context, domain.AlbumQuery) (domain.Paginated[domain.Album], error)
		Update               func(context.Context, int64, domain.AlbumUpdate) (domain.Album, error)
		Delete               func(context.Context, int64) (domain.Album, error)
		AddPhotos            func(context.Context, int64, []int64) (domain.Album, error)
		RemovePhotos         func(context.Context, int64, []int64) (domain.Album, error)
		Reorder              func(context.Context, int64, []int64) (domain.Album, error)
		Photos               func(context.Context, int64, domain.Page) (domain.Paginated[domain.AlbumPhoto], error)
		Contains             func(context.Context, int64, int64) (bool, error)
		Share                func(context.Context, int64, string) (domain.AlbumShare, error)
		Shares               func(context.Context, int64) ([]domain.AlbumShare, error)
		RegenerateShareToken func(context.Context, int64) (domain.Album, error)
	}
	Calls struct {
		Create          dbmock.CallLog[domain.AlbumSpec]
		Get             dbmock.CallLog[int64]
		GetBySlug       dbmock.CallLog[string]
		GetByShareToken dbmock.CallLog[string]
		Find            dbmock.CallLog[domain.AlbumQuery]
		Update          dbmock.CallLog[struct {
			ID     int64
			Update domain.AlbumUpdate
		}]
		Delete    dbmock.CallLog[int64]
		AddPhotos dbmock.CallLog[struct {
			AlbumID  int64
			PhotoIDs []int64
		}]
		RemovePhotos dbmock.CallLog[struct {
			AlbumID  int64
			PhotoIDs []int64
		}]
		Reorder dbmock.CallLog[struct {
			AlbumID  int64
			PhotoIDs []int64
		}]
		Photos dbmock.CallLog[struct {
			AlbumID int64
			Page    domain.Page
		}]
		Contains dbmock.CallLog[struct {
			AlbumID int64
			PhotoID int64
		}]
		Share dbmock.CallLog[struct {
			AlbumID int64
			Email   string
		}]
		Shares               dbmock.CallLog[int64]
		RegenerateShareToken dbmock.CallLog[int64]
	}
}

var _ kalbum.AlbumInterface = &AlbumInterface{}

func New() *AlbumInterface {
	return &AlbumInterface{}
}

func (m *AlbumInterface) Create(ctx context.Context, spec domain.AlbumSpec) (domain.Album, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Get(ctx context.Context, id int64) (domain.Album, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) GetBySlug(ctx context.Context, slug string) (domain.Album, error) {
	m.Calls.GetBySlug = append(m.Calls.GetBySlug, slug)
	if m.Impl.GetBySlug != nil {
		return m.Impl.GetBySlug(ctx, slug)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) GetByShareToken(ctx context.Context, token string) (domain.Album, error) {
	m.Calls.GetByShareToken = append(m.Calls.GetByShareToken, token)
	if m.Impl.GetByShareToken != nil {
		return m.Impl.GetByShareToken(ctx, token)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Find(ctx context.Context, query domain.AlbumQuery) (domain.Paginated[domain.Album], error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Update(ctx context.Context, id int64, update domain.AlbumUpdate) (domain.Album, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		ID     int64
		Update domain.AlbumUpdate
	}{ID: id, Update: update})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, update)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Delete(ctx context.Context, id int64) (domain.Album, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) AddPhotos(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error) {
	m.Calls.AddPhotos = append(m.Calls.AddPhotos, struct {
		AlbumID  int64
		PhotoIDs []int64
	}{AlbumID: albumID, PhotoIDs: photoIDs})
	if m.Impl.AddPhotos != nil {
		return m.Impl.AddPhotos(ctx, albumID, photoIDs)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) RemovePhotos(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error) {
	m.Calls.RemovePhotos = append(m.Calls.RemovePhotos, struct {
		AlbumID  int64
		PhotoIDs []int64
	}{AlbumID: albumID, PhotoIDs: photoIDs})
	if m.Impl.RemovePhotos != nil {
		return m.Impl.RemovePhotos(ctx, albumID, photoIDs)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Reorder(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error) {
	m.Calls.Reorder = append(m.Calls.Reorder, struct {
		AlbumID  int64
		PhotoIDs []int64
	}{AlbumID: albumID, PhotoIDs: photoIDs})
	if m.Impl.Reorder != nil {
		return m.Impl.Reorder(ctx, albumID, photoIDs)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Photos(ctx context.Context, albumID int64, page domain.Page) (domain.Paginated[domain.AlbumPhoto], error) {
	m.Calls.Photos = append(m.Calls.Photos, struct {
		AlbumID int64
		Page    domain.Page
	}{AlbumID: albumID, Page: page})
	if m.Impl.Photos != nil {
		return m.Impl.Photos(ctx, albumID, page)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Contains(ctx context.Context, albumID int64, photoID int64) (bool, error) {
	m.Calls.Contains = append(m.Calls.Contains, struct {
		AlbumID int64
		PhotoID int64
	}{AlbumID: albumID, PhotoID: photoID})
	if m.Impl.Contains != nil {
		return m.Impl.Contains(ctx, albumID, photoID)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Share(ctx context.Context, albumID int64, email string) (domain.AlbumShare, error) {
	m.Calls.Share = append(m.Calls.Share, struct {
		AlbumID int64
		Email   string
	}{AlbumID: albumID, Email: email})
	if m.Impl.Share != nil {
		return m.Impl.Share(ctx, albumID, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) Shares(ctx context.Context, albumID int64) ([]domain.AlbumShare, error) {
	m.Calls.Shares = append(m.Calls.Shares, albumID)
	if m.Impl.Shares != nil {
		return m.Impl.Shares(ctx, albumID)
	}
	panic(errors.New("it should not be called"))
}

func (m *AlbumInterface) RegenerateShareToken(ctx context.Context, albumID int64) (domain.Album, error) {
	m.Calls.RegenerateShareToken = append(m.Calls.RegenerateShareToken, albumID)
	if m.Impl.RegenerateShareToken != nil {
		return m.Impl.RegenerateShareToken(ctx, albumID)
	}
	panic(errors.New("it should not be called"))
}

