package mock

import (
	"context"
	"errors"
	"time"

	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
)

type PhotoInterface struct {
	Impl struct {
		Create         func(context.Context, domain.PhotoSpec) (domain.Photo, error)
		Get            func(context.Context, []int64) (map[int64]domain.Photo, error)
		GetBySlug      func(context.Context, string) (domain.Photo, error)
		Find           func(context.Context, domain.PhotoQuery) (domain.Paginated[domain.Photo], error)
		Update         func(context.Context, int64, domain.PhotoUpdate) (domain.Photo, error)
		SetCrop        func(context.Context, int64, *domain.Crop) (domain.Photo, error)
		SetDerivatives func(context.Context, int64, map[string]domain.DerivativeRef) error
		MarkAutoTagged func(context.Context, int64, time.Time) error
		Delete         func(context.Context, int64) (domain.Photo, error)
	}
	Calls struct {
		Create    dbmock.CallLog[domain.PhotoSpec]
		Get       dbmock.CallLog[[]int64]
		GetBySlug dbmock.CallLog[string]
		Find      dbmock.CallLog[domain.PhotoQuery]
		Update    dbmock.CallLog[struct {
			ID     int64
			Update domain.PhotoUpdate
		}]
		SetCrop dbmock.CallLog[struct {
			ID   int64
			Crop *domain.Crop
		}]
		SetDerivatives dbmock.CallLog[struct {
			ID          int64
			Derivatives map[string]domain.DerivativeRef
		}]
		MarkAutoTagged dbmock.CallLog[int64]
		Delete         dbmock.CallLog[int64]
	}
}

var _ kphoto.PhotoInterface = &PhotoInterface{}

func New() *PhotoInterface {
	return &PhotoInterface{}
}

func (m *PhotoInterface) Create(ctx context.Context, spec domain.PhotoSpec) (domain.Photo, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) Get(ctx context.Context, ids []int64) (map[int64]domain.Photo, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) GetBySlug(ctx context.Context, slug string) (domain.Photo, error) {
	m.Calls.GetBySlug = append(m.Calls.GetBySlug, slug)
	if m.Impl.GetBySlug != nil {
		return m.Impl.GetBySlug(ctx, slug)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) Find(ctx context.Context, query domain.PhotoQuery) (domain.Paginated[domain.Photo], error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) Update(ctx context.Context, id int64, update domain.PhotoUpdate) (domain.Photo, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		ID     int64
		Update domain.PhotoUpdate
	}{ID: id, Update: update})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, update)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) SetCrop(ctx context.Context, id int64, crop *domain.Crop) (domain.Photo, error) {
	m.Calls.SetCrop = append(m.Calls.SetCrop, struct {
		ID   int64
		Crop *domain.Crop
	}{ID: id, Crop: crop})
	if m.Impl.SetCrop != nil {
		return m.Impl.SetCrop(ctx, id, crop)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) SetDerivatives(ctx context.Context, id int64, derivatives map[string]domain.DerivativeRef) error {
	m.Calls.SetDerivatives = append(m.Calls.SetDerivatives, struct {
		ID          int64
		Derivatives map[string]domain.DerivativeRef
	}{ID: id, Derivatives: derivatives})
	if m.Impl.SetDerivatives != nil {
		return m.Impl.SetDerivatives(ctx, id, derivatives)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) MarkAutoTagged(ctx context.Context, id int64, at time.Time) error {
	m.Calls.MarkAutoTagged = append(m.Calls.MarkAutoTagged, id)
	if m.Impl.MarkAutoTagged != nil {
		return m.Impl.MarkAutoTagged(ctx, id, at)
	}
	panic(errors.New("it should not be called"))
}

func (m *PhotoInterface) Delete(ctx context.Context, id int64) (domain.Photo, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
