package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
)

type TagInterface struct {
	Impl struct {
		UpdateTags       func(context.Context, int64, domain.TagDelta) ([]domain.Tagging, error)
		ForPhotos        func(context.Context, []int64) (map[int64][]domain.Tagging, error)
		Find             func(context.Context, string, int) ([]domain.TagCount, error)
		Popular          func(context.Context, int) ([]domain.TagCount, error)
		Related          func(context.Context, string, int) ([]domain.RelatedTag, error)
		RecomputeRelated func(context.Context, int) (int, error)
	}
	Calls struct {
		UpdateTags dbmock.CallLog[struct {
			PhotoID int64
			Delta   domain.TagDelta
		}]
		ForPhotos        dbmock.CallLog[[]int64]
		Find             dbmock.CallLog[string]
		Popular          dbmock.CallLog[int]
		Related          dbmock.CallLog[string]
		RecomputeRelated dbmock.CallLog[int]
	}
}

var _ ktag.TagInterface = &TagInterface{}

func New() *TagInterface {
	return &TagInterface{}
}

func (m *TagInterface) UpdateTags(ctx context.Context, photoID int64, delta domain.TagDelta) ([]domain.Tagging, error) {
	m.Calls.UpdateTags = append(m.Calls.UpdateTags, struct {
		PhotoID int64
		Delta   domain.TagDelta
	}{PhotoID: photoID, Delta: delta})
	if m.Impl.UpdateTags != nil {
		return m.Impl.UpdateTags(ctx, photoID, delta)
	}
	panic(errors.New("it should not be called"))
}

func (m *TagInterface) ForPhotos(ctx context.Context, photoIDs []int64) (map[int64][]domain.Tagging, error) {
	m.Calls.ForPhotos = append(m.Calls.ForPhotos, photoIDs)
	if m.Impl.ForPhotos != nil {
		return m.Impl.ForPhotos(ctx, photoIDs)
	}
	panic(errors.New("it should not be called"))
}

func (m *TagInterface) Find(ctx context.Context, prefix string, limit int) ([]domain.TagCount, error) {
	m.Calls.Find = append(m.Calls.Find, prefix)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, prefix, limit)
	}
	panic(errors.New("it should not be called"))
}

func (m *TagInterface) Popular(ctx context.Context, limit int) ([]domain.TagCount, error) {
	m.Calls.Popular = append(m.Calls.Popular, limit)
	if m.Impl.Popular != nil {
		return m.Impl.Popular(ctx, limit)
	}
	panic(errors.New("it should not be called"))
}

func (m *TagInterface) Related(ctx context.Context, tag string, limit int) ([]domain.RelatedTag, error) {
	m.Calls.Related = append(m.Calls.Related, tag)
	if m.Impl.Related != nil {
		return m.Impl.Related(ctx, tag, limit)
	}
	panic(errors.New("it should not be called"))
}

func (m *TagInterface) RecomputeRelated(ctx context.Context, minCoOccurrence int) (int, error) {
	m.Calls.RecomputeRelated = append(m.Calls.RecomputeRelated, minCoOccurrence)
	if m.Impl.RecomputeRelated != nil {
		return m.Impl.RecomputeRelated(ctx, minCoOccurrence)
	}
	panic(errors.New("it should not be called"))
}
