package db

import (
	"context"
	"time"

	"github.com/opst/photoshare/pkg/domain"
)

type PhotoInterface interface {
	// Create registers a new photo.
	//
	// Its slug is allocated from the title. Jobs generating derivatives
	// and labeling are queued in the same transaction.
	Create(ctx context.Context, spec domain.PhotoSpec) (domain.Photo, error)

	// Get returns photos with tags. Missing ids are ignored.
	Get(ctx context.Context, ids []int64) (map[int64]domain.Photo, error)

	GetBySlug(ctx context.Context, slug string) (domain.Photo, error)

	// Find returns photos matching the query, newest first.
	//
	// When query.AlbumID is set, photos are ordered by their position in the album.
	Find(ctx context.Context, query domain.PhotoQuery) (domain.Paginated[domain.Photo], error)

	Update(ctx context.Context, id int64, update domain.PhotoUpdate) (domain.Photo, error)

	// SetCrop sets (or clears, when crop is nil) the crop and
	// queues regeneration of derivatives.
	SetCrop(ctx context.Context, id int64, crop *domain.Crop) (domain.Photo, error)

	// SetDerivatives records derivatives.
	//
	// Objects of replaced derivatives are registered as garbage.
	SetDerivatives(ctx context.Context, id int64, derivatives map[string]domain.DerivativeRef) error

	MarkAutoTagged(ctx context.Context, id int64, at time.Time) error

	// Delete deletes the photo, and registers its objects as garbage.
	//
	// # Returns
	//
	// - domain.Photo: deleted photo
	//
	// - error
	Delete(ctx context.Context, id int64) (domain.Photo, error)
}
