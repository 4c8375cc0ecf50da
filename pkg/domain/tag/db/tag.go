package db

import (
	"context"

	"github.com/opst/photoshare/pkg/domain"
)

type TagInterface interface {
	// UpdateTags changes tags on the photo.
	//
	// Tags in delta.Remove are removed, then tags in delta.Add are added.
	// When a tag is already on the photo, its source is kept,
	// unless the new source is domain.TagByUser.
	//
	// # Returns
	//
	// - []domain.Tagging: tags on the photo after the change.
	//
	// - error
	UpdateTags(ctx context.Context, photoID int64, delta domain.TagDelta) ([]domain.Tagging, error)

	// ForPhotos returns tags on each photo, ordered by name.
	ForPhotos(ctx context.Context, photoIDs []int64) (map[int64][]domain.Tagging, error)

	// Find returns tags on public photos starting with prefix, most used first.
	Find(ctx context.Context, prefix string, limit int) ([]domain.TagCount, error)

	// Popular returns tags most used in public photos.
	Popular(ctx context.Context, limit int) ([]domain.TagCount, error)

	// Related returns precomputed tags related from tag, by confidence.
	Related(ctx context.Context, tag string, limit int) ([]domain.RelatedTag, error)

	// RecomputeRelated replaces all related tags with fresh statistics.
	//
	// Pairs co-occurring less than minCoOccurrence times are not recorded.
	// Readers see either the previous or the new full set.
	//
	// # Returns
	//
	// - int: number of recorded pairs.
	//
	// - error
	RecomputeRelated(ctx context.Context, minCoOccurrence int) (int, error)
}
