package db

import (
	"context"

	"github.com/opst/photoshare/pkg/domain"
)

type AlbumInterface interface {
	// Create creates an album with a new share token. Its slug is allocated from the title.
	Create(ctx context.Context, spec domain.AlbumSpec) (domain.Album, error)

	Get(ctx context.Context, id int64) (domain.Album, error)

	GetBySlug(ctx context.Context, slug string) (domain.Album, error)

	// GetByShareToken returns the album opened by the token.
	//
	// The token is either the share token of an unlisted album,
	// or a token issued to an e-mail address by Share.
	GetByShareToken(ctx context.Context, token string) (domain.Album, error)

	// Find returns albums in the scope, newest first.
	Find(ctx context.Context, query domain.AlbumQuery) (domain.Paginated[domain.Album], error)

	Update(ctx context.Context, id int64, update domain.AlbumUpdate) (domain.Album, error)

	Delete(ctx context.Context, id int64) (domain.Album, error)

	// AddPhotos appends photos to the end of the album.
	//
	// Photos already in the album are skipped.
	AddPhotos(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error)

	// RemovePhotos removes photos from the album. Positions are compacted.
	RemovePhotos(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error)

	// Reorder places photos in the order of photoIDs.
	//
	// photoIDs should be a permutation of photos in the album.
	// Otherwise, it returns ErrInvalidArgument.
	Reorder(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error)

	// Photos returns placements of photos in the album, by position.
	Photos(ctx context.Context, albumID int64, page domain.Page) (domain.Paginated[domain.AlbumPhoto], error)

	// Contains tells the photo is in the album.
	Contains(ctx context.Context, albumID int64, photoID int64) (bool, error)

	// Share issues a token for the e-mail address.
	//
	// When the address has been shared already, the issued one is returned.
	Share(ctx context.Context, albumID int64, email string) (domain.AlbumShare, error)

	Shares(ctx context.Context, albumID int64) ([]domain.AlbumShare, error)

	// RegenerateShareToken replaces the share token of the album and
	// tokens issued to e-mail addresses. Previous tokens stop working.
	RegenerateShareToken(ctx context.Context, albumID int64) (domain.Album, error)
}
