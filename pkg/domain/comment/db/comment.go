package db

import (
	"context"

	"github.com/opst/photoshare/pkg/domain"
)

type CommentInterface interface {
	Create(ctx context.Context, photoID int64, authorID int64, body string) (domain.Comment, error)

	Get(ctx context.Context, id int64) (domain.Comment, error)

	Delete(ctx context.Context, id int64) (domain.Comment, error)

	// ForPhoto returns comments on the photo, oldest first.
	ForPhoto(ctx context.Context, photoID int64, page domain.Page) (domain.Paginated[domain.Comment], error)
}
