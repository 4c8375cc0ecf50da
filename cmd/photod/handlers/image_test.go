package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/opst/photoshare/internal/testutils/http"
	storagemock "github.com/opst/photoshare/pkg/conn/storage/mock"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	dbmock "github.com/opst/photoshare/pkg/domain/photoshare/db/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opst/photoshare/cmd/photod/handlers"
)

func TestImageHandler(t *testing.T) {
	photo := func(privacy domain.Privacy) domain.Photo {
		return domain.Photo{
			PhotoBody: domain.PhotoBody{ID: 10, Slug: "sunset", OwnerID: owner.ID, Privacy: privacy},
			ObjectKey: "originals/x.jpg", Width: 4000, Height: 3000,
			Derivatives: map[string]domain.DerivativeRef{
				domain.SizeThumb: {ObjectKey: "derivatives/10/thumb.jpg", Width: 256, Height: 192},
			},
		}
	}
	type When struct {
		photo domain.Photo
		actor *domain.User
		size  string
		token string
	}
	type Then struct {
		status   int
		location string
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			db := dbmock.New()
			db.Photos.Impl.GetBySlug = func(ctx context.Context, slug string) (domain.Photo, error) {
				if slug != when.photo.Slug {
					return domain.Photo{}, domerr.ErrMissing
				}
				return when.photo, nil
			}

			target := "/photos/sunset/image/" + when.size
			if when.token != "" {
				target += "?token=" + when.token
			}
			c, rec := httptestutil.Get(echo.New(), target, as(when.actor))
			c.SetParamNames("slug", "size")
			c.SetParamValues("sunset", when.size)

			err := handlers.ImageHandler(
				db, storagemock.New(), []string{domain.SizeThumb, domain.SizeMedium}, "slug", "size",
			)(c)

			if then.status != http.StatusFound {
				assert.Equal(t, then.status, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, then.location, rec.Header().Get("Location"))
		}
	}

	t.Run("a ready derivative is redirected to", theory(
		When{photo: photo(domain.Public), size: domain.SizeThumb},
		Then{status: http.StatusFound, location: "https://storage.example.com/derivatives/10/thumb.jpg"},
	))
	t.Run("a derivative not ready yet falls back to the original", theory(
		When{photo: photo(domain.Public), size: domain.SizeMedium},
		Then{status: http.StatusFound, location: "https://storage.example.com/originals/x.jpg"},
	))
	t.Run("the original is redirected to", theory(
		When{photo: photo(domain.Public), size: domain.SizeOriginal},
		Then{status: http.StatusFound, location: "https://storage.example.com/originals/x.jpg"},
	))
	t.Run("unknown sizes are not found", theory(
		When{photo: photo(domain.Public), size: "huge"},
		Then{status: http.StatusNotFound},
	))
	t.Run("private photos are not found for others", theory(
		When{photo: photo(domain.Private), actor: &other, size: domain.SizeThumb},
		Then{status: http.StatusNotFound},
	))
	t.Run("private photos are shown to the owner", theory(
		When{photo: photo(domain.Private), actor: &owner, size: domain.SizeThumb},
		Then{status: http.StatusFound, location: "https://storage.example.com/derivatives/10/thumb.jpg"},
	))
	t.Run("share tokens do not reveal private photos", theory(
		When{photo: photo(domain.Private), size: domain.SizeThumb, token: "0123456789abcdef0123456789abcdef"},
		Then{status: http.StatusNotFound},
	))
	t.Run("share tokens do not hide public photos", theory(
		When{photo: photo(domain.Public), size: domain.SizeThumb, token: "0123456789abcdef0123456789abcdef"},
		Then{status: http.StatusFound, location: "https://storage.example.com/derivatives/10/thumb.jpg"},
	))
}
