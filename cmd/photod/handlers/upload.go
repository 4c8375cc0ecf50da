package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apierr "github.com/opst/photoshare/pkg/api/types/errors"
	apiphotos "github.com/opst/photoshare/pkg/api/types/photos"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/conn/events"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/domain"
	kdb "github.com/opst/photoshare/pkg/domain/photoshare/db"
	"github.com/opst/photoshare/pkg/imaging"
	"github.com/opst/photoshare/pkg/policy"
)

// MaxUploadSize is the limit of uploaded files, in bytes.
const MaxUploadSize int64 = 25 << 20

// room for form fields and multipart boundaries.
const formOverhead int64 = 1 << 20

// sniffed content types accepted as photos.
var acceptable = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

var validate = validator.New()

type uploadForm struct {
	Title       string `validate:"max=200"`
	Description string `validate:"max=10000"`
	Privacy     string `validate:"omitempty,oneof=public private"`
}

// UploadHandler accepts a photo as multipart form.
//
// Fields are "file" (required), "title", "description" and "privacy".
func UploadHandler(dbase kdb.Database, store storage.Storage, pub events.Publisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		actor := auth.Actor(ctx)
		if err := policy.UploadPhoto(actor); err != nil {
			return apierr.FromDomain(err)
		}

		enabled := true
		if err := settingOf(ctx, dbase.Setting(), domain.SettingUploadsEnabled, &enabled); err != nil {
			c.Logger().Warnf("upload: reading %s: %s", domain.SettingUploadsEnabled, err)
		}
		if !enabled {
			return apierr.ServiceUnavailable("uploads are disabled by the administrator.", nil)
		}

		req := c.Request()
		req.Body = http.MaxBytesReader(c.Response(), req.Body, MaxUploadSize+formOverhead)

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return apierr.PayloadTooLarge(MaxUploadSize)
			}
			return apierr.BadRequest(`"file" is required as multipart/form-data.`, err)
		}
		if MaxUploadSize < fh.Size {
			return apierr.PayloadTooLarge(MaxUploadSize)
		}

		form := uploadForm{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Privacy:     c.FormValue("privacy"),
		}
		if err := validate.Struct(form); err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		content, err := readFile(fh)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		ctyp := http.DetectContentType(content)
		ext, ok := acceptable[ctyp]
		if !ok {
			return apierr.UnsupportedMediaType("upload jpeg, png, gif or webp image.")
		}
		info, err := imaging.Probe(bytes.NewReader(content))
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return apierr.UnsupportedMediaType("upload jpeg, png, gif or webp image.")
		} else if err != nil {
			return apierr.BadRequest("the image is broken.", err)
		}
		exif, takenAt := imaging.ReadExif(bytes.NewReader(content))

		key := fmt.Sprintf("originals/%s.%s", uuid.NewString(), ext)
		if err := store.Put(ctx, key, bytes.NewReader(content), int64(len(content)), ctyp); err != nil {
			return apierr.InternalServerError(err)
		}

		spec, err := domain.PhotoSpec{
			OwnerID:          actor.ID,
			Title:            form.Title,
			Description:      form.Description,
			Privacy:          domain.Privacy(form.Privacy),
			ObjectKey:        key,
			OriginalFilename: fh.Filename,
			ContentType:      info.ContentType,
			Width:            info.Width,
			Height:           info.Height,
			TakenAt:          takenAt,
			Exif:             exif,
		}.Normalize()
		if err != nil {
			discard(ctx, c, store, key)
			return apierr.FromDomain(err)
		}

		photo, err := dbase.Photo().Create(ctx, spec)
		if err != nil {
			discard(ctx, c, store, key)
			return apierr.FromDomain(err)
		}

		if err := pub.Publish(ctx, events.Event{
			Type:       events.PhotoCreated,
			Subject:    photo.ID,
			Actor:      &actor.ID,
			Payload:    map[string]any{"slug": photo.Slug, "owner": photo.OwnerID},
			OccurredAt: time.Now(),
		}); err != nil {
			c.Logger().Warnf("upload: publishing %s of %d: %s", events.PhotoCreated, photo.ID, err)
		}

		return c.JSON(http.StatusCreated, apiphotos.ComposeDetail(photo))
	}
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// discard removes the object of a photo which could not be registered.
func discard(ctx context.Context, c echo.Context, store storage.Storage, key string) {
	if err := store.Delete(ctx, key); err != nil {
		c.Logger().Errorf("upload: %s is left in storage: %s", key, err)
	}
}
