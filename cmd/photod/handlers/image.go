package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/photoshare/pkg/api/types/errors"
	"github.com/opst/photoshare/pkg/auth"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/domain"
	kdb "github.com/opst/photoshare/pkg/domain/photoshare/db"
	"github.com/opst/photoshare/pkg/policy"
)

// ImageHandler redirects to the storage URL of the photo image in the size.
//
// When the derivative is not ready, it redirects to the original.
//
// # Args
//
// - sizes: known derivative names. "original" is always known.
//
// - slugParam, sizeParam: path parameter names
func ImageHandler(dbase kdb.Database, store storage.Storage, sizes []string, slugParam, sizeParam string) echo.HandlerFunc {
	known := map[string]struct{}{domain.SizeOriginal: {}}
	for _, s := range sizes {
		known[s] = struct{}{}
	}

	return func(c echo.Context) error {
		ctx := c.Request().Context()
		size := c.Param(sizeParam)
		if _, ok := known[size]; !ok {
			return apierr.NotFound()
		}

		p, err := dbase.Photo().GetBySlug(ctx, c.Param(slugParam))
		if err != nil {
			return apierr.FromDomain(err)
		}
		if err := policy.ShowPhoto(auth.Actor(ctx), &p.PhotoBody); err != nil {
			return apierr.FromDomain(err)
		}

		ref, _ := p.Derivative(size)
		u, err := store.URL(ctx, ref.ObjectKey)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if p.Privacy == domain.Public {
			c.Response().Header().Set("Cache-Control", "public, max-age=300")
		} else {
			c.Response().Header().Set("Cache-Control", "private, no-store")
		}
		return c.Redirect(http.StatusFound, u)
	}
}
