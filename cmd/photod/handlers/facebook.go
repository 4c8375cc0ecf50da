package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	apideletion "github.com/opst/photoshare/pkg/api/types/deletion"
	apierr "github.com/opst/photoshare/pkg/api/types/errors"
	kdeletion "github.com/opst/photoshare/pkg/domain/deletion/db"
	"github.com/opst/photoshare/pkg/facebook"
)

// DataDeletionHandler handles Facebook data deletion callbacks.
//
// The form field "signed_request" is verified with the app secret.
// The account linked with the Facebook user is deleted.
//
// # Args
//
// - statusURL: base of URLs where users check the status. The confirmation code is appended.
func DataDeletionHandler(deletions kdeletion.DeletionInterface, appSecret string, statusURL *url.URL) echo.HandlerFunc {
	return func(c echo.Context) error {
		signed := c.FormValue("signed_request")
		if signed == "" {
			return apierr.BadRequest(`"signed_request" is required.`, nil)
		}
		req, err := facebook.Parse(signed, appSecret)
		if err != nil {
			return apierr.BadRequest("signed_request is not valid.", err)
		}

		code, err := facebook.NewConfirmationCode()
		if err != nil {
			return apierr.InternalServerError(err)
		}
		r, err := deletions.Request(c.Request().Context(), req.UserID, code)
		if err != nil {
			return apierr.FromDomain(err)
		}
		c.Logger().Infof(
			"facebook: data deletion for %s is %s (code: %s)",
			r.FacebookUserID, r.Status, r.ConfirmationCode,
		)

		return c.JSON(http.StatusOK, apideletion.Accepted{
			URL:              statusURL.JoinPath(r.ConfirmationCode).String(),
			ConfirmationCode: r.ConfirmationCode,
		})
	}
}

// DataDeletionStatusHandler reports a data deletion request by its confirmation code.
func DataDeletionStatusHandler(deletions kdeletion.DeletionInterface, codeParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		r, err := deletions.Get(c.Request().Context(), c.Param(codeParam))
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apideletion.ComposeStatus(r))
	}
}
