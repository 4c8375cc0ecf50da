package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/photoshare/pkg/api/types/errors"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
)

//go:embed shell.html.tmpl
var shellTemplate string

var shell = template.Must(template.New("shell").Parse(shellTemplate))

type shellPage struct {
	Title       string
	Description string
	FeedURL     string
	APIURL      string
	UploadURL   string
	AssetsURL   string
}

// ShellHandler serves the HTML shell of the single page application.
//
// Routes of the application are resolved in browsers. Every route gets the same page.
func ShellHandler(settings ksetting.SettingInterface, publicURL *url.URL) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := siteOf(c.Request().Context(), settings)
		page := shellPage{
			Title:       s.Title,
			Description: s.Description,
			FeedURL:     publicURL.JoinPath("feed.xml").String(),
			APIURL:      publicURL.JoinPath("api", "graphql").String(),
			UploadURL:   publicURL.JoinPath("api", "photos").String(),
			AssetsURL:   publicURL.JoinPath("assets").String(),
		}

		buf := new(bytes.Buffer)
		if err := shell.Execute(buf, page); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}
