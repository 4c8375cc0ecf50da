package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/opst/photoshare/internal/testutils/http"
	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/photoshare/db/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opst/photoshare/cmd/photod/handlers"
)

func TestShellHandler(t *testing.T) {
	publicURL := &url.URL{Scheme: "https", Host: "photos.example.com", Path: "/share"}

	t.Run("the page carries the site title, escaped", func(t *testing.T) {
		db := dbmock.New()
		withSettings(db, map[string]string{domain.SettingSiteTitle: `"Tom & Jerry <photos>"`})

		c, rec := httptestutil.Get(echo.New(), "/albums/trip")
		require.NoError(t, handlers.ShellHandler(db.Settings, publicURL)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

		body := rec.Body.String()
		assert.Contains(t, body, "<title>Tom &amp; Jerry &lt;photos&gt;</title>")
		assert.Contains(t, body, `href="https://photos.example.com/share/feed.xml"`)
		assert.Contains(t, body, `data-api="https://photos.example.com/share/api/graphql"`)
	})

	t.Run("when settings can not be read, defaults are used", func(t *testing.T) {
		db := dbmock.New()
		db.Settings.Impl.Get = func(ctx context.Context, key string) (domain.Setting, error) {
			return domain.Setting{}, errors.New("connection lost")
		}

		c, rec := httptestutil.Get(echo.New(), "/")
		require.NoError(t, handlers.ShellHandler(db.Settings, publicURL)(c))
		assert.Contains(t, rec.Body.String(), "<title>photoshare</title>")
	})
}
