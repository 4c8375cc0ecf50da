package main

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/photoshare/cmd/photod/handlers"
	photoshare "github.com/opst/photoshare/pkg"
	"github.com/opst/photoshare/pkg/api/graphql"
	"github.com/opst/photoshare/pkg/auth"
	bconf "github.com/opst/photoshare/pkg/configs/backend"
	"github.com/opst/photoshare/pkg/domain/keychain/key"
	"github.com/opst/photoshare/pkg/utils"
	"github.com/opst/photoshare/pkg/utils/echoutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const API_ROOT = "/api"

func api(subpath string) string {
	return API_ROOT + "/" + strings.TrimPrefix(subpath, "/")
}

// length of signing keys for session tokens, in bytes.
const sessionKeyLength = 256 / 8

// BuildServer mounts handlers of photod.
//
// Metrics are registered to reg and served at /metrics.
func BuildServer(ps photoshare.Middlewares, loglevel string, reg *prometheus.Registry) (*echo.Echo, error) {
	conf := ps.Config()
	db := ps.Database()
	publicURL := conf.Server().PublicURL()

	e := echo.New()
	e.HideBanner = true
	echoutil.SetLevel(e, loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	sessions := auth.NewSessions(
		db.Keychain(),
		conf.Auth().Keychain(),
		key.HS256(conf.Auth().KeyTTL(), sessionKeyLength),
		conf.Auth().TokenTTL(),
	)

	e.Use(middleware.Recover())
	e.Use(echoutil.LogHandlerFunc)
	e.Use(echoutil.Metrics(reg))
	e.Use(auth.Middleware(sessions, db.User()))

	fbSecret := ""
	if fb := conf.Facebook(); fb != nil {
		fbSecret = fb.AppSecret()
	}
	schema, err := graphql.New(graphql.Deps{
		DB:                db,
		Sessions:          sessions,
		Events:            ps.Events(),
		Mail:              ps.Mail(),
		PublicURL:         publicURL,
		FacebookAppSecret: fbSecret,
		Log:               e.Logger,
	})
	if err != nil {
		return nil, err
	}
	e.POST(api("graphql"), echo.WrapHandler(&graphql.Handler{Schema: schema, Log: e.Logger}))

	e.POST(api("photos"), handlers.UploadHandler(db, ps.Storage(), ps.Events()))

	sizes := utils.Map(conf.Derivatives(), func(d bconf.DerivativeSize) string { return d.Name })
	e.GET("/photos/:slug/image/:size", handlers.ImageHandler(db, ps.Storage(), sizes, "slug", "size"))

	e.GET("/feed.xml", handlers.FeedHandler(db, publicURL))

	if fb := conf.Facebook(); fb != nil {
		e.POST("/facebook/data_deletion", handlers.DataDeletionHandler(
			db.Deletion(), fb.AppSecret(), publicURL.JoinPath("facebook", "data_deletion"),
		))
		e.GET("/facebook/data_deletion/:code", handlers.DataDeletionStatusHandler(db.Deletion(), "code"))
	}

	if st := conf.Storage(); st.Kind() == bconf.StorageLocal {
		if u, err := url.Parse(st.BaseURL()); err == nil && u.Host == "" && strings.HasPrefix(u.Path, "/") {
			e.Static(u.Path, st.Root())
		}
	}

	e.GET("/healthz", handlers.HealthHandler(db.Schema()))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	shell := handlers.ShellHandler(db.Setting(), publicURL)
	e.GET("/", shell)
	e.GET("/*", shell)

	return e, nil
}
