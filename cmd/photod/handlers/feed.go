package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	apierr "github.com/opst/photoshare/pkg/api/types/errors"
	"github.com/opst/photoshare/pkg/domain"
	kdb "github.com/opst/photoshare/pkg/domain/photoshare/db"
)

// FeedSize is the number of photos in the feed.
const FeedSize = 50

// FeedHandler serves RSS 2.0 of the newest public photos.
func FeedHandler(dbase kdb.Database, publicURL *url.URL) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		found, err := dbase.Photo().Find(ctx, domain.PhotoQuery{
			Scope: domain.PublicOnly(),
			Page:  domain.Page{Number: 1, PerPage: FeedSize},
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		s := siteOf(ctx, dbase.Setting())
		feed := &feeds.Feed{
			Title:       s.Title,
			Link:        &feeds.Link{Href: publicURL.String()},
			Description: s.Description,
			Created:     time.Now(),
		}
		for _, p := range found.Items {
			title := p.Title
			if title == "" {
				title = p.Slug
			}
			feed.Items = append(feed.Items, &feeds.Item{
				Id:          publicURL.JoinPath("photos", p.Slug).String(),
				Title:       title,
				Link:        &feeds.Link{Href: publicURL.JoinPath("photos", p.Slug).String()},
				Description: p.Description,
				Created:     p.CreatedAt,
				Updated:     p.UpdatedAt,
				Enclosure: &feeds.Enclosure{
					Url:    publicURL.JoinPath("photos", p.Slug, "image", domain.SizeMedium).String(),
					Type:   "image/jpeg",
					Length: "0",
				},
			})
		}
		if len(found.Items) != 0 {
			feed.Created = found.Items[0].CreatedAt
		}

		rss, err := feed.ToRss()
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
	}
}
