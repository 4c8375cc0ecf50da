package photos

import (
	"sort"
	"time"

	"github.com/opst/photoshare/pkg/domain"
	"github.com/opst/photoshare/pkg/utils"
)

type Tag struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type Detail struct {
	Slug             string            `json:"slug"`
	OwnerID          int64             `json:"ownerId"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Privacy          string            `json:"privacy"`
	OriginalFilename string            `json:"originalFilename"`
	ContentType      string            `json:"contentType"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	TakenAt          *time.Time        `json:"takenAt,omitempty"`
	Exif             map[string]string `json:"exif,omitempty"`
	Tags             []Tag             `json:"tags"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func ComposeDetail(p domain.Photo) Detail {
	tags := utils.Map(p.Tags, func(t domain.Tagging) Tag {
		return Tag{Name: t.Name, Source: string(t.Source)}
	})
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	return Detail{
		Slug:             p.Slug,
		OwnerID:          p.OwnerID,
		Title:            p.Title,
		Description:      p.Description,
		Privacy:          string(p.Privacy),
		OriginalFilename: p.OriginalFilename,
		ContentType:      p.ContentType,
		Width:            p.Width,
		Height:           p.Height,
		TakenAt:          p.TakenAt,
		Exif:             p.Exif,
		Tags:             tags,
		CreatedAt:        p.CreatedAt,
	}
}
