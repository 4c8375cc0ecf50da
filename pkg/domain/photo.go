package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

// Crop is a rectangle in relative units ([0, 1] in both axis)
// which is used for square thumbnails.
type Crop struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c Crop) Valid() bool {
	return 0 <= c.X && 0 <= c.Y &&
		0 < c.Width && 0 < c.Height &&
		c.X+c.Width <= 1 && c.Y+c.Height <= 1
}

// DerivativeRef points a resized copy of the photo.
type DerivativeRef struct {
	ObjectKey string `json:"key"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Size names for derivatives.
const (
	SizeOriginal = "original"
	SizeSquare   = "square"
	SizeThumb    = "thumb"
	SizeSmall    = "small"
	SizeMedium   = "medium"
	SizeLarge    = "large"
)

type PhotoBody struct {
	ID          int64
	Slug        string
	OwnerID     int64
	Title       string
	Description string
	Privacy     Privacy
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Photo struct {
	PhotoBody

	ObjectKey        string
	OriginalFilename string
	ContentType      string
	Width            int
	Height           int
	TakenAt          *time.Time
	Exif             map[string]string
	Crop             *Crop
	Derivatives      map[string]DerivativeRef

	// set when the photo is imported from Flickr.
	FlickrID        *string
	FlickrOwnerNSID *string

	// when Rekognition labeled this photo. nil means "not yet".
	AutoTaggedAt *time.Time

	Tags []Tagging
}

// Derivative returns a reference of named size.
//
// When the derivative is not ready, it falls back to the original.
func (p *Photo) Derivative(size string) (DerivativeRef, bool) {
	if size != SizeOriginal {
		if d, ok := p.Derivatives[size]; ok {
			return d, true
		}
	}
	return DerivativeRef{ObjectKey: p.ObjectKey, Width: p.Width, Height: p.Height}, false
}

// ObjectKeys is every storage object belonging to this photo.
func (p *Photo) ObjectKeys() []string {
	keys := []string{}
	if p.ObjectKey != "" {
		keys = append(keys, p.ObjectKey)
	}
	for _, d := range p.Derivatives {
		keys = append(keys, d.ObjectKey)
	}
	return keys
}

// PhotoSpec is a request to create a photo.
type PhotoSpec struct {
	OwnerID          int64
	Title            string
	Description      string
	Privacy          Privacy
	ObjectKey        string
	OriginalFilename string
	ContentType      string
	Width            int
	Height           int
	TakenAt          *time.Time
	Exif             map[string]string
	FlickrID         *string
	FlickrOwnerNSID  *string
	Tags             []Tagging
}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
)

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if maxTitleLength < utf8.RuneCountInString(title) {
		return "", fmt.Errorf("%w: title is too long (max %d)", domerr.ErrInvalidArgument, maxTitleLength)
	}
	return title, nil
}

func validateDescription(desc string) (string, error) {
	if maxDescriptionLength < utf8.RuneCountInString(desc) {
		return "", fmt.Errorf("%w: description is too long (max %d)", domerr.ErrInvalidArgument, maxDescriptionLength)
	}
	return desc, nil
}

func (s PhotoSpec) Normalize() (PhotoSpec, error) {
	var err error
	if s.Title, err = validateTitle(s.Title); err != nil {
		return s, err
	}
	if s.Description, err = validateDescription(s.Description); err != nil {
		return s, err
	}
	if s.Privacy == "" {
		s.Privacy = Public
	}
	if _, err := AsPhotoPrivacy(string(s.Privacy)); err != nil {
		return s, err
	}
	if s.ObjectKey == "" {
		return s, fmt.Errorf("%w: object key is empty", domerr.ErrInvalidArgument)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return s, fmt.Errorf("%w: dimension is unknown", domerr.ErrInvalidArgument)
	}
	return s, nil
}

// PhotoUpdate is a change on photo attributes. nil fields are not changed.
type PhotoUpdate struct {
	Title       *string
	Description *string
	Privacy     *Privacy
}

func (u PhotoUpdate) Normalize() (PhotoUpdate, error) {
	if u.Title != nil {
		t, err := validateTitle(*u.Title)
		if err != nil {
			return u, err
		}
		u.Title = &t
	}
	if u.Description != nil {
		if _, err := validateDescription(*u.Description); err != nil {
			return u, err
		}
	}
	if u.Privacy != nil {
		if _, err := AsPhotoPrivacy(string(*u.Privacy)); err != nil {
			return u, err
		}
	}
	return u, nil
}

// PhotoQuery is a condition to list photos.
type PhotoQuery struct {
	Scope Scope

	OwnerID *int64
	AlbumID *int64

	// photos should have all of these tags.
	Tags []string

	// full-text search query. empty means "no condition".
	Text string

	Page Page
}
