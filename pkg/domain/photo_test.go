package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

func TestCrop_Valid(t *testing.T) {
	for name, testcase := range map[string]struct {
		crop domain.Crop
		want bool
	}{
		"whole image":      {crop: domain.Crop{X: 0, Y: 0, Width: 1, Height: 1}, want: true},
		"inner square":     {crop: domain.Crop{X: 0.25, Y: 0.1, Width: 0.5, Height: 0.5}, want: true},
		"zero width":       {crop: domain.Crop{X: 0, Y: 0, Width: 0, Height: 1}, want: false},
		"negative origin":  {crop: domain.Crop{X: -0.1, Y: 0, Width: 0.5, Height: 0.5}, want: false},
		"overflows right":  {crop: domain.Crop{X: 0.6, Y: 0, Width: 0.5, Height: 0.5}, want: false},
		"overflows bottom": {crop: domain.Crop{X: 0, Y: 0.75, Width: 0.5, Height: 0.5}, want: false},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.crop.Valid(); got != testcase.want {
				t.Errorf("%+v.Valid() = %v", testcase.crop, got)
			}
		})
	}
}

func TestScope_Visible(t *testing.T) {
	const owner, other int64 = 1, 2
	for name, testcase := range map[string]struct {
		scope   domain.Scope
		ownerID int64
		privacy domain.Privacy
		want    bool
	}{
		"public photo for guests":          {scope: domain.PublicOnly(), ownerID: owner, privacy: domain.Public, want: true},
		"private photo for guests":         {scope: domain.PublicOnly(), ownerID: owner, privacy: domain.Private, want: false},
		"private photo for its owner":      {scope: domain.PublicOrOwnedBy(owner), ownerID: owner, privacy: domain.Private, want: true},
		"private photo for another user":   {scope: domain.PublicOrOwnedBy(other), ownerID: owner, privacy: domain.Private, want: false},
		"unlisted album for another user":  {scope: domain.PublicOrOwnedBy(other), ownerID: owner, privacy: domain.Unlisted, want: false},
		"private photo for administrators": {scope: domain.Everything(), ownerID: owner, privacy: domain.Private, want: true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.scope.Visible(testcase.ownerID, testcase.privacy); got != testcase.want {
				t.Errorf("Visible = %v", got)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	for title, want := range map[string]string{
		"Sunset at the Beach!": "sunset-at-the-beach",
		"  Café  ":             "cafe",
		"!!!":                  "fallback",
	} {
		if got := domain.MakeSlug(title, "fallback"); got != want {
			t.Errorf("MakeSlug(%q) = %q, want %q", title, got, want)
		}
	}

	if got := domain.NthSlug("sunset", 1); got != "sunset" {
		t.Errorf("unexpected slug: %s", got)
	}
	if got := domain.NthSlug("sunset", 3); got != "sunset-3" {
		t.Errorf("unexpected slug: %s", got)
	}
}

func TestPhotoSpec_Normalize(t *testing.T) {
	base := domain.PhotoSpec{
		OwnerID: 1, Title: "  Sunset  ", ObjectKey: "originals/1.jpg", Width: 640, Height: 480,
	}

	got, err := base.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Sunset" || got.Privacy != domain.Public {
		t.Errorf("unexpected spec: %+v", got)
	}

	for name, modify := range map[string]func(*domain.PhotoSpec){
		"unlisted photo": func(s *domain.PhotoSpec) { s.Privacy = domain.Unlisted },
		"no object key":  func(s *domain.PhotoSpec) { s.ObjectKey = "" },
		"unknown size":   func(s *domain.PhotoSpec) { s.Width = 0 },
		"too long title": func(s *domain.PhotoSpec) { s.Title = strings.Repeat("t", 201) },
	} {
		t.Run(name+" is invalid", func(t *testing.T) {
			s := base
			modify(&s)
			if _, err := s.Normalize(); !errors.Is(err, domerr.ErrInvalidArgument) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAlbumSpec_Normalize(t *testing.T) {
	got, err := domain.AlbumSpec{OwnerID: 1, Title: " Trip "}.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Trip" || got.Privacy != domain.Private {
		t.Errorf("unexpected spec: %+v", got)
	}

	if _, err := (domain.AlbumSpec{OwnerID: 1, Title: "  "}).Normalize(); !errors.Is(err, domerr.ErrInvalidArgument) {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := (domain.AlbumSpec{OwnerID: 1, Title: "x", Privacy: "secret"}).Normalize(); !errors.Is(err, domerr.ErrInvalidArgument) {
		t.Errorf("unexpected error: %v", err)
	}
}
