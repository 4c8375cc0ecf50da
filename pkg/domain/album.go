package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

type Album struct {
	ID           int64
	Slug         string
	OwnerID      int64
	Title        string
	Description  string
	Privacy      Privacy
	CoverPhotoID *int64
	ShareToken   string
	PhotoCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AlbumPhoto is a photo placed in an album. Positions are dense, from 0.
type AlbumPhoto struct {
	AlbumID  int64
	PhotoID  int64
	Position int
}

type AlbumSpec struct {
	OwnerID     int64
	Title       string
	Description string
	Privacy     Privacy
}

func (s AlbumSpec) Normalize() (AlbumSpec, error) {
	var err error
	if s.Title, err = validateTitle(s.Title); err != nil {
		return s, err
	}
	if s.Title == "" {
		return s, fmt.Errorf("%w: album title is empty", domerr.ErrInvalidArgument)
	}
	if s.Description, err = validateDescription(s.Description); err != nil {
		return s, err
	}
	if s.Privacy == "" {
		s.Privacy = Private
	}
	if _, err := AsAlbumPrivacy(string(s.Privacy)); err != nil {
		return s, err
	}
	return s, nil
}

type AlbumUpdate struct {
	Title        *string
	Description  *string
	Privacy      *Privacy
	CoverPhotoID *int64
}

func (u AlbumUpdate) Normalize() (AlbumUpdate, error) {
	if u.Title != nil {
		t, err := validateTitle(*u.Title)
		if err != nil {
			return u, err
		}
		if t == "" {
			return u, fmt.Errorf("%w: album title is empty", domerr.ErrInvalidArgument)
		}
		u.Title = &t
	}
	if u.Description != nil {
		if _, err := validateDescription(*u.Description); err != nil {
			return u, err
		}
	}
	if u.Privacy != nil {
		if _, err := AsAlbumPrivacy(string(*u.Privacy)); err != nil {
			return u, err
		}
	}
	return u, nil
}

type AlbumQuery struct {
	Scope   Scope
	OwnerID *int64
	Page    Page
}

// AlbumShare is a record that the album is shared with e-mail.
type AlbumShare struct {
	AlbumID   int64
	Email     string
	Token     string
	CreatedAt time.Time
}

// NewShareToken generates a token for sharing album.
//
// It is 32 hex characters.
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NormalizeEmails parses, lower-cases and deduplicates e-mail addresses.
func NormalizeEmails(emails []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		addr, err := mail.ParseAddress(strings.TrimSpace(e))
		if err != nil {
			return nil, fmt.Errorf("%w: email %q: %s", domerr.ErrInvalidArgument, e, err)
		}
		a := strings.ToLower(addr.Address)
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

// IsPermutation tells order is a permutation of current.
func IsPermutation(current []int64, order []int64) bool {
	if len(current) != len(order) {
		return false
	}
	count := map[int64]int{}
	for _, c := range current {
		count[c] += 1
	}
	for _, o := range order {
		count[o] -= 1
		if count[o] < 0 {
			return false
		}
	}
	return true
}
