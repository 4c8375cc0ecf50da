package domain

import (
	"fmt"

	"github.com/gosimple/slug"
)

const maxSlugLength = 80

func init() {
	slug.MaxLength = maxSlugLength
}

// MakeSlug builds a url-friendly identifier from title.
//
// When title has nothing usable (e.g. only symbols), fallback is used.
func MakeSlug(title string, fallback string) string {
	s := slug.Make(title)
	if s == "" {
		s = slug.Make(fallback)
	}
	return s
}

// NthSlug is the candidate slug for n-th collision. n <= 1 is the base itself.
func NthSlug(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
