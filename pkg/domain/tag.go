package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

const maxTagLength = 64

type TagSource string

const (
	TagByUser        TagSource = "user"
	TagByFlickr      TagSource = "flickr"
	TagByRekognition TagSource = "rekognition"
)

func (s TagSource) String() string {
	return string(s)
}

func AsTagSource(s string) (TagSource, error) {
	switch ts := TagSource(s); ts {
	case TagByUser, TagByFlickr, TagByRekognition:
		return ts, nil
	default:
		return ts, fmt.Errorf("%w: unknown tag source: %s", domerr.ErrInvalidArgument, s)
	}
}

type Tag struct {
	ID   int64
	Name string
}

// NormalizeTagName lower-cases, trims and collapses whitespaces.
func NormalizeTagName(name string) (string, error) {
	n := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if n == "" {
		return "", fmt.Errorf("%w: tag is empty", domerr.ErrInvalidArgument)
	}
	if maxTagLength < utf8.RuneCountInString(n) {
		return "", fmt.Errorf("%w: tag is too long: %s", domerr.ErrInvalidArgument, name)
	}
	return n, nil
}

// Tagging is a tag on a photo.
type Tagging struct {
	Tag
	Source TagSource

	// confidence of detection, for tags from Rekognition. [0, 100]
	Confidence *float64
	CreatedAt  time.Time
}

// TagDelta represents the intent updating tags on a photo.
//
// Remove is applied first, then Add.
type TagDelta struct {
	Add    []Tagging
	Remove []string
}

// Normalize normalizes tag names in the delta and drops duplicates.
func (td TagDelta) Normalize() (TagDelta, error) {
	out := TagDelta{}

	seen := map[string]struct{}{}
	for _, t := range td.Add {
		n, err := NormalizeTagName(t.Name)
		if err != nil {
			return TagDelta{}, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		if t.Source == "" {
			t.Source = TagByUser
		}
		t.Name = n
		out.Add = append(out.Add, t)
	}

	removed := map[string]struct{}{}
	for _, r := range td.Remove {
		n, err := NormalizeTagName(r)
		if err != nil {
			return TagDelta{}, err
		}
		if _, ok := removed[n]; ok {
			continue
		}
		removed[n] = struct{}{}
		out.Remove = append(out.Remove, n)
	}
	return out, nil
}

// TagCount is a tag with the count of photos having it.
type TagCount struct {
	Tag
	Count int
}

// RelatedTag is directed co-occurrence statistics from Source to Target.
//
// With N = number of tagged photos, A = photos with Source, B = photos with Target:
//
//   - Support = |A∩B| / N
//   - Confidence = |A∩B| / |A|
//   - Lift = Confidence / (|B| / N)
//   - Jaccard = |A∩B| / |A∪B|
type RelatedTag struct {
	Source        Tag
	Target        Tag
	CoOccurrences int
	Support       float64
	Confidence    float64
	Lift          float64
	Jaccard       float64
	ComputedAt    time.Time
}
