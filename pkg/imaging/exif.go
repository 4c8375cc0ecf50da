package imaging

import (
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exif fields kept with photos.
var exifFields = []exif.FieldName{
	exif.Make,
	exif.Model,
	exif.LensModel,
	exif.FNumber,
	exif.ExposureTime,
	exif.ISOSpeedRatings,
	exif.FocalLength,
	exif.Flash,
}

// ReadExif reads EXIF metadata.
//
// Images without EXIF yield an empty map and nil time, not an error.
func ReadExif(r io.Reader) (map[string]string, *time.Time) {
	ret := map[string]string{}
	x, err := exif.Decode(r)
	if err != nil {
		return ret, nil
	}

	for _, name := range exifFields {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		var v string
		if tag.Format() == tiff.StringVal {
			v, err = tag.StringVal()
			if err != nil {
				continue
			}
		} else {
			v = tag.String()
		}
		if v = strings.Trim(v, "\" \x00"); v != "" {
			ret[string(name)] = v
		}
	}

	var takenAt *time.Time
	if t, err := x.DateTime(); err == nil && !t.IsZero() {
		takenAt = &t
	}
	return ret, takenAt
}
