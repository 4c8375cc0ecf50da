// Package imaging reads uploaded images and renders derivatives of them.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/opst/photoshare/pkg/domain"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// JPEGQuality of derivatives.
const JPEGQuality = 85

var ErrUnsupportedFormat = errors.New("unsupported image format")

// content types accepted as photos, by image format name.
var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Info is what Probe reads from the image header.
type Info struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Probe reads the image header without decoding pixels.
func Probe(r io.Reader) (Info, error) {
	conf, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, ErrUnsupportedFormat
		}
		return Info{}, err
	}
	ct, ok := contentTypes[format]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return Info{Format: format, ContentType: ct, Width: conf.Width, Height: conf.Height}, nil
}

// Decode decodes the image, rotating it as EXIF orientation says.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	return img, err
}

type Mode string

const (
	// scale down to fit in the box. Images are never scaled up.
	Fit Mode = "fit"

	// crop and scale to fill the box.
	Fill Mode = "fill"
)

type Size struct {
	Name   string
	Width  int
	Height int
	Mode   Mode
}

// Derivative is an encoded JPEG of a size.
type Derivative struct {
	Size   Size
	Body   []byte
	Width  int
	Height int
}

// ObjectKey where the derivative of the photo is stored.
func ObjectKey(photoID int64, size string) string {
	return fmt.Sprintf("derivatives/%d/%s.jpg", photoID, size)
}

// cropped cuts out the crop region from src. nil crop means whole src.
func cropped(src image.Image, crop *domain.Crop) image.Image {
	if crop == nil || !crop.Valid() {
		return src
	}
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rect := image.Rect(
		b.Min.X+int(crop.X*w), b.Min.Y+int(crop.Y*h),
		b.Min.X+int((crop.X+crop.Width)*w), b.Min.Y+int((crop.Y+crop.Height)*h),
	)
	if rect.Empty() {
		return src
	}
	return imaging.Crop(src, rect)
}

func render(src image.Image, crop *domain.Crop, size Size) (Derivative, error) {
	var img image.Image
	switch size.Mode {
	case Fill:
		img = imaging.Fill(cropped(src, crop), size.Width, size.Height, imaging.Center, imaging.Lanczos)
	default:
		img = imaging.Fit(src, size.Width, size.Height, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return Derivative{}, fmt.Errorf("%s: %w", size.Name, err)
	}
	b := img.Bounds()
	return Derivative{Size: size, Body: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// Render makes derivatives of src in sizes, concurrently.
//
// crop is honoured by Fill sizes only.
func Render(ctx context.Context, src image.Image, crop *domain.Crop, sizes []Size) ([]Derivative, error) {
	ret := make([]Derivative, len(sizes))
	eg, ctx := errgroup.WithContext(ctx)
	for i := range sizes {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := render(src, crop, sizes[i])
			if err != nil {
				return err
			}
			ret[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
