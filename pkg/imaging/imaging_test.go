package imaging_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/opst/photoshare/pkg/domain"
	"github.com/opst/photoshare/pkg/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	t.Run("it reads format and dimension", func(t *testing.T) {
		info, err := imaging.Probe(bytes.NewReader(pngOf(t, 40, 30)))
		require.NoError(t, err)
		assert.Equal(t, imaging.Info{Format: "png", ContentType: "image/png", Width: 40, Height: 30}, info)
	})

	t.Run("it rejects non-images", func(t *testing.T) {
		_, err := imaging.Probe(bytes.NewReader([]byte("%PDF-1.4 not an image")))
		assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)
	})
}

func TestRender(t *testing.T) {
	src, err := imaging.Decode(bytes.NewReader(pngOf(t, 400, 300)))
	require.NoError(t, err)

	type when struct {
		crop *domain.Crop
		size imaging.Size
	}
	type then struct {
		width  int
		height int
	}
	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			got, err := imaging.Render(context.Background(), src, when.crop, []imaging.Size{when.size})
			require.NoError(t, err)
			require.Len(t, got, 1)

			d := got[0]
			assert.Equal(t, when.size, d.Size)
			assert.Equal(t, then.width, d.Width)
			assert.Equal(t, then.height, d.Height)

			decoded, err := jpeg.Decode(bytes.NewReader(d.Body))
			require.NoError(t, err)
			assert.Equal(t, then.width, decoded.Bounds().Dx())
			assert.Equal(t, then.height, decoded.Bounds().Dy())
		}
	}

	t.Run("Fit scales down keeping aspect ratio", theory(
		when{size: imaging.Size{Name: "thumb", Width: 200, Height: 200, Mode: imaging.Fit}},
		then{width: 200, height: 150},
	))
	t.Run("Fit never scales up", theory(
		when{size: imaging.Size{Name: "large", Width: 2048, Height: 2048, Mode: imaging.Fit}},
		then{width: 400, height: 300},
	))
	t.Run("Fill fills the box", theory(
		when{size: imaging.Size{Name: "square", Width: 100, Height: 100, Mode: imaging.Fill}},
		then{width: 100, height: 100},
	))
	t.Run("Fill honours the crop", theory(
		when{
			crop: &domain.Crop{X: 0.25, Y: 0, Width: 0.5, Height: 1},
			size: imaging.Size{Name: "square", Width: 64, Height: 64, Mode: imaging.Fill},
		},
		then{width: 64, height: 64},
	))

	t.Run("it renders all sizes in order", func(t *testing.T) {
		sizes := []imaging.Size{
			{Name: "thumb", Width: 100, Height: 100, Mode: imaging.Fit},
			{Name: "square", Width: 50, Height: 50, Mode: imaging.Fill},
		}
		got, err := imaging.Render(context.Background(), src, nil, sizes)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "thumb", got[0].Size.Name)
		assert.Equal(t, "square", got[1].Size.Name)
	})

	t.Run("it stops when context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := imaging.Render(ctx, src, nil, []imaging.Size{{Name: "thumb", Width: 10, Height: 10}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadExif(t *testing.T) {
	t.Run("images without exif yield nothing", func(t *testing.T) {
		fields, takenAt := imaging.ReadExif(bytes.NewReader(pngOf(t, 4, 4)))
		assert.Empty(t, fields)
		assert.Nil(t, takenAt)
	})
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "derivatives/42/thumb.jpg", imaging.ObjectKey(42, "thumb"))
}
