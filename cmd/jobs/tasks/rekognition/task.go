package rekognition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/conn/vision"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
)

// formats Rekognition reads.
var readable = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ErrNoReadableImage is returned when neither the original nor derivatives can be read by Rekognition yet.
var ErrNoReadableImage = errors.New("no image readable by rekognition")

type Deps struct {
	Photos   kphoto.PhotoInterface
	Tags     ktag.TagInterface
	Settings ksetting.SettingInterface
	Storage  storage.Storage
	Labeler  vision.Labeler

	// when nil, time.Now is used.
	Now func() time.Time
}

// initial value for task
func Seed() any {
	return nil
}

// Task tags a photo queued as a rekognition job with detected labels.
//
// When the setting "rekognition.enabled" is false, jobs are done without detection.
func Task(runner jobrun.Runner, deps Deps) recurring.Task[any] {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return func(ctx context.Context, value any) (any, bool, error) {
		picked, err := runner.Pick(ctx, domain.JobRekognition, func(ctx context.Context, job domain.Job) error {
			err := label(ctx, deps, job.Subject)
			if errors.Is(err, domerr.ErrMissing) || errors.Is(err, storage.ErrNotFound) {
				// the photo has been deleted.
				return nil
			}
			return err
		})
		return value, picked, err
	}
}

func enabled(ctx context.Context, settings ksetting.SettingInterface) (bool, error) {
	s, err := settings.Get(ctx, domain.SettingRekognitionEnabled)
	if err != nil {
		return false, err
	}
	return s.Bool(true), nil
}

// source picks the object key of image to be sent.
//
// Formats not readable by Rekognition fall back to a JPEG derivative.
func source(p domain.Photo) (string, bool) {
	if _, ok := readable[p.ContentType]; ok {
		return p.ObjectKey, true
	}
	for _, size := range []string{domain.SizeLarge, domain.SizeMedium, domain.SizeSmall} {
		if d, ok := p.Derivatives[size]; ok {
			return d.ObjectKey, true
		}
	}
	return "", false
}

func label(ctx context.Context, deps Deps, subject string) error {
	if ok, err := enabled(ctx, deps.Settings); err != nil {
		return err
	} else if !ok {
		return nil
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return fmt.Errorf("bad subject: %s", subject)
	}
	found, err := deps.Photos.Get(ctx, []int64{id})
	if err != nil {
		return err
	}
	p, ok := found[id]
	if !ok {
		return nil
	}

	key, ok := source(p)
	if !ok {
		return fmt.Errorf("photo %d: %w", p.ID, ErrNoReadableImage)
	}
	r, err := deps.Storage.Get(ctx, key)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return err
	}

	labels, err := deps.Labeler.Labels(ctx, body)
	if err != nil {
		return fmt.Errorf("photo %d: %w", p.ID, err)
	}

	delta := domain.TagDelta{}
	for _, l := range labels {
		name, err := domain.NormalizeTagName(l.Name)
		if err != nil {
			continue
		}
		confidence := l.Confidence
		delta.Add = append(delta.Add, domain.Tagging{
			Tag:        domain.Tag{Name: name},
			Source:     domain.TagByRekognition,
			Confidence: &confidence,
		})
	}
	if len(delta.Add) != 0 {
		if delta, err = delta.Normalize(); err != nil {
			return err
		}
		if _, err := deps.Tags.UpdateTags(ctx, p.ID, delta); err != nil {
			return err
		}
	}

	return deps.Photos.MarkAutoTagged(ctx, p.ID, deps.Now())
}
