package derivatives

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	"github.com/opst/photoshare/pkg/imaging"
)

// initial value for task
func Seed() any {
	return nil
}

// Task renders derivatives of a photo queued as a derivatives job.
//
// Derivatives are stored as JPEG, and recorded on the photo.
// Jobs for deleted photos are done without doing anything.
func Task(runner jobrun.Runner, photos kphoto.PhotoInterface, store storage.Storage, sizes []imaging.Size) recurring.Task[any] {
	return func(ctx context.Context, value any) (any, bool, error) {
		picked, err := runner.Pick(ctx, domain.JobDerivatives, func(ctx context.Context, job domain.Job) error {
			return render(ctx, photos, store, sizes, job.Subject)
		})
		return value, picked, err
	}
}

func render(ctx context.Context, photos kphoto.PhotoInterface, store storage.Storage, sizes []imaging.Size, subject string) error {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return fmt.Errorf("bad subject: %s", subject)
	}
	found, err := photos.Get(ctx, []int64{id})
	if err != nil {
		return err
	}
	p, ok := found[id]
	if !ok {
		return nil
	}

	original, err := store.Get(ctx, p.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	img, err := imaging.Decode(original)
	original.Close()
	if err != nil {
		return fmt.Errorf("photo %d: %w", p.ID, err)
	}

	rendered, err := imaging.Render(ctx, img, p.Crop, sizes)
	if err != nil {
		return fmt.Errorf("photo %d: %w", p.ID, err)
	}

	refs := map[string]domain.DerivativeRef{}
	for _, d := range rendered {
		key := imaging.ObjectKey(p.ID, d.Size.Name)
		if err := store.Put(ctx, key, bytes.NewReader(d.Body), int64(len(d.Body)), "image/jpeg"); err != nil {
			return err
		}
		refs[d.Size.Name] = domain.DerivativeRef{ObjectKey: key, Width: d.Width, Height: d.Height}
	}

	if err := photos.SetDerivatives(ctx, p.ID, refs); err != nil {
		if errors.Is(err, domerr.ErrMissing) {
			// deleted while rendering.
			for _, r := range refs {
				store.Delete(ctx, r.ObjectKey)
			}
			return nil
		}
		return err
	}
	return nil
}
