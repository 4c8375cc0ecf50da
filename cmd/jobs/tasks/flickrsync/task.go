package flickrsync

import (
	"context"
	"errors"
	"time"

	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	"github.com/opst/photoshare/pkg/conn/flickr"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	"go.uber.org/zap"
)

// Profiles synced before this are refreshed.
const StaleAfter = 7 * 24 * time.Hour

// initial value for task
func Seed() any {
	return nil
}

// Task syncs profiles of Flickr users.
//
// Users queued as flickr_sync jobs come first. When no job is queued,
// a user not synced in StaleAfter is refreshed.
func Task(
	runner jobrun.Runner,
	users kflickr.FlickrInterface,
	client flickr.Client,
	logger *zap.Logger,
	now func() time.Time,
) recurring.Task[any] {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, value any) (any, bool, error) {
		picked, err := runner.Pick(ctx, domain.JobFlickrSync, func(ctx context.Context, job domain.Job) error {
			return sync(ctx, users, client, job.Subject, now())
		})
		if picked || err != nil {
			return value, picked, err
		}

		stale, err := users.StaleUsers(ctx, now().Add(-StaleAfter), 1)
		if err != nil {
			return value, false, err
		}
		if len(stale) == 0 {
			return value, false, nil
		}
		if err := sync(ctx, users, client, stale[0].NSID, now()); err != nil {
			// Flickr may be unavailable. Wait for the next cycle.
			logger.Warn("refreshing stale flickr user failed", zap.String("nsid", stale[0].NSID), zap.Error(err))
			return value, false, nil
		}
		return value, true, nil
	}
}

func sync(ctx context.Context, users kflickr.FlickrInterface, client flickr.Client, nsid string, now time.Time) error {
	u, err := client.Person(ctx, nsid)
	if errors.Is(err, flickr.ErrUserNotFound) {
		// not to be picked as stale again soon.
		if err := users.MarkSynced(ctx, nsid, now); err != nil && !errors.Is(err, domerr.ErrMissing) {
			return err
		}
		return nil
	} else if err != nil {
		return err
	}

	u.NSID = nsid
	u.SyncedAt = &now
	_, err = users.UpsertUser(ctx, u)
	return err
}
