package relatedtags

import (
	"context"
	"time"

	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	"github.com/opst/photoshare/pkg/domain"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
	"go.uber.org/zap"
)

const (
	// tag pairs appearing together less than this are not related.
	MinCoOccurrence = 2

	// recomputation recurs in this interval.
	Interval = 24 * time.Hour

	// subject of related_tags jobs. There is only one.
	Subject = "all"
)

// State of the task.
type State struct {
	// true after the first job is queued.
	Scheduled bool
}

// initial value for task
func Seed() State {
	return State{}
}

// Task recomputes related tags when a related_tags job is due,
// and queues the next one after Interval.
//
// The first run of the task queues a job to be run immediately,
// unless a job is queued already.
func Task(runner jobrun.Runner, jobs kjob.JobInterface, tags ktag.TagInterface, logger *zap.Logger, now func() time.Time) recurring.Task[State] {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, state State) (State, bool, error) {
		if !state.Scheduled {
			if err := jobs.Enqueue(ctx, domain.JobRelatedTags, Subject, now()); err != nil {
				return state, false, err
			}
			state.Scheduled = true
		}

		picked, err := runner.Pick(ctx, domain.JobRelatedTags, func(ctx context.Context, job domain.Job) error {
			n, err := tags.RecomputeRelated(ctx, MinCoOccurrence)
			if err != nil {
				return err
			}
			logger.Info("related tags are recomputed", zap.Int("pairs", n))
			return jobs.Enqueue(ctx, domain.JobRelatedTags, Subject, now().Add(Interval))
		})
		return state, picked, err
	}
}
