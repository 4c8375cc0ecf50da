package relatedtags_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	"github.com/opst/photoshare/cmd/jobs/tasks/relatedtags"
	"github.com/opst/photoshare/pkg/domain"
	jobmock "github.com/opst/photoshare/pkg/domain/job/db/mock"
	tagmock "github.com/opst/photoshare/pkg/domain/tag/db/mock"
)

func TestRelatedTagsTask(t *testing.T) {
	now := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)
	fakeErr := errors.New("fake error")

	type When struct {
		state      relatedtags.State
		due        bool
		recomputed error
	}
	type Then struct {
		state      relatedtags.State
		picked     bool
		enqueued   []jobmock.EnqueueArgs
		recomputed []int
		outcome    error
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			var outcome error
			jobs := jobmock.New()
			jobs.Impl.Enqueue = func(ctx context.Context, kind domain.JobKind, subject string, runAfter time.Time) error {
				return nil
			}
			jobs.Impl.Pick = func(ctx context.Context, kind domain.JobKind, f func(context.Context, domain.Job) error) (bool, error) {
				if !when.due {
					return false, nil
				}
				outcome = f(ctx, domain.Job{ID: 9, Kind: kind, Subject: relatedtags.Subject})
				return true, outcome
			}

			tags := tagmock.New()
			tags.Impl.RecomputeRelated = func(ctx context.Context, min int) (int, error) {
				return 12, when.recomputed
			}

			testee := relatedtags.Task(
				jobrun.New(jobs, nil, nil, nil), jobs, tags, nil,
				func() time.Time { return now },
			)
			state, picked, err := testee(context.Background(), when.state)
			if err != nil {
				t.Fatal(err)
			}
			if picked != then.picked {
				t.Errorf("picked: %v, want %v", picked, then.picked)
			}
			if state != then.state {
				t.Errorf("state: %+v, want %+v", state, then.state)
			}
			if !errors.Is(outcome, then.outcome) || (then.outcome == nil && outcome != nil) {
				t.Errorf("outcome = %v, want %v", outcome, then.outcome)
			}
			if diff := cmp.Diff(then.enqueued, []jobmock.EnqueueArgs(jobs.Calls.Enqueue)); diff != "" {
				t.Errorf("enqueued (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(then.recomputed, []int(tags.Calls.RecomputeRelated)); diff != "" {
				t.Errorf("recomputed (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("the first run queues a job for now", theory(
		When{state: relatedtags.Seed()},
		Then{
			state: relatedtags.State{Scheduled: true},
			enqueued: []jobmock.EnqueueArgs{
				{Kind: domain.JobRelatedTags, Subject: relatedtags.Subject, RunAfter: now},
			},
		},
	))

	t.Run("a due job recomputes and queues the next one", theory(
		When{state: relatedtags.State{Scheduled: true}, due: true},
		Then{
			state:  relatedtags.State{Scheduled: true},
			picked: true,
			enqueued: []jobmock.EnqueueArgs{
				{Kind: domain.JobRelatedTags, Subject: relatedtags.Subject, RunAfter: now.Add(relatedtags.Interval)},
			},
			recomputed: []int{relatedtags.MinCoOccurrence},
		},
	))

	t.Run("when recomputation fails, the job fails without queueing the next", theory(
		When{state: relatedtags.State{Scheduled: true}, due: true, recomputed: fakeErr},
		Then{
			state:      relatedtags.State{Scheduled: true},
			picked:     true,
			recomputed: []int{relatedtags.MinCoOccurrence},
			outcome:    fakeErr,
		},
	))

	t.Run("when no job is due, it does nothing", theory(
		When{state: relatedtags.State{Scheduled: true}},
		Then{state: relatedtags.State{Scheduled: true}},
	))
}
