package jobrun_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/cmd/jobs/hook"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	apijobs "github.com/opst/photoshare/pkg/api/types/jobs"
	"github.com/opst/photoshare/pkg/domain"
	jobmock "github.com/opst/photoshare/pkg/domain/job/db/mock"
)

type observed struct {
	Kind    domain.JobKind
	Outcome jobrun.Outcome
}

func TestRunner_Pick(t *testing.T) {
	job := domain.Job{ID: 7, Kind: domain.JobDerivatives, Subject: "42", Status: domain.JobRunning, Attempts: 1}
	fakeErr := errors.New("fake error")

	type When struct {
		// nil means "no job is queued"
		job      *domain.Job
		queueErr error
		beforeFn func(apijobs.Detail) (struct{}, error)
		afterFn  func(context.Context, apijobs.Detail) error
		workErr  error
	}
	type Then struct {
		picked    bool
		err       error
		worked    bool
		pickGot   error
		observed  []observed
		hookValue *apijobs.Detail
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			jobs := jobmock.New()
			var fResult error
			jobs.Impl.Pick = func(ctx context.Context, kind domain.JobKind, f func(context.Context, domain.Job) error) (bool, error) {
				if kind != domain.JobDerivatives {
					t.Errorf("kind: %s", kind)
				}
				if when.queueErr != nil {
					return false, when.queueErr
				}
				if when.job == nil {
					return false, nil
				}
				fResult = f(ctx, *when.job)
				return true, fResult
			}

			var hookValue *apijobs.Detail
			h := hook.Func[apijobs.Detail, struct{}]{
				BeforeFn: func(_ context.Context, d apijobs.Detail) (struct{}, error) {
					hookValue = &d
					if when.beforeFn != nil {
						return when.beforeFn(d)
					}
					return struct{}{}, nil
				},
				AfterFn: when.afterFn,
			}

			got := []observed{}
			testee := jobrun.New(jobs, h, func(kind domain.JobKind, outcome jobrun.Outcome) {
				got = append(got, observed{Kind: kind, Outcome: outcome})
			}, nil)

			worked := false
			picked, err := testee.Pick(context.Background(), domain.JobDerivatives, func(ctx context.Context, j domain.Job) error {
				worked = true
				if j.ID != job.ID {
					t.Errorf("job: %+v", j)
				}
				return when.workErr
			})

			if picked != then.picked {
				t.Errorf("picked: %v, want %v", picked, then.picked)
			}
			if !errors.Is(err, then.err) {
				t.Errorf("err: %v, want %v", err, then.err)
			}
			if worked != then.worked {
				t.Errorf("worked: %v, want %v", worked, then.worked)
			}
			if !errors.Is(fResult, then.pickGot) || (then.pickGot == nil && fResult != nil) {
				t.Errorf("job outcome passed to queue: %v, want %v", fResult, then.pickGot)
			}
			if diff := cmp.Diff(then.observed, got); diff != "" {
				t.Errorf("observed (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(then.hookValue, hookValue); diff != "" {
				t.Errorf("hook value (-want +got):\n%s", diff)
			}
		}
	}

	detail := apijobs.ComposeDetail(job)

	t.Run("when no job is queued, it does nothing", theory(
		When{},
		Then{observed: []observed{}},
	))

	t.Run("when the queue fails, it returns the error", theory(
		When{queueErr: fakeErr},
		Then{err: fakeErr, observed: []observed{}},
	))

	t.Run("when the work succeeds, the job is done", theory(
		When{job: &job},
		Then{
			picked: true, worked: true,
			observed:  []observed{{Kind: domain.JobDerivatives, Outcome: jobrun.Done}},
			hookValue: &detail,
		},
	))

	t.Run("when the work fails, the job fails without error", theory(
		When{job: &job, workErr: fakeErr},
		Then{
			picked: true, worked: true, pickGot: fakeErr,
			observed:  []observed{{Kind: domain.JobDerivatives, Outcome: jobrun.Failed}},
			hookValue: &detail,
		},
	))

	t.Run("when the before hook fails, the work is not done", theory(
		When{
			job:      &job,
			beforeFn: func(apijobs.Detail) (struct{}, error) { return struct{}{}, fakeErr },
		},
		Then{
			picked: true, worked: false, pickGot: hook.ErrHookFailed,
			observed:  []observed{{Kind: domain.JobDerivatives, Outcome: jobrun.Failed}},
			hookValue: &detail,
		},
	))

	t.Run("when the after hook fails, the job is still done", theory(
		When{
			job:     &job,
			afterFn: func(context.Context, apijobs.Detail) error { return fakeErr },
		},
		Then{
			picked: true, worked: true,
			observed:  []observed{{Kind: domain.JobDerivatives, Outcome: jobrun.Done}},
			hookValue: &detail,
		},
	))
}
