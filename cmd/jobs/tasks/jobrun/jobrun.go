// Package jobrun runs queued jobs with lifecycle hooks.
package jobrun

import (
	"context"
	"errors"

	"github.com/opst/photoshare/cmd/jobs/hook"
	apijobs "github.com/opst/photoshare/pkg/api/types/jobs"
	"github.com/opst/photoshare/pkg/domain"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
	"go.uber.org/zap"
)

type Outcome string

const (
	Done   Outcome = "done"
	Failed Outcome = "failed"
)

// Observer is notified outcomes of jobs.
type Observer func(kind domain.JobKind, outcome Outcome)

type Runner struct {
	Jobs    kjob.JobInterface
	Hook    hook.Hook[apijobs.Detail, struct{}]
	Observe Observer
	Logger  *zap.Logger
}

// New returns Runner. Hook and Observer can be nil.
func New(jobs kjob.JobInterface, h hook.Hook[apijobs.Detail, struct{}], observe Observer, logger *zap.Logger) Runner {
	if h == nil {
		h = hook.None[apijobs.Detail]{}
	}
	if observe == nil {
		observe = func(domain.JobKind, Outcome) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Runner{Jobs: jobs, Hook: h, Observe: observe, Logger: logger}
}

// Pick picks a job of kind and does work on it.
//
// Failures of the work, including the before hook, are recorded on the job
// for retrying and do not make error.
// Failures of the after hook are logged only.
//
// # Returns
//
// - bool: true when a job is picked.
//
// - error: error from the job queue.
func (r Runner) Pick(ctx context.Context, kind domain.JobKind, work func(context.Context, domain.Job) error) (bool, error) {
	var failure error
	picked, err := r.Jobs.Pick(ctx, kind, func(ctx context.Context, job domain.Job) error {
		detail := apijobs.ComposeDetail(job)
		if _, err := r.Hook.Before(ctx, detail); err != nil {
			failure = err
			return err
		}
		if err := work(ctx, job); err != nil {
			failure = err
			return err
		}
		if err := r.Hook.After(ctx, detail); err != nil {
			r.Logger.Warn(
				"after hook failed",
				zap.String("kind", string(kind)), zap.Int64("job", job.ID), zap.Error(err),
			)
		}
		return nil
	})
	if !picked {
		return false, err
	}

	if failure != nil {
		r.Observe(kind, Failed)
		r.Logger.Warn(
			"job failed",
			zap.String("kind", string(kind)), zap.Error(err),
		)
		if err != nil && !errors.Is(err, failure) {
			return true, err
		}
		return true, nil
	}
	if err != nil {
		return true, err
	}
	r.Observe(kind, Done)
	return true, nil
}
