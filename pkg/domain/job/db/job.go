package db

import (
	"context"
	"time"

	"github.com/opst/photoshare/pkg/domain"
)

type JobInterface interface {
	// Enqueue queues a job.
	//
	// When a queued job with the same kind and subject exists, nothing happens.
	Enqueue(ctx context.Context, kind domain.JobKind, subject string, runAfter time.Time) error

	// Pick picks one due job of the kind and runs f with it.
	//
	// A picked job is not handed to other workers until its lease expires.
	// When f returns nil, the job becomes done.
	// Otherwise, it is queued again with exponential delay, or becomes failed
	// after domain.MaxJobAttempts attempts.
	//
	// # Returns
	//
	// - bool: whether a job is picked.
	//
	// - error: error from f or database.
	Pick(ctx context.Context, kind domain.JobKind, f func(context.Context, domain.Job) error) (bool, error)

	Get(ctx context.Context, id int64) (domain.Job, error)

	// Count counts jobs of the kind in the status.
	Count(ctx context.Context, kind domain.JobKind, status domain.JobStatus) (int, error)
}
