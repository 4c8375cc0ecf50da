package domain

import (
	"fmt"
	"math"
	"time"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

type JobKind string

const (
	JobDerivatives JobKind = "derivatives"
	JobRekognition JobKind = "rekognition"
	JobFlickrSync  JobKind = "flickr_sync"
	JobRelatedTags JobKind = "related_tags"
)

func AsJobKind(s string) (JobKind, error) {
	switch k := JobKind(s); k {
	case JobDerivatives, JobRekognition, JobFlickrSync, JobRelatedTags:
		return k, nil
	default:
		return k, fmt.Errorf("%w: unknown job kind: %s", domerr.ErrInvalidArgument, s)
	}
}

type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

func AsJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case JobQueued, JobRunning, JobDone, JobFailed:
		return st, nil
	default:
		return st, fmt.Errorf("%w: unknown job status: %s", domerr.ErrInvalidArgument, s)
	}
}

// Job is a unit of background work.
//
// Subject is a kind-specific identifier (photo id for derivatives/rekognition, NSID for flickr_sync).
type Job struct {
	ID        int64
	Kind      JobKind
	Subject   string
	Status    JobStatus
	Attempts  int
	RunAfter  time.Time
	LastError string
}

const (
	MaxJobAttempts = 5
	jobBaseDelay   = 30 * time.Second
	jobMaxDelay    = 6 * time.Hour
)

// RetryDelay is the delay before the next attempt, after attempts failures.
func RetryDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := float64(jobBaseDelay) * math.Pow(2, float64(attempts-1))
	if float64(jobMaxDelay) < d {
		return jobMaxDelay
	}
	return time.Duration(d)
}

// GivesUp tells a job failed attempts times should not be retried.
func GivesUp(attempts int) bool {
	return MaxJobAttempts <= attempts
}
