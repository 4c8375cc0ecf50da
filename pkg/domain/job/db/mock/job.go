package mock

import (
	"context"
	"errors"
	"time"

	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
)

type EnqueueArgs struct {
	Kind     domain.JobKind
	Subject  string
	RunAfter time.Time
}

type JobInterface struct {
	Impl struct {
		Enqueue func(context.Context, domain.JobKind, string, time.Time) error
		Pick    func(context.Context, domain.JobKind, func(context.Context, domain.Job) error) (bool, error)
		Get     func(context.Context, int64) (domain.Job, error)
		Count   func(context.Context, domain.JobKind, domain.JobStatus) (int, error)
	}
	Calls struct {
		Enqueue dbmock.CallLog[EnqueueArgs]
		Pick    dbmock.CallLog[domain.JobKind]
		Get     dbmock.CallLog[int64]
		Count   dbmock.CallLog[struct {
			Kind   domain.JobKind
			Status domain.JobStatus
		}]
	}
}

var _ kjob.JobInterface = &JobInterface{}

func New() *JobInterface {
	return &JobInterface{}
}

func (m *JobInterface) Enqueue(ctx context.Context, kind domain.JobKind, subject string, runAfter time.Time) error {
	m.Calls.Enqueue = append(m.Calls.Enqueue, EnqueueArgs{Kind: kind, Subject: subject, RunAfter: runAfter})
	if m.Impl.Enqueue != nil {
		return m.Impl.Enqueue(ctx, kind, subject, runAfter)
	}
	panic(errors.New("it should not be called"))
}

func (m *JobInterface) Pick(ctx context.Context, kind domain.JobKind, f func(context.Context, domain.Job) error) (bool, error) {
	m.Calls.Pick = append(m.Calls.Pick, kind)
	if m.Impl.Pick != nil {
		return m.Impl.Pick(ctx, kind, f)
	}
	panic(errors.New("it should not be called"))
}

func (m *JobInterface) Get(ctx context.Context, id int64) (domain.Job, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *JobInterface) Count(ctx context.Context, kind domain.JobKind, status domain.JobStatus) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct {
		Kind   domain.JobKind
		Status domain.JobStatus
	}{Kind: kind, Status: status})
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, kind, status)
	}
	panic(errors.New("it should not be called"))
}
