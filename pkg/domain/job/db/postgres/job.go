package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
)

// DefaultLease is how long a running job is kept from other workers.
const DefaultLease = 30 * time.Minute

type pgJob struct {
	pool  kpool.Pool
	lease time.Duration
}

type Option func(*pgJob)

// WithLease sets the lease of picked jobs.
//
// A job running longer than lease is regarded as abandoned, and picked again.
func WithLease(d time.Duration) Option {
	return func(j *pgJob) { j.lease = d }
}

func New(pool kpool.Pool, options ...Option) kjob.JobInterface {
	j := &pgJob{pool: pool, lease: DefaultLease}
	for _, o := range options {
		o(j)
	}
	return j
}

const jobColumns = `"id", "kind"::text, "subject", "status"::text, "attempts", "run_after", "last_error"`

func scanJob(row pgx.Row) (domain.Job, error) {
	j := domain.Job{}
	var kind, status string
	if err := row.Scan(&j.ID, &kind, &j.Subject, &status, &j.Attempts, &j.RunAfter, &j.LastError); err != nil {
		return domain.Job{}, err
	}
	j.Kind = domain.JobKind(kind)
	j.Status = domain.JobStatus(status)
	return j, nil
}

// EnqueueInTx queues a job with q.
//
// Use it to queue jobs in the same transaction with the change causing them.
func EnqueueInTx(ctx context.Context, q kpool.Queryer, kind domain.JobKind, subject string, runAfter time.Time) error {
	if _, err := domain.AsJobKind(string(kind)); err != nil {
		return err
	}
	_, err := q.Exec(
		ctx,
		`
		insert into "job" ("kind", "subject", "run_after")
		values ($1::job_kind, $2, $3)
		on conflict ("kind", "subject") where "status" = 'queued' do nothing
		`,
		string(kind), subject, runAfter,
	)
	return err
}

func (m *pgJob) Enqueue(ctx context.Context, kind domain.JobKind, subject string, runAfter time.Time) error {
	return EnqueueInTx(ctx, m.pool, kind, subject, runAfter)
}

func (m *pgJob) Pick(ctx context.Context, kind domain.JobKind, f func(context.Context, domain.Job) error) (bool, error) {
	var job domain.Job
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		j, err := scanJob(tx.QueryRow(
			ctx,
			`
			with "picked" as (
				select "id" from "job"
				where "kind" = $1::job_kind
					and (
						("status" = 'queued' and "run_after" <= now())
						or ("status" = 'running' and "updated_at" < now() - make_interval(secs => $2))
					)
				order by "run_after", "id"
				limit 1
				for update skip locked
			)
			update "job"
			set "status" = 'running', "attempts" = "attempts" + 1, "updated_at" = now()
			where "id" in (select "id" from "picked")
			returning `+jobColumns,
			string(kind), m.lease.Seconds(),
		))
		if err != nil {
			return err
		}
		job = j
		return nil
	}); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	ferr := f(ctx, job)

	// record the outcome even when ctx is canceled while f is running.
	rctx := context.WithoutCancel(ctx)
	if ferr == nil {
		if _, err := m.pool.Exec(
			rctx,
			`update "job" set "status" = 'done', "last_error" = '', "updated_at" = now() where "id" = $1`,
			job.ID,
		); err != nil {
			return true, err
		}
		return true, nil
	}

	if _, err := m.pool.Exec(
		rctx,
		`
		update "job"
		set
			"status" = (case
				when $2 then 'failed'
				when exists (
					select 1 from "job" as "j2"
					where "j2"."kind" = "job"."kind" and "j2"."subject" = "job"."subject"
						and "j2"."status" = 'queued' and "j2"."id" <> "job"."id"
				) then 'failed'
				else 'queued'
			end)::job_status,
			"run_after" = now() + make_interval(secs => $3),
			"last_error" = $4,
			"updated_at" = now()
		where "id" = $1
		`,
		job.ID, domain.GivesUp(job.Attempts), domain.RetryDelay(job.Attempts).Seconds(), ferr.Error(),
	); err != nil {
		return true, fmt.Errorf("%w (and failed to requeue: %s)", ferr, err)
	}
	return true, ferr
}

func (m *pgJob) Get(ctx context.Context, id int64) (domain.Job, error) {
	j, err := scanJob(m.pool.QueryRow(ctx, `select `+jobColumns+` from "job" where "id" = $1`, id))
	if err == pgx.ErrNoRows {
		return domain.Job{}, pgerrors.Missing{Table: "job", Identity: fmt.Sprintf("id=%d", id)}
	}
	return j, err
}

func (m *pgJob) Count(ctx context.Context, kind domain.JobKind, status domain.JobStatus) (int, error) {
	var n int
	err := m.pool.QueryRow(
		ctx,
		`select count(*) from "job" where "kind" = $1::job_kind and "status" = $2::job_status`,
		string(kind), string(status),
	).Scan(&n)
	return n, err
}
