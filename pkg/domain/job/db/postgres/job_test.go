package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/photoshare/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/photoshare/pkg/domain"
	kerr "github.com/opst/photoshare/pkg/domain/errors"
	kpgjob "github.com/opst/photoshare/pkg/domain/job/db/postgres"
	"github.com/opst/photoshare/pkg/utils/try"
)

func TestJob_EnqueueAndPick(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)

	t.Run("A due job is picked once and becomes done", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		if err := testee.Enqueue(ctx, domain.JobDerivatives, "42", time.Now().Add(-time.Second)); err != nil {
			t.Fatal(err)
		}

		var got domain.Job
		picked := try.To(testee.Pick(ctx, domain.JobDerivatives, func(_ context.Context, j domain.Job) error {
			got = j
			return nil
		})).OrFatal(t)
		if !picked {
			t.Fatal("job is not picked")
		}
		if got.Subject != "42" || got.Status != domain.JobRunning || got.Attempts != 1 {
			t.Errorf("unexpected job: %+v", got)
		}

		stored := try.To(testee.Get(ctx, got.ID)).OrFatal(t)
		if stored.Status != domain.JobDone {
			t.Errorf("unexpected status: %s", stored.Status)
		}

		again := try.To(testee.Pick(ctx, domain.JobDerivatives, func(context.Context, domain.Job) error {
			t.Error("it should not be called")
			return nil
		})).OrFatal(t)
		if again {
			t.Error("done job is picked again")
		}
	})

	t.Run("Jobs of other kinds and future jobs are not picked", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		if err := testee.Enqueue(ctx, domain.JobRekognition, "1", time.Now().Add(-time.Second)); err != nil {
			t.Fatal(err)
		}
		if err := testee.Enqueue(ctx, domain.JobDerivatives, "2", time.Now().Add(time.Hour)); err != nil {
			t.Fatal(err)
		}

		picked := try.To(testee.Pick(ctx, domain.JobDerivatives, func(context.Context, domain.Job) error {
			t.Error("it should not be called")
			return nil
		})).OrFatal(t)
		if picked {
			t.Error("unexpected pick")
		}
	})

	t.Run("Queued jobs are not duplicated", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		for i := 0; i < 3; i++ {
			if err := testee.Enqueue(ctx, domain.JobFlickrSync, "12345@N00", time.Now()); err != nil {
				t.Fatal(err)
			}
		}
		if n := try.To(testee.Count(ctx, domain.JobFlickrSync, domain.JobQueued)).OrFatal(t); n != 1 {
			t.Errorf("unexpected count: %d", n)
		}
	})

	t.Run("Unknown kinds are rejected", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		if err := testee.Enqueue(ctx, domain.JobKind("unknown"), "1", time.Now()); err == nil {
			t.Error("expected error, but nil")
		}
	})

	t.Run("Missing jobs are ErrMissing", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		if _, err := testee.Get(ctx, 9999); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestJob_PickFailure(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)

	t.Run("A failed job is queued again with delay", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		if err := testee.Enqueue(ctx, domain.JobDerivatives, "42", time.Now().Add(-time.Second)); err != nil {
			t.Fatal(err)
		}

		expectedErr := errors.New("fake error")
		var id int64
		picked, err := testee.Pick(ctx, domain.JobDerivatives, func(_ context.Context, j domain.Job) error {
			id = j.ID
			return expectedErr
		})
		if !picked {
			t.Fatal("job is not picked")
		}
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}

		got := try.To(testee.Get(ctx, id)).OrFatal(t)
		if got.Status != domain.JobQueued || got.Attempts != 1 || got.LastError != "fake error" {
			t.Errorf("unexpected job: %+v", got)
		}
		if !got.RunAfter.After(time.Now()) {
			t.Errorf("job is not delayed: %s", got.RunAfter)
		}
	})

	t.Run("A job failed too many times becomes failed", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool)

		if err := testee.Enqueue(ctx, domain.JobRekognition, "7", time.Now().Add(-time.Second)); err != nil {
			t.Fatal(err)
		}
		if _, err := pool.Exec(ctx, `update "job" set "attempts" = $1`, domain.MaxJobAttempts-1); err != nil {
			t.Fatal(err)
		}

		var id int64
		if _, err := testee.Pick(ctx, domain.JobRekognition, func(_ context.Context, j domain.Job) error {
			id = j.ID
			return errors.New("fake error")
		}); err == nil {
			t.Error("expected error, but nil")
		}

		got := try.To(testee.Get(ctx, id)).OrFatal(t)
		if got.Status != domain.JobFailed || got.Attempts != domain.MaxJobAttempts {
			t.Errorf("unexpected job: %+v", got)
		}
		if n := try.To(testee.Count(ctx, domain.JobRekognition, domain.JobFailed)).OrFatal(t); n != 1 {
			t.Errorf("unexpected count: %d", n)
		}
	})

	t.Run("A running job with expired lease is picked again", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgjob.New(pool, kpgjob.WithLease(time.Minute))

		if err := testee.Enqueue(ctx, domain.JobDerivatives, "42", time.Now().Add(-time.Hour)); err != nil {
			t.Fatal(err)
		}
		if _, err := pool.Exec(
			ctx,
			`update "job" set "status" = 'running', "attempts" = 1, "updated_at" = now() - interval '2 minutes'`,
		); err != nil {
			t.Fatal(err)
		}

		var got domain.Job
		picked := try.To(testee.Pick(ctx, domain.JobDerivatives, func(_ context.Context, j domain.Job) error {
			got = j
			return nil
		})).OrFatal(t)
		if !picked || got.Attempts != 2 {
			t.Errorf("unexpected pick: %v, %+v", picked, got)
		}
	})
}
