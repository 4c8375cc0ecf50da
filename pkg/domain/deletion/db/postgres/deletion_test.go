package postgres_test

import (
	"context"
	"testing"

	"github.com/opst/photoshare/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/photoshare/pkg/domain"
	kpgdeletion "github.com/opst/photoshare/pkg/domain/deletion/db/postgres"
	kerr "github.com/opst/photoshare/pkg/domain/errors"
	"github.com/opst/photoshare/pkg/utils/try"
	"github.com/stretchr/testify/assert"
)

func TestDeletion_Request(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)
	ctx := context.Background()
	pool := poolBroker.GetPool(ctx, t)
	if _, err := pool.Exec(
		ctx,
		`insert into "users" ("id", "email", "name", "password_hash", "facebook_id") values (1, 'a@example.com', 'a', 'x', 'fb-1')`,
	); err != nil {
		t.Fatal(err)
	}
	testee := kpgdeletion.New(pool)

	t.Run("linked user is deleted", func(t *testing.T) {
		got := try.To(testee.Request(ctx, "fb-1", "code-1")).OrFatal(t)
		assert.Equal(t, domain.DeletionCompleted, got.Status)
		assert.Equal(t, "fb-1", got.FacebookUserID)

		var users int
		if err := pool.QueryRow(ctx, `select count(*) from "users"`).Scan(&users); err != nil {
			t.Fatal(err)
		}
		assert.Zero(t, users)
	})

	t.Run("unknown facebook user is recorded as not found", func(t *testing.T) {
		got := try.To(testee.Request(ctx, "fb-2", "code-2")).OrFatal(t)
		assert.Equal(t, domain.DeletionNotFound, got.Status)
	})

	t.Run("requests are looked up by confirmation code", func(t *testing.T) {
		got := try.To(testee.Get(ctx, "code-1")).OrFatal(t)
		assert.Equal(t, domain.DeletionCompleted, got.Status)

		_, err := testee.Get(ctx, "code-404")
		assert.ErrorIs(t, err, kerr.ErrMissing)
	})

	t.Run("confirmation codes are unique", func(t *testing.T) {
		_, err := testee.Request(ctx, "fb-3", "code-2")
		assert.ErrorIs(t, err, kerr.ErrConflict)
	})
}
