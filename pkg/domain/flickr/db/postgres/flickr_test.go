package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/photoshare/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/photoshare/pkg/domain"
	kerr "github.com/opst/photoshare/pkg/domain/errors"
	kpgflickr "github.com/opst/photoshare/pkg/domain/flickr/db/postgres"
	"github.com/opst/photoshare/pkg/utils/try"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlickr_Users(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)
	ctx := context.Background()
	pool := poolBroker.GetPool(ctx, t)
	testee := kpgflickr.New(pool)

	synced := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := testee.UpsertUser(ctx, domain.FlickrUser{})
	assert.ErrorIs(t, err, kerr.ErrInvalidArgument)

	try.To(testee.UpsertUser(ctx, domain.FlickrUser{NSID: "1@N01", Username: "one", SyncedAt: &synced})).OrFatal(t)
	try.To(testee.UpsertUser(ctx, domain.FlickrUser{NSID: "2@N01", Username: "two"})).OrFatal(t)

	updated := try.To(testee.UpsertUser(ctx, domain.FlickrUser{NSID: "1@N01", Username: "uno"})).OrFatal(t)
	assert.Equal(t, "uno", updated.Username)
	require.NotNil(t, updated.SyncedAt, "synced_at should survive an upsert without it")
	assert.True(t, synced.Equal(*updated.SyncedAt))

	stale := try.To(testee.StaleUsers(ctx, synced.Add(time.Hour), 10)).OrFatal(t)
	require.Len(t, stale, 2)
	assert.Equal(t, "2@N01", stale[0].NSID, "never synced users come first")

	require.NoError(t, testee.MarkSynced(ctx, "2@N01", synced.Add(2*time.Hour)))
	stale = try.To(testee.StaleUsers(ctx, synced.Add(time.Hour), 10)).OrFatal(t)
	require.Len(t, stale, 1)
	assert.Equal(t, "1@N01", stale[0].NSID)

	assert.ErrorIs(t, testee.MarkSynced(ctx, "404@N01", synced), kerr.ErrMissing)
	_, err = testee.GetUser(ctx, "404@N01")
	assert.ErrorIs(t, err, kerr.ErrMissing)
}

func TestFlickr_Claims(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)
	ctx := context.Background()
	pool := poolBroker.GetPool(ctx, t)
	for _, q := range []string{
		`insert into "users" ("id", "email", "name", "password_hash") values
			(1, 'a@example.com', 'a', 'x'), (2, 'b@example.com', 'b', 'x')`,
		`insert into "flickr_user" ("nsid") values ('1@N01'), ('2@N01')`,
	} {
		if _, err := pool.Exec(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	testee := kpgflickr.New(pool)

	manual := try.To(testee.CreateClaim(ctx, 1, "1@N01", domain.ClaimManual, "it's me")).OrFatal(t)
	assert.Equal(t, domain.ClaimPending, manual.Status)
	assert.Empty(t, manual.VerificationCode)

	rival := try.To(testee.CreateClaim(ctx, 2, "1@N01", domain.ClaimAutomatic, "")).OrFatal(t)
	assert.NotEmpty(t, rival.VerificationCode)

	_, err := testee.CreateClaim(ctx, 1, "1@N01", domain.ClaimManual, "again")
	assert.ErrorIs(t, err, kerr.ErrConflict, "pending claims should not be duplicated")
	_, err = testee.CreateClaim(ctx, 1, "404@N01", domain.ClaimManual, "")
	assert.ErrorIs(t, err, kerr.ErrMissing)
	_, err = testee.CreateClaim(ctx, 1, "2@N01", domain.ClaimMethod("telepathy"), "")
	assert.ErrorIs(t, err, kerr.ErrInvalidArgument)

	pending := domain.ClaimPending
	listed := try.To(testee.Claims(ctx, &pending, domain.Page{})).OrFatal(t)
	assert.Equal(t, 2, listed.Total)

	approved := try.To(testee.Decide(ctx, manual.ID, domain.ClaimDecision{Status: domain.ClaimApproved})).OrFatal(t)
	assert.Equal(t, domain.ClaimApproved, approved.Status)
	assert.NotNil(t, approved.DecidedAt)

	owner := try.To(testee.GetUser(ctx, "1@N01")).OrFatal(t)
	require.NotNil(t, owner.ClaimedBy)
	assert.Equal(t, int64(1), *owner.ClaimedBy)

	loser := try.To(testee.GetClaim(ctx, rival.ID)).OrFatal(t)
	assert.Equal(t, domain.ClaimDenied, loser.Status, "rival pending claims should be denied")

	_, err = testee.Decide(ctx, manual.ID, domain.ClaimDecision{Status: domain.ClaimDenied})
	assert.ErrorIs(t, err, kerr.ErrConflict, "decided claims are final")

	_, err = testee.CreateClaim(ctx, 2, "1@N01", domain.ClaimManual, "")
	assert.ErrorIs(t, err, kerr.ErrConflict, "claimed identities cannot be claimed")

	mine := try.To(testee.ClaimsOf(ctx, 2)).OrFatal(t)
	require.Len(t, mine, 1)
	assert.Equal(t, rival.ID, mine[0].ID)

	_, err = testee.GetClaim(ctx, 404)
	assert.ErrorIs(t, err, kerr.ErrMissing)
}

func TestFlickr_PickPendingAutomatic(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)
	ctx := context.Background()
	pool := poolBroker.GetPool(ctx, t)
	for _, q := range []string{
		`insert into "users" ("id", "email", "name", "password_hash") values
			(1, 'a@example.com', 'a', 'x'), (2, 'b@example.com', 'b', 'x')`,
		`insert into "flickr_user" ("nsid") values ('1@N01'), ('2@N01')`,
	} {
		if _, err := pool.Exec(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	testee := kpgflickr.New(pool)

	first := try.To(testee.CreateClaim(ctx, 1, "1@N01", domain.ClaimAutomatic, "")).OrFatal(t)
	second := try.To(testee.CreateClaim(ctx, 2, "2@N01", domain.ClaimAutomatic, "")).OrFatal(t)
	try.To(testee.CreateClaim(ctx, 2, "1@N01", domain.ClaimManual, "")).OrFatal(t)

	cursor := domain.ClaimCursor{Debounce: time.Hour}

	t.Run("undecided claims are debounced", func(t *testing.T) {
		next, picked, err := testee.PickPendingAutomatic(ctx, cursor, func(c domain.FlickrUserClaim) (domain.ClaimDecision, error) {
			assert.Equal(t, first.ID, c.ID)
			return domain.ClaimDecision{Status: domain.ClaimPending}, nil
		})
		require.NoError(t, err)
		assert.True(t, picked)
		assert.Equal(t, first.ID, next.Head)
		cursor = next
	})

	t.Run("claims after the head come next", func(t *testing.T) {
		next, picked, err := testee.PickPendingAutomatic(ctx, cursor, func(c domain.FlickrUserClaim) (domain.ClaimDecision, error) {
			assert.Equal(t, second.ID, c.ID)
			return domain.ClaimDecision{Status: domain.ClaimApproved}, nil
		})
		require.NoError(t, err)
		assert.True(t, picked)
		cursor = next

		got := try.To(testee.GetClaim(ctx, second.ID)).OrFatal(t)
		assert.Equal(t, domain.ClaimApproved, got.Status)
	})

	t.Run("errors leave the claim pending", func(t *testing.T) {
		fails := errors.New("flickr is down")
		_, picked, err := testee.PickPendingAutomatic(
			ctx, domain.ClaimCursor{Debounce: 0},
			func(c domain.FlickrUserClaim) (domain.ClaimDecision, error) {
				return domain.ClaimDecision{}, fails
			},
		)
		assert.True(t, picked)
		assert.ErrorIs(t, err, fails)

		got := try.To(testee.GetClaim(ctx, first.ID)).OrFatal(t)
		assert.Equal(t, domain.ClaimPending, got.Status)
	})

	t.Run("nothing is picked while debounced", func(t *testing.T) {
		_, picked, err := testee.PickPendingAutomatic(ctx, cursor, func(c domain.FlickrUserClaim) (domain.ClaimDecision, error) {
			t.Errorf("unexpected pick: %d", c.ID)
			return domain.ClaimDecision{Status: domain.ClaimPending}, nil
		})
		require.NoError(t, err)
		assert.False(t, picked)
	})
}

func TestFlickr_PickPendingAutomatic_DecidesWithoutHoldingLocks(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool := poolBroker.GetPool(ctx, t)
	for _, q := range []string{
		`insert into "users" ("id", "email", "name", "password_hash") values
			(1, 'a@example.com', 'a', 'x'), (2, 'b@example.com', 'b', 'x')`,
		`insert into "flickr_user" ("nsid") values ('1@N01')`,
	} {
		if _, err := pool.Exec(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	testee := kpgflickr.New(pool)

	automatic := try.To(testee.CreateClaim(ctx, 1, "1@N01", domain.ClaimAutomatic, "")).OrFatal(t)
	manual := try.To(testee.CreateClaim(ctx, 2, "1@N01", domain.ClaimManual, "")).OrFatal(t)

	_, picked, err := testee.PickPendingAutomatic(
		ctx, domain.ClaimCursor{Debounce: time.Hour},
		func(c domain.FlickrUserClaim) (domain.ClaimDecision, error) {
			// an admin approves the rival claim while the identity is being verified.
			approved, err := testee.Decide(ctx, manual.ID, domain.ClaimDecision{Status: domain.ClaimApproved})
			if err != nil {
				return domain.ClaimDecision{}, err
			}
			assert.Equal(t, domain.ClaimApproved, approved.Status)
			return domain.ClaimDecision{Status: domain.ClaimApproved}, nil
		},
	)
	require.True(t, picked)
	assert.ErrorIs(t, err, kerr.ErrConflict, "the claim is decided already")

	got := try.To(testee.GetClaim(ctx, automatic.ID)).OrFatal(t)
	assert.Equal(t, domain.ClaimDenied, got.Status)
	owner := try.To(testee.GetUser(ctx, "1@N01")).OrFatal(t)
	require.NotNil(t, owner.ClaimedBy)
	assert.Equal(t, int64(2), *owner.ClaimedBy)
}

