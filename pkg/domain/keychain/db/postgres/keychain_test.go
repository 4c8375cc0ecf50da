package keychain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/photoshare/pkg/domain"
	kerr "github.com/opst/photoshare/pkg/domain/errors"
	"github.com/opst/photoshare/pkg/utils/try"

	kpgkc "github.com/opst/photoshare/pkg/domain/keychain/db/postgres"
)

func TestKeychain_Current(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)

	issuer := func(kid string, ttl time.Duration) func() (domain.SigningKey, error) {
		return func() (domain.SigningKey, error) {
			return domain.SigningKey{
				KID:       kid,
				Alg:       "HS256",
				Secret:    []byte("secret-" + kid),
				ExpiresAt: time.Now().Add(ttl).Truncate(time.Second),
			}, nil
		}
	}

	t.Run("When there are no keys, Current issues and stores a new key", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgkc.New(pool)

		got := try.To(testee.Current(ctx, "session", time.Minute, issuer("kid-1", time.Hour))).OrFatal(t)
		if got.KID != "kid-1" {
			t.Errorf("unexpected key: %s", got)
		}

		stored := try.To(testee.Keys(ctx, "session")).OrFatal(t)
		if len(stored) != 1 || !stored[0].ExpiresAt.Equal(got.ExpiresAt) ||
			!cmp.Equal(stored[0].Secret, got.Secret) {
			t.Errorf("unexpected keys: %v", stored)
		}
	})

	t.Run("When the latest key lives long enough, Current returns it", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgkc.New(pool)

		first := try.To(testee.Current(ctx, "session", time.Minute, issuer("kid-1", time.Hour))).OrFatal(t)
		got := try.To(testee.Current(ctx, "session", time.Minute, func() (domain.SigningKey, error) {
			return domain.SigningKey{}, errors.New("it should not be called")
		})).OrFatal(t)

		if got.KID != first.KID {
			t.Errorf("unexpected key: %s", got)
		}
	})

	t.Run("When the latest key expires soon, Current rotates keys and keeps the old one verifiable", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgkc.New(pool)

		try.To(testee.Current(ctx, "session", time.Minute, issuer("kid-1", 30*time.Minute))).OrFatal(t)
		got := try.To(testee.Current(ctx, "session", time.Hour, issuer("kid-2", 3*time.Hour))).OrFatal(t)
		if got.KID != "kid-2" {
			t.Errorf("unexpected key: %s", got)
		}

		keys := try.To(testee.Keys(ctx, "session")).OrFatal(t)
		kids := []string{}
		for _, k := range keys {
			kids = append(kids, k.KID)
		}
		if !cmp.Equal(kids, []string{"kid-2", "kid-1"}) {
			t.Errorf("unexpected keys: %v", kids)
		}

		old := try.To(testee.Get(ctx, "session", "kid-1")).OrFatal(t)
		if old.KID != "kid-1" {
			t.Errorf("unexpected key: %s", old)
		}
	})

	t.Run("When the issuer fails, Current returns the error and stores nothing", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgkc.New(pool)

		expectedErr := errors.New("fake")
		_, err := testee.Current(ctx, "session", time.Minute, func() (domain.SigningKey, error) {
			return domain.SigningKey{}, expectedErr
		})
		if !errors.Is(err, expectedErr) {
			t.Fatalf("unexpected error: %v", err)
		}

		if keys := try.To(testee.Keys(ctx, "session")).OrFatal(t); len(keys) != 0 {
			t.Errorf("unexpected keys: %v", keys)
		}
	})

	t.Run("Expired keys are neither listed nor got", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgkc.New(pool)

		if _, err := pool.Exec(ctx, `insert into "keychain" ("name") values ('session')`); err != nil {
			t.Fatal(err)
		}
		if _, err := pool.Exec(
			ctx,
			`
			insert into "keychain_key" ("kid", "name", "alg", "secret", "expires_at")
			values ('expired', 'session', 'HS256', '\x00', now() - interval '1 minute')
			`,
		); err != nil {
			t.Fatal(err)
		}

		if keys := try.To(testee.Keys(ctx, "session")).OrFatal(t); len(keys) != 0 {
			t.Errorf("unexpected keys: %v", keys)
		}
		if _, err := testee.Get(ctx, "session", "expired"); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
