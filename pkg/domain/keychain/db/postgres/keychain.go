package keychain

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	kdbkeychain "github.com/opst/photoshare/pkg/domain/keychain/db"
)

type pgKeychain struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbkeychain.KeychainInterface {
	return &pgKeychain{pool: pool}
}

// lock locks the keychain, creating it if missing.
//
// "for no key update" lets keychain_key rows referring the keychain be inserted meanwhile.
func lock(ctx context.Context, tx kpool.Tx, name string) error {
	var got string
	return tx.QueryRow(
		ctx,
		`
		with
		"old" as (
			select "name" from "keychain"
			where "name" = $1 for no key update
		),
		"new" as (
			insert into "keychain" ("name") values ($1)
			on conflict ("name") do nothing
			returning "name"
		)
		select * from "old"
		union all
		select * from "new"
		`,
		name,
	).Scan(&got)
}

func keys(ctx context.Context, q kpool.Queryer, name string) ([]domain.SigningKey, error) {
	rows, err := q.Query(
		ctx,
		`
		select "kid", "alg", "secret", "expires_at" from "keychain_key"
		where "name" = $1 and now() < "expires_at"
		order by "expires_at" desc, "kid"
		`,
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []domain.SigningKey{}
	for rows.Next() {
		k := domain.SigningKey{}
		if err := rows.Scan(&k.KID, &k.Alg, &k.Secret, &k.ExpiresAt); err != nil {
			return nil, err
		}
		ret = append(ret, k)
	}
	return ret, rows.Err()
}

func (kc *pgKeychain) Keys(ctx context.Context, name string) ([]domain.SigningKey, error) {
	return keys(ctx, kc.pool, name)
}

func (kc *pgKeychain) Get(ctx context.Context, name string, kid string) (domain.SigningKey, error) {
	k := domain.SigningKey{}
	err := kc.pool.QueryRow(
		ctx,
		`
		select "kid", "alg", "secret", "expires_at" from "keychain_key"
		where "name" = $1 and "kid" = $2 and now() < "expires_at"
		`,
		name, kid,
	).Scan(&k.KID, &k.Alg, &k.Secret, &k.ExpiresAt)
	if err == pgx.ErrNoRows {
		return domain.SigningKey{}, pgerrors.Missing{
			Table: "keychain_key", Identity: fmt.Sprintf("name=%s, kid=%s", name, kid),
		}
	}
	return k, err
}

func (kc *pgKeychain) Current(
	ctx context.Context, name string, minTTL time.Duration,
	issue func() (domain.SigningKey, error),
) (domain.SigningKey, error) {
	var current domain.SigningKey
	err := kpool.InTx(ctx, kc.pool, func(tx kpool.Tx) error {
		if err := lock(ctx, tx, name); err != nil {
			return err
		}
		if _, err := tx.Exec(
			ctx,
			`delete from "keychain_key" where "name" = $1 and "expires_at" <= now()`,
			name,
		); err != nil {
			return err
		}

		ks, err := keys(ctx, tx, name)
		if err != nil {
			return err
		}
		if 0 < len(ks) && time.Now().Add(minTTL).Before(ks[0].ExpiresAt) {
			current = ks[0]
			return nil
		}

		k, err := issue()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			ctx,
			`
			insert into "keychain_key" ("kid", "name", "alg", "secret", "expires_at")
			values ($1, $2, $3, $4, $5)
			`,
			k.KID, name, k.Alg, k.Secret, k.ExpiresAt,
		); err != nil {
			return pgerrors.Translate(err)
		}
		current = k
		return nil
	})
	return current, err
}
