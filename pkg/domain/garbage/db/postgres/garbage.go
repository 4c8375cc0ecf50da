package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	kgarbage "github.com/opst/photoshare/pkg/domain/garbage/db"
)

type pgGarbage struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kgarbage.GarbageInterface {
	return &pgGarbage{pool: pool}
}

func (g *pgGarbage) Pop(ctx context.Context, callback func(domain.Garbage) error) (bool, error) {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var key string
	if err := tx.QueryRow(
		ctx,
		`
		with "picked" as (
			select "object_key" from "garbage" limit 1 for update skip locked
		)
		delete from "garbage"
		where "object_key" in (select "object_key" from "picked")
		returning "object_key"
		`,
	).Scan(&key); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	if callback != nil {
		if err := callback(domain.Garbage{ObjectKey: key}); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (g *pgGarbage) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.pool.QueryRow(ctx, `select count(*) from "garbage"`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RegisterPhotos registers storage objects of photos as garbage.
//
// Both originals and derivatives are registered.
// This should be called in the transaction deleting the photos, before deletion.
func RegisterPhotos(ctx context.Context, q kpool.Queryer, photoIDs []int64) error {
	_, err := q.Exec(
		ctx,
		`
		insert into "garbage" ("object_key")
		select "object_key" from "photo" where "id" = any($1::bigint[])
		union
		select d."value"->>'key'
		from "photo" as p, jsonb_each(p."derivatives") as d
		where p."id" = any($1::bigint[]) and d."value"->>'key' is not null
		on conflict do nothing
		`,
		photoIDs,
	)
	return err
}

// RegisterPhotosOwnedBy registers storage objects of all photos of the user as garbage.
func RegisterPhotosOwnedBy(ctx context.Context, q kpool.Queryer, ownerID int64) error {
	_, err := q.Exec(
		ctx,
		`
		insert into "garbage" ("object_key")
		select "object_key" from "photo" where "owner_id" = $1
		union
		select d."value"->>'key'
		from "photo" as p, jsonb_each(p."derivatives") as d
		where p."owner_id" = $1 and d."value"->>'key' is not null
		on conflict do nothing
		`,
		ownerID,
	)
	return err
}

// Register registers storage objects as garbage.
func Register(ctx context.Context, q kpool.Queryer, objectKeys ...string) error {
	if len(objectKeys) == 0 {
		return nil
	}
	_, err := q.Exec(
		ctx,
		`
		insert into "garbage" ("object_key")
		select unnest($1::text[])
		on conflict do nothing
		`,
		objectKeys,
	)
	return err
}
