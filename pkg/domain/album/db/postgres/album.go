package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	kalbum "github.com/opst/photoshare/pkg/domain/album/db"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	"github.com/opst/photoshare/pkg/domain/internal/db/postgres/query"
	"github.com/opst/photoshare/pkg/domain/internal/db/postgres/slugs"
)

type pgAlbum struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kalbum.AlbumInterface {
	return &pgAlbum{pool: pool}
}

// cover falls back to the first photo, when not chosen (or deleted).
const albumColumns = `
	a."id", a."slug", a."owner_id", a."title", a."description", a."privacy"::text,
	coalesce(a."cover_photo_id", (
		select ap."photo_id" from "album_photo" as ap
		where ap."album_id" = a."id" order by ap."position" limit 1
	)),
	a."share_token",
	(select count(*) from "album_photo" as ap where ap."album_id" = a."id"),
	a."created_at", a."updated_at"
`

func scanAlbum(row pgx.Row) (domain.Album, error) {
	a := domain.Album{}
	var privacy string
	if err := row.Scan(
		&a.ID, &a.Slug, &a.OwnerID, &a.Title, &a.Description, &privacy,
		&a.CoverPhotoID, &a.ShareToken, &a.PhotoCount, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return domain.Album{}, err
	}
	a.Privacy = domain.Privacy(privacy)
	return a, nil
}

func getAlbum(ctx context.Context, q kpool.Queryer, cond string, identity string, args ...any) (domain.Album, error) {
	a, err := scanAlbum(q.QueryRow(
		ctx, `select `+albumColumns+` from "album" as a where `+cond, args...,
	))
	if err == pgx.ErrNoRows {
		return domain.Album{}, pgerrors.Missing{Table: "album", Identity: identity}
	}
	return a, err
}

func byID(id int64) (string, string, []any) {
	return `a."id" = $1`, fmt.Sprintf("id=%d", id), []any{id}
}

// lock locks the album row in tx.
func lock(ctx context.Context, tx kpool.Tx, albumID int64) error {
	var id int64
	if err := tx.QueryRow(
		ctx, `select "id" from "album" where "id" = $1 for update`, albumID,
	).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return pgerrors.Missing{Table: "album", Identity: fmt.Sprintf("id=%d", albumID)}
		}
		return err
	}
	return nil
}

func (m *pgAlbum) Create(ctx context.Context, spec domain.AlbumSpec) (domain.Album, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return domain.Album{}, err
	}

	var id int64
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		base := domain.MakeSlug(spec.Title, "album")
		return slugs.Insert(ctx, tx, "album", base, func(sp kpool.Tx, slug string) error {
			err := sp.QueryRow(
				ctx,
				`
				insert into "album" ("slug", "owner_id", "title", "description", "privacy", "share_token")
				values ($1, $2, $3, $4, $5::album_privacy, $6)
				returning "id"
				`,
				slug, spec.OwnerID, spec.Title, spec.Description, string(spec.Privacy),
				domain.NewShareToken(),
			).Scan(&id)
			return pgerrors.Translate(err)
		})
	}); err != nil {
		return domain.Album{}, err
	}
	return m.Get(ctx, id)
}

func (m *pgAlbum) Get(ctx context.Context, id int64) (domain.Album, error) {
	cond, identity, args := byID(id)
	return getAlbum(ctx, m.pool, cond, identity, args...)
}

func (m *pgAlbum) GetBySlug(ctx context.Context, slug string) (domain.Album, error) {
	return getAlbum(ctx, m.pool, `a."slug" = $1`, "slug="+slug, slug)
}

func (m *pgAlbum) GetByShareToken(ctx context.Context, token string) (domain.Album, error) {
	if token == "" {
		return domain.Album{}, pgerrors.Missing{Table: "album", Identity: "share token"}
	}
	return getAlbum(
		ctx, m.pool,
		`
		(a."share_token" = $1 and a."privacy" = 'unlisted')
		or exists (
			select 1 from "album_share" as s where s."album_id" = a."id" and s."token" = $1
		)
		`,
		"share token", token,
	)
}

func (m *pgAlbum) Find(ctx context.Context, q domain.AlbumQuery) (domain.Paginated[domain.Album], error) {
	page := q.Page.Normalized()
	ret := domain.Paginated[domain.Album]{Items: []domain.Album{}, Page: page}

	b := &query.Builder{}
	b.Scope("a", q.Scope)
	if q.OwnerID != nil {
		b.Where(`a."owner_id" = ` + b.Arg(*q.OwnerID))
	}

	if err := m.pool.QueryRow(
		ctx, `select count(*) from "album" as a `+b.WhereClause(), b.Args()...,
	).Scan(&ret.Total); err != nil {
		return ret, err
	}
	if ret.Total == 0 {
		return ret, nil
	}

	limit := b.Arg(page.Limit())
	offset := b.Arg(page.Offset())
	rows, err := m.pool.Query(
		ctx,
		`select `+albumColumns+` from "album" as a `+b.WhereClause()+
			` order by a."created_at" desc, a."id" desc limit `+limit+` offset `+offset,
		b.Args()...,
	)
	if err != nil {
		return ret, err
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return ret, err
		}
		ret.Items = append(ret.Items, a)
	}
	return ret, rows.Err()
}

func (m *pgAlbum) Update(ctx context.Context, id int64, update domain.AlbumUpdate) (domain.Album, error) {
	update, err := update.Normalize()
	if err != nil {
		return domain.Album{}, err
	}

	b := &query.Builder{}
	sets := []string{`"updated_at" = now()`}
	if update.Title != nil {
		sets = append(sets, `"title" = `+b.Arg(*update.Title))
	}
	if update.Description != nil {
		sets = append(sets, `"description" = `+b.Arg(*update.Description))
	}
	if update.Privacy != nil {
		sets = append(sets, `"privacy" = `+b.Arg(string(*update.Privacy))+`::album_privacy`)
	}

	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		if err := lock(ctx, tx, id); err != nil {
			return err
		}
		if update.CoverPhotoID != nil {
			var in bool
			if err := tx.QueryRow(
				ctx,
				`select exists (select 1 from "album_photo" where "album_id" = $1 and "photo_id" = $2)`,
				id, *update.CoverPhotoID,
			).Scan(&in); err != nil {
				return err
			}
			if !in {
				return fmt.Errorf("%w: cover photo should be in the album", domerr.ErrInvalidArgument)
			}
			sets = append(sets, `"cover_photo_id" = `+b.Arg(*update.CoverPhotoID))
		}
		_, err := tx.Exec(
			ctx,
			`update "album" set `+strings.Join(sets, ", ")+` where "id" = `+b.Arg(id),
			b.Args()...,
		)
		return pgerrors.Translate(err)
	}); err != nil {
		return domain.Album{}, err
	}
	return m.Get(ctx, id)
}

func (m *pgAlbum) Delete(ctx context.Context, id int64) (domain.Album, error) {
	var deleted domain.Album
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		cond, identity, args := byID(id)
		a, err := getAlbum(ctx, tx, cond, identity, args...)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from "album" where "id" = $1`, id); err != nil {
			return err
		}
		deleted = a
		return nil
	})
	return deleted, err
}

func (m *pgAlbum) AddPhotos(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error) {
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		if err := lock(ctx, tx, albumID); err != nil {
			return err
		}

		current, err := photoIDsIn(ctx, tx, albumID)
		if err != nil {
			return err
		}
		in := map[int64]struct{}{}
		for _, id := range current {
			in[id] = struct{}{}
		}
		adding := []int64{}
		for _, id := range photoIDs {
			if _, ok := in[id]; ok {
				continue
			}
			in[id] = struct{}{}
			adding = append(adding, id)
		}
		if len(adding) == 0 {
			return nil
		}

		if _, err := tx.Exec(
			ctx,
			`
			insert into "album_photo" ("album_id", "photo_id", "position")
			select $1, x."photo_id", $3 + x."ord" - 1
			from unnest($2::bigint[]) with ordinality as x("photo_id", "ord")
			`,
			albumID, adding, len(current),
		); err != nil {
			return pgerrors.Translate(err)
		}
		_, err = tx.Exec(ctx, `update "album" set "updated_at" = now() where "id" = $1`, albumID)
		return err
	}); err != nil {
		return domain.Album{}, err
	}
	return m.Get(ctx, albumID)
}

func (m *pgAlbum) RemovePhotos(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error) {
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		if err := lock(ctx, tx, albumID); err != nil {
			return err
		}
		if _, err := tx.Exec(
			ctx,
			`delete from "album_photo" where "album_id" = $1 and "photo_id" = any($2::bigint[])`,
			albumID, photoIDs,
		); err != nil {
			return err
		}
		_, err := tx.Exec(
			ctx,
			`
			update "album"
			set
				"updated_at" = now(),
				"cover_photo_id" = case when "cover_photo_id" = any($2::bigint[]) then null else "cover_photo_id" end
			where "id" = $1
			`,
			albumID, photoIDs,
		)
		return err
	}); err != nil {
		return domain.Album{}, err
	}
	return m.Get(ctx, albumID)
}

func photoIDsIn(ctx context.Context, q kpool.Queryer, albumID int64) ([]int64, error) {
	rows, err := q.Query(
		ctx,
		`select "photo_id" from "album_photo" where "album_id" = $1 order by "position"`,
		albumID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (m *pgAlbum) Reorder(ctx context.Context, albumID int64, photoIDs []int64) (domain.Album, error) {
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		if err := lock(ctx, tx, albumID); err != nil {
			return err
		}
		current, err := photoIDsIn(ctx, tx, albumID)
		if err != nil {
			return err
		}
		if !domain.IsPermutation(current, photoIDs) {
			return fmt.Errorf(
				"%w: new order should be a permutation of photos in the album", domerr.ErrInvalidArgument,
			)
		}

		// positions are unique, but checked at commit.
		if _, err := tx.Exec(
			ctx,
			`
			update "album_photo" as ap
			set "position" = x."ord" - 1
			from unnest($2::bigint[]) with ordinality as x("photo_id", "ord")
			where ap."album_id" = $1 and ap."photo_id" = x."photo_id"
			`,
			albumID, photoIDs,
		); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `update "album" set "updated_at" = now() where "id" = $1`, albumID)
		return err
	}); err != nil {
		return domain.Album{}, err
	}
	return m.Get(ctx, albumID)
}

func (m *pgAlbum) Photos(ctx context.Context, albumID int64, page domain.Page) (domain.Paginated[domain.AlbumPhoto], error) {
	page = page.Normalized()
	ret := domain.Paginated[domain.AlbumPhoto]{Items: []domain.AlbumPhoto{}, Page: page}

	if err := m.pool.QueryRow(
		ctx, `select count(*) from "album_photo" where "album_id" = $1`, albumID,
	).Scan(&ret.Total); err != nil {
		return ret, err
	}

	rows, err := m.pool.Query(
		ctx,
		`
		select "album_id", "photo_id", "position" from "album_photo"
		where "album_id" = $1
		order by "position"
		limit $2 offset $3
		`,
		albumID, page.Limit(), page.Offset(),
	)
	if err != nil {
		return ret, err
	}
	defer rows.Close()
	for rows.Next() {
		ap := domain.AlbumPhoto{}
		if err := rows.Scan(&ap.AlbumID, &ap.PhotoID, &ap.Position); err != nil {
			return ret, err
		}
		ret.Items = append(ret.Items, ap)
	}
	return ret, rows.Err()
}

func (m *pgAlbum) Contains(ctx context.Context, albumID int64, photoID int64) (bool, error) {
	var in bool
	err := m.pool.QueryRow(
		ctx,
		`select exists (select 1 from "album_photo" where "album_id" = $1 and "photo_id" = $2)`,
		albumID, photoID,
	).Scan(&in)
	return in, err
}

func (m *pgAlbum) Share(ctx context.Context, albumID int64, email string) (domain.AlbumShare, error) {
	emails, err := domain.NormalizeEmails([]string{email})
	if err != nil {
		return domain.AlbumShare{}, err
	}

	s := domain.AlbumShare{}
	err = m.pool.QueryRow(
		ctx,
		`
		with "inserted" as (
			insert into "album_share" ("album_id", "email", "token")
			values ($1, $2, $3)
			on conflict ("album_id", "email") do nothing
			returning "album_id", "email", "token", "created_at"
		)
		select * from "inserted"
		union all
		select "album_id", "email", "token", "created_at" from "album_share"
		where "album_id" = $1 and "email" = $2
		`,
		albumID, emails[0], domain.NewShareToken(),
	).Scan(&s.AlbumID, &s.Email, &s.Token, &s.CreatedAt)
	if err != nil {
		return domain.AlbumShare{}, pgerrors.Translate(err)
	}
	return s, nil
}

func (m *pgAlbum) Shares(ctx context.Context, albumID int64) ([]domain.AlbumShare, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select "album_id", "email", "token", "created_at" from "album_share"
		where "album_id" = $1 order by "created_at", "email"
		`,
		albumID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []domain.AlbumShare{}
	for rows.Next() {
		s := domain.AlbumShare{}
		if err := rows.Scan(&s.AlbumID, &s.Email, &s.Token, &s.CreatedAt); err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, rows.Err()
}

func (m *pgAlbum) RegenerateShareToken(ctx context.Context, albumID int64) (domain.Album, error) {
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		if err := lock(ctx, tx, albumID); err != nil {
			return err
		}
		if _, err := tx.Exec(
			ctx,
			`update "album" set "share_token" = $2, "updated_at" = now() where "id" = $1`,
			albumID, domain.NewShareToken(),
		); err != nil {
			return err
		}
		return regenerateShares(ctx, tx, albumID)
	}); err != nil {
		return domain.Album{}, err
	}
	return m.Get(ctx, albumID)
}

// regenerateShares gives every personal share of the album a new token.
func regenerateShares(ctx context.Context, tx kpool.Tx, albumID int64) error {
	rows, err := tx.Query(
		ctx, `select "email" from "album_share" where "album_id" = $1 for update`, albumID,
	)
	if err != nil {
		return err
	}
	emails := []string{}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			rows.Close()
			return err
		}
		emails = append(emails, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}

	tokens := make([]string, len(emails))
	for i := range emails {
		tokens[i] = domain.NewShareToken()
	}
	_, err = tx.Exec(
		ctx,
		`
		update "album_share" as s set "token" = n."token"
		from unnest($2::text[], $3::text[]) as n("email", "token")
		where s."album_id" = $1 and s."email" = n."email"
		`,
		albumID, emails, tokens,
	)
	return err
}
