package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	kpggarbage "github.com/opst/photoshare/pkg/domain/garbage/db/postgres"
	"github.com/opst/photoshare/pkg/domain/internal/db/postgres/query"
	"github.com/opst/photoshare/pkg/domain/internal/db/postgres/slugs"
	kpgjob "github.com/opst/photoshare/pkg/domain/job/db/postgres"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	kpgtag "github.com/opst/photoshare/pkg/domain/tag/db/postgres"
)

type pgPhoto struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kphoto.PhotoInterface {
	return &pgPhoto{pool: pool}
}

const photoColumns = `
	p."id", p."slug", p."owner_id", p."title", p."description", p."privacy"::text,
	p."created_at", p."updated_at",
	p."object_key", p."original_filename", p."content_type", p."width", p."height",
	p."taken_at", p."exif", p."crop", p."derivatives",
	p."flickr_id", p."flickr_owner_nsid", p."auto_tagged_at"
`

func scanPhoto(row pgx.Row) (domain.Photo, error) {
	p := domain.Photo{}
	var privacy string
	var exif, crop, derivatives []byte
	if err := row.Scan(
		&p.ID, &p.Slug, &p.OwnerID, &p.Title, &p.Description, &privacy,
		&p.CreatedAt, &p.UpdatedAt,
		&p.ObjectKey, &p.OriginalFilename, &p.ContentType, &p.Width, &p.Height,
		&p.TakenAt, &exif, &crop, &derivatives,
		&p.FlickrID, &p.FlickrOwnerNSID, &p.AutoTaggedAt,
	); err != nil {
		return domain.Photo{}, err
	}
	p.Privacy = domain.Privacy(privacy)

	p.Exif = map[string]string{}
	if len(exif) != 0 {
		if err := json.Unmarshal(exif, &p.Exif); err != nil {
			return domain.Photo{}, err
		}
	}
	if len(crop) != 0 {
		c := new(domain.Crop)
		if err := json.Unmarshal(crop, c); err != nil {
			return domain.Photo{}, err
		}
		p.Crop = c
	}
	p.Derivatives = map[string]domain.DerivativeRef{}
	if len(derivatives) != 0 {
		if err := json.Unmarshal(derivatives, &p.Derivatives); err != nil {
			return domain.Photo{}, err
		}
	}
	return p, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *pgPhoto) Create(ctx context.Context, spec domain.PhotoSpec) (domain.Photo, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return domain.Photo{}, err
	}
	tagDelta, err := domain.TagDelta{Add: spec.Tags}.Normalize()
	if err != nil {
		return domain.Photo{}, err
	}
	if spec.Exif == nil {
		spec.Exif = map[string]string{}
	}
	exif, err := marshalJSON(spec.Exif)
	if err != nil {
		return domain.Photo{}, err
	}

	var id int64
	err = kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		if spec.FlickrOwnerNSID != nil {
			if _, err := tx.Exec(
				ctx,
				`insert into "flickr_user" ("nsid") values ($1) on conflict do nothing`,
				*spec.FlickrOwnerNSID,
			); err != nil {
				return err
			}
			if err := kpgjob.EnqueueInTx(
				ctx, tx, domain.JobFlickrSync, *spec.FlickrOwnerNSID, time.Now(),
			); err != nil {
				return err
			}
		}

		base := domain.MakeSlug(spec.Title, "photo")
		if err := slugs.Insert(ctx, tx, "photo", base, func(sp kpool.Tx, slug string) error {
			err := sp.QueryRow(
				ctx,
				`
				insert into "photo" (
					"slug", "owner_id", "title", "description", "privacy",
					"object_key", "original_filename", "content_type", "width", "height",
					"taken_at", "exif", "flickr_id", "flickr_owner_nsid"
				)
				values ($1, $2, $3, $4, $5::photo_privacy, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, $14)
				returning "id"
				`,
				slug, spec.OwnerID, spec.Title, spec.Description, string(spec.Privacy),
				spec.ObjectKey, spec.OriginalFilename, spec.ContentType, spec.Width, spec.Height,
				spec.TakenAt, exif, spec.FlickrID, spec.FlickrOwnerNSID,
			).Scan(&id)
			return pgerrors.Translate(err)
		}); err != nil {
			return err
		}

		if err := kpgtag.ApplyDelta(ctx, tx, id, tagDelta); err != nil {
			return err
		}

		subject := strconv.FormatInt(id, 10)
		for _, kind := range []domain.JobKind{domain.JobDerivatives, domain.JobRekognition} {
			if err := kpgjob.EnqueueInTx(ctx, tx, kind, subject, time.Now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Photo{}, err
	}
	return m.getOne(ctx, m.pool, id)
}

func get(ctx context.Context, q kpool.Queryer, ids []int64) (map[int64]domain.Photo, error) {
	rows, err := q.Query(
		ctx,
		`select `+photoColumns+` from "photo" as p where p."id" = any($1::bigint[])`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	ret := map[int64]domain.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ret[p.ID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	found := make([]int64, 0, len(ret))
	for id := range ret {
		found = append(found, id)
	}
	tags, err := kpgtag.ForPhotos(ctx, q, found)
	if err != nil {
		return nil, err
	}
	for id, p := range ret {
		p.Tags = tags[id]
		if p.Tags == nil {
			p.Tags = []domain.Tagging{}
		}
		ret[id] = p
	}
	return ret, nil
}

func (m *pgPhoto) getOne(ctx context.Context, q kpool.Queryer, id int64) (domain.Photo, error) {
	ps, err := get(ctx, q, []int64{id})
	if err != nil {
		return domain.Photo{}, err
	}
	p, ok := ps[id]
	if !ok {
		return domain.Photo{}, pgerrors.Missing{Table: "photo", Identity: fmt.Sprintf("id=%d", id)}
	}
	return p, nil
}

func (m *pgPhoto) Get(ctx context.Context, ids []int64) (map[int64]domain.Photo, error) {
	return get(ctx, m.pool, ids)
}

func (m *pgPhoto) GetBySlug(ctx context.Context, slug string) (domain.Photo, error) {
	var id int64
	if err := m.pool.QueryRow(
		ctx, `select "id" from "photo" where "slug" = $1`, slug,
	).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Photo{}, pgerrors.Missing{Table: "photo", Identity: "slug=" + slug}
		}
		return domain.Photo{}, err
	}
	return m.getOne(ctx, m.pool, id)
}

func (m *pgPhoto) Find(ctx context.Context, q domain.PhotoQuery) (domain.Paginated[domain.Photo], error) {
	page := q.Page.Normalized()
	ret := domain.Paginated[domain.Photo]{Items: []domain.Photo{}, Page: page}

	b := &query.Builder{}
	from := `"photo" as p`
	order := `p."created_at" desc, p."id" desc`

	b.Scope("p", q.Scope)
	if q.AlbumID != nil {
		from += ` inner join "album_photo" as ap on ap."photo_id" = p."id" and ap."album_id" = ` + b.Arg(*q.AlbumID)
		order = `ap."position"`
	}
	if q.OwnerID != nil {
		b.Where(`p."owner_id" = ` + b.Arg(*q.OwnerID))
	}
	if len(q.Tags) != 0 {
		names := make([]string, 0, len(q.Tags))
		seen := map[string]struct{}{}
		for _, t := range q.Tags {
			n, err := domain.NormalizeTagName(t)
			if err != nil {
				return ret, err
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
		b.Where(fmt.Sprintf(
			`
			p."id" in (
				select pt."photo_id"
				from "photo_tag" as pt inner join "tag" as t on t."id" = pt."tag_id"
				where t."name" = any(%s::text[])
				group by pt."photo_id"
				having count(distinct t."id") = %s
			)`,
			b.Arg(names), b.Arg(len(names)),
		))
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		b.Where(`p."search_vector" @@ websearch_to_tsquery('simple', ` + b.Arg(text) + `)`)
	}

	if err := m.pool.QueryRow(
		ctx, `select count(*) from `+from+` `+b.WhereClause(), b.Args()...,
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
		`select p."id" from `+from+` `+b.WhereClause()+
			` order by `+order+` limit `+limit+` offset `+offset,
		b.Args()...,
	)
	if err != nil {
		return ret, err
	}
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return ret, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ret, err
	}

	photos, err := get(ctx, m.pool, ids)
	if err != nil {
		return ret, err
	}
	for _, id := range ids {
		if p, ok := photos[id]; ok {
			ret.Items = append(ret.Items, p)
		}
	}
	return ret, nil
}

func (m *pgPhoto) Update(ctx context.Context, id int64, update domain.PhotoUpdate) (domain.Photo, error) {
	update, err := update.Normalize()
	if err != nil {
		return domain.Photo{}, err
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
		sets = append(sets, `"privacy" = `+b.Arg(string(*update.Privacy))+`::photo_privacy`)
	}

	ct, err := m.pool.Exec(
		ctx,
		`update "photo" set `+strings.Join(sets, ", ")+` where "id" = `+b.Arg(id),
		b.Args()...,
	)
	if err != nil {
		return domain.Photo{}, pgerrors.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.Photo{}, pgerrors.Missing{Table: "photo", Identity: fmt.Sprintf("id=%d", id)}
	}
	return m.getOne(ctx, m.pool, id)
}

func (m *pgPhoto) SetCrop(ctx context.Context, id int64, crop *domain.Crop) (domain.Photo, error) {
	var cropJSON *string
	if crop != nil {
		if !crop.Valid() {
			return domain.Photo{}, fmt.Errorf("%w: crop should be in the unit square", domerr.ErrInvalidArgument)
		}
		c, err := marshalJSON(crop)
		if err != nil {
			return domain.Photo{}, err
		}
		cropJSON = &c
	}

	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		ct, err := tx.Exec(
			ctx,
			`update "photo" set "crop" = $2::jsonb, "updated_at" = now() where "id" = $1`,
			id, cropJSON,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgerrors.Missing{Table: "photo", Identity: fmt.Sprintf("id=%d", id)}
		}
		return kpgjob.EnqueueInTx(ctx, tx, domain.JobDerivatives, strconv.FormatInt(id, 10), time.Now())
	}); err != nil {
		return domain.Photo{}, err
	}
	return m.getOne(ctx, m.pool, id)
}

func (m *pgPhoto) SetDerivatives(ctx context.Context, id int64, derivatives map[string]domain.DerivativeRef) error {
	newJSON, err := marshalJSON(derivatives)
	if err != nil {
		return err
	}

	return kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		var oldJSON []byte
		if err := tx.QueryRow(
			ctx, `select "derivatives" from "photo" where "id" = $1 for update`, id,
		).Scan(&oldJSON); err != nil {
			if err == pgx.ErrNoRows {
				return pgerrors.Missing{Table: "photo", Identity: fmt.Sprintf("id=%d", id)}
			}
			return err
		}
		old := map[string]domain.DerivativeRef{}
		if err := json.Unmarshal(oldJSON, &old); err != nil {
			return err
		}

		keep := map[string]struct{}{}
		for _, d := range derivatives {
			keep[d.ObjectKey] = struct{}{}
		}
		replaced := []string{}
		for _, d := range old {
			if _, ok := keep[d.ObjectKey]; !ok {
				replaced = append(replaced, d.ObjectKey)
			}
		}
		if err := kpggarbage.Register(ctx, tx, replaced...); err != nil {
			return err
		}

		_, err := tx.Exec(
			ctx, `update "photo" set "derivatives" = $2::jsonb where "id" = $1`, id, newJSON,
		)
		return err
	})
}

func (m *pgPhoto) MarkAutoTagged(ctx context.Context, id int64, at time.Time) error {
	ct, err := m.pool.Exec(
		ctx, `update "photo" set "auto_tagged_at" = $2 where "id" = $1`, id, at,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "photo", Identity: fmt.Sprintf("id=%d", id)}
	}
	return nil
}

func (m *pgPhoto) Delete(ctx context.Context, id int64) (domain.Photo, error) {
	var deleted domain.Photo
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		p, err := m.getOne(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := kpggarbage.RegisterPhotos(ctx, tx, []int64{id}); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from "photo" where "id" = $1`, id); err != nil {
			return err
		}
		deleted = p
		return nil
	})
	return deleted, err
}
