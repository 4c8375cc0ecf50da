package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
)

type pgTag struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) ktag.TagInterface {
	return &pgTag{pool: pool}
}

func (m *pgTag) UpdateTags(ctx context.Context, photoID int64, delta domain.TagDelta) ([]domain.Tagging, error) {
	delta, err := delta.Normalize()
	if err != nil {
		return nil, err
	}

	var tags []domain.Tagging
	if err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		var locked int64
		if err := tx.QueryRow(
			ctx, `select "id" from "photo" where "id" = $1 for update`, photoID,
		).Scan(&locked); err != nil {
			if err == pgx.ErrNoRows {
				return pgerrors.Missing{Table: "photo", Identity: fmt.Sprintf("id=%d", photoID)}
			}
			return err
		}

		if err := ApplyDelta(ctx, tx, photoID, delta); err != nil {
			return err
		}
		ts, err := forPhotos(ctx, tx, []int64{photoID})
		if err != nil {
			return err
		}
		tags = ts[photoID]
		return nil
	}); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tagging{}
	}
	return tags, nil
}

// ApplyDelta changes tags on the photo with q. delta should be normalized.
func ApplyDelta(ctx context.Context, q kpool.Queryer, photoID int64, delta domain.TagDelta) error {
	if len(delta.Remove) != 0 {
		if _, err := q.Exec(
			ctx,
			`
			delete from "photo_tag" as pt
			using "tag" as t
			where pt."tag_id" = t."id" and pt."photo_id" = $1 and t."name" = any($2::text[])
			`,
			photoID, delta.Remove,
		); err != nil {
			return err
		}
	}
	if len(delta.Add) == 0 {
		return nil
	}

	names := make([]string, len(delta.Add))
	for i, t := range delta.Add {
		names[i] = t.Name
	}
	rows, err := q.Query(
		ctx,
		`
		with
		"names" as (select distinct unnest($1::text[]) as "name"),
		"inserted" as (
			insert into "tag" ("name") select "name" from "names"
			on conflict ("name") do nothing
			returning "id", "name"
		)
		select "id", "name" from "inserted"
		union all
		select t."id", t."name" from "tag" as t inner join "names" as n on n."name" = t."name"
		`,
		names,
	)
	if err != nil {
		return err
	}
	ids := map[string]int64{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return err
		}
		ids[name] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tagIDs := make([]int64, len(delta.Add))
	sources := make([]string, len(delta.Add))
	confidences := make([]*float64, len(delta.Add))
	for i, t := range delta.Add {
		tagIDs[i] = ids[t.Name]
		sources[i] = string(t.Source)
		confidences[i] = t.Confidence
	}

	_, err = q.Exec(
		ctx,
		`
		insert into "photo_tag" ("photo_id", "tag_id", "source", "confidence")
		select $1, x."tag_id", x."source"::tag_source, x."confidence"
		from unnest($2::bigint[], $3::text[], $4::float8[]) as x("tag_id", "source", "confidence")
		on conflict ("photo_id", "tag_id") do update
		set "source" = excluded."source", "confidence" = excluded."confidence"
		where excluded."source" = 'user' and "photo_tag"."source" <> 'user'
		`,
		photoID, tagIDs, sources, confidences,
	)
	return pgerrors.Translate(err)
}

func (m *pgTag) ForPhotos(ctx context.Context, photoIDs []int64) (map[int64][]domain.Tagging, error) {
	return forPhotos(ctx, m.pool, photoIDs)
}

// ForPhotos returns tags on photos with q.
func ForPhotos(ctx context.Context, q kpool.Queryer, photoIDs []int64) (map[int64][]domain.Tagging, error) {
	return forPhotos(ctx, q, photoIDs)
}

func forPhotos(ctx context.Context, q kpool.Queryer, photoIDs []int64) (map[int64][]domain.Tagging, error) {
	rows, err := q.Query(
		ctx,
		`
		select pt."photo_id", t."id", t."name", pt."source"::text, pt."confidence", pt."created_at"
		from "photo_tag" as pt
		inner join "tag" as t on t."id" = pt."tag_id"
		where pt."photo_id" = any($1::bigint[])
		order by pt."photo_id", t."name"
		`,
		photoIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := map[int64][]domain.Tagging{}
	for rows.Next() {
		var photoID int64
		var source string
		t := domain.Tagging{}
		if err := rows.Scan(&photoID, &t.ID, &t.Name, &source, &t.Confidence, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Source = domain.TagSource(source)
		ret[photoID] = append(ret[photoID], t)
	}
	return ret, rows.Err()
}

func scanTagCounts(ctx context.Context, q kpool.Queryer, sql string, args ...any) ([]domain.TagCount, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []domain.TagCount{}
	for rows.Next() {
		tc := domain.TagCount{}
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		ret = append(ret, tc)
	}
	return ret, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (m *pgTag) Find(ctx context.Context, prefix string, limit int) ([]domain.TagCount, error) {
	prefix = strings.Join(strings.Fields(strings.ToLower(prefix)), " ")
	return scanTagCounts(
		ctx, m.pool,
		`
		select t."id", t."name", count(*)
		from "tag" as t
		inner join "photo_tag" as pt on pt."tag_id" = t."id"
		inner join "photo" as p on p."id" = pt."photo_id"
		where t."name" like $1 || '%' and p."privacy" = 'public'
		group by t."id", t."name"
		order by count(*) desc, t."name"
		limit $2
		`,
		escapeLike(prefix), limit,
	)
}

func (m *pgTag) Popular(ctx context.Context, limit int) ([]domain.TagCount, error) {
	return scanTagCounts(
		ctx, m.pool,
		`
		select t."id", t."name", count(*)
		from "photo_tag" as pt
		inner join "tag" as t on t."id" = pt."tag_id"
		inner join "photo" as p on p."id" = pt."photo_id"
		where p."privacy" = 'public'
		group by t."id", t."name"
		order by count(*) desc, t."name"
		limit $1
		`,
		limit,
	)
}

func (m *pgTag) Related(ctx context.Context, tag string, limit int) ([]domain.RelatedTag, error) {
	name, err := domain.NormalizeTagName(tag)
	if err != nil {
		return nil, err
	}

	rows, err := m.pool.Query(
		ctx,
		`
		select
			s."id", s."name", t."id", t."name",
			r."co_occurrences", r."support", r."confidence", r."lift", r."jaccard", r."computed_at"
		from "related_tag" as r
		inner join "tag" as s on s."id" = r."source_tag_id"
		inner join "tag" as t on t."id" = r."target_tag_id"
		where s."name" = $1
		order by r."confidence" desc, r."lift" desc, t."name"
		limit $2
		`,
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []domain.RelatedTag{}
	for rows.Next() {
		r := domain.RelatedTag{}
		if err := rows.Scan(
			&r.Source.ID, &r.Source.Name, &r.Target.ID, &r.Target.Name,
			&r.CoOccurrences, &r.Support, &r.Confidence, &r.Lift, &r.Jaccard, &r.ComputedAt,
		); err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}

func (m *pgTag) RecomputeRelated(ctx context.Context, minCoOccurrence int) (int, error) {
	if minCoOccurrence < 1 {
		minCoOccurrence = 1
	}

	var n int
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		// one recomputation at a time.
		if _, err := tx.Exec(ctx, `lock table "related_tag" in exclusive mode`); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from "related_tag"`); err != nil {
			return err
		}
		ct, err := tx.Exec(
			ctx,
			`
			with
			"public_tag" as (
				select pt."photo_id", pt."tag_id"
				from "photo_tag" as pt
				inner join "photo" as ph on ph."id" = pt."photo_id"
				where ph."privacy" = 'public'
			),
			"total" as (
				select count(distinct "photo_id")::float8 as "n" from "public_tag"
			),
			"freq" as (
				select "tag_id", count(*)::float8 as "cnt" from "public_tag" group by "tag_id"
			),
			"pairs" as (
				select a."tag_id" as "source", b."tag_id" as "target", count(*) as "co"
				from "public_tag" as a
				inner join "public_tag" as b
					on a."photo_id" = b."photo_id" and a."tag_id" <> b."tag_id"
				group by a."tag_id", b."tag_id"
				having $1 <= count(*)
			)
			insert into "related_tag" (
				"source_tag_id", "target_tag_id", "co_occurrences",
				"support", "confidence", "lift", "jaccard", "computed_at"
			)
			select
				p."source", p."target", p."co",
				p."co" / total."n",
				p."co" / fa."cnt",
				(p."co" / fa."cnt") / (fb."cnt" / total."n"),
				p."co" / (fa."cnt" + fb."cnt" - p."co"),
				now()
			from "pairs" as p
			inner join "freq" as fa on fa."tag_id" = p."source"
			inner join "freq" as fb on fb."tag_id" = p."target"
			cross join "total"
			`,
			minCoOccurrence,
		)
		if err != nil {
			return err
		}
		n = int(ct.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
