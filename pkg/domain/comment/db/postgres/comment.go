package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	kcomment "github.com/opst/photoshare/pkg/domain/comment/db"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
)

type pgComment struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kcomment.CommentInterface {
	return &pgComment{pool: pool}
}

const commentColumns = `"id", "photo_id", "author_id", "body", "created_at"`

func scanComment(row pgx.Row) (domain.Comment, error) {
	c := domain.Comment{}
	err := row.Scan(&c.ID, &c.PhotoID, &c.AuthorID, &c.Body, &c.CreatedAt)
	return c, err
}

func (m *pgComment) Create(ctx context.Context, photoID int64, authorID int64, body string) (domain.Comment, error) {
	body, err := domain.NormalizeCommentBody(body)
	if err != nil {
		return domain.Comment{}, err
	}
	c, err := scanComment(m.pool.QueryRow(
		ctx,
		`
		insert into "comment" ("photo_id", "author_id", "body") values ($1, $2, $3)
		returning `+commentColumns,
		photoID, authorID, body,
	))
	if err != nil {
		return domain.Comment{}, pgerrors.Translate(err)
	}
	return c, nil
}

func (m *pgComment) Get(ctx context.Context, id int64) (domain.Comment, error) {
	c, err := scanComment(m.pool.QueryRow(
		ctx, `select `+commentColumns+` from "comment" where "id" = $1`, id,
	))
	if err == pgx.ErrNoRows {
		return domain.Comment{}, pgerrors.Missing{Table: "comment", Identity: fmt.Sprintf("id=%d", id)}
	}
	return c, err
}

func (m *pgComment) Delete(ctx context.Context, id int64) (domain.Comment, error) {
	c, err := scanComment(m.pool.QueryRow(
		ctx, `delete from "comment" where "id" = $1 returning `+commentColumns, id,
	))
	if err == pgx.ErrNoRows {
		return domain.Comment{}, pgerrors.Missing{Table: "comment", Identity: fmt.Sprintf("id=%d", id)}
	}
	return c, err
}

func (m *pgComment) ForPhoto(ctx context.Context, photoID int64, page domain.Page) (domain.Paginated[domain.Comment], error) {
	page = page.Normalized()
	ret := domain.Paginated[domain.Comment]{Items: []domain.Comment{}, Page: page}

	if err := m.pool.QueryRow(
		ctx, `select count(*) from "comment" where "photo_id" = $1`, photoID,
	).Scan(&ret.Total); err != nil {
		return ret, err
	}

	rows, err := m.pool.Query(
		ctx,
		`
		select `+commentColumns+` from "comment"
		where "photo_id" = $1
		order by "created_at", "id"
		limit $2 offset $3
		`,
		photoID, page.Limit(), page.Offset(),
	)
	if err != nil {
		return ret, err
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return ret, err
		}
		ret.Items = append(ret.Items, c)
	}
	return ret, rows.Err()
}
