package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	kdeletion "github.com/opst/photoshare/pkg/domain/deletion/db"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	kpguser "github.com/opst/photoshare/pkg/domain/user/db/postgres"
)

type pgDeletion struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdeletion.DeletionInterface {
	return &pgDeletion{pool: pool}
}

func scanRequest(row pgx.Row) (domain.DataDeletionRequest, error) {
	r := domain.DataDeletionRequest{}
	var status string
	if err := row.Scan(&r.ConfirmationCode, &r.FacebookUserID, &status, &r.RequestedAt); err != nil {
		return domain.DataDeletionRequest{}, err
	}
	r.Status = domain.DeletionStatus(status)
	return r, nil
}

func (m *pgDeletion) Request(ctx context.Context, facebookUserID string, confirmationCode string) (domain.DataDeletionRequest, error) {
	var req domain.DataDeletionRequest
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		status := domain.DeletionNotFound

		var userID int64
		err := tx.QueryRow(
			ctx, `select "id" from "users" where "facebook_id" = $1 for update`, facebookUserID,
		).Scan(&userID)
		switch {
		case err == pgx.ErrNoRows:
		case err != nil:
			return err
		default:
			if err := kpguser.DeleteInTx(ctx, tx, userID); err != nil {
				return err
			}
			status = domain.DeletionCompleted
		}

		r, err := scanRequest(tx.QueryRow(
			ctx,
			`
			insert into "data_deletion_request" ("confirmation_code", "facebook_user_id", "status")
			values ($1, $2, $3::deletion_status)
			returning "confirmation_code", "facebook_user_id", "status"::text, "requested_at"
			`,
			confirmationCode, facebookUserID, string(status),
		))
		if err != nil {
			return pgerrors.Translate(err)
		}
		req = r
		return nil
	})
	return req, err
}

func (m *pgDeletion) Get(ctx context.Context, confirmationCode string) (domain.DataDeletionRequest, error) {
	r, err := scanRequest(m.pool.QueryRow(
		ctx,
		`
		select "confirmation_code", "facebook_user_id", "status"::text, "requested_at"
		from "data_deletion_request" where "confirmation_code" = $1
		`,
		confirmationCode,
	))
	if err == pgx.ErrNoRows {
		return domain.DataDeletionRequest{}, pgerrors.Missing{
			Table: "data_deletion_request", Identity: "confirmation_code=" + confirmationCode,
		}
	}
	return r, err
}
