package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
)

type pgFlickr struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kflickr.FlickrInterface {
	return &pgFlickr{pool: pool}
}

const userColumns = `
	"nsid", "username", "real_name", "description", "profile_url", "icon_url",
	"claimed_by", "synced_at"
`

func scanUser(row pgx.Row) (domain.FlickrUser, error) {
	u := domain.FlickrUser{}
	err := row.Scan(
		&u.NSID, &u.Username, &u.RealName, &u.Description, &u.ProfileURL, &u.IconURL,
		&u.ClaimedBy, &u.SyncedAt,
	)
	return u, err
}

func (m *pgFlickr) UpsertUser(ctx context.Context, user domain.FlickrUser) (domain.FlickrUser, error) {
	if user.NSID == "" {
		return domain.FlickrUser{}, fmt.Errorf("%w: nsid is empty", domerr.ErrInvalidArgument)
	}
	return scanUser(m.pool.QueryRow(
		ctx,
		`
		insert into "flickr_user" (
			"nsid", "username", "real_name", "description", "profile_url", "icon_url", "synced_at"
		)
		values ($1, $2, $3, $4, $5, $6, $7)
		on conflict ("nsid") do update
		set
			"username" = excluded."username",
			"real_name" = excluded."real_name",
			"description" = excluded."description",
			"profile_url" = excluded."profile_url",
			"icon_url" = excluded."icon_url",
			"synced_at" = coalesce(excluded."synced_at", "flickr_user"."synced_at")
		returning `+userColumns,
		user.NSID, user.Username, user.RealName, user.Description,
		user.ProfileURL, user.IconURL, user.SyncedAt,
	))
}

func (m *pgFlickr) GetUser(ctx context.Context, nsid string) (domain.FlickrUser, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx, `select `+userColumns+` from "flickr_user" where "nsid" = $1`, nsid,
	))
	if err == pgx.ErrNoRows {
		return domain.FlickrUser{}, pgerrors.Missing{Table: "flickr_user", Identity: "nsid=" + nsid}
	}
	return u, err
}

func (m *pgFlickr) StaleUsers(ctx context.Context, before time.Time, limit int) ([]domain.FlickrUser, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select `+userColumns+` from "flickr_user"
		where "synced_at" is null or "synced_at" < $1
		order by "synced_at" nulls first, "nsid"
		limit $2
		`,
		before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []domain.FlickrUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, u)
	}
	return ret, rows.Err()
}

func (m *pgFlickr) MarkSynced(ctx context.Context, nsid string, at time.Time) error {
	ct, err := m.pool.Exec(
		ctx, `update "flickr_user" set "synced_at" = $2 where "nsid" = $1`, nsid, at,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "flickr_user", Identity: "nsid=" + nsid}
	}
	return nil
}

const claimColumns = `
	"id", "user_id", "nsid", "method"::text, "status"::text,
	"verification_code", "reason", "created_at", "decided_at"
`

func scanClaim(row pgx.Row) (domain.FlickrUserClaim, error) {
	c := domain.FlickrUserClaim{}
	var method, status string
	if err := row.Scan(
		&c.ID, &c.UserID, &c.NSID, &method, &status,
		&c.VerificationCode, &c.Reason, &c.CreatedAt, &c.DecidedAt,
	); err != nil {
		return domain.FlickrUserClaim{}, err
	}
	c.Method = domain.ClaimMethod(method)
	c.Status = domain.ClaimStatus(status)
	return c, nil
}

func scanClaims(rows pgx.Rows) ([]domain.FlickrUserClaim, error) {
	defer rows.Close()
	ret := []domain.FlickrUserClaim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, c)
	}
	return ret, rows.Err()
}

func (m *pgFlickr) CreateClaim(ctx context.Context, userID int64, nsid string, method domain.ClaimMethod, reason string) (domain.FlickrUserClaim, error) {
	if _, err := domain.AsClaimMethod(string(method)); err != nil {
		return domain.FlickrUserClaim{}, err
	}
	code := ""
	if method == domain.ClaimAutomatic {
		c, err := domain.NewVerificationCode()
		if err != nil {
			return domain.FlickrUserClaim{}, err
		}
		code = c
	}

	var claim domain.FlickrUserClaim
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		var claimedBy *int64
		if err := tx.QueryRow(
			ctx, `select "claimed_by" from "flickr_user" where "nsid" = $1 for update`, nsid,
		).Scan(&claimedBy); err != nil {
			if err == pgx.ErrNoRows {
				return pgerrors.Missing{Table: "flickr_user", Identity: "nsid=" + nsid}
			}
			return err
		}
		if claimedBy != nil {
			if *claimedBy == userID {
				return fmt.Errorf("%w: flickr user %s is yours already", domerr.ErrConflict, nsid)
			}
			return fmt.Errorf("%w: flickr user %s is claimed by another user", domerr.ErrConflict, nsid)
		}

		c, err := scanClaim(tx.QueryRow(
			ctx,
			`
			insert into "flickr_user_claim" ("user_id", "nsid", "method", "verification_code", "reason")
			values ($1, $2, $3::claim_method, $4, $5)
			returning `+claimColumns,
			userID, nsid, string(method), code, reason,
		))
		if err != nil {
			return pgerrors.Translate(err)
		}
		claim = c
		return nil
	})
	return claim, err
}

func getClaim(ctx context.Context, q kpool.Queryer, id int64, forUpdate bool) (domain.FlickrUserClaim, error) {
	sql := `select ` + claimColumns + ` from "flickr_user_claim" where "id" = $1`
	if forUpdate {
		sql += ` for update`
	}
	c, err := scanClaim(q.QueryRow(ctx, sql, id))
	if err == pgx.ErrNoRows {
		return domain.FlickrUserClaim{}, pgerrors.Missing{
			Table: "flickr_user_claim", Identity: fmt.Sprintf("id=%d", id),
		}
	}
	return c, err
}

func (m *pgFlickr) GetClaim(ctx context.Context, id int64) (domain.FlickrUserClaim, error) {
	return getClaim(ctx, m.pool, id, false)
}

func (m *pgFlickr) Claims(ctx context.Context, status *domain.ClaimStatus, page domain.Page) (domain.Paginated[domain.FlickrUserClaim], error) {
	page = page.Normalized()
	ret := domain.Paginated[domain.FlickrUserClaim]{Items: []domain.FlickrUserClaim{}, Page: page}

	var st *string
	if status != nil {
		s := string(*status)
		st = &s
	}

	if err := m.pool.QueryRow(
		ctx,
		`select count(*) from "flickr_user_claim" where $1::claim_status is null or "status" = $1::claim_status`,
		st,
	).Scan(&ret.Total); err != nil {
		return ret, err
	}

	rows, err := m.pool.Query(
		ctx,
		`
		select `+claimColumns+` from "flickr_user_claim"
		where $1::claim_status is null or "status" = $1::claim_status
		order by "created_at" desc, "id" desc
		limit $2 offset $3
		`,
		st, page.Limit(), page.Offset(),
	)
	if err != nil {
		return ret, err
	}
	items, err := scanClaims(rows)
	if err != nil {
		return ret, err
	}
	ret.Items = items
	return ret, nil
}

func (m *pgFlickr) ClaimsOf(ctx context.Context, userID int64) ([]domain.FlickrUserClaim, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select `+claimColumns+` from "flickr_user_claim"
		where "user_id" = $1
		order by "created_at" desc, "id" desc
		`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return scanClaims(rows)
}

// decide applies the decision on a pending claim locked in tx.
func decide(ctx context.Context, tx kpool.Tx, claim domain.FlickrUserClaim, decision domain.ClaimDecision) (domain.FlickrUserClaim, error) {
	if !claim.CanTransitTo(decision.Status) {
		return domain.FlickrUserClaim{}, fmt.Errorf(
			"%w: claim %d is %s, cannot be %s", domerr.ErrConflict, claim.ID, claim.Status, decision.Status,
		)
	}

	if decision.Status == domain.ClaimApproved {
		ct, err := tx.Exec(
			ctx,
			`
			update "flickr_user" set "claimed_by" = $2
			where "nsid" = $1 and ("claimed_by" is null or "claimed_by" = $2)
			`,
			claim.NSID, claim.UserID,
		)
		if err != nil {
			return domain.FlickrUserClaim{}, err
		}
		if ct.RowsAffected() == 0 {
			return domain.FlickrUserClaim{}, fmt.Errorf(
				"%w: flickr user %s is claimed by another user", domerr.ErrConflict, claim.NSID,
			)
		}
		if _, err := tx.Exec(
			ctx,
			`
			update "flickr_user_claim"
			set "status" = 'denied', "reason" = 'claimed by another user', "decided_at" = now()
			where "nsid" = $1 and "status" = 'pending' and "id" <> $2
			`,
			claim.NSID, claim.ID,
		); err != nil {
			return domain.FlickrUserClaim{}, err
		}
	}

	return scanClaim(tx.QueryRow(
		ctx,
		`
		update "flickr_user_claim"
		set
			"status" = $2::claim_status,
			"reason" = case when $3 = '' then "reason" else $3 end,
			"decided_at" = now()
		where "id" = $1
		returning `+claimColumns,
		claim.ID, string(decision.Status), decision.Reason,
	))
}

func (m *pgFlickr) Decide(ctx context.Context, id int64, decision domain.ClaimDecision) (domain.FlickrUserClaim, error) {
	var decided domain.FlickrUserClaim
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		d, err := decideInTx(ctx, tx, id, decision)
		if err != nil {
			return err
		}
		decided = d
		return nil
	})
	return decided, err
}

// decideInTx locks the identity and then the claim, as CreateClaim does, and decides the claim.
func decideInTx(ctx context.Context, tx kpool.Tx, id int64, decision domain.ClaimDecision) (domain.FlickrUserClaim, error) {
	c, err := getClaim(ctx, tx, id, false)
	if err != nil {
		return domain.FlickrUserClaim{}, err
	}
	if _, err := tx.Exec(
		ctx, `select 1 from "flickr_user" where "nsid" = $1 for update`, c.NSID,
	); err != nil {
		return domain.FlickrUserClaim{}, err
	}
	if c, err = getClaim(ctx, tx, id, true); err != nil {
		return domain.FlickrUserClaim{}, err
	}
	return decide(ctx, tx, c, decision)
}

func (m *pgFlickr) PickPendingAutomatic(
	ctx context.Context, cursor domain.ClaimCursor,
	f func(domain.FlickrUserClaim) (domain.ClaimDecision, error),
) (domain.ClaimCursor, bool, error) {
	// marking checked_at takes the claim away from other pickers for the debounce interval.
	// round-robin: claims after the head come first.
	c, err := scanClaim(m.pool.QueryRow(
		ctx,
		`
		update "flickr_user_claim" set "checked_at" = now()
		where "id" = (
			select "id" from "flickr_user_claim"
			where "status" = 'pending' and "method" = 'automatic'
				and ("checked_at" is null or "checked_at" < now() - make_interval(secs => $2))
			order by ("id" <= $1), "id"
			limit 1
			for update skip locked
		)
		returning `+claimColumns,
		cursor.Head, cursor.Debounce.Seconds(),
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return cursor, false, nil
		}
		return cursor, false, err
	}

	next := domain.ClaimCursor{Head: c.ID, Debounce: cursor.Debounce}

	// f may take long (it asks Flickr). No lock is held meanwhile.
	decision, ferr := f(c)
	if ferr != nil {
		return next, true, ferr
	}
	if decision.Status == domain.ClaimPending {
		return next, true, nil
	}

	if _, err := m.Decide(ctx, c.ID, decision); err != nil {
		return next, true, err
	}
	return next, true, nil
}
