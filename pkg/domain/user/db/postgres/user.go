package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	kpggarbage "github.com/opst/photoshare/pkg/domain/garbage/db/postgres"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
)

type pgUser struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kuser.UserInterface {
	return &pgUser{pool: pool}
}

const userColumns = `"id", "email", "name", "role"::text, "created_at", "facebook_id"`

func scanUser(row pgx.Row, extra ...any) (domain.User, error) {
	u := domain.User{}
	var role string
	dest := append([]any{&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.FacebookID}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func missing(identity string, err error) error {
	if err == pgx.ErrNoRows {
		return pgerrors.Missing{Table: "users", Identity: identity}
	}
	return err
}

func (m *pgUser) Create(ctx context.Context, spec domain.NewUserSpec, passwordHash string) (domain.User, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return domain.User{}, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback(ctx)

	// make "the first user becomes admin" race-free
	if _, err := tx.Exec(ctx, `lock table "users" in share row exclusive mode`); err != nil {
		return domain.User{}, err
	}

	u, err := scanUser(tx.QueryRow(
		ctx,
		`
		insert into "users" ("email", "name", "password_hash", "role")
		values (
			$1, $2, $3,
			case when exists (select 1 from "users") then 'user'::user_role else 'admin'::user_role end
		)
		returning `+userColumns,
		spec.Email, spec.Name, passwordHash,
	))
	if err != nil {
		return domain.User{}, pgerrors.Translate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (m *pgUser) Get(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx, `select `+userColumns+` from "users" where "id" = $1`, id,
	))
	if err != nil {
		return domain.User{}, missing(fmt.Sprintf("id=%d", id), err)
	}
	return u, nil
}

func (m *pgUser) GetMany(ctx context.Context, ids []int64) (map[int64]domain.User, error) {
	rows, err := m.pool.Query(
		ctx, `select `+userColumns+` from "users" where "id" = any($1::bigint[])`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := map[int64]domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		ret[u.ID] = u
	}
	return ret, rows.Err()
}

func (m *pgUser) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(m.pool.QueryRow(
		ctx, `select `+userColumns+` from "users" where "email" = $1`, email,
	))
	if err != nil {
		return domain.User{}, missing("email="+email, err)
	}
	return u, nil
}

func (m *pgUser) PasswordHash(ctx context.Context, email string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var hash string
	u, err := scanUser(m.pool.QueryRow(
		ctx,
		`select `+userColumns+`, "password_hash" from "users" where "email" = $1`,
		email,
	), &hash)
	if err != nil {
		return domain.User{}, "", missing("email="+email, err)
	}
	return u, hash, nil
}

func (m *pgUser) SetRole(ctx context.Context, id int64, role domain.Role) (domain.User, error) {
	if _, err := domain.AsRole(string(role)); err != nil {
		return domain.User{}, err
	}
	u, err := scanUser(m.pool.QueryRow(
		ctx,
		`update "users" set "role" = $2::user_role where "id" = $1 returning `+userColumns,
		id, string(role),
	))
	if err != nil {
		return domain.User{}, missing(fmt.Sprintf("id=%d", id), err)
	}
	return u, nil
}

func (m *pgUser) LinkFacebook(ctx context.Context, id int64, facebookID string) error {
	ct, err := m.pool.Exec(
		ctx, `update "users" set "facebook_id" = $2 where "id" = $1`, id, facebookID,
	)
	if err != nil {
		return pgerrors.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "users", Identity: fmt.Sprintf("id=%d", id)}
	}
	return nil
}

func (m *pgUser) Delete(ctx context.Context, id int64) error {
	return kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		return DeleteInTx(ctx, tx, id)
	})
}

// DeleteInTx deletes the user in the transaction.
//
// Storage objects of the user's photos are registered as garbage.
func DeleteInTx(ctx context.Context, tx kpool.Tx, id int64) error {
	if err := kpggarbage.RegisterPhotosOwnedBy(ctx, tx, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `delete from "users" where "id" = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "users", Identity: fmt.Sprintf("id=%d", id)}
	}
	return nil
}
