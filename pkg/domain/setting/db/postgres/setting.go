package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	pgerrors "github.com/opst/photoshare/pkg/domain/errors/dberrors/postgres"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
)

type pgSetting struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) ksetting.SettingInterface {
	return &pgSetting{pool: pool}
}

func (m *pgSetting) Get(ctx context.Context, key string) (domain.Setting, error) {
	def, ok := domain.DefaultSetting(key)
	if !ok {
		return domain.Setting{}, pgerrors.Missing{Table: "setting", Identity: "key=" + key}
	}

	var value []byte
	s := domain.Setting{Key: key}
	err := m.pool.QueryRow(
		ctx, `select "value", "updated_at" from "setting" where "key" = $1`, key,
	).Scan(&value, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return domain.Setting{}, err
	}
	s.Value = json.RawMessage(value)
	return s, nil
}

func (m *pgSetting) All(ctx context.Context) (map[string]domain.Setting, error) {
	ret := domain.DefaultSettings()

	rows, err := m.pool.Query(ctx, `select "key", "value", "updated_at" from "setting"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var value []byte
		s := domain.Setting{}
		if err := rows.Scan(&s.Key, &value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if !domain.IsKnownSetting(s.Key) {
			continue
		}
		s.Value = json.RawMessage(value)
		ret[s.Key] = s
	}
	return ret, rows.Err()
}

func (m *pgSetting) Set(ctx context.Context, key string, value json.RawMessage) (domain.Setting, error) {
	if err := domain.ValidateSetting(key, value); err != nil {
		return domain.Setting{}, err
	}

	var stored []byte
	s := domain.Setting{Key: key}
	if err := m.pool.QueryRow(
		ctx,
		`
		insert into "setting" ("key", "value") values ($1, $2::jsonb)
		on conflict ("key") do update
		set "value" = excluded."value", "updated_at" = now()
		returning "value", "updated_at"
		`,
		key, string(value),
	).Scan(&stored, &s.UpdatedAt); err != nil {
		return domain.Setting{}, err
	}
	s.Value = json.RawMessage(stored)
	return s, nil
}
