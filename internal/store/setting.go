package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

type settingStore struct {
	db db.DBTX
}

func newSettingStore(conn db.DBTX) SettingStore {
	return &settingStore{db: conn}
}

func (s *settingStore) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	var st model.SystemSetting
	err := s.db.QueryRow(ctx,
		`SELECT key, value, updated_by, updated_at FROM system_settings WHERE key = $1`, key).
		Scan(&st.Key, &st.Value, &st.UpdatedBy, &st.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &st, nil
}

func (s *settingStore) List(ctx context.Context) ([]model.SystemSetting, error) {
	rows, err := s.db.Query(ctx, `SELECT key, value, updated_by, updated_at FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.SystemSetting, error) {
		var st model.SystemSetting
		err := r.Scan(&st.Key, &st.Value, &st.UpdatedBy, &st.UpdatedAt)
		return st, err
	})
}

func (s *settingStore) Upsert(ctx context.Context, st *model.SystemSetting) error {
	return s.db.QueryRow(ctx, `
		INSERT INTO system_settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = now()
		RETURNING updated_at`,
		st.Key, st.Value, st.UpdatedBy).Scan(&st.UpdatedAt)
}
