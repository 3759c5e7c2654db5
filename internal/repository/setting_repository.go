package repository

import (
	"context"

	"github.com/spec-kit/calllog-service/internal/domain"
)

func (s *postgresStore) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	var value *string
	err := s.db.QueryRow(ctx, `SELECT key, value, updated_at FROM settings WHERE key=$1`, key).
		Scan(&setting.Key, &value, &setting.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	if value != nil {
		setting.Value = *value
	}
	return &setting, nil
}

func (s *postgresStore) UpsertSetting(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err := s.db.Exec(ctx, query, key, value)
	return err
}
