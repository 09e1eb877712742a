package repos

import (
	"github.com/jmoiron/sqlx"

	"airdee/internal/domain"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) List() ([]domain.SiteSetting, error) {
	out := []domain.SiteSetting{}
	err := r.db.Select(&out, `SELECT key, value, type FROM settings ORDER BY key`)
	return out, err
}

func (r *SettingsRepo) Upsert(key, value, typ string) error {
	_, err := r.db.Exec(`
	  INSERT INTO settings(key, value, type) VALUES(?, ?, ?)
	  ON CONFLICT(key) DO UPDATE SET value = excluded.value, type = excluded.type
	`, key, value, typ)
	return err
}
