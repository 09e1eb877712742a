package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// CartSnapshotRepo stores one serialized cart per session key.
type CartSnapshotRepo struct{ db *sqlx.DB }

func NewCartSnapshotRepo(db *sqlx.DB) *CartSnapshotRepo { return &CartSnapshotRepo{db: db} }

// Load returns the stored snapshot, or nil when none exists yet.
func (r *CartSnapshotRepo) Load(sessionID string) ([]byte, error) {
	var payload string
	err := r.db.Get(&payload, `SELECT payload FROM cart_snapshots WHERE session_id = ?`, sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (r *CartSnapshotRepo) Save(sessionID string, payload []byte) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_snapshots(session_id, payload, updated_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(session_id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, sessionID, string(payload))
	return err
}
