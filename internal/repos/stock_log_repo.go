package repos

import (
	"github.com/jmoiron/sqlx"

	"airdee/internal/domain"
)

// StockLogRepo persists the audit trail behind admin stock adjustments.
type StockLogRepo struct{ db *sqlx.DB }

func NewStockLogRepo(db *sqlx.DB) *StockLogRepo { return &StockLogRepo{db: db} }

func (r *StockLogRepo) Insert(m domain.StockMovement) error {
	_, err := r.db.Exec(`
	  INSERT INTO stock_movements(id, product_id, delta, direction, reason, actor, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, m.ID, m.ProductID, m.Delta, m.Direction, m.Reason, m.Actor)
	return err
}

func (r *StockLogRepo) ListLatest(limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.StockMovement{}
	err := r.db.Select(&out, `
	  SELECT id, product_id, delta, direction, reason, actor, created_at
	  FROM stock_movements
	  ORDER BY datetime(created_at) DESC, id DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *StockLogRepo) ListByProduct(productID string) ([]domain.StockMovement, error) {
	out := []domain.StockMovement{}
	err := r.db.Select(&out, `
	  SELECT id, product_id, delta, direction, reason, actor, created_at
	  FROM stock_movements
	  WHERE product_id = ?
	  ORDER BY datetime(created_at) DESC, id DESC
	`, productID)
	return out, err
}
