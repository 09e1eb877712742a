package repos

import (
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"

	"airdee/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, name_en, brand, type, btu, seer, price, cost, inverter,
  features_json, stock, min_stock, status, image, description,
  created_at, COALESCE(updated_at,'') AS updated_at`

// ProductFilter narrows List; zero values mean "no constraint".
type ProductFilter struct {
	Brand    string
	Type     string
	MinBTU   int
	MaxBTU   int
	Inverter *bool
	Query    string
}

// List returns the catalog newest-first.
func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Brand != "" {
		where += ` AND brand = ?`
		args = append(args, f.Brand)
	}
	if f.Type != "" {
		where += ` AND type = ?`
		args = append(args, f.Type)
	}
	if f.MinBTU > 0 {
		where += ` AND btu >= ?`
		args = append(args, f.MinBTU)
	}
	if f.MaxBTU > 0 {
		where += ` AND btu <= ?`
		args = append(args, f.MaxBTU)
	}
	if f.Inverter != nil {
		where += ` AND inverter = ?`
		args = append(args, *f.Inverter)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(name_en) LIKE ? OR LOWER(description) LIKE ?)`
		pat := "%" + strings.ToLower(q) + "%"
		args = append(args, pat, pat, pat)
	}

	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, id DESC
	`, args...)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,name_en,brand,type,btu,seer,price,cost,inverter,
	    features_json,stock,min_stock,status,image,description,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.NameEN, p.Brand, p.Type, p.BTU, p.SEER, p.Price, p.Cost, p.Inverter,
		p.FeaturesJSON, p.Stock, p.MinStock, p.Status, p.Image, p.Description)
	return err
}

// ProductUpdate carries partial column updates; nil fields are left untouched.
// Features distinguishes "not sent" (nil) from "explicitly cleared" (&[]string{}).
type ProductUpdate struct {
	Name        *string
	NameEN      *string
	Brand       *string
	Type        *string
	BTU         *int
	SEER        *float64
	Price       *float64
	Cost        *float64
	Inverter    *bool
	Features    *[]string
	Stock       *int
	MinStock    *int
	Status      *string
	Image       *string
	Description *string
}

func (u ProductUpdate) columns() (sets []string, args []any) {
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.NameEN != nil {
		add("name_en", *u.NameEN)
	}
	if u.Brand != nil {
		add("brand", *u.Brand)
	}
	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.BTU != nil {
		add("btu", *u.BTU)
	}
	if u.SEER != nil {
		add("seer", *u.SEER)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.Cost != nil {
		add("cost", *u.Cost)
	}
	if u.Inverter != nil {
		add("inverter", *u.Inverter)
	}
	if u.Features != nil {
		fs := *u.Features
		if fs == nil {
			fs = []string{}
		}
		b, _ := json.Marshal(fs)
		add("features_json", string(b))
	}
	if u.Stock != nil {
		add("stock", *u.Stock)
	}
	if u.MinStock != nil {
		add("min_stock", *u.MinStock)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Image != nil {
		add("image", *u.Image)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	return sets, args
}

func (r *ProductRepo) Update(id string, u ProductUpdate) error {
	sets, args := u.columns()
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	_, err := r.db.Exec(`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}
