package repos_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"airdee/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestProductListFilters(t *testing.T) {
	r := repos.NewProductRepo(memdb(t))

	all, err := r.List(repos.ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("want 4 seeded products, got %d", len(all))
	}

	byBrand, err := r.List(repos.ProductFilter{Brand: "Daikin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byBrand) != 1 || byBrand[0].ID != "dk-ftkq09" {
		t.Fatalf("brand filter: %+v", byBrand)
	}

	byType, err := r.List(repos.ProductFilter{Type: "PORTABLE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byType) != 1 || byType[0].ID != "tcl-p09" {
		t.Fatalf("type filter: %+v", byType)
	}

	// 9000..12000 excludes the 18000 BTU unit
	byBTU, err := r.List(repos.ProductFilter{MinBTU: 9000, MaxBTU: 12000})
	if err != nil {
		t.Fatal(err)
	}
	if len(byBTU) != 3 {
		t.Fatalf("btu filter: got %d products", len(byBTU))
	}

	noInv := false
	byInv, err := r.List(repos.ProductFilter{Inverter: &noInv})
	if err != nil {
		t.Fatal(err)
	}
	if len(byInv) != 1 || byInv[0].ID != "tcl-p09" {
		t.Fatalf("inverter filter: %+v", byInv)
	}

	// text search spans Thai names and english model names, case-insensitively
	byQuery, err := r.List(repos.ProductFilter{Query: "mr.slim"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byQuery) != 1 || byQuery[0].ID != "ms-gr13" {
		t.Fatalf("query filter: %+v", byQuery)
	}
}

func TestProductUpdateIsPartial(t *testing.T) {
	r := repos.NewProductRepo(memdb(t))

	// an empty patch is a no-op, not an error
	if err := r.Update("dk-ftkq09", repos.ProductUpdate{}); err != nil {
		t.Fatal(err)
	}
	p, err := r.Get("dk-ftkq09")
	if err != nil {
		t.Fatal(err)
	}
	if p.UpdatedAt != "" {
		t.Fatalf("empty patch should not touch the row")
	}

	stock := 99
	if err := r.Update("dk-ftkq09", repos.ProductUpdate{Stock: &stock}); err != nil {
		t.Fatal(err)
	}
	p, err = r.Get("dk-ftkq09")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 99 {
		t.Fatalf("stock=%d, want 99", p.Stock)
	}
	if p.Name != "แอร์ Daikin FTKQ09 9000 BTU" || p.Price != 14900 {
		t.Fatalf("untouched columns changed: %+v", p)
	}
	if p.UpdatedAt == "" {
		t.Fatalf("update should stamp updated_at")
	}
}
