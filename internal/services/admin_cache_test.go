package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"airdee/internal/domain"
	"airdee/internal/repos"
	"airdee/internal/services"
)

func newCache(t *testing.T) (*services.AdminCache, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	c := services.NewAdminCache(
		repos.NewProductRepo(db),
		repos.NewBookingRepo(db),
		repos.NewStockLogRepo(db),
	)
	if !c.Loading() {
		t.Fatalf("cache should start loading")
	}
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if c.Loading() {
		t.Fatalf("loading should clear after Load")
	}
	return c, db
}

func TestAdminCacheLoadsSeedData(t *testing.T) {
	c, _ := newCache(t)
	if len(c.Products()) != 4 {
		t.Fatalf("want 4 seeded products, got %d", len(c.Products()))
	}
	// bookings come back soonest first
	books := c.Bookings()
	if len(books) != 2 {
		t.Fatalf("want 2 seeded bookings, got %d", len(books))
	}
	if books[0].ID != "bk-0002" || books[1].ID != "bk-0001" {
		t.Fatalf("bookings not in schedule order: %s, %s", books[0].ID, books[1].ID)
	}
}

func TestAdminCacheAddItemDerivesStatus(t *testing.T) {
	c, _ := newCache(t)
	err := c.AddItem(domain.Product{
		ID: "test-ac", Name: "แอร์ทดสอบ", Brand: "Daikin", Type: "WALL",
		BTU: 9000, Price: 9900, Stock: 3, MinStock: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	p, ok := c.Product("test-ac")
	if !ok {
		t.Fatalf("product missing from mirror after add")
	}
	if p.Status != domain.StatusLowStock {
		t.Fatalf("status=%s, want %s", p.Status, domain.StatusLowStock)
	}
	if p.FeaturesJSON != "[]" {
		t.Fatalf("features should default to empty list, got %q", p.FeaturesJSON)
	}
}

func TestAdminCacheAdjustStockBoundaries(t *testing.T) {
	c, db := newCache(t)
	if err := c.AddItem(domain.Product{
		ID: "test-ac", Name: "แอร์ทดสอบ", Brand: "Daikin", Type: "WALL",
		BTU: 9000, Price: 9900, Stock: 5, MinStock: 3,
	}); err != nil {
		t.Fatal(err)
	}

	p, err := c.AdjustStock("test-ac", 5, services.DirectionOut, "ขายหน้าร้าน", "u-admin")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 0 || p.Status != domain.StatusOutOfStock {
		t.Fatalf("after OUT 5: stock=%d status=%s", p.Stock, p.Status)
	}

	p, err = c.AdjustStock("test-ac", 10, services.DirectionIn, "รับของเข้า", "u-admin")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 10 || p.Status != domain.StatusInStock {
		t.Fatalf("after IN 10: stock=%d status=%s", p.Stock, p.Status)
	}

	// every adjustment leaves an audit row
	moves, err := repos.NewStockLogRepo(db).ListByProduct("test-ac")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 {
		t.Fatalf("want 2 movements, got %d", len(moves))
	}
	deltas := map[int]domain.StockMovement{}
	for _, m := range moves {
		deltas[m.Delta] = m
	}
	if m, ok := deltas[-5]; !ok || m.Direction != services.DirectionOut || m.Reason != "ขายหน้าร้าน" {
		t.Fatalf("OUT movement wrong: %+v", deltas)
	}
	if m, ok := deltas[10]; !ok || m.Direction != services.DirectionIn || m.Actor != "u-admin" {
		t.Fatalf("IN movement wrong: %+v", deltas)
	}
}

func TestAdminCacheAdjustStockClampsAndRejects(t *testing.T) {
	c, _ := newCache(t)

	// seeded ms-gr13 holds 2 units; OUT 5 clamps at zero
	p, err := c.AdjustStock("ms-gr13", 5, services.DirectionOut, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 0 || p.Status != domain.StatusOutOfStock {
		t.Fatalf("clamp failed: stock=%d status=%s", p.Stock, p.Status)
	}

	if _, err := c.AdjustStock("ms-gr13", 1, "SIDEWAYS", "", ""); err == nil {
		t.Fatalf("unknown direction should fail")
	}
	if _, err := c.AdjustStock("no-such-id", 1, services.DirectionIn, "", ""); err == nil {
		t.Fatalf("unknown product should fail")
	}
}

func TestAdminCacheUpdateItemFeatures(t *testing.T) {
	c, _ := newCache(t)

	// clearing features is distinct from leaving them alone
	cleared := []string{}
	if err := c.UpdateItem("dk-ftkq09", repos.ProductUpdate{Features: &cleared}); err != nil {
		t.Fatal(err)
	}
	p, _ := c.Product("dk-ftkq09")
	if len(p.Features()) != 0 {
		t.Fatalf("features should be cleared, got %v", p.Features())
	}

	price := 15900.0
	if err := c.UpdateItem("tcl-p09", repos.ProductUpdate{Price: &price}); err != nil {
		t.Fatal(err)
	}
	p, _ = c.Product("tcl-p09")
	if p.Price != 15900 {
		t.Fatalf("price=%v, want 15900", p.Price)
	}
	if len(p.Features()) != 2 {
		t.Fatalf("untouched features should survive, got %v", p.Features())
	}
}

func TestAdminCacheDeleteItemPrunesMirror(t *testing.T) {
	c, db := newCache(t)
	before := len(c.Products())
	if err := c.DeleteItem("tcl-p09"); err != nil {
		t.Fatal(err)
	}
	if len(c.Products()) != before-1 {
		t.Fatalf("mirror not pruned: %d -> %d", before, len(c.Products()))
	}
	if _, ok := c.Product("tcl-p09"); ok {
		t.Fatalf("deleted product still in mirror")
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE id = 'tcl-p09'`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("row survived delete")
	}
}

func TestAdminCacheBookingMutationsPersist(t *testing.T) {
	c, db := newCache(t)

	if err := c.SetBookingStatus("bk-0002", domain.BookingConfirmed); err != nil {
		t.Fatal(err)
	}
	if err := c.AssignTechnician("bk-0002", "ช่างเบียร์"); err != nil {
		t.Fatal(err)
	}

	for _, b := range c.Bookings() {
		if b.ID != "bk-0002" {
			continue
		}
		if b.Status != domain.BookingConfirmed || b.Technician != "ช่างเบียร์" {
			t.Fatalf("mirror stale: %+v", b)
		}
	}

	// assignment reaches the gateway, not just the mirror
	got, err := repos.NewBookingRepo(db).Get("bk-0002")
	if err != nil {
		t.Fatal(err)
	}
	if got.Technician != "ช่างเบียร์" || got.Status != domain.BookingConfirmed {
		t.Fatalf("row stale: %+v", got)
	}
}
