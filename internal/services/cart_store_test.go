package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"airdee/internal/domain"
	"airdee/internal/repos"
	"airdee/internal/services"
)

// memdb opens a fresh in-memory gateway with the full schema and seed data.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

// checkDerived asserts that the derived reads match a fresh recomputation
// from the line items. Must hold after every mutation.
func checkDerived(t *testing.T, s *services.CartStore) {
	t.Helper()
	wantCount := 0
	wantTotal := 0.0
	for _, it := range s.Items() {
		wantCount += it.Qty
		wantTotal += it.Price * float64(it.Qty)
	}
	if s.ItemCount() != wantCount {
		t.Fatalf("ItemCount=%d, want %d", s.ItemCount(), wantCount)
	}
	if s.Subtotal() != wantTotal {
		t.Fatalf("Subtotal=%v, want %v", s.Subtotal(), wantTotal)
	}
}

func TestCartGuestCheckoutFlow(t *testing.T) {
	db := memdb(t)
	snaps := repos.NewCartSnapshotRepo(db)
	s := services.NewCartStore("sess-guest", snaps)
	checkDerived(t, s)

	p := domain.Product{ID: "p-1", Name: "Daikin 9000", Price: 1000, Image: "p1.jpg"}
	q := domain.Product{ID: "q-1", Name: "TCL 9000", Price: 500}

	s.Add(p)
	checkDerived(t, s)
	s.Add(p)
	checkDerived(t, s)
	s.Add(q)
	checkDerived(t, s)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("want 2 lines, got %d", len(items))
	}
	if items[0].ProductID != "p-1" || items[0].Qty != 2 {
		t.Fatalf("bad first line: %+v", items[0])
	}
	if items[1].ProductID != "q-1" || items[1].Qty != 1 {
		t.Fatalf("bad second line: %+v", items[1])
	}
	if s.Subtotal() != 2500 {
		t.Fatalf("subtotal=%v, want 2500", s.Subtotal())
	}
	if s.ItemCount() != 3 {
		t.Fatalf("itemCount=%d, want 3", s.ItemCount())
	}
}

func TestCartSetQuantityRemovesAtZeroOrBelow(t *testing.T) {
	db := memdb(t)
	s := services.NewCartStore("sess-q", repos.NewCartSnapshotRepo(db))
	p := domain.Product{ID: "p-1", Price: 100}

	s.Add(p)
	s.SetQuantity("p-1", 7)
	checkDerived(t, s)
	if s.ItemCount() != 7 {
		t.Fatalf("itemCount=%d, want 7", s.ItemCount())
	}

	s.SetQuantity("p-1", 0)
	checkDerived(t, s)
	if len(s.Items()) != 0 {
		t.Fatalf("line should be removed at qty 0")
	}

	s.Add(p)
	s.SetQuantity("p-1", -5)
	checkDerived(t, s)
	if len(s.Items()) != 0 {
		t.Fatalf("line should be removed at negative qty")
	}

	// removing an absent line is a no-op
	s.Remove("nope")
	checkDerived(t, s)
}

func TestCartSnapshotRoundTrip(t *testing.T) {
	db := memdb(t)
	snaps := repos.NewCartSnapshotRepo(db)

	s := services.NewCartStore("sess-rt", snaps)
	s.Add(domain.Product{ID: "p-1", Name: "A", Price: 1000, Image: "a.jpg"})
	s.Add(domain.Product{ID: "p-1"})
	s.Add(domain.Product{ID: "p-2", Name: "B", Price: 250})
	before := s.Items()

	// A fresh store over the same slot rehydrates the same lines.
	restored := services.NewCartStore("sess-rt", snaps)
	after := restored.Items()
	if len(after) != len(before) {
		t.Fatalf("want %d lines after restore, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("line %d mismatch: %+v vs %+v", i, before[i], after[i])
		}
	}
	checkDerived(t, restored)
}

func TestCartMalformedSnapshotStartsEmpty(t *testing.T) {
	db := memdb(t)
	snaps := repos.NewCartSnapshotRepo(db)
	if err := snaps.Save("sess-bad", []byte(`{definitely not json`)); err != nil {
		t.Fatal(err)
	}

	s := services.NewCartStore("sess-bad", snaps)
	if len(s.Items()) != 0 {
		t.Fatalf("malformed snapshot should start an empty cart, got %d lines", len(s.Items()))
	}

	// and the store stays usable, overwriting the bad slot
	s.Add(domain.Product{ID: "p-1", Price: 10})
	restored := services.NewCartStore("sess-bad", snaps)
	if len(restored.Items()) != 1 {
		t.Fatalf("slot should hold the new snapshot")
	}
}
