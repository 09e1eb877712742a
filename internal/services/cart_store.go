package services

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"airdee/internal/domain"
)

// SnapshotStore is the durable slot a cart serializes into.
type SnapshotStore interface {
	Load(key string) ([]byte, error)
	Save(key string, payload []byte) error
}

// CartStore holds one session's cart lines and mirrors every mutation into its
// snapshot slot. Persistence is fire-and-forget: a failed write never fails the
// mutation. Subtotal and ItemCount are recomputed from the lines on every read.
type CartStore struct {
	key   string
	items []domain.CartItem
	snaps SnapshotStore
}

// NewCartStore rehydrates a prior snapshot if one exists; a missing or
// malformed snapshot starts an empty cart.
func NewCartStore(key string, snaps SnapshotStore) *CartStore {
	s := &CartStore{key: key, snaps: snaps}
	s.rehydrate()
	return s
}

func (s *CartStore) rehydrate() {
	if s.snaps == nil {
		return
	}
	raw, err := s.snaps.Load(s.key)
	if err != nil || len(raw) == 0 {
		return
	}
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return
	}
	s.items = items
}

func (s *CartStore) persist() {
	if s.snaps == nil {
		return
	}
	raw, err := json.Marshal(s.items)
	if err != nil {
		return
	}
	if err := s.snaps.Save(s.key, raw); err != nil {
		log.Printf("[cart] snapshot save failed for %s: %v", s.key, err)
	}
}

// Add puts one unit of the product in the cart, merging into an existing line.
func (s *CartStore) Add(p domain.Product) {
	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Qty++
			s.persist()
			return
		}
	}
	s.items = append(s.items, domain.CartItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Qty:       1,
		Image:     p.Image,
	})
	s.persist()
}

func (s *CartStore) Remove(productID string) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.persist()
}

// SetQuantity overwrites a line's quantity; n <= 0 removes the line.
func (s *CartStore) SetQuantity(productID string, n int) {
	if n <= 0 {
		s.Remove(productID)
		return
	}
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Qty = n
			s.persist()
			return
		}
	}
}

func (s *CartStore) Clear() {
	s.items = nil
	s.persist()
}

func (s *CartStore) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) Subtotal() float64 {
	total := 0.0
	for _, it := range s.items {
		total += it.Price * float64(it.Qty)
	}
	return total
}

func (s *CartStore) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Qty
	}
	return n
}
