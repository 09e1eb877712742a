package services

import (
	"errors"
	"sync"

	"airdee/internal/domain"
)

// ErrCompareFull is returned when a fourth product is added to a comparison.
var ErrCompareFull = errors.New("comparison list holds at most 3 products")

const compareLimit = 3

// CompareList is a session-lifetime selection of products for side-by-side
// comparison. Memory only; nothing survives a restart. Safe for concurrent
// requests on the same session.
type CompareList struct {
	mu    sync.Mutex
	items []domain.Product
}

func NewCompareList() *CompareList { return &CompareList{} }

// Add ignores products already held and rejects additions past the cap.
func (l *CompareList) Add(p domain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.contains(p.ID) {
		return nil
	}
	if len(l.items) >= compareLimit {
		return ErrCompareFull
	}
	l.items = append(l.items, p)
	return nil
}

func (l *CompareList) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, it := range l.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	l.items = kept
}

// contains must be called with the mutex held.
func (l *CompareList) contains(id string) bool {
	for _, it := range l.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (l *CompareList) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.contains(id)
}

func (l *CompareList) Items() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Product, len(l.items))
	copy(out, l.items)
	return out
}
