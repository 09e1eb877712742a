package services_test

import (
	"sync"
	"testing"

	"airdee/internal/domain"
	"airdee/internal/services"
)

func TestCompareListCapAndDedup(t *testing.T) {
	l := services.NewCompareList()
	for _, id := range []string{"a", "b", "c"} {
		if err := l.Add(domain.Product{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	// re-adding a held product is a silent no-op, even at capacity
	if err := l.Add(domain.Product{ID: "b"}); err != nil {
		t.Fatalf("duplicate add should not error: %v", err)
	}
	if len(l.Items()) != 3 {
		t.Fatalf("duplicate add grew the list: %d", len(l.Items()))
	}

	if err := l.Add(domain.Product{ID: "d"}); err != services.ErrCompareFull {
		t.Fatalf("want ErrCompareFull, got %v", err)
	}

	l.Remove("b")
	if l.Contains("b") {
		t.Fatalf("remove failed")
	}
	if err := l.Add(domain.Product{ID: "d"}); err != nil {
		t.Fatalf("add after remove should fit: %v", err)
	}
}

// Two requests on the same session share one list; mutations from separate
// goroutines must stay safe and the cap must hold throughout.
func TestCompareListConcurrentUse(t *testing.T) {
	l := services.NewCompareList()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = l.Add(domain.Product{ID: id})
				l.Contains(id)
				_ = l.Items()
				l.Remove(id)
			}
		}(id)
	}
	wg.Wait()

	if n := len(l.Items()); n > 3 {
		t.Fatalf("cap broken under concurrency: %d items", n)
	}
}
