package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"airdee/internal/domain"
	"airdee/internal/repos"
)

// Stock adjustment directions.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// AdminCache mirrors the catalog and booking tables for the admin console.
// Writes go to the gateway first, then the affected collection is refetched
// wholesale (delete prunes the mirror in place instead). Mutations on one
// cache are serialized; the refetch still means the last writer wins at the
// table level.
type AdminCache struct {
	Prods *repos.ProductRepo
	Books *repos.BookingRepo
	Moves *repos.StockLogRepo

	mu       sync.Mutex
	products []domain.Product
	bookings []domain.Booking
	loading  bool
}

func NewAdminCache(prods *repos.ProductRepo, books *repos.BookingRepo, moves *repos.StockLogRepo) *AdminCache {
	return &AdminCache{Prods: prods, Books: books, Moves: moves, loading: true}
}

// Load fetches both collections concurrently. The loading flag clears once
// both fetches have landed, whether or not they succeeded.
func (c *AdminCache) Load() error {
	var (
		wg    sync.WaitGroup
		prods []domain.Product
		books []domain.Booking
		perr  error
		berr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		prods, perr = c.Prods.List(repos.ProductFilter{})
	}()
	go func() {
		defer wg.Done()
		books, berr = c.Books.List()
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if perr != nil {
		return perr
	}
	if berr != nil {
		return berr
	}
	c.products = prods
	c.bookings = books
	return nil
}

func (c *AdminCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *AdminCache) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *AdminCache) Bookings() []domain.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

func (c *AdminCache) Product(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// refreshProducts must be called with the mutex held.
func (c *AdminCache) refreshProducts() error {
	prods, err := c.Prods.List(repos.ProductFilter{})
	if err != nil {
		return err
	}
	c.products = prods
	return nil
}

// refreshBookings must be called with the mutex held.
func (c *AdminCache) refreshBookings() error {
	books, err := c.Books.List()
	if err != nil {
		return err
	}
	c.bookings = books
	return nil
}

// AddItem derives the stock status, inserts, and refetches the catalog.
func (c *AdminCache) AddItem(p domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.FeaturesJSON == "" {
		p.FeaturesJSON = "[]"
	}
	p.Status = domain.StockStatus(p.Stock, p.MinStock)
	if err := c.Prods.Insert(p); err != nil {
		return err
	}
	return c.refreshProducts()
}

// UpdateItem applies a partial update and refetches the catalog. Derived
// fields and the identifier never reach the gateway; ProductUpdate carries
// columns only.
func (c *AdminCache) UpdateItem(id string, upd repos.ProductUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateItemLocked(id, upd)
}

func (c *AdminCache) updateItemLocked(id string, upd repos.ProductUpdate) error {
	if err := c.Prods.Update(id, upd); err != nil {
		return err
	}
	return c.refreshProducts()
}

// DeleteItem deletes remotely, then prunes the mirror without a refetch.
func (c *AdminCache) DeleteItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Prods.Delete(id); err != nil {
		return err
	}
	kept := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
	return nil
}

// AdjustStock moves stock in or out, recomputes the status, writes an audit
// row, and persists through the regular update path. OUT clamps at zero.
func (c *AdminCache) AdjustStock(id string, qty int, direction, reason, actor string) (domain.Product, error) {
	if qty < 0 {
		return domain.Product{}, fmt.Errorf("negative adjustment quantity %d", qty)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := c.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	newStock := cur.Stock
	switch direction {
	case DirectionIn:
		newStock += qty
	case DirectionOut:
		newStock -= qty
		if newStock < 0 {
			newStock = 0
		}
	default:
		return domain.Product{}, fmt.Errorf("unknown stock direction %q", direction)
	}
	status := domain.StockStatus(newStock, cur.MinStock)

	if err := c.Moves.Insert(domain.StockMovement{
		ID:        uuid.NewString(),
		ProductID: id,
		Delta:     newStock - cur.Stock,
		Direction: direction,
		Reason:    reason,
		Actor:     actor,
	}); err != nil {
		return domain.Product{}, err
	}

	if err := c.updateItemLocked(id, repos.ProductUpdate{Stock: &newStock, Status: &status}); err != nil {
		return domain.Product{}, err
	}

	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %s missing after update", id)
}

// SetBookingStatus updates one booking's status and refetches the list.
func (c *AdminCache) SetBookingStatus(id, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Books.UpdateStatus(id, status); err != nil {
		return err
	}
	return c.refreshBookings()
}

// AssignTechnician persists the assignment and refetches the list.
func (c *AdminCache) AssignTechnician(id, technician string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Books.AssignTechnician(id, technician); err != nil {
		return err
	}
	return c.refreshBookings()
}
