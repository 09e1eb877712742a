package domain

import "encoding/json"

// Stock status values derived from (stock, min_stock).
const (
	StatusInStock    = "IN_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// Booking lifecycle states.
const (
	BookingPending    = "PENDING"
	BookingConfirmed  = "CONFIRMED"
	BookingInProgress = "IN_PROGRESS"
	BookingCompleted  = "COMPLETED"
	BookingCanceled   = "CANCELED"
)

// StockStatus derives the display status from stock against the low-stock
// threshold. stock == minStock still counts as low.
func StockStatus(stock, minStock int) string {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= minStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

type Product struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	NameEN       string  `db:"name_en" json:"nameEn"`
	Brand        string  `db:"brand" json:"brand"`
	Type         string  `db:"type" json:"type"` // WALL | CASSETTE | PORTABLE
	BTU          int     `db:"btu" json:"btu"`
	SEER         float64 `db:"seer" json:"seer"`
	Price        float64 `db:"price" json:"price"`
	Cost         float64 `db:"cost" json:"cost"`
	Inverter     bool    `db:"inverter" json:"inverter"`
	FeaturesJSON string  `db:"features_json" json:"-"`
	Stock        int     `db:"stock" json:"stock"`
	MinStock     int     `db:"min_stock" json:"minStock"`
	Status       string  `db:"status" json:"status"`
	Image        string  `db:"image" json:"image"`
	Description  string  `db:"description" json:"description"`
	CreatedAt    string  `db:"created_at" json:"createdAt"`
	UpdatedAt    string  `db:"updated_at" json:"updatedAt"`
}

// Features decodes the ordered feature list; a missing or broken column reads
// as no features.
func (p Product) Features() []string {
	if p.FeaturesJSON == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(p.FeaturesJSON), &out); err != nil {
		return nil
	}
	return out
}

type Booking struct {
	ID            string `db:"id" json:"id"`
	CustomerName  string `db:"customer_name" json:"customerName"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone"`
	Address       string `db:"address" json:"address"`
	ServiceType   string `db:"service_type" json:"serviceType"` // INSTALL | CLEANING | REPAIR
	Date          string `db:"date" json:"date"`                // YYYY-MM-DD
	Time          string `db:"time" json:"time"`                // HH:MM
	Status        string `db:"status" json:"status"`
	Technician    string `db:"technician" json:"technician"`
	Note          string `db:"note" json:"note"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
}

// CartItem is one line of a session cart. At most one line per product.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Image     string  `json:"image"`
}

type SiteSetting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
	Type  string `db:"type" json:"type"`
}

type StockMovement struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	Delta     int    `db:"delta" json:"delta"`
	Direction string `db:"direction" json:"direction"` // IN | OUT
	Reason    string `db:"reason" json:"reason"`
	Actor     string `db:"actor" json:"actor"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
