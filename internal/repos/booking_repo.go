package repos

import (
	"github.com/jmoiron/sqlx"

	"airdee/internal/domain"
)

type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `
  id, customer_name, customer_phone, address, service_type, date, time,
  status, technician, note, created_at`

// List returns all bookings sorted by schedule, soonest first.
func (r *BookingRepo) List() ([]domain.Booking, error) {
	out := []domain.Booking{}
	err := r.db.Select(&out, `
	  SELECT `+bookingCols+`
	  FROM bookings
	  ORDER BY date ASC, time ASC
	`)
	return out, err
}

// ListByPhone returns one customer's bookings, soonest first.
func (r *BookingRepo) ListByPhone(phone string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	err := r.db.Select(&out, `
	  SELECT `+bookingCols+`
	  FROM bookings
	  WHERE customer_phone = ?
	  ORDER BY date ASC, time ASC
	`, phone)
	return out, err
}

func (r *BookingRepo) Get(id string) (domain.Booking, error) {
	var b domain.Booking
	err := r.db.Get(&b, `SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id)
	return b, err
}

func (r *BookingRepo) Insert(b domain.Booking) error {
	_, err := r.db.Exec(`
	  INSERT INTO bookings(id,customer_name,customer_phone,address,service_type,date,time,status,technician,note,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, b.ID, b.CustomerName, b.CustomerPhone, b.Address, b.ServiceType, b.Date, b.Time, b.Status, b.Technician, b.Note)
	return err
}

func (r *BookingRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *BookingRepo) AssignTechnician(id, technician string) error {
	_, err := r.db.Exec(`UPDATE bookings SET technician = ? WHERE id = ?`, technician, id)
	return err
}
