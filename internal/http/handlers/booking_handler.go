package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"airdee/internal/domain"
	applog "airdee/internal/log"
	"airdee/internal/repos"
	"airdee/internal/validate"
)

type BookingHandler struct {
	Books *repos.BookingRepo
}

type bookingReq struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Address       string `json:"address"`
	ServiceType   string `json:"serviceType"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Note          string `json:"note"`
}

// Mine lists the signed-in customer's bookings, matched by account phone.
// Accounts without a phone (email sign-ups) simply have none yet.
func (h *BookingHandler) Mine(c *fiber.Ctx) error {
	u, ok := c.Locals("user").(*domain.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}
	if u.Phone == "" {
		return c.JSON(fiber.Map{"bookings": []domain.Booking{}})
	}
	books, err := h.Books.ListByPhone(u.Phone)
	if err != nil {
		applog.Error(c, "booking.mine.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load bookings"})
	}
	return c.JSON(fiber.Map{"bookings": books})
}

// Create accepts a public booking request; it starts PENDING and unassigned.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req bookingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	name, ok := validate.Name(req.CustomerName)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer name"})
	}
	phone, ok := validate.Phone(req.CustomerPhone)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	svcType, ok := validate.ServiceType(req.ServiceType)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid service type"})
	}
	date, ok := validate.Date(req.Date)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date"})
	}
	t, ok := validate.TimeOfDay(req.Time)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid time"})
	}

	b := domain.Booking{
		ID:            uuid.NewString(),
		CustomerName:  name,
		CustomerPhone: phone,
		Address:       req.Address,
		ServiceType:   svcType,
		Date:          date,
		Time:          t,
		Status:        domain.BookingPending,
		Note:          req.Note,
	}
	if err := h.Books.Insert(b); err != nil {
		applog.Error(c, "booking.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create booking"})
	}
	applog.Audit(c, "booking.create", map[string]any{"booking_id": b.ID, "date": date, "time": t})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": b})
}
