package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "airdee/internal/log"
	"airdee/internal/repos"
	"airdee/internal/services"
	"airdee/internal/validate"
)

type CartHandler struct {
	Prods *repos.ProductRepo
	Snaps *repos.CartSnapshotRepo
}

func (h *CartHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // set true behind HTTPS
		})
	}
	return sid
}

// store rehydrates this session's cart from its snapshot slot.
func (h *CartHandler) store(c *fiber.Ctx) *services.CartStore {
	return services.NewCartStore(h.ensureSID(c), h.Snaps)
}

func cartJSON(c *fiber.Ctx, s *services.CartStore) error {
	return c.JSON(fiber.Map{
		"items":     s.Items(),
		"subtotal":  s.Subtotal(),
		"itemCount": s.ItemCount(),
	})
}

type cartItemReq struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return cartJSON(c, h.store(c))
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	p, err := h.Prods.Get(pid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	s := h.store(c)
	s.Add(p)
	applog.Info(c, "cart.add", map[string]any{"product": pid})
	return cartJSON(c, s)
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	s := h.store(c)
	// zero and below still mean "remove the line"; only positive requests clamp
	if req.Qty > 0 {
		req.Qty = validate.Qty(req.Qty)
	}
	s.SetQuantity(pid, req.Qty)
	return cartJSON(c, s)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	s := h.store(c)
	s.Remove(pid)
	return cartJSON(c, s)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	s := h.store(c)
	s.Clear()
	return cartJSON(c, s)
}
