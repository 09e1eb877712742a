package handlers

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"airdee/internal/repos"
	"airdee/internal/services"
	"airdee/internal/validate"
)

// CompareHandler keeps one in-memory comparison list per session. Lists live
// for the process lifetime only; a restart empties them.
type CompareHandler struct {
	Prods *repos.ProductRepo

	mu    sync.Mutex
	lists map[string]*services.CompareList
}

func NewCompareHandler(prods *repos.ProductRepo) *CompareHandler {
	return &CompareHandler{Prods: prods, lists: make(map[string]*services.CompareList)}
}

func (h *CompareHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *CompareHandler) list(c *fiber.Ctx) *services.CompareList {
	sid := h.ensureSID(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.lists[sid]
	if !ok {
		l = services.NewCompareList()
		h.lists[sid] = l
	}
	return l
}

type compareReq struct {
	ProductID string `json:"productId"`
}

func (h *CompareHandler) View(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": h.list(c).Items()})
}

func (h *CompareHandler) Add(c *fiber.Ctx) error {
	var req compareReq
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
	l := h.list(c)
	if err := l.Add(p); err != nil {
		if errors.Is(err, services.ErrCompareFull) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "เปรียบเทียบได้สูงสุด 3 รายการ"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not add to comparison"})
	}
	return c.JSON(fiber.Map{"items": l.Items()})
}

func (h *CompareHandler) Remove(c *fiber.Ctx) error {
	var req compareReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	l := h.list(c)
	l.Remove(pid)
	return c.JSON(fiber.Map{"items": l.Items()})
}
