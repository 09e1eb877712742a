package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "airdee/internal/log"
	"airdee/internal/repos"
	"airdee/internal/validate"
)

type ProductHandler struct {
	Prods *repos.ProductRepo
}

// List serves the storefront catalog, newest-first, with optional filters.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{
		Brand: strings.TrimSpace(c.Query("brand")),
		Query: strings.TrimSpace(c.Query("q")),
	}
	if t, ok := validate.ProductType(c.Query("type")); ok {
		f.Type = t
	}
	if n, err := strconv.Atoi(c.Query("btuMin")); err == nil && n > 0 {
		f.MinBTU = n
	}
	if n, err := strconv.Atoi(c.Query("btuMax")); err == nil && n > 0 {
		f.MaxBTU = n
	}
	if v := c.Query("inverter"); v != "" {
		inv := v == "true" || v == "1"
		f.Inverter = &inv
	}

	prods, err := h.Prods.List(f)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(fiber.Map{"products": prods})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(fiber.Map{"product": p, "features": p.Features()})
}
