package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"airdee/internal/domain"
	applog "airdee/internal/log"
	"airdee/internal/repos"
	"airdee/internal/services"
	"airdee/internal/validate"
)

type AdminHandler struct {
	Cache    *services.AdminCache
	Moves    *repos.StockLogRepo
	Settings *services.SettingsService
}

func actorID(c *fiber.Ctx) string {
	if u, ok := c.Locals("user").(*domain.User); ok {
		return u.ID
	}
	return ""
}

// ---------- Products ----------

type productReq struct {
	Name        string   `json:"name"`
	NameEN      string   `json:"nameEn"`
	Brand       string   `json:"brand"`
	Type        string   `json:"type"`
	BTU         int      `json:"btu"`
	SEER        float64  `json:"seer"`
	Price       float64  `json:"price"`
	Cost        float64  `json:"cost"`
	Inverter    bool     `json:"inverter"`
	Features    []string `json:"features"`
	Stock       int      `json:"stock"`
	MinStock    int      `json:"minStock"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"loading":  h.Cache.Loading(),
		"products": h.Cache.Products(),
	})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product name"})
	}
	typ, ok := validate.ProductType(req.Type)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product type"})
	}
	if req.BTU <= 0 || req.Price < 0 || req.Stock < 0 || req.MinStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid numeric field"})
	}

	features := req.Features
	if features == nil {
		features = []string{}
	}
	fb, _ := json.Marshal(features)

	p := domain.Product{
		Name:         name,
		NameEN:       req.NameEN,
		Brand:        strings.TrimSpace(req.Brand),
		Type:         typ,
		BTU:          req.BTU,
		SEER:         req.SEER,
		Price:        req.Price,
		Cost:         req.Cost,
		Inverter:     req.Inverter,
		FeaturesJSON: string(fb),
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		Image:        req.Image,
		Description:  req.Description,
	}
	if err := h.Cache.AddItem(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not create product"})
	}
	applog.Audit(c, "admin.products.create", map[string]any{"name": name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

// productPatch mirrors repos.ProductUpdate. Identifier and derived fields have
// no place here, so a client cannot push them to the gateway.
type productPatch struct {
	Name        *string   `json:"name"`
	NameEN      *string   `json:"nameEn"`
	Brand       *string   `json:"brand"`
	Type        *string   `json:"type"`
	BTU         *int      `json:"btu"`
	SEER        *float64  `json:"seer"`
	Price       *float64  `json:"price"`
	Cost        *float64  `json:"cost"`
	Inverter    *bool     `json:"inverter"`
	Features    *[]string `json:"features"`
	Stock       *int      `json:"stock"`
	MinStock    *int      `json:"minStock"`
	Image       *string   `json:"image"`
	Description *string   `json:"description"`
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var patch productPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if patch.Type != nil {
		typ, ok := validate.ProductType(*patch.Type)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product type"})
		}
		patch.Type = &typ
	}

	upd := repos.ProductUpdate{
		Name:        patch.Name,
		NameEN:      patch.NameEN,
		Brand:       patch.Brand,
		Type:        patch.Type,
		BTU:         patch.BTU,
		SEER:        patch.SEER,
		Price:       patch.Price,
		Cost:        patch.Cost,
		Inverter:    patch.Inverter,
		Features:    patch.Features,
		Stock:       patch.Stock,
		MinStock:    patch.MinStock,
		Image:       patch.Image,
		Description: patch.Description,
	}
	if err := h.Cache.UpdateItem(id, upd); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not update product"})
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.JSON(fiber.Map{"ok": true})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	if err := h.Cache.DeleteItem(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not delete product"})
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{"ok": true})
}

// ---------- Stock ----------

type stockAdjustReq struct {
	Qty       int    `json:"qty"`
	Direction string `json:"direction"` // IN | OUT
	Reason    string `json:"reason"`
}

// POST /admin/products/:id/stock
func (h *AdminHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var req stockAdjustReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	dir := strings.ToUpper(strings.TrimSpace(req.Direction))
	if dir != services.DirectionIn && dir != services.DirectionOut {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "direction must be IN or OUT"})
	}
	if req.Qty <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "qty must be positive"})
	}

	p, err := h.Cache.AdjustStock(id, req.Qty, dir, req.Reason, actorID(c))
	if err != nil {
		applog.Error(c, "admin.stock.adjust.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not adjust stock"})
	}
	applog.Audit(c, "admin.stock.adjust", map[string]any{
		"product": id, "qty": req.Qty, "direction": dir, "reason": req.Reason,
	})
	return c.JSON(fiber.Map{"product": p})
}

// GET /admin/stock-movements
func (h *AdminHandler) StockMovements(c *fiber.Ctx) error {
	moves, err := h.Moves.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.stock.movements.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load movements"})
	}
	return c.JSON(fiber.Map{"movements": moves})
}

// ---------- Bookings ----------

// GET /admin/bookings
func (h *AdminHandler) Bookings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"loading":  h.Cache.Loading(),
		"bookings": h.Cache.Bookings(),
	})
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

// POST /admin/bookings/:id/status
func (h *AdminHandler) SetBookingStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var req bookingStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	status, ok := validate.BookingStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}
	if err := h.Cache.SetBookingStatus(id, status); err != nil {
		applog.Error(c, "admin.bookings.status.fail", err, map[string]any{"booking": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not update status"})
	}
	applog.Audit(c, "admin.bookings.status", map[string]any{"booking": id, "status": status})
	return c.JSON(fiber.Map{"ok": true})
}

type technicianReq struct {
	Technician string `json:"technician"`
}

// POST /admin/bookings/:id/technician
func (h *AdminHandler) AssignTechnician(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var req technicianReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.Cache.AssignTechnician(id, strings.TrimSpace(req.Technician)); err != nil {
		applog.Error(c, "admin.bookings.assign.fail", err, map[string]any{"booking": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not assign technician"})
	}
	applog.Audit(c, "admin.bookings.assign", map[string]any{"booking": id, "technician": req.Technician})
	return c.JSON(fiber.Map{"ok": true})
}

// ---------- Settings ----------

type settingReq struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// POST /admin/settings
func (h *AdminHandler) UpdateSetting(c *fiber.Ctx) error {
	var req settingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing key"})
	}
	if err := h.Settings.Set(key, req.Value, req.Type); err != nil {
		applog.Error(c, "admin.settings.save.fail", err, map[string]any{"key": key})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not save setting"})
	}
	applog.Audit(c, "admin.settings.save", map[string]any{"key": key})
	return c.JSON(fiber.Map{"ok": true})
}
