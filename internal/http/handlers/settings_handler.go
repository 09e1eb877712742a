package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "airdee/internal/log"
	"airdee/internal/services"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

// Get always answers the merged map; a fetch failure falls back to defaults.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	merged, err := h.Settings.All()
	if err != nil {
		applog.Error(c, "settings.load.fail", err, nil)
	}
	return c.JSON(fiber.Map{"settings": merged})
}
