package handlers

import (
	"github.com/jmoiron/sqlx"

	"airdee/internal/config"
	"airdee/internal/repos"
	"airdee/internal/services"
)

type Deps struct {
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CompareHandler  *CompareHandler
	BookingHandler  *BookingHandler
	SettingsHandler *SettingsHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, cache *services.AdminCache) *Deps {
	prodRepo := repos.NewProductRepo(db)
	bookRepo := repos.NewBookingRepo(db)
	setRepo := repos.NewSettingsRepo(db)
	snapRepo := repos.NewCartSnapshotRepo(db)
	moveRepo := repos.NewStockLogRepo(db)

	settingsSvc := services.NewSettingsService(setRepo)

	return &Deps{
		ProductHandler:  &ProductHandler{Prods: prodRepo},
		CartHandler:     &CartHandler{Prods: prodRepo, Snaps: snapRepo},
		CompareHandler:  NewCompareHandler(prodRepo),
		BookingHandler:  &BookingHandler{Books: bookRepo},
		SettingsHandler: &SettingsHandler{Settings: settingsSvc},
		AdminHandler:    &AdminHandler{Cache: cache, Moves: moveRepo, Settings: settingsSvc},
	}
}
