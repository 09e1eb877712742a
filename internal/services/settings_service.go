package services

import (
	"airdee/internal/domain"
	"airdee/internal/repos"
)

// SettingsService merges the stored settings table over a fixed default map.
// Keys missing remotely keep their defaults, so a partially-seeded table never
// breaks the storefront.
type SettingsService struct {
	Repo *repos.SettingsRepo
}

func NewSettingsService(repo *repos.SettingsRepo) *SettingsService {
	return &SettingsService{Repo: repo}
}

// DefaultSettings is the baseline every deployment starts from.
func DefaultSettings() map[string]domain.SiteSetting {
	defs := []domain.SiteSetting{
		{Key: "site_name_th", Value: "แอร์ดี", Type: "text"},
		{Key: "site_name_en", Value: "AirDee", Type: "text"},
		{Key: "contact_phone", Value: "02-000-0000", Type: "text"},
		{Key: "contact_email", Value: "contact@airdee.test", Type: "text"},
		{Key: "line_id", Value: "@airdee", Type: "text"},
		{Key: "promo_banner", Value: "", Type: "text"},
		{Key: "free_install_min_btu", Value: "12000", Type: "number"},
	}
	out := make(map[string]domain.SiteSetting, len(defs))
	for _, s := range defs {
		out[s.Key] = s
	}
	return out
}

// All returns defaults overlaid with whatever rows exist. The map is always
// usable; a fetch error is returned alongside it for the caller to report.
func (s *SettingsService) All() (map[string]domain.SiteSetting, error) {
	merged := DefaultSettings()
	rows, err := s.Repo.List()
	if err != nil {
		return merged, err
	}
	for _, row := range rows {
		merged[row.Key] = row
	}
	return merged, nil
}

func (s *SettingsService) Set(key, value, typ string) error {
	if typ == "" {
		typ = "text"
	}
	return s.Repo.Upsert(key, value, typ)
}
