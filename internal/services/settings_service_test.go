package services_test

import (
	"testing"

	"airdee/internal/repos"
	"airdee/internal/services"
)

func TestSettingsMergeOverDefaults(t *testing.T) {
	db := memdb(t)
	svc := services.NewSettingsService(repos.NewSettingsRepo(db))

	all, err := svc.All()
	if err != nil {
		t.Fatal(err)
	}
	// seeded rows override their defaults
	if all["site_name_th"].Value != "แอร์ดี เซลส์แอนด์เซอร์วิส" {
		t.Fatalf("seeded override missing: %q", all["site_name_th"].Value)
	}
	// keys absent from the table keep their defaults
	if all["free_install_min_btu"].Value != "12000" {
		t.Fatalf("default missing: %q", all["free_install_min_btu"].Value)
	}
	if all["site_name_en"].Value != "AirDee" {
		t.Fatalf("default missing: %q", all["site_name_en"].Value)
	}

	if err := svc.Set("promo_banner", "ติดตั้งฟรีเดือนนี้", ""); err != nil {
		t.Fatal(err)
	}
	all, err = svc.All()
	if err != nil {
		t.Fatal(err)
	}
	got := all["promo_banner"]
	if got.Value != "ติดตั้งฟรีเดือนนี้" || got.Type != "text" {
		t.Fatalf("upsert not visible: %+v", got)
	}
}
