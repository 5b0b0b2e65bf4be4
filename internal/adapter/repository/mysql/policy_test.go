package mysql

import (
	"context"
	"errors"
	"testing"

	policyDomain "kavak-credito/internal/domain/policy"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the policy and audit tables.
// The domain models carry no mysql-only column types, so they migrate as is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&policyDomain.JurisdictionPolicy{},
		&policyDomain.RateTier{},
		&policyDomain.LeverageSpread{},
		&policyDomain.SettingsChange{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makePolicy(country string) *policyDomain.JurisdictionPolicy {
	return &policyDomain.JurisdictionPolicy{
		CountryCode:      country,
		Currency:         "ARS",
		CurrencyDecimals: 2,
		MinPercentage:    10,
		MaxPercentage:    80,
		MaxScenarios:     3,
		MinInstallments:  6,
		MaxInstallments:  72,
		InstallmentStep:  6,
		UpdatedBy:        "seed",
		RateTiers: []policyDomain.RateTier{
			{UpToInstallments: 36, NominalAnnualRate: 0.78},
			{UpToInstallments: 12, NominalAnnualRate: 0.70},
			{UpToInstallments: 72, NominalAnnualRate: 0.90},
		},
		LeverageSpreads: []policyDomain.LeverageSpread{{AbovePercentage: 50, Spread: 0.02}},
	}
}

func TestPolicy_CreateAndGetByCountry(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	p := makePolicy("AR")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByCountry(ctx, "AR")
	if err != nil {
		t.Fatalf("GetByCountry: %v", err)
	}
	if got.Currency != "ARS" || got.MaxInstallments != 72 || got.UpdatedBy != "seed" {
		t.Errorf("unexpected policy: %+v", got)
	}
	if len(got.RateTiers) != 3 {
		t.Fatalf("rate tiers = %d, want 3", len(got.RateTiers))
	}
	// preloaded in ascending term order regardless of insert order
	for i, want := range []int{12, 36, 72} {
		if got.RateTiers[i].UpToInstallments != want {
			t.Errorf("tier[%d] = %d, want %d", i, got.RateTiers[i].UpToInstallments, want)
		}
	}
	if len(got.LeverageSpreads) != 1 || got.LeverageSpreads[0].Spread != 0.02 {
		t.Errorf("unexpected spreads: %+v", got.LeverageSpreads)
	}

	if _, err := got.ToPolicy(); err != nil {
		t.Errorf("stored policy should be valid: %v", err)
	}
}

func TestPolicy_GetByCountry_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db)

	_, err := repo.GetByCountry(context.Background(), "BR")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPolicy_List(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("List on empty table = %d rows, %v", len(empty), err)
	}

	for _, c := range []string{"CL", "AR"} {
		if err := repo.Create(ctx, makePolicy(c)); err != nil {
			t.Fatalf("Create %s: %v", c, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].CountryCode != "AR" || all[1].CountryCode != "CL" {
		t.Fatalf("unexpected list: %+v", all)
	}
	if len(all[1].RateTiers) != 3 {
		t.Errorf("List should preload tiers, got %d", len(all[1].RateTiers))
	}
}

func TestPolicy_SaveReplacesChildren(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	p := makePolicy("AR")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.MaxPercentage = 70
	p.UpdatedBy = "admin-1"
	p.RateTiers = []policyDomain.RateTier{{UpToInstallments: 72, NominalAnnualRate: 0.85}}
	p.LeverageSpreads = nil
	if err := repo.Tx(ctx, func(r policyDomain.Repository) error { return r.Save(ctx, p) }); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByCountry(ctx, "AR")
	if err != nil {
		t.Fatalf("GetByCountry: %v", err)
	}
	if got.MaxPercentage != 70 || got.UpdatedBy != "admin-1" {
		t.Errorf("row not updated: %+v", got)
	}
	if len(got.RateTiers) != 1 || got.RateTiers[0].NominalAnnualRate != 0.85 {
		t.Errorf("tiers not replaced: %+v", got.RateTiers)
	}
	if len(got.LeverageSpreads) != 0 {
		t.Errorf("spreads not removed: %+v", got.LeverageSpreads)
	}

	var orphans int64
	db.Model(&policyDomain.RateTier{}).Count(&orphans)
	if orphans != 1 {
		t.Errorf("rate tier rows = %d, want 1", orphans)
	}
}

func TestPolicy_Tx_Rollback(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := repo.Tx(ctx, func(r policyDomain.Repository) error {
		if err := r.Create(ctx, makePolicy("AR")); err != nil {
			return err
		}
		return wantErr // force rollback
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	if _, err := repo.GetByCountry(ctx, "AR"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
}
