package policymock

import (
	"context"

	domain "kavak-credito/internal/domain/policy"
)

var (
	_ domain.Repository      = (*Repo)(nil)
	_ domain.AuditRepository = (*AuditRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset readers return context.Canceled, unset writers are no-ops.
type Repo struct {
	GetByCountryFn          func(ctx context.Context, countryCode string) (*domain.JurisdictionPolicy, error)
	GetByCountryForUpdateFn func(ctx context.Context, countryCode string) (*domain.JurisdictionPolicy, error)
	ListFn                  func(ctx context.Context) ([]domain.JurisdictionPolicy, error)
	CreateFn                func(ctx context.Context, p *domain.JurisdictionPolicy) error
	SaveFn                  func(ctx context.Context, p *domain.JurisdictionPolicy) error
}

func (m *Repo) GetByCountry(ctx context.Context, countryCode string) (*domain.JurisdictionPolicy, error) {
	if m.GetByCountryFn != nil {
		return m.GetByCountryFn(ctx, countryCode)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCountryForUpdate(ctx context.Context, countryCode string) (*domain.JurisdictionPolicy, error) {
	if m.GetByCountryForUpdateFn != nil {
		return m.GetByCountryForUpdateFn(ctx, countryCode)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.JurisdictionPolicy, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Create(ctx context.Context, p *domain.JurisdictionPolicy) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, p *domain.JurisdictionPolicy) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

// AuditRepo is a function-backed mock that satisfies domain.AuditRepository.
type AuditRepo struct {
	CreateFn        func(ctx context.Context, c *domain.SettingsChange) error
	ListByCountryFn func(ctx context.Context, countryCode string, limit int) ([]domain.SettingsChange, error)
}

func (m *AuditRepo) Create(ctx context.Context, c *domain.SettingsChange) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *AuditRepo) ListByCountry(ctx context.Context, countryCode string, limit int) ([]domain.SettingsChange, error) {
	if m.ListByCountryFn != nil {
		return m.ListByCountryFn(ctx, countryCode, limit)
	}
	return nil, context.Canceled
}
