package policy

import "context"

type Repository interface {
	// Reads preload rate tiers and leverage spreads.
	GetByCountry(ctx context.Context, countryCode string) (*JurisdictionPolicy, error)
	GetByCountryForUpdate(ctx context.Context, countryCode string) (*JurisdictionPolicy, error)
	List(ctx context.Context) ([]JurisdictionPolicy, error)

	Create(ctx context.Context, p *JurisdictionPolicy) error
	// Save updates the policy row and replaces its tiers and spreads.
	Save(ctx context.Context, p *JurisdictionPolicy) error
}

type AuditRepository interface {
	Create(ctx context.Context, c *SettingsChange) error
	// Newest first.
	ListByCountry(ctx context.Context, countryCode string, limit int) ([]SettingsChange, error)
}
