package uow

import (
	"context"

	"kavak-credito/internal/domain/policy"
)

type Repos struct {
	Policies policy.Repository
	Audits   policy.AuditRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the country's policy row first, then pass it in
	WithinPolicyTx(ctx context.Context, countryCode string, fn func(r Repos, p *policy.JurisdictionPolicy) error) error
}
