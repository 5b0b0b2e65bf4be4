package mysql

import (
	"context"

	"kavak-credito/internal/domain/policy"
	"kavak-credito/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Policies: &PolicyRepository{db: tx},
		Audits:   &AuditRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinPolicyTx(ctx context.Context, countryCode string, fn func(r uow.Repos, p *policy.JurisdictionPolicy) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the policy row up-front so concurrent updates serialize
		p, err := r.Policies.GetByCountryForUpdate(ctx, countryCode)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
