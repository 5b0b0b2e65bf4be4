package mysql

import (
	"context"

	policyDomain "kavak-credito/internal/domain/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *PolicyRepository) Tx(ctx context.Context, fn func(repo policyDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PolicyRepository{db: tx})
	})
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("RateTiers", func(db *gorm.DB) *gorm.DB { return db.Order("up_to_installments ASC") }).
		Preload("LeverageSpreads", func(db *gorm.DB) *gorm.DB { return db.Order("above_percentage ASC") })
}

func (r *PolicyRepository) GetByCountry(ctx context.Context, countryCode string) (*policyDomain.JurisdictionPolicy, error) {
	var out policyDomain.JurisdictionPolicy
	res := withChildren(r.db.WithContext(ctx)).
		Where("country_code = ?", countryCode).
		First(&out)
	return &out, res.Error
}

func (r *PolicyRepository) GetByCountryForUpdate(ctx context.Context, countryCode string) (*policyDomain.JurisdictionPolicy, error) {
	var out policyDomain.JurisdictionPolicy
	res := withChildren(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("country_code = ?", countryCode).
		First(&out)
	return &out, res.Error
}

func (r *PolicyRepository) List(ctx context.Context) ([]policyDomain.JurisdictionPolicy, error) {
	var out []policyDomain.JurisdictionPolicy
	res := withChildren(r.db.WithContext(ctx)).Order("country_code ASC").Find(&out)
	return out, res.Error
}

func (r *PolicyRepository) Create(ctx context.Context, p *policyDomain.JurisdictionPolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Save is not atomic on its own; callers run it inside a unit of work.
func (r *PolicyRepository) Save(ctx context.Context, p *policyDomain.JurisdictionPolicy) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(p).Error; err != nil {
		return err
	}

	if err := db.Where("policy_id = ?", p.ID).Delete(&policyDomain.RateTier{}).Error; err != nil {
		return err
	}
	if err := db.Where("policy_id = ?", p.ID).Delete(&policyDomain.LeverageSpread{}).Error; err != nil {
		return err
	}

	for i := range p.RateTiers {
		p.RateTiers[i].ID = 0
		p.RateTiers[i].PolicyID = p.ID
	}
	for i := range p.LeverageSpreads {
		p.LeverageSpreads[i].ID = 0
		p.LeverageSpreads[i].PolicyID = p.ID
	}
	if len(p.RateTiers) > 0 {
		if err := db.Create(&p.RateTiers).Error; err != nil {
			return err
		}
	}
	if len(p.LeverageSpreads) > 0 {
		if err := db.Create(&p.LeverageSpreads).Error; err != nil {
			return err
		}
	}
	return nil
}
