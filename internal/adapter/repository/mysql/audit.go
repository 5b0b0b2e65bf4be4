package mysql

import (
	"context"

	policyDomain "kavak-credito/internal/domain/policy"

	"gorm.io/gorm"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, c *policyDomain.SettingsChange) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *AuditRepository) ListByCountry(ctx context.Context, countryCode string, limit int) ([]policyDomain.SettingsChange, error) {
	var out []policyDomain.SettingsChange
	q := r.db.WithContext(ctx).
		Where("country_code = ?", countryCode).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	res := q.Find(&out)
	return out, res.Error
}
