package policy

import (
	"time"

	"kavak-credito/internal/domain/simulation"
)

// Table: jurisdiction_policies. One row per country; the installment menu is
// stored as the admin triple (min, max, step).
type JurisdictionPolicy struct {
	ID               uint64           `gorm:"primaryKey;column:id" json:"-"`
	CountryCode      string           `gorm:"column:country_code;size:2;not null;uniqueIndex:ux_policies_country" json:"country_code"`
	Currency         string           `gorm:"column:currency;size:3;not null" json:"currency"`
	CurrencyDecimals int32            `gorm:"column:currency_decimals;not null" json:"currency_decimals"`
	MinPercentage    float64          `gorm:"column:min_percentage;type:decimal(5,2);not null" json:"min_percentage"`
	MaxPercentage    float64          `gorm:"column:max_percentage;type:decimal(5,2);not null" json:"max_percentage"`
	MaxScenarios     int              `gorm:"column:max_scenarios;not null" json:"max_scenarios"`
	MinInstallments  int              `gorm:"column:min_installments;not null" json:"min_installments"`
	MaxInstallments  int              `gorm:"column:max_installments;not null" json:"max_installments"`
	InstallmentStep  int              `gorm:"column:installment_step;not null" json:"installment_step"`
	UpdatedBy        string           `gorm:"column:updated_by;size:64" json:"updated_by"`
	RateTiers        []RateTier       `gorm:"foreignKey:PolicyID" json:"rate_tiers"`
	LeverageSpreads  []LeverageSpread `gorm:"foreignKey:PolicyID" json:"leverage_spreads"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (JurisdictionPolicy) TableName() string { return "jurisdiction_policies" }

type RateTier struct {
	ID                uint64  `gorm:"primaryKey;column:id" json:"-"`
	PolicyID          uint64  `gorm:"column:policy_id;not null;index" json:"-"`
	UpToInstallments  int     `gorm:"column:up_to_installments;not null" json:"up_to_installments"`
	NominalAnnualRate float64 `gorm:"column:nominal_annual_rate;type:decimal(6,4);not null" json:"nominal_annual_rate"`
}

func (RateTier) TableName() string { return "policy_rate_tiers" }

type LeverageSpread struct {
	ID              uint64  `gorm:"primaryKey;column:id" json:"-"`
	PolicyID        uint64  `gorm:"column:policy_id;not null;index" json:"-"`
	AbovePercentage float64 `gorm:"column:above_percentage;type:decimal(5,2);not null" json:"above_percentage"`
	Spread          float64 `gorm:"column:spread;type:decimal(6,4);not null" json:"spread"`
}

func (LeverageSpread) TableName() string { return "policy_leverage_spreads" }

// Table: settings_changes. Append-only audit of policy updates; Before/After
// hold JSON snapshots of the policy.
type SettingsChange struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	ChangeID    string    `gorm:"column:change_id;type:char(32);not null;uniqueIndex:ux_settings_changes_change_id" json:"change_id"`
	CountryCode string    `gorm:"column:country_code;size:2;not null;index:idx_settings_changes_country" json:"country_code"`
	ChangedBy   string    `gorm:"column:changed_by;size:64;not null" json:"changed_by"`
	Before      string    `gorm:"column:before_snapshot;type:text" json:"before"`
	After       string    `gorm:"column:after_snapshot;type:text;not null" json:"after"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SettingsChange) TableName() string { return "settings_changes" }

// ToPolicy converts the stored row into the value object the engine runs
// against and validates it.
func (p *JurisdictionPolicy) ToPolicy() (simulation.Policy, error) {
	menu, err := simulation.BuildMenu(p.MinInstallments, p.MaxInstallments, p.InstallmentStep)
	if err != nil {
		return simulation.Policy{}, err
	}

	tiers := make([]simulation.RateTier, 0, len(p.RateTiers))
	for _, t := range p.RateTiers {
		tiers = append(tiers, simulation.RateTier{
			UpToInstallments:  t.UpToInstallments,
			NominalAnnualRate: t.NominalAnnualRate,
		})
	}
	var spreads []simulation.LeverageSpread
	for _, s := range p.LeverageSpreads {
		spreads = append(spreads, simulation.LeverageSpread{
			AbovePercentage: s.AbovePercentage,
			Spread:          s.Spread,
		})
	}

	out := simulation.Policy{
		CountryCode:      p.CountryCode,
		Currency:         p.Currency,
		CurrencyDecimals: p.CurrencyDecimals,
		MinPercentage:    p.MinPercentage,
		MaxPercentage:    p.MaxPercentage,
		MaxScenarios:     p.MaxScenarios,
		InstallmentMenu:  menu,
		RateTiers:        tiers,
		LeverageSpreads:  spreads,
	}
	if err := out.Validate(); err != nil {
		return simulation.Policy{}, err
	}
	return out, nil
}
