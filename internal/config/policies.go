package config

// PolicySeed is a jurisdiction policy as written in the config file. Seeds
// are only applied to countries that have no stored policy yet; after that
// the admin settings endpoints own the data.
type PolicySeed struct {
	CountryCode      string               `mapstructure:"country_code"`
	Currency         string               `mapstructure:"currency"`
	CurrencyDecimals int32                `mapstructure:"currency_decimals"`
	MinPercentage    float64              `mapstructure:"min_percentage"`
	MaxPercentage    float64              `mapstructure:"max_percentage"`
	MaxScenarios     int                  `mapstructure:"max_scenarios"`
	MinInstallments  int                  `mapstructure:"min_installments"`
	MaxInstallments  int                  `mapstructure:"max_installments"`
	InstallmentStep  int                  `mapstructure:"installment_step"`
	RateTiers        []RateTierSeed       `mapstructure:"rate_tiers"`
	LeverageSpreads  []LeverageSpreadSeed `mapstructure:"leverage_spreads"`
}

type RateTierSeed struct {
	UpToInstallments  int     `mapstructure:"up_to_installments"`
	NominalAnnualRate float64 `mapstructure:"nominal_annual_rate"`
}

type LeverageSpreadSeed struct {
	AbovePercentage float64 `mapstructure:"above_percentage"`
	Spread          float64 `mapstructure:"spread"`
}

// DefaultPolicies are the built-in Argentina and Chile policies.
func DefaultPolicies() []PolicySeed {
	return []PolicySeed{
		{
			CountryCode:      "AR",
			Currency:         "ARS",
			CurrencyDecimals: 2,
			MinPercentage:    10,
			MaxPercentage:    80,
			MaxScenarios:     3,
			MinInstallments:  6,
			MaxInstallments:  72,
			InstallmentStep:  6,
			RateTiers: []RateTierSeed{
				{UpToInstallments: 12, NominalAnnualRate: 0.70},
				{UpToInstallments: 24, NominalAnnualRate: 0.74},
				{UpToInstallments: 36, NominalAnnualRate: 0.78},
				{UpToInstallments: 48, NominalAnnualRate: 0.82},
				{UpToInstallments: 60, NominalAnnualRate: 0.86},
				{UpToInstallments: 72, NominalAnnualRate: 0.90},
			},
			LeverageSpreads: []LeverageSpreadSeed{{AbovePercentage: 50, Spread: 0.02}},
		},
		{
			CountryCode:      "CL",
			Currency:         "CLP",
			CurrencyDecimals: 0,
			MinPercentage:    15,
			MaxPercentage:    70,
			MaxScenarios:     3,
			MinInstallments:  12,
			MaxInstallments:  60,
			InstallmentStep:  6,
			RateTiers: []RateTierSeed{
				{UpToInstallments: 12, NominalAnnualRate: 0.18},
				{UpToInstallments: 24, NominalAnnualRate: 0.20},
				{UpToInstallments: 36, NominalAnnualRate: 0.22},
				{UpToInstallments: 48, NominalAnnualRate: 0.24},
				{UpToInstallments: 60, NominalAnnualRate: 0.26},
			},
			LeverageSpreads: []LeverageSpreadSeed{{AbovePercentage: 50, Spread: 0.01}},
		},
	}
}
