package settings

import (
	"encoding/json"
	"time"

	domain "kavak-credito/internal/domain/simulation"
)

type PolicyDTO struct {
	CountryCode      string                  `json:"countryCode"`
	Currency         string                  `json:"currency"`
	CurrencyDecimals int32                   `json:"currencyDecimals"`
	MinPercentage    float64                 `json:"minPercentage"`
	MaxPercentage    float64                 `json:"maxPercentage"`
	MaxScenarios     int                     `json:"maxScenarios"`
	MinInstallments  int                     `json:"minInstallments"`
	MaxInstallments  int                     `json:"maxInstallments"`
	InstallmentStep  int                     `json:"installmentStep"`
	InstallmentMenu  []int                   `json:"installmentMenu"`
	RateTiers        []domain.RateTier       `json:"rateTiers"`
	LeverageSpreads  []domain.LeverageSpread `json:"leverageSpreads"`
	UpdatedBy        string                  `json:"updatedBy,omitempty"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// UpdateInput replaces the editable part of a country policy. Currency and
// its decimals are fixed per country.
type UpdateInput struct {
	CountryCode     string
	MinPercentage   float64
	MaxPercentage   float64
	MaxScenarios    int
	MinInstallments int
	MaxInstallments int
	InstallmentStep int
	RateTiers       []domain.RateTier
	LeverageSpreads []domain.LeverageSpread
	UpdatedBy       string
}

type ChangeDTO struct {
	ChangeID    string          `json:"changeId"`
	CountryCode string          `json:"countryCode"`
	ChangedBy   string          `json:"changedBy"`
	Before      json.RawMessage `json:"before"`
	After       json.RawMessage `json:"after"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type SeedResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
