package simulation

import (
	"time"

	domain "kavak-credito/internal/domain/simulation"
)

type SimulateInput struct {
	VehiclePrice float64
	Scenarios    []domain.FinancingScenario
	CountryCode  string // empty selects the default country
	DealID       string
	CreatedBy    string
}

type ScheduleInput struct {
	SimulationID     string
	ScenarioID       string
	InstallmentCount int
}

type AmortizationInput struct {
	Principal         float64
	AnnualNominalRate float64
	InstallmentCount  int
}

type InstallmentOptionDTO struct {
	InstallmentCount    int     `json:"installmentCount"`
	MonthlyPayment      float64 `json:"monthlyPayment"`
	NominalAnnualRate   float64 `json:"nominalAnnualRate"`
	EffectiveAnnualRate float64 `json:"effectiveAnnualRate"`
}

type ScenarioResultDTO struct {
	ScenarioID          string                 `json:"scenarioId"`
	PercentageToFinance float64                `json:"percentageToFinance"`
	FinancedAmount      float64                `json:"financedAmount"`
	Options             []InstallmentOptionDTO `json:"options"`
}

type SimulationDTO struct {
	SimulationID string              `json:"simulationId"`
	CountryCode  string              `json:"countryCode"`
	Currency     string              `json:"currency"`
	VehiclePrice float64             `json:"vehiclePrice"`
	DealID       string              `json:"dealId,omitempty"`
	CreatedBy    string              `json:"createdBy,omitempty"`
	Results      []ScenarioResultDTO `json:"results"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type EntryDTO struct {
	Period             int     `json:"period"`
	PaymentAmount      float64 `json:"paymentAmount"`
	PrincipalComponent float64 `json:"principalComponent"`
	InterestComponent  float64 `json:"interestComponent"`
	RemainingBalance   float64 `json:"remainingBalance"`
}

type ScheduleDTO struct {
	SimulationID        string     `json:"simulationId,omitempty"`
	ScenarioID          string     `json:"scenarioId,omitempty"`
	Currency            string     `json:"currency,omitempty"`
	Principal           float64    `json:"principal"`
	InstallmentCount    int        `json:"installmentCount"`
	MonthlyPayment      float64    `json:"monthlyPayment"`
	NominalAnnualRate   float64    `json:"nominalAnnualRate"`
	EffectiveAnnualRate float64    `json:"effectiveAnnualRate"`
	TotalPaid           float64    `json:"totalPaid"`
	TotalInterest       float64    `json:"totalInterest"`
	Entries             []EntryDTO `json:"entries"`
}
