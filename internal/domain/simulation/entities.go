package simulation

import "time"

type FinancingScenario struct {
	ID                  string  `json:"id"`
	PercentageToFinance float64 `json:"percentageToFinance"`
}

type InstallmentOption struct {
	InstallmentCount    int     `json:"installmentCount"`
	MonthlyPayment      float64 `json:"monthlyPayment"`
	NominalAnnualRate   float64 `json:"nominalAnnualRate"`
	EffectiveAnnualRate float64 `json:"effectiveAnnualRate"`
}

type ScenarioResult struct {
	ScenarioID          string              `json:"scenarioId"`
	PercentageToFinance float64             `json:"percentageToFinance"`
	FinancedAmount      float64             `json:"financedAmount"`
	Options             []InstallmentOption `json:"options"`
}

// Option returns the offered option for the given installment count.
func (r ScenarioResult) Option(installments int) (InstallmentOption, bool) {
	for _, o := range r.Options {
		if o.InstallmentCount == installments {
			return o, true
		}
	}
	return InstallmentOption{}, false
}

// Simulation is a stored simulation request and its results. Policy is a
// snapshot of the jurisdiction policy in force when it was computed, so
// schedules stay reproducible after settings change.
type Simulation struct {
	ID           string           `json:"id"`
	CountryCode  string           `json:"countryCode"`
	VehiclePrice float64          `json:"vehiclePrice"`
	DealID       string           `json:"dealId,omitempty"`
	CreatedBy    string           `json:"createdBy,omitempty"`
	Policy       Policy           `json:"policy"`
	Results      []ScenarioResult `json:"results"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Result looks up a scenario result by its id.
func (s *Simulation) Result(scenarioID string) (ScenarioResult, bool) {
	for _, r := range s.Results {
		if r.ScenarioID == scenarioID {
			return r, true
		}
	}
	return ScenarioResult{}, false
}
