package simulation

import (
	"fmt"
	"math"

	"kavak-credito/pkg/amortization"
	"kavak-credito/pkg/money"
)

// Simulate computes every scenario against every installment count on the
// policy menu. Results keep the scenario input order and options ascend by
// installment count.
func Simulate(vehiclePrice float64, scenarios []FinancingScenario, p Policy) ([]ScenarioResult, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy %s: %w", p.CountryCode, err)
	}
	if err := validateRequest(vehiclePrice, scenarios, p); err != nil {
		return nil, err
	}

	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		financed := money.PercentageOf(vehiclePrice, sc.PercentageToFinance, p.CurrencyDecimals)
		if financed <= 0 {
			return nil, fmt.Errorf("%w: scenario %q finances nothing", ErrInvalidArgument, sc.ID)
		}

		options := make([]InstallmentOption, 0, len(p.InstallmentMenu))
		for _, n := range p.InstallmentMenu {
			opt, err := option(financed, n, sc.PercentageToFinance, p)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %w", sc.ID, err)
			}
			options = append(options, opt)
		}

		results = append(results, ScenarioResult{
			ScenarioID:          sc.ID,
			PercentageToFinance: sc.PercentageToFinance,
			FinancedAmount:      financed,
			Options:             options,
		})
	}
	return results, nil
}

func validateRequest(vehiclePrice float64, scenarios []FinancingScenario, p Policy) error {
	if math.IsNaN(vehiclePrice) || math.IsInf(vehiclePrice, 0) || vehiclePrice <= 0 {
		return fmt.Errorf("%w: vehicle price must be greater than zero", ErrInvalidArgument)
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("%w: at least one scenario is required", ErrInvalidArgument)
	}
	if len(scenarios) > p.MaxScenarios {
		return fmt.Errorf("%w: %d scenarios requested, at most %d allowed",
			ErrInvalidArgument, len(scenarios), p.MaxScenarios)
	}

	seen := make(map[string]struct{}, len(scenarios))
	for _, sc := range scenarios {
		if sc.ID == "" {
			return fmt.Errorf("%w: scenario id is required", ErrInvalidArgument)
		}
		if _, dup := seen[sc.ID]; dup {
			return fmt.Errorf("%w: duplicate scenario id %q", ErrInvalidArgument, sc.ID)
		}
		seen[sc.ID] = struct{}{}

		if math.IsNaN(sc.PercentageToFinance) || !p.AllowsPercentage(sc.PercentageToFinance) {
			return fmt.Errorf("%w: scenario %q finances %v%%, allowed range is [%v, %v]",
				ErrInvalidArgument, sc.ID, sc.PercentageToFinance, p.MinPercentage, p.MaxPercentage)
		}
	}
	return nil
}

func option(financed float64, installments int, pct float64, p Policy) (InstallmentOption, error) {
	nominal, effective, err := p.RateFor(installments, pct)
	if err != nil {
		return InstallmentOption{}, err
	}
	payment, err := amortization.MonthlyPayment(financed, nominal, installments)
	if err != nil {
		return InstallmentOption{}, err
	}
	return InstallmentOption{
		InstallmentCount:    installments,
		MonthlyPayment:      payment,
		NominalAnnualRate:   nominal,
		EffectiveAnnualRate: effective,
	}, nil
}

// ScheduleFor builds the amortization schedule of one offered
// (scenario, installment count) pair.
func ScheduleFor(result ScenarioResult, installments int, p Policy) ([]amortization.Entry, InstallmentOption, error) {
	if !p.Offers(installments) {
		return nil, InstallmentOption{}, fmt.Errorf("%w: %d installments are not offered in %s",
			ErrInvalidArgument, installments, p.CountryCode)
	}
	opt, ok := result.Option(installments)
	if !ok {
		return nil, InstallmentOption{}, fmt.Errorf("%w: scenario %q has no %d installment option",
			ErrInvalidArgument, result.ScenarioID, installments)
	}

	entries, err := amortization.Schedule(result.FinancedAmount, opt.NominalAnnualRate, installments)
	if err != nil {
		return nil, InstallmentOption{}, err
	}
	return entries, opt, nil
}
