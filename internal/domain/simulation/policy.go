package simulation

import (
	"fmt"
	"math"
	"sort"

	"kavak-credito/pkg/amortization"
)

// RateTier assigns NominalAnnualRate to every installment count up to and
// including UpToInstallments that a lower tier does not already cover.
type RateTier struct {
	UpToInstallments  int     `json:"upToInstallments"`
	NominalAnnualRate float64 `json:"nominalAnnualRate"`
}

// LeverageSpread adds Spread to the nominal rate when the financed
// percentage is strictly above AbovePercentage.
type LeverageSpread struct {
	AbovePercentage float64 `json:"abovePercentage"`
	Spread          float64 `json:"spread"`
}

// Policy is the jurisdiction-specific configuration the engine runs against.
type Policy struct {
	CountryCode      string           `json:"countryCode"`
	Currency         string           `json:"currency"`
	CurrencyDecimals int32            `json:"currencyDecimals"`
	MinPercentage    float64          `json:"minPercentage"`
	MaxPercentage    float64          `json:"maxPercentage"`
	MaxScenarios     int              `json:"maxScenarios"`
	InstallmentMenu  []int            `json:"installmentMenu"`
	RateTiers        []RateTier       `json:"rateTiers"`
	LeverageSpreads  []LeverageSpread `json:"leverageSpreads,omitempty"`
}

const maxCurrencyDecimals = 4

// BuildMenu expands a min/max/step triple into an ascending installment menu.
func BuildMenu(min, max, step int) ([]int, error) {
	if min < 1 || max < min || step < 1 {
		return nil, fmt.Errorf("%w: installment range %d..%d step %d", ErrInvalidArgument, min, max, step)
	}
	if (max-min)%step != 0 {
		return nil, fmt.Errorf("%w: installment range %d..%d is not a multiple of step %d", ErrInvalidArgument, min, max, step)
	}
	menu := make([]int, 0, (max-min)/step+1)
	for n := min; n <= max; n += step {
		menu = append(menu, n)
	}
	return menu, nil
}

// Validate reports the first inconsistency in the policy.
func (p Policy) Validate() error {
	if p.MinPercentage < 1 || p.MaxPercentage > 100 || p.MinPercentage > p.MaxPercentage {
		return fmt.Errorf("%w: percentage bounds [%v, %v] must satisfy 1 <= min <= max <= 100",
			ErrInvalidArgument, p.MinPercentage, p.MaxPercentage)
	}
	if p.MaxScenarios < 1 {
		return fmt.Errorf("%w: max scenarios must be at least 1", ErrInvalidArgument)
	}
	if p.CurrencyDecimals < 0 || p.CurrencyDecimals > maxCurrencyDecimals {
		return fmt.Errorf("%w: currency decimals must be between 0 and %d", ErrInvalidArgument, maxCurrencyDecimals)
	}
	if len(p.InstallmentMenu) == 0 {
		return fmt.Errorf("%w: installment menu is empty", ErrInvalidArgument)
	}
	for i, n := range p.InstallmentMenu {
		if n < 1 {
			return fmt.Errorf("%w: installment count %d must be positive", ErrInvalidArgument, n)
		}
		if i > 0 && n <= p.InstallmentMenu[i-1] {
			return fmt.Errorf("%w: installment menu must be strictly ascending", ErrInvalidArgument)
		}
	}
	if len(p.RateTiers) == 0 {
		return fmt.Errorf("%w: no rate tiers configured", ErrInvalidArgument)
	}
	for i, t := range p.RateTiers {
		if t.UpToInstallments < 1 || invalidRate(t.NominalAnnualRate) {
			return fmt.Errorf("%w: rate tier %d is malformed", ErrInvalidArgument, i)
		}
		if i > 0 {
			prev := p.RateTiers[i-1]
			if t.UpToInstallments <= prev.UpToInstallments {
				return fmt.Errorf("%w: rate tiers must be strictly ascending by installments", ErrInvalidArgument)
			}
			if t.NominalAnnualRate < prev.NominalAnnualRate {
				return fmt.Errorf("%w: rate tiers must not decrease with term", ErrInvalidArgument)
			}
		}
	}
	longest := p.InstallmentMenu[len(p.InstallmentMenu)-1]
	if p.RateTiers[len(p.RateTiers)-1].UpToInstallments < longest {
		return fmt.Errorf("%w: no rate tier covers %d installments", ErrInvalidArgument, longest)
	}
	for i, s := range p.LeverageSpreads {
		if s.AbovePercentage < 0 || s.AbovePercentage >= 100 || invalidRate(s.Spread) {
			return fmt.Errorf("%w: leverage spread %d is malformed", ErrInvalidArgument, i)
		}
	}
	return nil
}

func invalidRate(r float64) bool {
	return math.IsNaN(r) || math.IsInf(r, 0) || r < 0
}

// Offers reports whether the installment count is on the menu.
func (p Policy) Offers(installments int) bool {
	for _, n := range p.InstallmentMenu {
		if n == installments {
			return true
		}
	}
	return false
}

// AllowsPercentage reports whether pct lies within the configured bounds.
func (p Policy) AllowsPercentage(pct float64) bool {
	return pct >= p.MinPercentage && pct <= p.MaxPercentage
}

// RateFor returns the nominal and effective annual rates for an installment
// count and financed percentage.
func (p Policy) RateFor(installments int, pct float64) (nominal, effective float64, err error) {
	tiers := p.sortedTiers()
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].UpToInstallments >= installments })
	if i == len(tiers) {
		return 0, 0, fmt.Errorf("%w: no rate tier covers %d installments", ErrInvalidArgument, installments)
	}

	nominal = tiers[i].NominalAnnualRate + p.spreadFor(pct)
	return nominal, amortization.EffectiveAnnualRate(nominal), nil
}

func (p Policy) spreadFor(pct float64) float64 {
	var spread float64
	for _, s := range p.LeverageSpreads {
		if pct > s.AbovePercentage && s.Spread > spread {
			spread = s.Spread
		}
	}
	return spread
}

func (p Policy) sortedTiers() []RateTier {
	if sort.SliceIsSorted(p.RateTiers, func(i, j int) bool {
		return p.RateTiers[i].UpToInstallments < p.RateTiers[j].UpToInstallments
	}) {
		return p.RateTiers
	}
	tiers := append([]RateTier(nil), p.RateTiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].UpToInstallments < tiers[j].UpToInstallments })
	return tiers
}
