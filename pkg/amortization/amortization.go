// Package amortization computes fixed-payment (French system) loan payments
// and their period-by-period schedules.
//
// All arithmetic is done in float64 at full precision. Callers round to the
// currency's minor unit only when presenting values.
package amortization

import (
	"errors"
	"fmt"
	"math"
)

// MonthsPerYear converts a nominal annual rate into a monthly periodic rate.
const MonthsPerYear = 12

var ErrInvalidArgument = errors.New("invalid argument")

// Entry is one period of an amortization schedule.
type Entry struct {
	Period           int     `json:"period"`
	Payment          float64 `json:"paymentAmount"`
	Principal        float64 `json:"principalComponent"`
	Interest         float64 `json:"interestComponent"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// PeriodicRate returns the monthly rate for a nominal annual rate (0.45 = 45%).
func PeriodicRate(annualNominalRate float64) float64 {
	return annualNominalRate / MonthsPerYear
}

// EffectiveAnnualRate compounds a nominal annual rate monthly:
//
//	TEA = (1 + TNA/12)^12 - 1
func EffectiveAnnualRate(annualNominalRate float64) float64 {
	return math.Pow(1+PeriodicRate(annualNominalRate), MonthsPerYear) - 1
}

func validate(principal, annualNominalRate float64, installments int) error {
	switch {
	case math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0:
		return fmt.Errorf("%w: principal must be greater than zero, got %v", ErrInvalidArgument, principal)
	case installments < 1:
		return fmt.Errorf("%w: installment count must be at least 1, got %d", ErrInvalidArgument, installments)
	case math.IsNaN(annualNominalRate) || math.IsInf(annualNominalRate, 0) || annualNominalRate < 0:
		return fmt.Errorf("%w: annual nominal rate must be zero or positive, got %v", ErrInvalidArgument, annualNominalRate)
	}
	return nil
}

// MonthlyPayment returns the constant payment that amortizes principal over
// installments months at the given nominal annual rate.
func MonthlyPayment(principal, annualNominalRate float64, installments int) (float64, error) {
	if err := validate(principal, annualNominalRate, installments); err != nil {
		return 0, err
	}
	return monthlyPayment(principal, PeriodicRate(annualNominalRate), installments), nil
}

func monthlyPayment(principal, periodicRate float64, installments int) float64 {
	if periodicRate == 0 {
		return principal / float64(installments)
	}
	return principal * periodicRate / (1 - math.Pow(1+periodicRate, -float64(installments)))
}

// Schedule builds the full schedule: exactly installments entries, the last of
// which leaves a remaining balance of exactly zero.
func Schedule(principal, annualNominalRate float64, installments int) ([]Entry, error) {
	if err := validate(principal, annualNominalRate, installments); err != nil {
		return nil, err
	}

	rate := PeriodicRate(annualNominalRate)
	payment := monthlyPayment(principal, rate, installments)

	entries := make([]Entry, 0, installments)
	balance := principal
	for period := 1; period <= installments; period++ {
		interest := balance * rate
		capital := payment - interest
		amount := payment

		// The last period settles whatever float drift is left.
		if period == installments {
			capital = balance
			amount = capital + interest
		}

		balance -= capital
		if balance < 0 || period == installments {
			balance = 0
		}

		entries = append(entries, Entry{
			Period:           period,
			Payment:          amount,
			Principal:        capital,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}
	return entries, nil
}

// Totals sums the payments and the interest of a schedule.
func Totals(entries []Entry) (totalPaid, totalInterest float64) {
	for _, e := range entries {
		totalPaid += e.Payment
		totalInterest += e.Interest
	}
	return totalPaid, totalInterest
}
