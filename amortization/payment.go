package amortization

import "math"

// =============================================================================
// PAYMENT CALCULATOR - Fixed annuity payment
// =============================================================================

// PaymentFunc computes the baseline periodic payment of a fully amortizing
// loan. The generator treats it as an opaque, side-effect free function.
type PaymentFunc func(principal, annualRate float64, periods int, freq Frequency) float64

// CalculatePayment returns the fixed payment for a loan with zero future value
// and payments at period end:
//
//	P*r / (1 - (1+r)^-n)
//
// where r is the periodic rate. A zero rate spreads the principal evenly.
func CalculatePayment(principal, annualRate float64, periods int, freq Frequency) float64 {
	if freq == 0 {
		freq = DefaultFrequency
	}
	r := annualRate / float64(freq.PeriodsPerYear())
	n := float64(periods)
	if r == 0 {
		return principal / n
	}
	return principal * r / (1 - math.Pow(1+r, -n))
}

// CalculatePeriods returns how many periods the given payment needs to pay
// off the loan. The last period may be a partial payment.
func CalculatePeriods(principal, annualRate, payment float64, freq Frequency) (int, error) {
	if freq == 0 {
		freq = DefaultFrequency
	}
	if err := validateLoan(principal, annualRate, 1, freq); err != nil {
		return 0, err
	}
	if payment <= 0 || math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, &InvalidArgumentError{Field: "payment", Value: payment, Reason: "must be a positive finite number"}
	}

	r := annualRate / float64(freq.PeriodsPerYear())
	if r == 0 {
		return int(math.Ceil(principal / payment)), nil
	}
	// The first period's interest must be covered or the balance never falls.
	if payment <= principal*r {
		return 0, ErrNeverAmortizes
	}
	n := -math.Log(1-principal*r/payment) / math.Log(1+r)
	// Absorb float noise so an exact baseline payment maps back to its term.
	return int(math.Ceil(n - 1e-9)), nil
}

// validateLoan rejects parameters the formulas are undefined for.
func validateLoan(principal, annualRate float64, periods int, freq Frequency) error {
	switch {
	case math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0:
		return &InvalidArgumentError{Field: "principal", Value: principal, Reason: "must be a positive finite number"}
	case math.IsNaN(annualRate) || math.IsInf(annualRate, 0) || annualRate < 0:
		return &InvalidArgumentError{Field: "annual_rate", Value: annualRate, Reason: "must be a non-negative finite number"}
	case periods < 1:
		return &InvalidArgumentError{Field: "periods", Value: periods, Reason: "must be at least 1"}
	case !freq.Valid():
		return &InvalidArgumentError{Field: "frequency", Value: int(freq), Reason: "unknown payment frequency"}
	}
	return nil
}
