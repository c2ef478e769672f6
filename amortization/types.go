/*
Package amortization generates loan amortization schedules.

PURPOSE:
  Given a principal, an annual rate, a number of periods and a payment
  frequency, the package produces one Row per period with the payment, the
  interest and principal portions, and the ending balance. Rows are produced
  lazily by a Schedule and are never materialized by the generator itself.

KEY CONCEPTS IN THIS FILE (types.go):
  - Config: loan parameters with documented zero-value defaults
  - Row: one period of the schedule
  - InterestMode: which accrual model computes the interest portion

INTEREST MODELS:
  InterestClosedForm (default):
    Excel IPMT identity for a loan with zero future value, payments at
    period end. With T periods, present value p, periodic rate r, a = 1+r:

      ipmt(n) = p*r*(a^(T+1) - a^n) / (a*(a^T - 1))

    Constants are precomputed once, so error does not accumulate.

  InterestSimple:
    round(balance * r, 2) on the running balance, half to even.

FINAL PERIOD:
  The last row always pays off whatever balance is left, so its balance is
  exactly 0 regardless of rounding drift or overpayment.

USAGE:
  cfg := amortization.NewConfig(10000, 0.1, 12)
  sched, err := amortization.Generate(cfg)
  if err != nil {
      return err
  }
  for row := range sched.Rows() {
      fmt.Println(row.Period, row.Payment, row.Interest, row.Principal, row.Balance)
  }

SEE ALSO:
  - schedule.go: Generator and Schedule
  - payment.go: baseline annuity payment
  - errors.go: error taxonomy
*/
package amortization

import (
	"fmt"
	"strconv"
)

// =============================================================================
// INTEREST MODE - Accrual model selector
// =============================================================================

// InterestMode selects how the interest portion of each row is computed.
type InterestMode int

const (
	// InterestClosedForm uses the closed-form IPMT identity.
	InterestClosedForm InterestMode = 0
	// InterestSimple applies the periodic rate to the running balance,
	// rounded to cents.
	InterestSimple InterestMode = 1
)

func (m InterestMode) Valid() bool {
	return m == InterestClosedForm || m == InterestSimple
}

func (m InterestMode) String() string {
	switch m {
	case InterestClosedForm:
		return "closed_form"
	case InterestSimple:
		return "simple"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseInterestMode accepts "closed_form"/"closed" and "simple", or any
// integer. Integers are not range checked here; Generate rejects unknown
// modes with InvalidInterestModeError.
func ParseInterestMode(s string) (InterestMode, error) {
	switch s {
	case "", "closed_form", "closed", "excel":
		return InterestClosedForm, nil
	case "simple":
		return InterestSimple, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return InterestMode(n), nil
	}
	return 0, &InvalidArgumentError{Field: "interest_mode", Value: s, Reason: "unknown interest mode"}
}

// =============================================================================
// CONFIG - Loan parameters
// =============================================================================

// Config holds the parameters of one schedule.
//
// Defaults:
//   - Frequency 0 means DefaultFrequency (Monthly)
//   - ActualPayment nil means the baseline payment from the payment calculator
//   - InterestMode 0 means InterestClosedForm
type Config struct {
	Principal     float64      `json:"principal" yaml:"principal"`
	AnnualRate    float64      `json:"annual_rate" yaml:"annual_rate"`
	Periods       int          `json:"periods" yaml:"periods"`
	Frequency     Frequency    `json:"frequency" yaml:"frequency"`
	ActualPayment *float64     `json:"actual_payment,omitempty" yaml:"actual_payment,omitempty"`
	InterestMode  InterestMode `json:"interest_mode" yaml:"interest_mode"`
}

// NewConfig returns a monthly, closed-form config without a payment override.
func NewConfig(principal, annualRate float64, periods int) Config {
	return Config{
		Principal:  principal,
		AnnualRate: annualRate,
		Periods:    periods,
		Frequency:  DefaultFrequency,
	}
}

func (c Config) WithFrequency(f Frequency) Config {
	c.Frequency = f
	return c
}

// WithActualPayment sets the payment override. The value is copied.
func (c Config) WithActualPayment(payment float64) Config {
	c.ActualPayment = &payment
	return c
}

func (c Config) WithInterestMode(m InterestMode) Config {
	c.InterestMode = m
	return c
}

// withDefaults fills unset fields. ActualPayment is copied so the schedule
// never aliases caller memory.
func (c Config) withDefaults() Config {
	if c.Frequency == 0 {
		c.Frequency = DefaultFrequency
	}
	if c.ActualPayment != nil {
		p := *c.ActualPayment
		c.ActualPayment = &p
	}
	return c
}

// AdjustedRate is the periodic rate: annual rate / periods per year.
func (c Config) AdjustedRate() float64 {
	f := c.Frequency
	if f == 0 {
		f = DefaultFrequency
	}
	return c.AnnualRate / float64(f.PeriodsPerYear())
}

// =============================================================================
// ROW - One period of the schedule
// =============================================================================

// Row is one period of an amortization schedule.
// Payment == Interest + Principal, within float rounding.
type Row struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}
