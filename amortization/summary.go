package amortization

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Summary aggregates a drained schedule. Totals are accumulated in decimal so
// long schedules do not pick up float drift in the sums.
type Summary struct {
	Periods int `json:"periods"`
	// PayoffPeriod is the first period whose ending balance is <= 0. With
	// an overpayment it comes before the last period.
	PayoffPeriod   int             `json:"payoff_period"`
	Payment        float64         `json:"payment"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
}

// Summarize consumes rows and returns their totals.
func Summarize(rows iter.Seq[Row]) Summary {
	sum := Summary{
		TotalPayment:   decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
	}
	for row := range rows {
		if sum.Periods == 0 {
			sum.Payment = row.Payment
		}
		sum.Periods++
		if sum.PayoffPeriod == 0 && row.Balance <= 0 {
			sum.PayoffPeriod = row.Period
		}
		sum.TotalPayment = sum.TotalPayment.Add(decimal.NewFromFloat(row.Payment))
		sum.TotalInterest = sum.TotalInterest.Add(decimal.NewFromFloat(row.Interest))
		sum.TotalPrincipal = sum.TotalPrincipal.Add(decimal.NewFromFloat(row.Principal))
	}
	return sum
}

// SliceRows adapts an already collected table to an iterator.
func SliceRows(rows []Row) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, r := range rows {
			if !yield(r) {
				return
			}
		}
	}
}

// Collect drains the remainder of a schedule into a slice.
func Collect(s *Schedule) []Row {
	rows := make([]Row, 0, s.Remaining())
	for row := range s.Rows() {
		rows = append(rows, row)
	}
	return rows
}
