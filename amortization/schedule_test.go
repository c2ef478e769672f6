package amortization_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/amortization-engine/amortization"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func tenThousandAtTen() amortization.Config {
	return amortization.NewConfig(10000, 0.1, 12)
}

func generateAll(t *testing.T, cfg amortization.Config) []amortization.Row {
	t.Helper()
	sched, err := amortization.Generate(cfg)
	require.NoError(t, err)
	return amortization.Collect(sched)
}

// =============================================================================
// CLOSED-FORM SCHEDULE
// =============================================================================

func TestGenerate_ClosedForm_FirstAndLastRow(t *testing.T) {
	// GIVEN: 10,000 at 10% over 12 monthly periods, no override
	rows := generateAll(t, tenThousandAtTen())

	// THEN: first row carries the annuity payment and a month of interest
	require.Len(t, rows, 12)
	first := rows[0]
	assert.Equal(t, 1, first.Period)
	assert.InDelta(t, 879.1588723, first.Payment, 1e-6)
	assert.InDelta(t, 83.3333333, first.Interest, 1e-6)
	assert.InDelta(t, first.Payment-first.Interest, first.Principal, 1e-9)
	assert.InDelta(t, 10000-first.Principal, first.Balance, 1e-9)

	// AND: last row zeroes the balance exactly
	last := rows[11]
	assert.Equal(t, 12, last.Period)
	assert.Equal(t, 0.0, last.Balance)
	assert.InDelta(t, 7.2657758, last.Interest, 1e-6)
	assert.InDelta(t, 871.8930965, last.Principal, 1e-6)
}

func TestGenerate_ClosedForm_Invariants(t *testing.T) {
	cases := []struct {
		name string
		cfg  amortization.Config
	}{
		{"monthly 10k", tenThousandAtTen()},
		{"annual 30y", amortization.NewConfig(100000, 0.05, 30).WithFrequency(amortization.Annually)},
		{"weekly", amortization.NewConfig(2500, 0.18, 52).WithFrequency(amortization.Weekly)},
		{"quarterly", amortization.NewConfig(50000, 0.07, 20).WithFrequency(amortization.Quarterly)},
		{"single period", amortization.NewConfig(1000, 0.12, 1)},
		{"mortgage", amortization.NewConfig(350000, 0.065, 360)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := generateAll(t, tc.cfg)
			require.Len(t, rows, tc.cfg.Periods)

			var principalSum float64
			prevBalance := tc.cfg.Principal
			for i, row := range rows {
				assert.Equal(t, i+1, row.Period)
				assert.InDelta(t, row.Interest+row.Principal, row.Payment, 1e-6)
				assert.Less(t, row.Balance, prevBalance, "balance must fall in period %d", row.Period)
				prevBalance = row.Balance
				principalSum += row.Principal
			}
			assert.Equal(t, 0.0, rows[len(rows)-1].Balance)
			assert.InDelta(t, tc.cfg.Principal, principalSum, 1e-6)
		})
	}
}

func TestGenerate_ClosedForm_MatchesRunningBalanceInterest(t *testing.T) {
	// At the baseline payment the closed form equals balance * rate.
	rows := generateAll(t, tenThousandAtTen())
	rate := 0.1 / 12
	balance := 10000.0
	for _, row := range rows {
		assert.InDelta(t, balance*rate, row.Interest, 1e-6, "period %d", row.Period)
		balance = row.Balance
	}
}

func TestGenerate_ZeroRate(t *testing.T) {
	rows := generateAll(t, amortization.NewConfig(1200, 0, 12))

	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.Interest)
		assert.InDelta(t, 100.0, row.Payment, 1e-9)
	}
	assert.InDelta(t, 1100.0, rows[0].Balance, 1e-9)
	assert.Equal(t, 0.0, rows[11].Balance)
}

func TestGenerate_DefaultsFrequencyToMonthly(t *testing.T) {
	cfg := amortization.Config{Principal: 10000, AnnualRate: 0.1, Periods: 12}

	sched, err := amortization.Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, amortization.Monthly, sched.Config().Frequency)
	assert.Equal(t, amortization.InterestClosedForm, sched.Config().InterestMode)
	assert.InDelta(t, 879.1588723, sched.Payment(), 1e-6)
}

// =============================================================================
// SIMPLE INTEREST
// =============================================================================

func TestGenerate_SimpleInterest(t *testing.T) {
	closed := generateAll(t, tenThousandAtTen())
	simple := generateAll(t, tenThousandAtTen().WithInterestMode(amortization.InterestSimple))

	require.Len(t, simple, 12)

	// Interest is rounded to cents on the running balance.
	assert.Equal(t, 83.33, simple[0].Interest)
	assert.Equal(t, 76.70, simple[1].Interest)
	assert.Equal(t, 7.27, simple[11].Interest)
	assert.NotEqual(t, closed[1].Interest, simple[1].Interest)

	for _, row := range simple {
		assert.InDelta(t, row.Interest+row.Principal, row.Payment, 0.005)
	}

	last := simple[11]
	assert.Equal(t, 0.0, last.Balance)
	assert.InDelta(t, 879.1424047, last.Payment, 1e-6)
}

func TestGenerate_SimpleInterest_HalfCent(t *testing.T) {
	// Products that print as a half cent round by their exact binary value.
	tests := []struct {
		principal float64
		want      float64
	}{
		{10001, 50.01}, // 50.00500000000000255...
		{10003, 50.02}, // 50.01500000000000056...
		{10005, 50.02}, // 50.02499999999999857...
		{10009, 50.05}, // 50.04500000000000170...
		{10000, 50.00},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0f", tt.principal), func(t *testing.T) {
			cfg := amortization.NewConfig(tt.principal, 0.06, 12).WithInterestMode(amortization.InterestSimple)
			rows := generateAll(t, cfg)
			assert.Equal(t, tt.want, rows[0].Interest)
		})
	}
}

func TestGenerate_SimpleInterest_PrincipalSum(t *testing.T) {
	rows := generateAll(t, amortization.NewConfig(25000, 0.0725, 60).WithInterestMode(amortization.InterestSimple))

	var principalSum float64
	for _, row := range rows {
		principalSum += row.Principal
	}
	assert.InDelta(t, 25000, principalSum, 1e-6)
	assert.Equal(t, 0.0, rows[59].Balance)
}

// =============================================================================
// PAYMENT OVERRIDE
// =============================================================================

func TestGenerate_Overpayment(t *testing.T) {
	// GIVEN: a payment well above the 879.16 baseline
	cfg := tenThousandAtTen().WithActualPayment(1000)

	sched, err := amortization.Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, sched.Payment())
	assert.InDelta(t, 879.1588723, sched.Baseline(), 1e-6)

	rows := amortization.Collect(sched)

	// THEN: still exactly 12 rows, effective payoff comes earlier
	require.Len(t, rows, 12)
	assert.Equal(t, 1000.0, rows[0].Payment)
	assert.InDelta(t, 916.6666667, rows[0].Principal, 1e-6)
	assert.Greater(t, rows[9].Balance, 0.0)
	assert.Less(t, rows[10].Balance, 0.0)

	// AND: the final period still zeroes out
	last := rows[11]
	assert.Equal(t, 0.0, last.Balance)
	assert.InDelta(t, -457.3593082, last.Principal, 1e-6)
	assert.InDelta(t, last.Interest+last.Principal, last.Payment, 1e-9)

	summary := amortization.Summarize(amortization.SliceRows(rows))
	assert.Equal(t, 11, summary.PayoffPeriod)
}

func TestGenerate_PaymentEqualToBaselineAccepted(t *testing.T) {
	baseline := amortization.CalculatePayment(10000, 0.1, 12, amortization.Monthly)

	sched, err := amortization.Generate(tenThousandAtTen().WithActualPayment(baseline))
	require.NoError(t, err)
	assert.Equal(t, baseline, sched.Payment())
}

func TestGenerate_Underpayment(t *testing.T) {
	// GIVEN: 150,000 at 10% over 36 months needs ~4,840.08
	cfg := amortization.NewConfig(150000, 0.1, 36).WithActualPayment(4000)

	// WHEN: generating
	sched, err := amortization.Generate(cfg)

	// THEN: rejected before any row, message carries the grouped minimum
	assert.Nil(t, sched)
	require.Error(t, err)
	assert.ErrorIs(t, err, amortization.ErrInvalidPayment)

	var payErr *amortization.InvalidPaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, 4000.0, payErr.Payment)
	assert.InDelta(t, 4840.0780791, payErr.Minimum, 1e-6)
	assert.Contains(t, err.Error(), "4,840")
	assert.NotContains(t, err.Error(), "4,840.")
	assert.True(t, amortization.IsClientError(err))
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestGenerate_InvalidInterestMode(t *testing.T) {
	sched, err := amortization.Generate(tenThousandAtTen().WithInterestMode(2))

	assert.Nil(t, sched)
	assert.ErrorIs(t, err, amortization.ErrInvalidInterestMode)

	var modeErr *amortization.InvalidInterestModeError
	require.ErrorAs(t, err, &modeErr)
	assert.Equal(t, amortization.InterestMode(2), modeErr.Mode)
}

func TestGenerate_InvalidArguments(t *testing.T) {
	nan := math.NaN()

	cases := []struct {
		name  string
		cfg   amortization.Config
		field string
	}{
		{"zero principal", amortization.NewConfig(0, 0.1, 12), "principal"},
		{"negative principal", amortization.NewConfig(-5, 0.1, 12), "principal"},
		{"nan principal", amortization.NewConfig(nan, 0.1, 12), "principal"},
		{"negative rate", amortization.NewConfig(1000, -0.01, 12), "annual_rate"},
		{"zero periods", amortization.NewConfig(1000, 0.1, 0), "periods"},
		{"unknown frequency", amortization.NewConfig(1000, 0.1, 12).WithFrequency(7), "frequency"},
		{"nan override", amortization.NewConfig(1000, 0.1, 12).WithActualPayment(nan), "actual_payment"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := amortization.Generate(tc.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, amortization.ErrInvalidArgument)

			var argErr *amortization.InvalidArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tc.field, argErr.Field)
		})
	}
}

func TestGenerate_ArgumentsCheckedBeforeMode(t *testing.T) {
	_, err := amortization.Generate(amortization.NewConfig(0, 0.1, 12).WithInterestMode(9))
	assert.True(t, errors.Is(err, amortization.ErrInvalidArgument))
}

// =============================================================================
// TRAVERSAL
// =============================================================================

func TestSchedule_SinglePass(t *testing.T) {
	sched, err := amortization.Generate(tenThousandAtTen())
	require.NoError(t, err)
	assert.Equal(t, 12, sched.Remaining())

	// Stop early after three rows.
	var seen []int
	for row := range sched.Rows() {
		seen = append(seen, row.Period)
		if row.Period == 3 {
			break
		}
	}
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, 9, sched.Remaining())

	// A second traversal resumes; it never restarts from period 1.
	require.True(t, sched.Next())
	assert.Equal(t, 4, sched.Row().Period)

	rest := amortization.Collect(sched)
	require.Len(t, rest, 8)
	assert.Equal(t, 5, rest[0].Period)
	assert.Equal(t, 12, rest[7].Period)

	assert.False(t, sched.Next())
	assert.Empty(t, amortization.Collect(sched))
	assert.Equal(t, 0, sched.Remaining())
}

func TestSchedule_IndependentCalls(t *testing.T) {
	a, err := amortization.Generate(tenThousandAtTen())
	require.NoError(t, err)
	b, err := amortization.Generate(tenThousandAtTen())
	require.NoError(t, err)

	amortization.Collect(a)
	require.True(t, b.Next())
	assert.Equal(t, 1, b.Row().Period)
}

func TestGenerator_WithPaymentFunc(t *testing.T) {
	calls := 0
	gen := amortization.NewGenerator(amortization.WithPaymentFunc(
		func(principal, annualRate float64, periods int, freq amortization.Frequency) float64 {
			calls++
			assert.Equal(t, amortization.Monthly, freq)
			return 900
		},
	))

	sched, err := gen.Generate(tenThousandAtTen())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 900.0, sched.Payment())

	_, err = gen.Generate(tenThousandAtTen().WithActualPayment(899))
	assert.ErrorIs(t, err, amortization.ErrInvalidPayment)
}

func TestConfig_OverrideIsCopied(t *testing.T) {
	payment := 1000.0
	cfg := tenThousandAtTen()
	cfg.ActualPayment = &payment

	sched, err := amortization.Generate(cfg)
	require.NoError(t, err)

	payment = 1
	assert.Equal(t, 1000.0, *sched.Config().ActualPayment)
	assert.Equal(t, 1000.0, sched.Payment())
}
