package amortization

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// accrual computes the interest portion of a period for one InterestMode.
// The closed-form constants are only populated for InterestClosedForm.
type accrual struct {
	mode InterestMode
	rate float64

	// ipmt = c1*(c2 - a^n)/c3
	a, c1, c2, c3 float64
}

func newAccrual(mode InterestMode, principal, rate float64, periods int) (accrual, error) {
	acc := accrual{mode: mode, rate: rate}
	switch mode {
	case InterestClosedForm:
		acc.a = 1 + rate
		acc.c1 = principal * rate
		acc.c2 = math.Pow(acc.a, float64(periods+1))
		acc.c3 = acc.a * (math.Pow(acc.a, float64(periods)) - 1)
	case InterestSimple:
	default:
		return accrual{}, &InvalidInterestModeError{Mode: mode}
	}
	return acc, nil
}

// interest returns the interest of period n (1-based). balance is the
// balance carried from period n-1.
func (acc accrual) interest(n int, balance float64) float64 {
	switch acc.mode {
	case InterestSimple:
		return roundCents(balance * acc.rate)
	default:
		// c3 is 0 at a zero rate; the limit of the identity is no interest.
		if acc.rate == 0 {
			return 0
		}
		return acc.c1 * (acc.c2 - math.Pow(acc.a, float64(n))) / acc.c3
	}
}

// roundCents rounds the exact binary value of v to cents, half to even.
// The shortest decimal form is not used: 50.005 is stored as
// 50.00500000000000255... and must round up.
func roundCents(v float64) float64 {
	r := new(big.Rat).SetFloat64(v)
	if r == nil {
		return v
	}
	// v = num/2^k = num*5^k/10^k with no loss.
	k := r.Denom().BitLen() - 1
	num := new(big.Int).Mul(r.Num(), new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(k)), nil))
	f, _ := decimal.NewFromBigInt(num, int32(-k)).RoundBank(2).Float64()
	return f
}
