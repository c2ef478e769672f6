package amortization

import (
	"fmt"
	"strings"
)

// =============================================================================
// PAYMENT FREQUENCY - Periods per year
// =============================================================================

// Frequency is the number of payments made per year. The value itself is the
// divisor applied to the annual rate, so Monthly is 12.
//
// The zero value is not a frequency; Config treats it as Monthly.
type Frequency int

const (
	Annually     Frequency = 1
	Semiannually Frequency = 2
	Quarterly    Frequency = 4
	Bimonthly    Frequency = 6
	Monthly      Frequency = 12
	Semimonthly  Frequency = 24
	Biweekly     Frequency = 26
	Weekly       Frequency = 52
	Daily        Frequency = 365
)

// DefaultFrequency is used when a Config leaves Frequency unset.
const DefaultFrequency = Monthly

var frequencyLabels = map[Frequency]string{
	Annually:     "annually",
	Semiannually: "semiannually",
	Quarterly:    "quarterly",
	Bimonthly:    "bimonthly",
	Monthly:      "monthly",
	Semimonthly:  "semimonthly",
	Biweekly:     "biweekly",
	Weekly:       "weekly",
	Daily:        "daily",
}

// Frequencies lists every recognized frequency, slowest first.
func Frequencies() []Frequency {
	return []Frequency{Annually, Semiannually, Quarterly, Bimonthly, Monthly, Semimonthly, Biweekly, Weekly, Daily}
}

// PeriodsPerYear returns the divisor used to derive the periodic rate.
func (f Frequency) PeriodsPerYear() int { return int(f) }

// Valid reports whether f is one of the recognized frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyLabels[f]
	return ok
}

func (f Frequency) String() string {
	if label, ok := frequencyLabels[f]; ok {
		return label
	}
	return fmt.Sprintf("frequency(%d)", int(f))
}

// ParseFrequency maps a label ("monthly", "Quarterly", ...) to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	for f, l := range frequencyLabels {
		if l == label {
			return f, nil
		}
	}
	return 0, &InvalidArgumentError{Field: "frequency", Value: s, Reason: "unknown payment frequency"}
}

// MarshalText encodes the frequency as its label (used by JSON and YAML).
func (f Frequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, &InvalidArgumentError{Field: "frequency", Value: int(f), Reason: "unknown payment frequency"}
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a frequency label.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
