/*
schedule.go - Schedule generation

PURPOSE:
  Generator validates a Config and returns a Schedule, the lazy row sequence.
  All validation happens in Generate; a Schedule that exists never fails.

VALIDATION ORDER:
  1. Loan arguments (principal, rate, periods, frequency)
  2. Interest mode
  3. Payment override against the baseline payment

TRAVERSAL:
  A Schedule is a single-pass sequence. Next/Row and Rows share the same
  cursor: rows already produced are never produced again, and a fresh
  Generate call is the only way to start over from period 1.

  sched, _ := gen.Generate(cfg)
  for sched.Next() {
      row := sched.Row()
  }

  // or
  for row := range sched.Rows() {
      if row.Period == 3 {
          break // remaining rows stay unconsumed, nothing to clean up
      }
  }

SEE ALSO:
  - interest.go: accrual models
  - payment.go: baseline payment calculator
*/
package amortization

import (
	"iter"
	"log"
	"math"
)

// =============================================================================
// GENERATOR
// =============================================================================

// Generator produces schedules. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	payment PaymentFunc
	logger  *log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPaymentFunc replaces the baseline payment calculator.
func WithPaymentFunc(fn PaymentFunc) Option {
	return func(g *Generator) {
		if fn != nil {
			g.payment = fn
		}
	}
}

// WithLogger sets the logger used for rejected configurations.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a generator using CalculatePayment by default.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		payment: CalculatePayment,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// Generate uses the default generator.
func Generate(cfg Config) (*Schedule, error) {
	return defaultGenerator.Generate(cfg)
}

// Generate validates cfg and returns its schedule, positioned before period 1.
func (g *Generator) Generate(cfg Config) (*Schedule, error) {
	cfg = cfg.withDefaults()

	if err := validateLoan(cfg.Principal, cfg.AnnualRate, cfg.Periods, cfg.Frequency); err != nil {
		return nil, err
	}

	rate := cfg.AdjustedRate()
	acc, err := newAccrual(cfg.InterestMode, cfg.Principal, rate, cfg.Periods)
	if err != nil {
		return nil, err
	}

	baseline := g.payment(cfg.Principal, cfg.AnnualRate, cfg.Periods, cfg.Frequency)
	payment := baseline
	if cfg.ActualPayment != nil {
		if math.IsNaN(*cfg.ActualPayment) || math.IsInf(*cfg.ActualPayment, 0) {
			return nil, &InvalidArgumentError{Field: "actual_payment", Value: *cfg.ActualPayment, Reason: "must be a finite number"}
		}
		if *cfg.ActualPayment < baseline {
			g.logger.Printf("amortization: rejected payment %.2f below baseline %.2f", *cfg.ActualPayment, baseline)
			return nil, &InvalidPaymentError{Payment: *cfg.ActualPayment, Minimum: baseline}
		}
		payment = *cfg.ActualPayment
	}

	return &Schedule{
		cfg:      cfg,
		baseline: baseline,
		payment:  payment,
		accrual:  acc,
		balance:  cfg.Principal,
	}, nil
}

// =============================================================================
// SCHEDULE - Lazy, single-pass row sequence
// =============================================================================

// Schedule yields the rows of one amortization schedule in period order.
// A Schedule must not be shared between goroutines.
type Schedule struct {
	cfg      Config
	baseline float64
	payment  float64
	accrual  accrual

	period  int // last produced period, 0 before the first
	balance float64
	row     Row
}

// Config returns the normalized configuration (defaults applied).
func (s *Schedule) Config() Config { return s.cfg }

// Payment returns the resolved periodic payment: the override if one was
// given, the baseline otherwise. The final row may differ from it.
func (s *Schedule) Payment() float64 { return s.payment }

// Baseline returns the payment calculator's result for this loan.
func (s *Schedule) Baseline() float64 { return s.baseline }

// Remaining returns the number of rows not yet produced.
func (s *Schedule) Remaining() int { return s.cfg.Periods - s.period }

// Next advances to the next period. It returns false once every period has
// been produced.
func (s *Schedule) Next() bool {
	if s.period >= s.cfg.Periods {
		return false
	}
	s.period++
	n := s.period

	interest := s.accrual.interest(n, s.balance)
	payment := s.payment
	var principal float64
	if n < s.cfg.Periods {
		principal = payment - interest
		s.balance -= principal
	} else {
		// Final period absorbs all drift.
		principal = s.balance
		payment = s.balance + interest
		s.balance = 0
	}

	s.row = Row{
		Period:    n,
		Payment:   payment,
		Interest:  interest,
		Principal: principal,
		Balance:   s.balance,
	}
	return true
}

// Row returns the row produced by the last successful Next.
func (s *Schedule) Row() Row { return s.row }

// Rows returns an iterator over the remaining rows. Breaking out of the loop
// leaves the rest unconsumed; a second Rows call resumes where it stopped.
func (s *Schedule) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for s.Next() {
			if !yield(s.row) {
				return
			}
		}
	}
}
