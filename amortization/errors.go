/*
errors.go - Error types for schedule generation and storage

PURPOSE:
  All error types in one place. Generator errors are returned by Generate
  before any row is produced; no partial schedule ever exists for a failed
  call.

ERROR CATEGORIES:
  1. Input errors - payment override, interest mode, loan arguments
  2. Store errors - missing or duplicate schedule records

USAGE:
  sched, err := amortization.Generate(cfg)
  var payErr *amortization.InvalidPaymentError
  if errors.As(err, &payErr) {
      fmt.Println("minimum payment is", payErr.Minimum)
  }
*/
package amortization

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPayment is returned when the payment override is below the
	// baseline payment needed to amortize the loan.
	ErrInvalidPayment = errors.New("invalid payment")

	// ErrInvalidInterestMode is returned for an unrecognized accrual model.
	ErrInvalidInterestMode = errors.New("invalid interest mode")

	// ErrInvalidArgument is returned for out-of-domain loan parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNeverAmortizes is returned when a payment does not cover the
	// interest of the first period.
	ErrNeverAmortizes = errors.New("payment never amortizes the loan")

	// ErrScheduleNotFound is returned by stores for an unknown schedule ID.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrDuplicateSchedule is returned by stores when the ID already exists.
	ErrDuplicateSchedule = errors.New("duplicate schedule id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidPaymentError reports an underpayment. Minimum is the computed
// baseline payment.
type InvalidPaymentError struct {
	Payment float64
	Minimum float64
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("actual payment must be unset or >= amortization amount, which is currently computed as %s",
		FormatAmount(e.Minimum))
}

func (e *InvalidPaymentError) Unwrap() error {
	return ErrInvalidPayment
}

// InvalidInterestModeError reports an unrecognized InterestMode.
type InvalidInterestModeError struct {
	Mode InterestMode
}

func (e *InvalidInterestModeError) Error() string {
	return fmt.Sprintf("invalid value for interest calculation: %d (want %d closed form or %d simple)",
		int(e.Mode), int(InterestClosedForm), int(InterestSimple))
}

func (e *InvalidInterestModeError) Unwrap() error {
	return ErrInvalidInterestMode
}

// InvalidArgumentError reports a loan parameter outside its domain.
type InvalidArgumentError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrInvalidInterestMode) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrNeverAmortizes)
}

// IsNotFound returns true if the error indicates a missing schedule.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound)
}
