/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the amortization package from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small response wrappers

OPTIONAL FIELDS:
  frequency, interest_mode and actual_payment may be omitted; the handler
  fills them from the configured defaults (monthly, closed form, baseline
  payment).

VALIDATION:
  Validation is done by amortization.Generate and in handlers, not in DTOs.
*/
package api

import (
	"time"

	"github.com/warp/amortization-engine/amortization"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LoanRequest describes a schedule to generate.
type LoanRequest struct {
	Principal     float64  `json:"principal"`
	AnnualRate    float64  `json:"annual_rate"`
	Periods       int      `json:"periods"`
	Frequency     string   `json:"frequency,omitempty"`
	ActualPayment *float64 `json:"actual_payment,omitempty"`
	InterestMode  *int     `json:"interest_mode,omitempty"`
	Label         string   `json:"label,omitempty"`
}

// PeriodsRequest asks how long a given payment takes to amortize a loan.
type PeriodsRequest struct {
	Principal  float64 `json:"principal"`
	AnnualRate float64 `json:"annual_rate"`
	Payment    float64 `json:"payment"`
	Frequency  string  `json:"frequency,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PaymentResponse is the baseline payment of a loan.
type PaymentResponse struct {
	Payment        float64 `json:"payment"`
	PaymentDisplay string  `json:"payment_display"`
	Frequency      string  `json:"frequency"`
	AdjustedRate   float64 `json:"adjusted_rate"`
}

// PeriodsResponse is the number of periods a payment needs.
type PeriodsResponse struct {
	Periods int `json:"periods"`
}

// ConfigDTO echoes the normalized loan parameters.
type ConfigDTO struct {
	Principal     float64  `json:"principal"`
	AnnualRate    float64  `json:"annual_rate"`
	Periods       int      `json:"periods"`
	Frequency     string   `json:"frequency"`
	ActualPayment *float64 `json:"actual_payment,omitempty"`
	InterestMode  int      `json:"interest_mode"`
	InterestName  string   `json:"interest_mode_name"`
}

// SummaryDTO carries totals as decimal strings.
type SummaryDTO struct {
	Periods        int     `json:"periods"`
	PayoffPeriod   int     `json:"payoff_period"`
	Payment        float64 `json:"payment"`
	TotalPayment   string  `json:"total_payment"`
	TotalInterest  string  `json:"total_interest"`
	TotalPrincipal string  `json:"total_principal"`
}

// ScheduleDTO is a generated or stored schedule.
type ScheduleDTO struct {
	ID        string             `json:"id,omitempty"`
	Label     string             `json:"label,omitempty"`
	Config    ConfigDTO          `json:"config"`
	Payment   float64            `json:"payment"`
	Summary   *SummaryDTO        `json:"summary,omitempty"`
	Rows      []amortization.Row `json:"rows,omitempty"`
	CreatedAt string             `json:"created_at,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toConfigDTO(c amortization.Config) ConfigDTO {
	return ConfigDTO{
		Principal:     c.Principal,
		AnnualRate:    c.AnnualRate,
		Periods:       c.Periods,
		Frequency:     c.Frequency.String(),
		ActualPayment: c.ActualPayment,
		InterestMode:  int(c.InterestMode),
		InterestName:  c.InterestMode.String(),
	}
}

func toSummaryDTO(s amortization.Summary) *SummaryDTO {
	return &SummaryDTO{
		Periods:        s.Periods,
		PayoffPeriod:   s.PayoffPeriod,
		Payment:        s.Payment,
		TotalPayment:   s.TotalPayment.StringFixed(2),
		TotalInterest:  s.TotalInterest.StringFixed(2),
		TotalPrincipal: s.TotalPrincipal.StringFixed(2),
	}
}

// toScheduleDTO converts a record; withRows=false is used by listings.
func toScheduleDTO(rec amortization.ScheduleRecord, withRows bool) ScheduleDTO {
	dto := ScheduleDTO{
		ID:      rec.ID,
		Label:   rec.Label,
		Config:  toConfigDTO(rec.Config),
		Payment: rec.Payment,
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if withRows {
		dto.Rows = rec.Rows
		dto.Summary = toSummaryDTO(rec.Summary())
	}
	return dto
}
