package models

import (
	"daywise/pkg/domain"
)

// RiskLevel is the tiered classification of how close a subject is to the
// day limit, driven by the remaining-day budget.
type RiskLevel string

const (
	// RiskGreen: comfortably under the limit (remaining > amber threshold).
	RiskGreen RiskLevel = "green"
	// RiskAmber: approaching the limit (0 < remaining <= amber threshold).
	RiskAmber RiskLevel = "amber"
	// RiskRed: at or over the limit (remaining <= 0).
	RiskRed RiskLevel = "red"
)

// IsValid checks if the risk level is one of the supported enum values.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskGreen, RiskAmber, RiskRed:
		return true
	}
	return false
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return string(r)
}

// Mode selects how a computation treats the reference point.
type Mode string

const (
	// ModeAudit computes historical status as of a real reference date.
	ModeAudit Mode = "audit"
	// ModePlanning computes status at a hypothetical reference point, used
	// for forecasts where the reference is a trip's entry date.
	ModePlanning Mode = "planning"
)

// IsValid checks if the mode is one of the supported enum values.
func (m Mode) IsValid() bool {
	return m == ModeAudit || m == ModePlanning
}

// DailyStatus is the immutable per-day output of the engine.
//
// DaysRemaining may go negative when the subject is over the limit; callers
// that render budgets should clamp for display, but the raw value is kept so
// "how far over" stays answerable.
type DailyStatus struct {
	Date          domain.Date `json:"date"`
	DaysUsed      int         `json:"days_used"`
	DaysRemaining int         `json:"days_remaining"`
	RiskLevel     RiskLevel   `json:"risk_level"`
}

// ForecastResult is the outcome of projecting a prospective stay.
type ForecastResult struct {
	DaysUsedBeforeTrip     int       `json:"days_used_before_trip"`
	DaysAfterTrip          int       `json:"days_after_trip"`
	DaysRemainingAfterTrip int       `json:"days_remaining_after_trip"`
	RiskLevel              RiskLevel `json:"risk_level"`
	IsCompliant            bool      `json:"is_compliant"`

	// CompliantFrom is set when the trip as planned is non-compliant and a
	// later start was solved for. Nil when compliant or when the trip's
	// territory does not count toward the limit.
	CompliantFrom *domain.Date `json:"compliant_from,omitempty"`

	// CompliantFromProven distinguishes a solved compliant start from the
	// window-horizon fallback. When false and CompliantFrom is set, the date
	// is "not proven compliant, re-check", never a guarantee.
	CompliantFromProven bool `json:"compliant_from_proven,omitempty"`
}

// SafeEntryResult is the outcome of the earliest-compliant-start search.
type SafeEntryResult struct {
	// StartDate is the first candidate entry date at which the prospective
	// stay would keep the subject under the limit, or the window-horizon
	// boundary when the search was inconclusive.
	StartDate domain.Date `json:"start_date"`

	// Proven is false when the search hit the window horizon without finding
	// a compliant start. Callers must treat an unproven date as "re-check".
	Proven bool `json:"proven"`
}
