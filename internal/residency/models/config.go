package models

import (
	"time"

	id "daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

// Defaults for the 90-in-180 rule.
const (
	DefaultDayLimit           = 90
	DefaultWindowSize         = 180
	DefaultAmberThresholdDays = 15
)

// DefaultEffectiveStart is the legal cutover from which presence starts
// counting. Days before it never contribute, even for stays that span it.
func DefaultEffectiveStart() id.Date {
	return id.NewDate(2021, time.January, 1)
}

// TerritorySet is the immutable set of territories whose presence days count
// toward the limit. It is built once at configuration time and passed in as
// part of CalcConfig, never referenced as ambient global state, so membership
// rules stay swappable per tenant or jurisdiction.
type TerritorySet struct {
	members map[string]struct{}
}

// NewTerritorySet builds a set from territory codes. Codes are normalized;
// empties are dropped.
func NewTerritorySet(codes ...string) TerritorySet {
	members := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if n := NormalizeTerritory(c); n != "" {
			members[n] = struct{}{}
		}
	}
	return TerritorySet{members: members}
}

// Contains reports whether presence in the territory counts toward the limit.
func (s TerritorySet) Contains(code string) bool {
	_, ok := s.members[NormalizeTerritory(code)]
	return ok
}

// Len returns the number of counted territories.
func (s TerritorySet) Len() int {
	return len(s.members)
}

// Codes returns the member codes in no particular order.
func (s TerritorySet) Codes() []string {
	out := make([]string, 0, len(s.members))
	for c := range s.members {
		out = append(out, c)
	}
	return out
}

// DefaultTerritories returns the Schengen area: the member states plus the
// micro-states that fully participate through open borders (AD, MC, SM, VA).
// Adjacent non-participating countries (IE, GB, and the non-Schengen EU
// members) are deliberately absent. Membership is modeled as time-invariant;
// see DESIGN.md for the accession caveat.
func DefaultTerritories() TerritorySet {
	return NewTerritorySet(
		"AT", "BE", "BG", "CH", "CZ", "DE", "DK", "EE", "ES", "FI",
		"FR", "GR", "HR", "HU", "IS", "IT", "LI", "LT", "LU", "LV",
		"MT", "NL", "NO", "PL", "PT", "RO", "SE", "SI", "SK",
		"AD", "MC", "SM", "VA",
	)
}

// CalcConfig carries everything one computation needs: the reference point,
// the legal parameters, and the counted-territory set. The engine is a pure
// function of its stays plus this config.
type CalcConfig struct {
	Mode               Mode
	ReferenceDate      id.Date
	EffectiveStart     id.Date
	DayLimit           int
	WindowSize         int
	AmberThresholdDays int
	Territories        TerritorySet
}

// NewCalcConfig builds an audit-mode config with the default legal
// parameters and the given reference date and territory set.
func NewCalcConfig(reference id.Date, territories TerritorySet) CalcConfig {
	return CalcConfig{
		Mode:               ModeAudit,
		ReferenceDate:      reference,
		EffectiveStart:     DefaultEffectiveStart(),
		DayLimit:           DefaultDayLimit,
		WindowSize:         DefaultWindowSize,
		AmberThresholdDays: DefaultAmberThresholdDays,
		Territories:        territories,
	}
}

// AtReference returns a copy of the config re-anchored to a different
// reference date, in the given mode. Forecasting uses this to make a trip's
// entry date the reference point.
func (c CalcConfig) AtReference(reference id.Date, mode Mode) CalcConfig {
	c.ReferenceDate = reference
	c.Mode = mode
	return c
}

// Validate fails fast on configs that must never reach computation.
func (c CalcConfig) Validate() error {
	if !c.Mode.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid mode")
	}
	if c.ReferenceDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidRange, "reference date is required")
	}
	if c.EffectiveStart.IsZero() {
		return dErrors.New(dErrors.CodeInvalidRange, "effective start date is required")
	}
	if c.DayLimit <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "day limit must be positive")
	}
	if c.WindowSize <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "window size must be positive")
	}
	if c.AmberThresholdDays < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amber threshold cannot be negative")
	}
	if c.Territories.Len() == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "territory set cannot be empty")
	}
	return nil
}
