package engine

import (
	"daywise/internal/residency/models"
)

// Forecast projects whether a prospective stay would breach the day limit.
//
// Only stays that could already be "in effect" when the prospective stay
// begins are counted: non-excluded stays, other than the prospective one,
// whose entry is strictly before the prospective entry. The window reference
// point is the prospective entry date itself (planning semantics).
//
// A prospective stay in a non-counted territory never affects the tally: the
// before and after counts are equal and no safe-entry date applies.
func Forecast(prospective models.Stay, all []models.Stay, cfg models.CalcConfig) (*models.ForecastResult, error) {
	if err := prospective.Validate(); err != nil {
		return nil, err
	}
	tripDuration, err := prospective.Duration()
	if err != nil {
		return nil, err
	}

	cfgAt := cfg.AtReference(prospective.EntryDate, models.ModePlanning)
	if err := cfgAt.Validate(); err != nil {
		return nil, err
	}

	presence, err := BuildPresence(staysInEffectBefore(prospective, all), cfgAt)
	if err != nil {
		return nil, err
	}
	usedBefore := DaysUsedInWindow(presence, prospective.EntryDate, cfgAt)

	if !cfg.Territories.Contains(prospective.Territory) {
		remaining := cfg.DayLimit - usedBefore
		return &models.ForecastResult{
			DaysUsedBeforeTrip:     usedBefore,
			DaysAfterTrip:          usedBefore,
			DaysRemainingAfterTrip: remaining,
			RiskLevel:              ClassifyRisk(remaining, cfg.AmberThresholdDays),
			IsCompliant:            usedBefore < cfg.DayLimit,
		}, nil
	}

	daysAfter := usedBefore + tripDuration
	remaining := cfg.DayLimit - daysAfter
	result := &models.ForecastResult{
		DaysUsedBeforeTrip:     usedBefore,
		DaysAfterTrip:          daysAfter,
		DaysRemainingAfterTrip: remaining,
		RiskLevel:              ClassifyRisk(remaining, cfg.AmberThresholdDays),
		IsCompliant:            daysAfter < cfg.DayLimit,
	}

	if !result.IsCompliant {
		safe, err := EarliestCompliantStart(prospective, all, cfg)
		if err != nil {
			return nil, err
		}
		start := safe.StartDate
		result.CompliantFrom = &start
		result.CompliantFromProven = safe.Proven
	}
	return result, nil
}

// staysInEffectBefore restricts a history to the stays that can contribute
// presence at the moment the prospective stay begins.
func staysInEffectBefore(prospective models.Stay, all []models.Stay) []models.Stay {
	restricted := make([]models.Stay, 0, len(all))
	for _, stay := range all {
		if !prospective.ID.IsNil() && stay.ID == prospective.ID {
			continue
		}
		if stay.Excluded {
			continue
		}
		if !stay.EntryDate.Before(prospective.EntryDate) {
			continue
		}
		restricted = append(restricted, stay)
	}
	return restricted
}
