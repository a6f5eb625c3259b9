package engine

import (
	"daywise/internal/residency/models"
	"daywise/pkg/domain"
)

// DaysUsedInWindow counts presence days inside the trailing window ending at
// checkDate. The window is [checkDate-(windowSize-1), checkDate], both ends
// inclusive, clipped below at the effective start date.
//
// This is the ground-truth reference implementation: a direct scan,
// independently verifiable, used as the oracle that validates the incremental
// vector engine.
func DaysUsedInWindow(presence Presence, checkDate domain.Date, cfg models.CalcConfig) int {
	start := checkDate.AddDays(-(cfg.WindowSize - 1))
	start = domain.MaxDate(start, cfg.EffectiveStart)

	used := 0
	for d := start; !d.After(checkDate); d = d.AddDays(1) {
		if presence.Contains(d) {
			used++
		}
	}
	return used
}

// StatusAt computes the full DailyStatus for a single reference date.
func StatusAt(presence Presence, checkDate domain.Date, cfg models.CalcConfig) models.DailyStatus {
	used := DaysUsedInWindow(presence, checkDate, cfg)
	remaining := cfg.DayLimit - used
	return models.DailyStatus{
		Date:          checkDate,
		DaysUsed:      used,
		DaysRemaining: remaining,
		RiskLevel:     ClassifyRisk(remaining, cfg.AmberThresholdDays),
	}
}
