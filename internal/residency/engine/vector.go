package engine

import (
	"daywise/internal/residency/models"
	"daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

// ComputeVector computes one DailyStatus per day over [startDate, endDate],
// both ends inclusive, in amortized linear time.
//
// The presence set is built once (cost proportional to total presence days,
// not range length). The window count for startDate comes from one direct
// scan; every subsequent day slides the window incrementally: the day falling
// out of the window is removed from the running count, the day entering (the
// new current date, since the window includes its own end) is added. Each
// step is O(1), so the whole range is O(presenceDays + rangeLength) instead
// of the quadratic cost of re-scanning the window per day.
//
// Invariant: for every date d in the range, the emitted entry equals
// StatusAt(presence, d, cfg) exactly. The tests enforce this against the
// direct-scan oracle.
func ComputeVector(stays []models.Stay, startDate, endDate domain.Date, cfg models.CalcConfig) ([]models.DailyStatus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidRange, "start and end dates are required")
	}
	if startDate.After(endDate) {
		return nil, dErrors.New(dErrors.CodeInvalidRange, "start date is after end date")
	}

	presence, err := BuildPresence(stays, cfg)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyStatus, 0, endDate.DaysSince(startDate)+1)
	used := DaysUsedInWindow(presence, startDate, cfg)

	for d := startDate; ; d = d.AddDays(1) {
		remaining := cfg.DayLimit - used
		out = append(out, models.DailyStatus{
			Date:          d,
			DaysUsed:      used,
			DaysRemaining: remaining,
			RiskLevel:     ClassifyRisk(remaining, cfg.AmberThresholdDays),
		})
		if d == endDate {
			break
		}

		// Slide the window by one day: drop the day that falls out of the
		// next window, admit the next date itself. A day before the
		// effective start was never counted, so it must not be removed.
		leaving := d.AddDays(-(cfg.WindowSize - 1))
		if !leaving.Before(cfg.EffectiveStart) && presence.Contains(leaving) {
			used--
		}
		if presence.Contains(d.AddDays(1)) {
			used++
		}
	}
	return out, nil
}
