package engine

import (
	"sort"

	"daywise/internal/residency/models"
)

// EarliestCompliantStart finds the first date, scanning forward from the
// prospective stay's entry date for up to windowSize days, at which starting
// the trip would keep the subject strictly under the day limit.
//
// The restricted stay list grows as the candidate date advances: a stay
// becomes eligible exactly once, when its entry date falls strictly before
// the candidate, so eligibility is a pointer walk over a list pre-sorted by
// entry date rather than a re-filter per day. Each candidate re-anchors the
// window at itself (planning semantics) and re-counts; windowSize is a small
// fixed constant, so the direct per-candidate count is acceptable.
//
// When no candidate within the horizon satisfies the limit the boundary date
// entryDate+windowSize is returned with Proven=false: a best-effort answer
// meaning "not proven compliant, re-check", never a guarantee.
func EarliestCompliantStart(prospective models.Stay, all []models.Stay, cfg models.CalcConfig) (*models.SafeEntryResult, error) {
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

	candidates := make([]models.Stay, 0, len(all))
	for _, stay := range all {
		if !prospective.ID.IsNil() && stay.ID == prospective.ID {
			continue
		}
		if stay.Excluded {
			continue
		}
		candidates = append(candidates, stay)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EntryDate.Before(candidates[j].EntryDate)
	})

	eligible := make([]models.Stay, 0, len(candidates))
	next := 0

	for offset := 0; offset < cfg.WindowSize; offset++ {
		d := prospective.EntryDate.AddDays(offset)

		// Admit every stay whose entry date is now strictly before d.
		for next < len(candidates) && candidates[next].EntryDate.Before(d) {
			eligible = append(eligible, candidates[next])
			next++
		}

		cfgAt.ReferenceDate = d
		presence, err := BuildPresence(eligible, cfgAt)
		if err != nil {
			return nil, err
		}
		usedBefore := DaysUsedInWindow(presence, d, cfgAt)
		if usedBefore+tripDuration < cfg.DayLimit {
			return &models.SafeEntryResult{StartDate: d, Proven: true}, nil
		}
	}

	return &models.SafeEntryResult{
		StartDate: prospective.EntryDate.AddDays(cfg.WindowSize),
		Proven:    false,
	}, nil
}
