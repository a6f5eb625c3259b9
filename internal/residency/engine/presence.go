// Package engine is the pure day-counting core: presence sets, trailing
// window counts, risk classification, daily status vectors, forecasts, and
// the safe-entry solver. Everything here is a deterministic function of its
// explicit inputs — no stores, no caches, no clocks — so every entry point is
// safe to call concurrently and every failure reproduces from the same
// arguments.
package engine

import (
	"sort"

	"daywise/internal/residency/models"
	"daywise/pkg/domain"
)

// Presence is the deduplicated set of counted calendar days derived from one
// subject's qualifying stays. It is ephemeral: built per computation call
// (once per vector call) and never shared or cached across calls.
//
// Days are keyed by integer day offsets, not formatted strings, so membership
// tests in the vector engine's per-day step stay O(1).
type Presence map[domain.Date]struct{}

// Contains reports whether the day is a counted presence day.
func (p Presence) Contains(d domain.Date) bool {
	_, ok := p[d]
	return ok
}

// Len returns the total number of counted days.
func (p Presence) Len() int {
	return len(p)
}

// Sorted returns the presence days in ascending order.
func (p Presence) Sorted() []domain.Date {
	out := make([]domain.Date, 0, len(p))
	for d := range p {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildPresence normalizes stays and expands them into a presence set.
//
// Filtering: excluded stays and stays in non-counted territories are dropped.
// Expansion: each surviving stay contributes the inclusive range
// [entry, exitEffective], where exitEffective is the recorded exit or, for
// ongoing stays, the config's reference date — in both audit and planning
// mode an ongoing stay counts through the reference point. No day before the
// effective start date is ever emitted, so a stay straddling the cutover
// contributes only its post-cutover portion.
//
// Overlapping and adjacent stays collapse in the set union: the total is
// independent of how many fragmentary records produced it.
//
// A stay with exit before entry is a caller contract violation and is
// rejected, never clamped.
func BuildPresence(stays []models.Stay, cfg models.CalcConfig) (Presence, error) {
	presence := make(Presence)
	for i := range stays {
		stay := &stays[i]
		if err := stay.Validate(); err != nil {
			return nil, err
		}
		if stay.Excluded {
			continue
		}
		if !cfg.Territories.Contains(stay.Territory) {
			continue
		}

		exitEffective := cfg.ReferenceDate
		if stay.ExitDate != nil {
			exitEffective = *stay.ExitDate
		}

		first := domain.MaxDate(stay.EntryDate, cfg.EffectiveStart)
		for d := first; !d.After(exitEffective); d = d.AddDays(1) {
			presence[d] = struct{}{}
		}
	}
	return presence, nil
}
