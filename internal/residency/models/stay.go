package models

import (
	"strings"
	"time"

	id "daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

// Stay is one recorded presence in a territory.
//
// Invariants:
//   - Territory is a non-empty ISO 3166-1 alpha-2 code
//   - EntryDate is set
//   - ExitDate, when set, is on or after EntryDate (both inclusive)
//
// A nil ExitDate means the stay is ongoing: it extends through whatever
// reference date a computation uses. Excluded marks voided or erroneous
// records that must never count, regardless of the other fields.
type Stay struct {
	ID        id.StayID    `json:"id"`
	SubjectID id.SubjectID `json:"subject_id"`
	Territory string       `json:"territory"`
	EntryDate id.Date      `json:"entry_date"`
	ExitDate  *id.Date     `json:"exit_date,omitempty"`
	Excluded  bool         `json:"excluded,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewStay creates a Stay with domain invariant validation.
func NewStay(subjectID id.SubjectID, territory string, entry id.Date, exit *id.Date, now time.Time) (*Stay, error) {
	if subjectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "subject_id cannot be nil")
	}
	territory = NormalizeTerritory(territory)
	if territory == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "territory cannot be empty")
	}
	if entry.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entry_date is required")
	}
	if exit != nil && exit.Before(entry) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "exit_date cannot be before entry_date")
	}

	return &Stay{
		ID:        id.NewStayID(),
		SubjectID: subjectID,
		Territory: territory,
		EntryDate: entry,
		ExitDate:  exit,
		CreatedAt: now,
	}, nil
}

// Validate re-checks the stay's invariants. Stores and the engine call this
// on caller-supplied records rather than trusting them; a stay with exit
// before entry is rejected explicitly, never silently clamped.
func (s *Stay) Validate() error {
	if s.EntryDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "stay entry_date is required")
	}
	if s.ExitDate != nil && s.ExitDate.Before(s.EntryDate) {
		return dErrors.New(dErrors.CodeInvalidInput, "stay exit_date cannot be before entry_date")
	}
	if NormalizeTerritory(s.Territory) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "stay territory cannot be empty")
	}
	return nil
}

// Ongoing reports whether the stay has no recorded exit.
func (s *Stay) Ongoing() bool {
	return s.ExitDate == nil
}

// Duration returns the inclusive day count of a closed stay: entry == exit
// is exactly one day. Ongoing stays have no fixed duration.
func (s *Stay) Duration() (int, error) {
	if s.ExitDate == nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "stay has no exit_date")
	}
	if s.ExitDate.Before(s.EntryDate) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "stay exit_date cannot be before entry_date")
	}
	return s.ExitDate.DaysSince(s.EntryDate) + 1, nil
}

// NormalizeTerritory canonicalizes a territory code for set membership.
func NormalizeTerritory(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
