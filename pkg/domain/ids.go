// Package domain holds shared value types: typed identifiers and the Date
// value used throughout the residency engine. Typed IDs prevent cross-type
// assignment at compile time; parsing validates at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "daywise/pkg/domain-errors"
)

// SubjectID identifies the person whose presence days are being counted.
type SubjectID uuid.UUID

// StayID identifies a single recorded stay.
type StayID uuid.UUID

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be the nil UUID")
	}
	return parsed, nil
}

// ParseSubjectID validates and converts a string into a SubjectID.
func ParseSubjectID(s string) (SubjectID, error) {
	parsed, err := parseUUID(s, "subject_id")
	if err != nil {
		return SubjectID{}, err
	}
	return SubjectID(parsed), nil
}

// ParseStayID validates and converts a string into a StayID.
func ParseStayID(s string) (StayID, error) {
	parsed, err := parseUUID(s, "stay_id")
	if err != nil {
		return StayID{}, err
	}
	return StayID(parsed), nil
}

// NewStayID generates a fresh random StayID.
func NewStayID() StayID {
	return StayID(uuid.New())
}

// NewSubjectID generates a fresh random SubjectID.
func NewSubjectID() SubjectID {
	return SubjectID(uuid.New())
}

func (id SubjectID) String() string { return uuid.UUID(id).String() }
func (id StayID) String() string    { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id SubjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the ID is the zero UUID.
func (id StayID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id SubjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SubjectID) UnmarshalText(text []byte) error {
	parsed, err := ParseSubjectID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id StayID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *StayID) UnmarshalText(text []byte) error {
	parsed, err := ParseStayID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
