package domain

import (
	"fmt"
	"time"

	dErrors "daywise/pkg/domain-errors"
)

// Date is a calendar day, stored as the number of days since the Unix epoch
// (1970-01-01). It carries no time-of-day and no timezone, which removes the
// off-by-one and DST drift bugs that come with time.Time arithmetic in
// day-counting code. Conversions go through the time package so leap years
// are always handled by the standard library.
//
// The zero value is treated as "unset"; real dates in this domain are decades
// past the epoch.
type Date int

const dateLayout = "2006-01-02"

const secondsPerDay = 86400

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates a time.Time to its calendar day in UTC.
func DateOf(t time.Time) Date {
	u := t.UTC()
	y, m, d := u.Date()
	secs := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 && secs < 0 {
		days--
	}
	return Date(days)
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses "YYYY-MM-DD". Rejects empty and malformed input at the
// trust boundary.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "date cannot be empty")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s))
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// DaysSince returns the signed number of days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d - other)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d > other
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == 0
}

// String formats as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler, so Date serializes as
// "YYYY-MM-DD" in JSON and map keys.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MinDate returns the earlier of two dates.
func MinDate(a, b Date) Date {
	if a < b {
		return a
	}
	return b
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a > b {
		return a
	}
	return b
}
