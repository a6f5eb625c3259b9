package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "daywise/pkg/domain-errors"
)

func TestParseDate(t *testing.T) {
	t.Run("parses ISO dates", func(t *testing.T) {
		d, err := ParseDate("2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, NewDate(2025, time.March, 1), d)
		assert.Equal(t, "2025-03-01", d.String())
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, raw := range []string{"", "01-03-2025", "2025/03/01", "2025-3-1", "yesterday"} {
			_, err := ParseDate(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), raw)
		}
	})
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.March, 1)

	assert.Equal(t, NewDate(2025, time.March, 31), d.AddDays(30))
	assert.Equal(t, NewDate(2025, time.February, 28), d.AddDays(-1))
	assert.Equal(t, 30, d.AddDays(30).DaysSince(d))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
}

func TestDateLeapYear(t *testing.T) {
	// 2024 is a leap year: Feb 28 -> Feb 29 -> Mar 1.
	d := NewDate(2024, time.February, 28)
	assert.Equal(t, NewDate(2024, time.February, 29), d.AddDays(1))
	assert.Equal(t, NewDate(2024, time.March, 1), d.AddDays(2))

	// 2025 is not: Feb 28 -> Mar 1.
	d = NewDate(2025, time.February, 28)
	assert.Equal(t, NewDate(2025, time.March, 1), d.AddDays(1))

	// A year spanning a leap day is 366 days.
	assert.Equal(t, 366, NewDate(2025, time.January, 1).DaysSince(NewDate(2024, time.January, 1)))
}

func TestDateOf_FloorsToDay(t *testing.T) {
	late := time.Date(2025, time.March, 1, 23, 59, 59, 0, time.UTC)
	early := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DateOf(late), DateOf(early))
	assert.Equal(t, NewDate(2025, time.March, 1), DateOf(late))
}

func TestDateZeroValue(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, NewDate(2025, time.March, 1).IsZero())
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Day Date `json:"day"`
	}

	encoded, err := json.Marshal(payload{Day: NewDate(2025, time.March, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-03-01"}`, string(encoded))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-02-29"}`), &decoded))
	assert.Equal(t, NewDate(2024, time.February, 29), decoded.Day)
}
