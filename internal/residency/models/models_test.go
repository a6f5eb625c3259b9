package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

func d(t *testing.T, s string) id.Date {
	t.Helper()
	parsed, err := id.ParseDate(s)
	require.NoError(t, err)
	return parsed
}

func TestNewStay_Invariants(t *testing.T) {
	subject := id.NewSubjectID()
	now := time.Now()

	t.Run("rejects nil subject", func(t *testing.T) {
		_, err := NewStay(id.SubjectID{}, "FR", d(t, "2025-06-01"), nil, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects empty territory", func(t *testing.T) {
		_, err := NewStay(subject, "  ", d(t, "2025-06-01"), nil, now)
		require.Error(t, err)
	})

	t.Run("rejects exit before entry", func(t *testing.T) {
		exit := d(t, "2025-05-31")
		_, err := NewStay(subject, "FR", d(t, "2025-06-01"), &exit, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("normalizes territory and assigns an id", func(t *testing.T) {
		stay, err := NewStay(subject, " fr ", d(t, "2025-06-01"), nil, now)
		require.NoError(t, err)
		assert.Equal(t, "FR", stay.Territory)
		assert.False(t, stay.ID.IsNil())
		assert.True(t, stay.Ongoing())
	})
}

func TestStay_Duration(t *testing.T) {
	subject := id.NewSubjectID()

	t.Run("entry equals exit is one day", func(t *testing.T) {
		exit := d(t, "2025-06-01")
		stay, err := NewStay(subject, "FR", d(t, "2025-06-01"), &exit, time.Now())
		require.NoError(t, err)
		days, err := stay.Duration()
		require.NoError(t, err)
		assert.Equal(t, 1, days)
	})

	t.Run("entry and next day is two days", func(t *testing.T) {
		exit := d(t, "2025-06-02")
		stay, err := NewStay(subject, "FR", d(t, "2025-06-01"), &exit, time.Now())
		require.NoError(t, err)
		days, err := stay.Duration()
		require.NoError(t, err)
		assert.Equal(t, 2, days)
	})

	t.Run("ongoing stay has no duration", func(t *testing.T) {
		stay, err := NewStay(subject, "FR", d(t, "2025-06-01"), nil, time.Now())
		require.NoError(t, err)
		_, err = stay.Duration()
		require.Error(t, err)
	})
}

func TestTerritorySet(t *testing.T) {
	t.Run("default set includes members and micro-states, excludes neighbours", func(t *testing.T) {
		set := DefaultTerritories()
		assert.True(t, set.Contains("FR"))
		assert.True(t, set.Contains("ch"))
		assert.True(t, set.Contains("MC"), "participating micro-state")
		assert.False(t, set.Contains("IE"))
		assert.False(t, set.Contains("GB"))
	})

	t.Run("custom sets are normalized", func(t *testing.T) {
		set := NewTerritorySet("fr", " de ", "")
		assert.Equal(t, 2, set.Len())
		assert.True(t, set.Contains("DE"))
	})
}

func TestCalcConfig_Validate(t *testing.T) {
	base := NewCalcConfig(d(t, "2025-06-01"), DefaultTerritories())

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, base.Validate())
		assert.Equal(t, DefaultDayLimit, base.DayLimit)
		assert.Equal(t, DefaultWindowSize, base.WindowSize)
		assert.Equal(t, ModeAudit, base.Mode)
	})

	t.Run("missing reference date is an invalid range", func(t *testing.T) {
		cfg := base
		cfg.ReferenceDate = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRange))
	})

	t.Run("non-positive window is rejected", func(t *testing.T) {
		cfg := base
		cfg.WindowSize = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("empty territory set is rejected", func(t *testing.T) {
		cfg := base
		cfg.Territories = NewTerritorySet()
		require.Error(t, cfg.Validate())
	})

	t.Run("AtReference re-anchors without mutating the original", func(t *testing.T) {
		moved := base.AtReference(d(t, "2025-09-01"), ModePlanning)
		assert.Equal(t, ModePlanning, moved.Mode)
		assert.Equal(t, d(t, "2025-09-01"), moved.ReferenceDate)
		assert.Equal(t, ModeAudit, base.Mode)
		assert.Equal(t, d(t, "2025-06-01"), base.ReferenceDate)
	})
}
