package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"daywise/internal/residency/models"
	"daywise/pkg/domain"
)

// Helpers shared across the engine tests. Stays are built through the
// validating constructor so test fixtures obey the same invariants as
// production records.

var testSubject = domain.NewSubjectID()

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func stay(t *testing.T, territory, entry, exit string) models.Stay {
	t.Helper()
	var exitDate *domain.Date
	if exit != "" {
		d := date(t, exit)
		exitDate = &d
	}
	s, err := models.NewStay(testSubject, territory, date(t, entry), exitDate, time.Now())
	require.NoError(t, err)
	return *s
}

func excludedStay(t *testing.T, territory, entry, exit string) models.Stay {
	t.Helper()
	s := stay(t, territory, entry, exit)
	s.Excluded = true
	return s
}

func testConfig(t *testing.T, reference string) models.CalcConfig {
	t.Helper()
	return models.NewCalcConfig(date(t, reference), models.DefaultTerritories())
}
