package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daywise/internal/residency/models"
	"daywise/internal/residency/store/stay"
	"daywise/internal/residency/store/statuscache"
	"daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

// ---------------------------------------------------------------------------
// Helpers — real in-memory stores, no mocks
// ---------------------------------------------------------------------------

func newTestService(t *testing.T, opts ...Option) (*Service, *stay.InMemoryStayStore) {
	t.Helper()
	store := stay.NewInMemoryStayStore()
	svc, err := New(store, opts...)
	require.NoError(t, err)
	return svc, store
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedStay(t *testing.T, svc *Service, subject domain.SubjectID, territory, entry, exit string) models.Stay {
	t.Helper()
	exitDate := mustDate(t, exit)
	st, err := svc.AddStay(context.Background(), models.Stay{
		SubjectID: subject,
		Territory: territory,
		EntryDate: mustDate(t, entry),
		ExitDate:  &exitDate,
	})
	require.NoError(t, err)
	return *st
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_RequiresStayStore(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

// ---------------------------------------------------------------------------
// Stay management
// ---------------------------------------------------------------------------

func TestAddStay_AssignsIDAndNormalizes(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()

	exit := mustDate(t, "2025-03-10")
	st, err := svc.AddStay(context.Background(), models.Stay{
		SubjectID: subject,
		Territory: " fr ",
		EntryDate: mustDate(t, "2025-03-01"),
		ExitDate:  &exit,
	})
	require.NoError(t, err)

	assert.False(t, st.ID.IsNil())
	assert.Equal(t, "FR", st.Territory)
	assert.False(t, st.CreatedAt.IsZero())

	listed, err := svc.ListStays(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, st.ID, listed[0].ID)
}

func TestAddStay_RejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)

	exit := mustDate(t, "2025-03-01")
	_, err := svc.AddStay(context.Background(), models.Stay{
		SubjectID: domain.NewSubjectID(),
		Territory: "FR",
		EntryDate: mustDate(t, "2025-03-10"),
		ExitDate:  &exit,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestRemoveStay(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()
	st := seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-10")

	require.NoError(t, svc.RemoveStay(context.Background(), subject, st.ID))

	listed, err := svc.ListStays(context.Background(), subject)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRemoveStay_WrongSubjectIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()
	st := seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-10")

	err := svc.RemoveStay(context.Background(), domain.NewSubjectID(), st.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	// The stay itself is untouched.
	listed, err := svc.ListStays(context.Background(), subject)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestRemoveStay_MissingIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.RemoveStay(context.Background(), domain.NewSubjectID(), domain.NewStayID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

func TestStatus_ComputesDayUsage(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()
	seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-30")

	status, err := svc.Status(context.Background(), subject, mustDate(t, "2025-04-15"))
	require.NoError(t, err)

	assert.Equal(t, 30, status.DaysUsed)
	assert.Equal(t, 60, status.DaysRemaining)
	assert.Equal(t, models.RiskGreen, status.RiskLevel)
}

func TestStatus_ServesFromCacheUntilInvalidated(t *testing.T) {
	cache := statuscache.NewInMemoryStatusCache()
	svc, _ := newTestService(t, WithCache(cache))
	subject := domain.NewSubjectID()
	seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-30")
	ref := mustDate(t, "2025-04-15")

	first, err := svc.Status(context.Background(), subject, ref)
	require.NoError(t, err)

	// The computed status landed in the cache.
	cached, err := cache.Get(context.Background(), subject, ref)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, *first, *cached)

	// Adding a stay invalidates the subject's entries.
	seedStay(t, svc, subject, "DE", "2025-04-01", "2025-04-10")
	cached, err = cache.Get(context.Background(), subject, ref)
	require.NoError(t, err)
	assert.Nil(t, cached)

	second, err := svc.Status(context.Background(), subject, ref)
	require.NoError(t, err)
	assert.Equal(t, 40, second.DaysUsed)
}

// ---------------------------------------------------------------------------
// Calendar
// ---------------------------------------------------------------------------

func TestCalendar_ReturnsPerDayVector(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()
	seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-30")

	vector, err := svc.Calendar(context.Background(), subject, mustDate(t, "2025-03-28"), mustDate(t, "2025-04-02"))
	require.NoError(t, err)
	require.Len(t, vector, 6)

	assert.Equal(t, 28, vector[0].DaysUsed) // 2025-03-28
	assert.Equal(t, 30, vector[2].DaysUsed) // 2025-03-30, last day of the stay
	assert.Equal(t, 30, vector[5].DaysUsed) // 2025-04-02, stay still inside the window
}

func TestCalendar_RejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Calendar(context.Background(), domain.NewSubjectID(), mustDate(t, "2025-04-02"), mustDate(t, "2025-03-28"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRange))
}

// ---------------------------------------------------------------------------
// Forecast and safe entry
// ---------------------------------------------------------------------------

func TestForecast_CompliantTrip(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()
	seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-30")

	exit := mustDate(t, "2025-05-10")
	result, err := svc.Forecast(context.Background(), subject, models.Stay{
		SubjectID: subject,
		Territory: "DE",
		EntryDate: mustDate(t, "2025-05-01"),
		ExitDate:  &exit,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, result.DaysUsedBeforeTrip)
	assert.Equal(t, 40, result.DaysAfterTrip)
	assert.True(t, result.IsCompliant)
	assert.Nil(t, result.CompliantFrom)
}

func TestSafeEntry_ImmediateWhenUnderLimit(t *testing.T) {
	svc, _ := newTestService(t)
	subject := domain.NewSubjectID()
	seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-30")

	result, err := svc.SafeEntry(context.Background(), subject, "DE", mustDate(t, "2025-05-01"), 10)
	require.NoError(t, err)

	assert.Equal(t, mustDate(t, "2025-05-01"), result.StartDate)
	assert.True(t, result.Proven)
}

func TestSafeEntry_RejectsNonPositiveDuration(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SafeEntry(context.Background(), domain.NewSubjectID(), "DE", mustDate(t, "2025-05-01"), 0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// ---------------------------------------------------------------------------
// Defaults override
// ---------------------------------------------------------------------------

func TestWithDefaults_OverridesLimit(t *testing.T) {
	cfg := models.NewCalcConfig(0, models.NewTerritorySet("FR"))
	cfg.DayLimit = 10
	svc, _ := newTestService(t, WithDefaults(cfg), WithCacheTTL(time.Minute))
	subject := domain.NewSubjectID()
	seedStay(t, svc, subject, "FR", "2025-03-01", "2025-03-12")

	status, err := svc.Status(context.Background(), subject, mustDate(t, "2025-03-15"))
	require.NoError(t, err)
	assert.Equal(t, 12, status.DaysUsed)
	assert.Equal(t, -2, status.DaysRemaining)
	assert.Equal(t, models.RiskRed, status.RiskLevel)
}
