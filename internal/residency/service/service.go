package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"daywise/internal/residency/engine"
	"daywise/internal/residency/metrics"
	"daywise/internal/residency/models"
	"daywise/internal/residency/ports"
	"daywise/internal/residency/store/stay"
	"daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

const defaultCacheTTL = 24 * time.Hour

// Service orchestrates stay management and presence calculations for subjects.
// Point-in-time status reads go through the cache when one is configured;
// writes invalidate the subject's cached entries.
type Service struct {
	stays    ports.StayStore
	cache    ports.StatusCache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	cacheTTL time.Duration
	defaults models.CalcConfig
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithCache(cache ports.StatusCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithDefaults overrides the calculation defaults (limit, window, thresholds,
// territories, effective start) applied to every computation.
func WithDefaults(cfg models.CalcConfig) Option {
	return func(s *Service) {
		s.defaults = cfg
	}
}

// New constructs a Service. The stay store is required.
func New(stays ports.StayStore, opts ...Option) (*Service, error) {
	if stays == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "stay store is required")
	}
	s := &Service{
		stays:    stays,
		logger:   slog.Default(),
		cacheTTL: defaultCacheTTL,
		defaults: models.NewCalcConfig(0, models.DefaultTerritories()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// configAt returns the service defaults pinned to a reference date and mode.
func (s *Service) configAt(ref domain.Date, mode models.Mode) models.CalcConfig {
	return s.defaults.AtReference(ref, mode)
}

// Status computes the subject's day usage and risk level as observed on the
// reference date. Cached results are served when available.
func (s *Service) Status(ctx context.Context, subjectID domain.SubjectID, ref domain.Date) (*models.DailyStatus, error) {
	if ref.IsZero() {
		ref = domain.Today()
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, subjectID, ref)
		if err != nil {
			s.logger.Warn("status cache read failed", "subject_id", subjectID, "error", err)
		} else if cached != nil {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
	}

	cfg := s.configAt(ref, models.ModeAudit)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stays, err := s.stays.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stays")
	}

	presence, err := engine.BuildPresence(stays, cfg)
	if err != nil {
		return nil, err
	}
	status := engine.StatusAt(presence, ref, cfg)
	if s.metrics != nil {
		s.metrics.StatusComputed.Inc()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, subjectID, status, s.cacheTTL); err != nil {
			s.logger.Warn("status cache write failed", "subject_id", subjectID, "error", err)
		}
	}
	return &status, nil
}

// Calendar computes the per-day status vector over [from, to], observed on
// the `to` date. Vectors are not cached; the sliding computation is cheap
// relative to a per-day cache fill.
func (s *Service) Calendar(ctx context.Context, subjectID domain.SubjectID, from, to domain.Date) ([]models.DailyStatus, error) {
	start := time.Now()
	cfg := s.configAt(to, models.ModeAudit)

	stays, err := s.stays.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stays")
	}

	vector, err := engine.ComputeVector(stays, from, to, cfg)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveVector(start)
	}
	return vector, nil
}

// Forecast evaluates a prospective trip against the subject's history. The
// reference date is the trip's entry date: days that will have expired by
// then no longer count.
func (s *Service) Forecast(ctx context.Context, subjectID domain.SubjectID, prospective models.Stay) (*models.ForecastResult, error) {
	start := time.Now()
	cfg := s.configAt(prospective.EntryDate, models.ModePlanning)

	stays, err := s.stays.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stays")
	}

	result, err := engine.Forecast(prospective, stays, cfg)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveForecast(start)
	}
	return result, nil
}

// SafeEntry finds the earliest entry date, at or after the desired one, on
// which a trip of the given length in the given territory would remain
// within the limit.
func (s *Service) SafeEntry(ctx context.Context, subjectID domain.SubjectID, territory string, earliest domain.Date, tripDuration int) (*models.SafeEntryResult, error) {
	if tripDuration < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "trip duration must be at least one day")
	}
	if earliest.IsZero() {
		earliest = domain.Today()
	}
	start := time.Now()
	cfg := s.configAt(earliest, models.ModePlanning)

	stays, err := s.stays.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stays")
	}

	exit := earliest.AddDays(tripDuration - 1)
	prospective := models.Stay{
		SubjectID: subjectID,
		Territory: territory,
		EntryDate: earliest,
		ExitDate:  &exit,
	}
	result, err := engine.EarliestCompliantStart(prospective, stays, cfg)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveForecast(start)
	}
	return result, nil
}

// AddStay validates and persists a stay, then invalidates the subject's
// cached statuses.
func (s *Service) AddStay(ctx context.Context, st models.Stay) (*models.Stay, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if st.ID.IsNil() {
		st.ID = domain.NewStayID()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	st.Territory = models.NormalizeTerritory(st.Territory)

	if err := s.stays.Save(ctx, &st); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save stay")
	}
	s.invalidate(ctx, st.SubjectID)
	s.logger.Info("stay saved",
		"stay_id", st.ID,
		"subject_id", st.SubjectID,
		"territory", st.Territory,
		"entry_date", st.EntryDate,
		"ongoing", st.Ongoing())
	return &st, nil
}

// RemoveStay deletes a stay and invalidates the subject's cached statuses.
func (s *Service) RemoveStay(ctx context.Context, subjectID domain.SubjectID, stayID domain.StayID) error {
	st, err := s.stays.Get(ctx, stayID)
	if err != nil {
		if errors.Is(err, stay.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "stay not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stay")
	}
	if st.SubjectID != subjectID {
		return dErrors.New(dErrors.CodeNotFound, "stay not found")
	}

	if err := s.stays.Delete(ctx, stayID); err != nil {
		if errors.Is(err, stay.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "stay not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete stay")
	}
	s.invalidate(ctx, subjectID)
	s.logger.Info("stay deleted", "stay_id", stayID, "subject_id", subjectID)
	return nil
}

// ListStays returns the subject's stays ordered by entry date.
func (s *Service) ListStays(ctx context.Context, subjectID domain.SubjectID) ([]models.Stay, error) {
	stays, err := s.stays.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stays")
	}
	return stays, nil
}

// ListSubjects returns every subject with at least one recorded stay.
func (s *Service) ListSubjects(ctx context.Context) ([]domain.SubjectID, error) {
	subjects, err := s.stays.ListSubjects(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subjects")
	}
	return subjects, nil
}

// Defaults exposes the service's calculation defaults for callers that need
// the window geometry (handlers, sweeps).
func (s *Service) Defaults() models.CalcConfig {
	return s.defaults
}

func (s *Service) invalidate(ctx context.Context, subjectID domain.SubjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, subjectID); err != nil {
		s.logger.Warn("status cache invalidation failed", "subject_id", subjectID, "error", err)
	}
}
