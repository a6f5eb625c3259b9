package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"daywise/internal/residency/metrics"
	"daywise/internal/residency/models"
	"daywise/internal/residency/service"
	"daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

const defaultWorkers = 4

// Sweeper evaluates every known subject's status at a reference date. It is
// meant for periodic batch runs: flagging subjects at amber or red risk
// without waiting for them to query their own status.
type Sweeper struct {
	svc     *service.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	workers int
}

type Option func(s *Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

func WithWorkers(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.workers = n
		}
	}
}

func New(svc *service.Service, opts ...Option) (*Sweeper, error) {
	if svc == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "service is required")
	}
	s := &Sweeper{
		svc:     svc,
		logger:  slog.Default(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Flagged is one subject whose status warrants attention.
type Flagged struct {
	SubjectID domain.SubjectID   `json:"subject_id"`
	Status    models.DailyStatus `json:"status"`
}

// Summary is the outcome of one sweep run.
type Summary struct {
	ReferenceDate domain.Date `json:"reference_date"`
	Subjects      int         `json:"subjects"`
	Green         int         `json:"green"`
	Amber         int         `json:"amber"`
	Red           int         `json:"red"`
	Flagged       []Flagged   `json:"flagged,omitempty"`
}

// Run evaluates all subjects concurrently, bounded by the worker count, and
// cancels outstanding work on the first failure. Flagged collects the amber
// and red subjects; green ones are only counted.
func (s *Sweeper) Run(ctx context.Context, ref domain.Date) (*Summary, error) {
	if ref.IsZero() {
		ref = domain.Today()
	}
	start := time.Now()

	subjects, err := s.svc.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{ReferenceDate: ref, Subjects: len(subjects)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, subject := range subjects {
		g.Go(func() error {
			status, err := s.svc.Status(ctx, subject, ref)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "sweep failed for subject "+subject.String())
			}
			mu.Lock()
			defer mu.Unlock()
			switch status.RiskLevel {
			case models.RiskGreen:
				summary.Green++
			case models.RiskAmber:
				summary.Amber++
				summary.Flagged = append(summary.Flagged, Flagged{SubjectID: subject, Status: *status})
			case models.RiskRed:
				summary.Red++
				summary.Flagged = append(summary.Flagged, Flagged{SubjectID: subject, Status: *status})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveSweep(start, summary.Subjects, summary.Green, summary.Amber, summary.Red)
	}
	s.logger.Info("sweep completed",
		"reference_date", ref,
		"subjects", summary.Subjects,
		"green", summary.Green,
		"amber", summary.Amber,
		"red", summary.Red,
		"duration", time.Since(start))
	return summary, nil
}
