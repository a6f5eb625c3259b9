// Package ports defines shared interfaces for the residency module.
// Interfaces live here when consumed by multiple packages to avoid
// duplication; implementations live under store/.
package ports

import (
	"context"
	"time"

	"daywise/internal/residency/models"
	id "daywise/pkg/domain"
)

// StayStore persists stay records. The engine never touches the store: the
// service loads a subject's full history, hands the engine an immutable
// snapshot, and discards the working set.
type StayStore interface {
	// Save inserts or updates a stay record.
	Save(ctx context.Context, stay *models.Stay) error

	// Get retrieves one stay by ID.
	Get(ctx context.Context, stayID id.StayID) (*models.Stay, error)

	// ListBySubject returns a subject's full stay history ordered by entry date.
	ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]models.Stay, error)

	// Delete removes a stay record.
	Delete(ctx context.Context, stayID id.StayID) error

	// ListSubjects returns every subject with at least one stay, for sweeps.
	ListSubjects(ctx context.Context) ([]id.SubjectID, error)
}

// StatusCache is an optional read-through cache of computed daily statuses.
// The engine itself stays pure and cache-free; only the service layer reads
// and writes here. Invalidation is per subject, on any stay mutation.
type StatusCache interface {
	// Get returns the cached status for the subject and date, or nil on miss.
	Get(ctx context.Context, subjectID id.SubjectID, date id.Date) (*models.DailyStatus, error)

	// Set stores a computed status with a TTL.
	Set(ctx context.Context, subjectID id.SubjectID, status models.DailyStatus, ttl time.Duration) error

	// Invalidate drops all cached statuses for a subject.
	Invalidate(ctx context.Context, subjectID id.SubjectID) error
}
