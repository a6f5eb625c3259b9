package stay

import (
	"context"
	"sort"
	"sync"

	"daywise/internal/residency/models"
	id "daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across the in-memory and
// postgres implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "stay not found")

// InMemoryStayStore favors clarity over performance. It backs unit tests and
// single-process deployments.
type InMemoryStayStore struct {
	mu    sync.RWMutex
	stays map[id.StayID]models.Stay
}

func NewInMemoryStayStore() *InMemoryStayStore {
	return &InMemoryStayStore{stays: make(map[id.StayID]models.Stay)}
}

func (s *InMemoryStayStore) Save(_ context.Context, stay *models.Stay) error {
	if err := stay.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stays[stay.ID] = *stay
	return nil
}

func (s *InMemoryStayStore) Get(_ context.Context, stayID id.StayID) (*models.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if stay, ok := s.stays[stayID]; ok {
		copied := stay
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStayStore) ListBySubject(_ context.Context, subjectID id.SubjectID) ([]models.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Stay, 0)
	for _, stay := range s.stays {
		if stay.SubjectID == subjectID {
			out = append(out, stay)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate != out[j].EntryDate {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemoryStayStore) Delete(_ context.Context, stayID id.StayID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stays[stayID]; !ok {
		return ErrNotFound
	}
	delete(s.stays, stayID)
	return nil
}

func (s *InMemoryStayStore) ListSubjects(_ context.Context) ([]id.SubjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[id.SubjectID]struct{})
	for _, stay := range s.stays {
		seen[stay.SubjectID] = struct{}{}
	}
	out := make([]id.SubjectID, 0, len(seen))
	for subject := range seen {
		out = append(out, subject)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
