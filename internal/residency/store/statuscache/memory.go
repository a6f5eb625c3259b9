// Package statuscache caches computed daily statuses per subject. The engine
// never reads or writes here; only the service layer does, and every stay
// mutation invalidates the subject's entries. Both implementations use a
// per-subject generation counter so invalidation is O(1) instead of a key
// scan: bumping the generation orphans all previous entries.
package statuscache

import (
	"context"
	"sync"
	"time"

	"daywise/internal/residency/models"
	id "daywise/pkg/domain"
)

type memoryEntry struct {
	status    models.DailyStatus
	expiresAt time.Time
}

type memoryKey struct {
	subject    id.SubjectID
	generation uint64
	date       id.Date
}

// InMemoryStatusCache backs tests and single-process deployments.
type InMemoryStatusCache struct {
	mu          sync.RWMutex
	entries     map[memoryKey]memoryEntry
	generations map[id.SubjectID]uint64
	clock       func() time.Time
}

func NewInMemoryStatusCache() *InMemoryStatusCache {
	return &InMemoryStatusCache{
		entries:     make(map[memoryKey]memoryEntry),
		generations: make(map[id.SubjectID]uint64),
		clock:       time.Now,
	}
}

func (c *InMemoryStatusCache) Get(_ context.Context, subjectID id.SubjectID, date id.Date) (*models.DailyStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := memoryKey{subject: subjectID, generation: c.generations[subjectID], date: date}
	entry, ok := c.entries[key]
	if !ok || c.clock().After(entry.expiresAt) {
		return nil, nil
	}
	status := entry.status
	return &status, nil
}

func (c *InMemoryStatusCache) Set(_ context.Context, subjectID id.SubjectID, status models.DailyStatus, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := memoryKey{subject: subjectID, generation: c.generations[subjectID], date: status.Date}
	c.entries[key] = memoryEntry{status: status, expiresAt: c.clock().Add(ttl)}
	return nil
}

func (c *InMemoryStatusCache) Invalidate(_ context.Context, subjectID id.SubjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[subjectID]++
	return nil
}
