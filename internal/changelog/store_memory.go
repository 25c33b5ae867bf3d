package changelog

import (
	"context"
	"sync"

	id "conforma/pkg/domain"
)

// InMemoryStore keeps changelog entries per project in append order.
// Used for tests and for running without a database.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.ProjectID][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.ProjectID][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		s.entries[entry.ProjectID] = append(s.entries[entry.ProjectID], entry)
	}
	return nil
}

func (s *InMemoryStore) ListByProject(_ context.Context, projectID id.ProjectID, limit, offset int) ([]Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.entries[projectID]
	total := len(all)
	if limit <= 0 || offset < 0 || offset >= total {
		return []Entry{}, total, nil
	}

	// Most-recent-first: walk the append-ordered slice backwards.
	page := make([]Entry, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(page) < limit; i-- {
		page = append(page, all[i])
	}
	return page, total, nil
}

func (s *InMemoryStore) ListByRequirement(_ context.Context, projectID id.ProjectID, requirementID id.RequirementID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []Entry
	for _, entry := range s.entries[projectID] {
		if entry.RequirementID == requirementID {
			history = append(history, entry)
		}
	}
	return history, nil
}
