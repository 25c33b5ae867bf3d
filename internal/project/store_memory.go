package project

import (
	"context"
	"sort"
	"sync"
	"time"

	"conforma/internal/evaluation"
	id "conforma/pkg/domain"
	"conforma/pkg/platform/sentinel"
)

type record struct {
	project     Project
	evaluations map[string]evaluation.Evaluation
}

// InMemoryStore keeps projects and their evaluation documents in memory.
// Used for tests and for running without a database. Callers get copies;
// stored records are never aliased.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[id.ProjectID]*record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{projects: make(map[id.ProjectID]*record)}
}

func (s *InMemoryStore) Create(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[p.ID]; exists {
		return sentinel.ErrConflict
	}
	s.projects[p.ID] = &record{
		project:     *p,
		evaluations: make(map[string]evaluation.Evaluation),
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, projectID id.ProjectID) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.projects[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p := rec.project
	return &p, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Project, 0, len(s.projects))
	for _, rec := range s.projects {
		p := rec.project
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) GetEvaluation(_ context.Context, projectID id.ProjectID, requirementID id.RequirementID) (*evaluation.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.projects[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	stored, ok := rec.evaluations[string(requirementID)]
	if !ok {
		return nil, nil
	}
	clone := stored.Clone()
	return &clone, nil
}

func (s *InMemoryStore) Evaluations(_ context.Context, projectID id.ProjectID) (map[string]evaluation.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.projects[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make(map[string]evaluation.Evaluation, len(rec.evaluations))
	for reqID, eval := range rec.evaluations {
		out[reqID] = eval.Clone()
	}
	return out, nil
}

func (s *InMemoryStore) SaveEvaluation(_ context.Context, projectID id.ProjectID, requirementID id.RequirementID, eval evaluation.Evaluation, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.projects[projectID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.evaluations[string(requirementID)] = eval.Clone()
	rec.project.UpdatedAt = now
	return nil
}
