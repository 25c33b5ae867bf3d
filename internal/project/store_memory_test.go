package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"conforma/internal/evaluation"
	id "conforma/pkg/domain"
	"conforma/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) createProject(name string, createdAt time.Time) *Project {
	p, err := New(id.ProjectID(uuid.New()), name, "iso9001", createdAt)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, p))
	return p
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	p := s.createProject("Acme QMS", s.now)

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, found.Name)

	s.Run("duplicate id conflicts", func() {
		s.ErrorIs(s.store.Create(s.ctx, p), sentinel.ErrConflict)
	})

	s.Run("unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.ProjectID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestListOrdersByCreation() {
	second := s.createProject("Second", s.now.Add(time.Hour))
	first := s.createProject("First", s.now)

	projects, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal(first.ID, projects[0].ID)
	s.Equal(second.ID, projects[1].ID)
}

func (s *InMemoryStoreSuite) TestEvaluations() {
	p := s.createProject("Acme QMS", s.now)

	s.Run("never-saved requirement reads as absent, not an error", func() {
		eval, err := s.store.GetEvaluation(s.ctx, p.ID, "4.1")
		s.Require().NoError(err)
		s.Nil(eval)
	})

	s.Run("unknown project is not found", func() {
		_, err := s.store.GetEvaluation(s.ctx, id.ProjectID(uuid.New()), "4.1")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("save replaces wholesale and touches updatedAt", func() {
		saveTime := s.now.Add(time.Hour)
		err := s.store.SaveEvaluation(s.ctx, p.ID, "4.1", evaluation.Evaluation{
			Status: evaluation.StatusPartial,
			Notes:  "first pass",
		}, saveTime)
		s.Require().NoError(err)

		err = s.store.SaveEvaluation(s.ctx, p.ID, "4.1", evaluation.Evaluation{
			Status: evaluation.StatusImplemented,
		}, saveTime.Add(time.Hour))
		s.Require().NoError(err)

		eval, err := s.store.GetEvaluation(s.ctx, p.ID, "4.1")
		s.Require().NoError(err)
		s.Require().NotNil(eval)
		s.Equal(evaluation.StatusImplemented, eval.Status)
		s.Empty(eval.Notes)

		updated, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(saveTime.Add(time.Hour), updated.UpdatedAt)
	})

	s.Run("full document keyed by requirement id", func() {
		err := s.store.SaveEvaluation(s.ctx, p.ID, "4.2", evaluation.Evaluation{
			Status: evaluation.StatusNotApplicable,
		}, s.now)
		s.Require().NoError(err)

		evals, err := s.store.Evaluations(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Len(evals, 2)
		s.Equal(evaluation.StatusNotApplicable, evals["4.2"].Status)
	})

	s.Run("stored records are isolated from returned references", func() {
		err := s.store.SaveEvaluation(s.ctx, p.ID, "5.1", evaluation.Evaluation{
			Status:        evaluation.StatusPartial,
			EvidenceNotes: []string{"SOP-1"},
		}, s.now)
		s.Require().NoError(err)

		eval, err := s.store.GetEvaluation(s.ctx, p.ID, "5.1")
		s.Require().NoError(err)
		eval.EvidenceNotes[0] = "mutated"

		again, err := s.store.GetEvaluation(s.ctx, p.ID, "5.1")
		s.Require().NoError(err)
		s.Equal([]string{"SOP-1"}, again.EvidenceNotes)
	})
}
