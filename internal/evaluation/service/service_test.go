package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"conforma/internal/catalog"
	"conforma/internal/changelog"
	"conforma/internal/evaluation"
	"conforma/internal/evaluation/metrics"
	"conforma/internal/project"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/requestcontext"
)

// Prometheus collectors register once per process; suites share one instance.
var testMetrics = metrics.New()

type capturedFeed struct {
	published [][]changelog.Entry
}

func (f *capturedFeed) Publish(_ context.Context, entries []changelog.Entry) {
	f.published = append(f.published, entries)
}

type ServiceSuite struct {
	suite.Suite
	svc       *Service
	projects  *project.InMemoryStore
	changelog *changelog.InMemoryStore
	feed      *capturedFeed
	projectID id.ProjectID
	ctx       context.Context
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	library, err := catalog.Load()
	s.Require().NoError(err)

	s.projects = project.NewInMemoryStore()
	s.changelog = changelog.NewInMemoryStore()
	s.feed = &capturedFeed{}
	s.svc = NewService(
		s.projects, s.changelog, library, NewMemoryTx(), testMetrics,
		slog.New(slog.DiscardHandler),
		WithAuditFeed(s.feed),
	)

	s.now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.projectID = id.ProjectID(uuid.New())
	p, err := project.New(s.projectID, "Acme QMS", "iso9001", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.projects.Create(context.Background(), p))

	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithActor(ctx, requestcontext.ActorIdentity{
		ID:          "auditor-1",
		DisplayName: "Jane Auditor",
	})
}

func (s *ServiceSuite) TestGetEvaluation() {
	s.Run("unsaved requirement yields the default record, not an error", func() {
		eval, err := s.svc.GetEvaluation(s.ctx, s.projectID, "4.1")
		s.Require().NoError(err)
		s.Equal(evaluation.StatusNotEvaluated, eval.Status)
		s.Empty(eval.History)
	})

	s.Run("unknown project", func() {
		_, err := s.svc.GetEvaluation(s.ctx, id.ProjectID(uuid.New()), "4.1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("requirement id outside the certification catalog", func() {
		_, err := s.svc.GetEvaluation(s.ctx, s.projectID, "99.99")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("saved record comes back as persisted", func() {
		_, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "4.2", evaluation.Evaluation{
			Status: evaluation.StatusPartial,
			Notes:  "context analysis drafted",
		})
		s.Require().NoError(err)

		eval, err := s.svc.GetEvaluation(s.ctx, s.projectID, "4.2")
		s.Require().NoError(err)
		s.Equal(evaluation.StatusPartial, eval.Status)
		s.Equal("context analysis drafted", eval.Notes)
	})
}

func (s *ServiceSuite) TestSaveEvaluation() {
	s.Run("first save records one synthetic status transition", func() {
		saved, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "4.1", evaluation.Evaluation{
			Status: evaluation.StatusPartial,
			Notes:  "stakeholder list in progress",
		})
		s.Require().NoError(err)
		s.Require().Len(saved.History, 1)
		s.Equal(evaluation.StatusNotEvaluated, saved.History[0].FromStatus)
		s.Equal(evaluation.StatusPartial, saved.History[0].ToStatus)
		s.Equal(s.now, saved.History[0].Date)

		entries, err := s.svc.RequirementChangelog(s.ctx, s.projectID, "4.1")
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal("status", entries[0].Field)
		s.Equal("not_evaluated", entries[0].OldValue)
		s.Equal("partial", entries[0].NewValue)
		s.Equal("auditor-1", entries[0].ActorID)
		s.Equal("Jane Auditor", entries[0].ActorDisplayName)
		s.Equal(s.now, entries[0].CreatedAt)
	})

	s.Run("second save diffs every tracked field against the stored record", func() {
		_, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "5.1", evaluation.Evaluation{
			Status:   evaluation.StatusPartial,
			Notes:    "leadership review scheduled",
			Priority: evaluation.PriorityHigh,
		})
		s.Require().NoError(err)

		later := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))
		saved, err := s.svc.SaveEvaluation(later, s.projectID, "5.1", evaluation.Evaluation{
			Status:      evaluation.StatusImplemented,
			Notes:       "leadership review complete",
			Priority:    evaluation.PriorityHigh,
			Responsible: "Quality Lead",
		})
		s.Require().NoError(err)
		s.Require().Len(saved.History, 2)
		s.Equal(evaluation.StatusPartial, saved.History[1].FromStatus)
		s.Equal(evaluation.StatusImplemented, saved.History[1].ToStatus)

		entries, err := s.svc.RequirementChangelog(s.ctx, s.projectID, "5.1")
		s.Require().NoError(err)
		// First save: synthetic status entry only. Second save: status,
		// notes, responsible, in fixed field order.
		s.Require().Len(entries, 4)
		s.Equal("status", entries[1].Field)
		s.Equal("notes", entries[2].Field)
		s.Equal("responsible", entries[3].Field)
		s.Equal("partial", entries[1].OldValue)
		s.Equal("implemented", entries[1].NewValue)
		s.Equal("", entries[3].OldValue)
		s.Equal("Quality Lead", entries[3].NewValue)
	})

	s.Run("identical resave writes no changelog entries and no history", func() {
		record := evaluation.Evaluation{
			Status:        evaluation.StatusImplemented,
			EvidenceNotes: []string{"SOP-7", "training records"},
		}
		saved, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "6.1", record)
		s.Require().NoError(err)
		s.Require().Len(saved.History, 1)

		resaved, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "6.1", record)
		s.Require().NoError(err)
		s.Len(resaved.History, 1)

		entries, err := s.svc.RequirementChangelog(s.ctx, s.projectID, "6.1")
		s.Require().NoError(err)
		s.Len(entries, 1)
	})

	s.Run("client-supplied history is discarded", func() {
		saved, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "7.1", evaluation.Evaluation{
			Status: evaluation.StatusImplemented,
			History: []evaluation.StatusChange{
				{Date: s.now, FromStatus: evaluation.StatusImplemented, ToStatus: evaluation.StatusImplemented},
				{Date: s.now, FromStatus: evaluation.StatusImplemented, ToStatus: evaluation.StatusImplemented},
			},
		})
		s.Require().NoError(err)
		s.Require().Len(saved.History, 1)
		s.Equal(evaluation.StatusNotEvaluated, saved.History[0].FromStatus)
	})

	s.Run("validation failure persists nothing", func() {
		_, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "8.1", evaluation.Evaluation{
			Status: "compliant-ish",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "status")

		eval, err := s.svc.GetEvaluation(s.ctx, s.projectID, "8.1")
		s.Require().NoError(err)
		s.Equal(evaluation.StatusNotEvaluated, eval.Status)

		entries, err := s.svc.RequirementChangelog(s.ctx, s.projectID, "8.1")
		s.Require().NoError(err)
		s.Empty(entries)
	})

	s.Run("unknown requirement id is rejected before any write", func() {
		_, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "4.1.9", evaluation.Evaluation{
			Status: evaluation.StatusImplemented,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("committed changes are forwarded to the audit feed", func() {
		before := len(s.feed.published)
		_, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "9.1", evaluation.Evaluation{
			Status: evaluation.StatusPartial,
		})
		s.Require().NoError(err)
		s.Require().Len(s.feed.published, before+1)
		s.Len(s.feed.published[before], 1)

		// A no-op save publishes nothing.
		_, err = s.svc.SaveEvaluation(s.ctx, s.projectID, "9.1", evaluation.Evaluation{
			Status: evaluation.StatusPartial,
		})
		s.Require().NoError(err)
		s.Len(s.feed.published, before+1)
	})
}

func (s *ServiceSuite) TestProjectChangelog() {
	// Three saves on three requirements, one hour apart.
	for i, reqID := range []id.RequirementID{"4.1", "4.2", "5.1"} {
		ctx := requestcontext.WithTime(s.ctx, s.now.Add(time.Duration(i)*time.Hour))
		_, err := s.svc.SaveEvaluation(ctx, s.projectID, reqID, evaluation.Evaluation{
			Status: evaluation.StatusImplemented,
		})
		s.Require().NoError(err)
	}

	s.Run("most recent first with true total", func() {
		entries, total, err := s.svc.ProjectChangelog(s.ctx, s.projectID, 2, 0)
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Require().Len(entries, 2)
		s.Equal(id.RequirementID("5.1"), entries[0].RequirementID)
		s.Equal(id.RequirementID("4.2"), entries[1].RequirementID)
	})

	s.Run("offset pages forward", func() {
		entries, total, err := s.svc.ProjectChangelog(s.ctx, s.projectID, 2, 2)
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Require().Len(entries, 1)
		s.Equal(id.RequirementID("4.1"), entries[0].RequirementID)
	})

	s.Run("zero limit means the default page size", func() {
		entries, total, err := s.svc.ProjectChangelog(s.ctx, s.projectID, 0, 0)
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Len(entries, 3)
	})

	s.Run("unknown project", func() {
		_, _, err := s.svc.ProjectChangelog(s.ctx, id.ProjectID(uuid.New()), 10, 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestProjectChangelogLimitCap() {
	ctx := context.Background()
	entries := make([]changelog.Entry, 0, 600)
	for i := 0; i < 600; i++ {
		entries = append(entries, changelog.Entry{
			ID:               uuid.New(),
			ProjectID:        s.projectID,
			RequirementID:    "4.1",
			ActorID:          "auditor-1",
			ActorDisplayName: "Jane Auditor",
			Field:            "notes",
			OldValue:         fmt.Sprintf("revision %d", i),
			NewValue:         fmt.Sprintf("revision %d", i+1),
			CreatedAt:        s.now.Add(time.Duration(i) * time.Minute),
		})
	}
	s.Require().NoError(s.changelog.Append(ctx, entries))

	s.Run("oversized limit is capped, total stays true", func() {
		page, total, err := s.svc.ProjectChangelog(s.ctx, s.projectID, 10000, 0)
		s.Require().NoError(err)
		s.Equal(600, total)
		s.Require().Len(page, 500)
		s.Equal("revision 600", page[0].NewValue)
	})

	s.Run("offset still pages past the cap boundary", func() {
		page, total, err := s.svc.ProjectChangelog(s.ctx, s.projectID, 10000, 550)
		s.Require().NoError(err)
		s.Equal(600, total)
		s.Len(page, 50)
	})
}

func (s *ServiceSuite) TestStats() {
	s.Run("aggregates the full catalog with unsaved requirements as not evaluated", func() {
		_, err := s.svc.SaveEvaluation(s.ctx, s.projectID, "4.1", evaluation.Evaluation{
			Status: evaluation.StatusImplemented,
		})
		s.Require().NoError(err)
		_, err = s.svc.SaveEvaluation(s.ctx, s.projectID, "4.2", evaluation.Evaluation{
			Status: evaluation.StatusNotApplicable, NAJustification: "single-site operation",
		})
		s.Require().NoError(err)

		result, err := s.svc.Stats(s.ctx, s.projectID)
		s.Require().NoError(err)
		s.Require().NotNil(result)
		s.Equal(78, result.Total)
		s.Equal(1, result.Implemented)
		s.Equal(1, result.NotApplicable)
		s.Equal(76, result.NotEvaluated)
		// 1 implemented of 77 applicable rounds to 1 percent.
		s.Equal(1, result.CompliancePercent)
		s.NotEmpty(result.Clauses)
		s.Equal("4", result.Clauses[0].ClauseNumber)
	})

	s.Run("unknown project", func() {
		_, err := s.svc.Stats(s.ctx, id.ProjectID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("empty catalog yields absent stats", func() {
		emptyID := id.ProjectID(uuid.New())
		p, err := project.New(emptyID, "ISMS rollout", "iso27001", s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.projects.Create(context.Background(), p))

		result, err := s.svc.Stats(s.ctx, emptyID)
		s.Require().NoError(err)
		s.Nil(result)
	})
}
