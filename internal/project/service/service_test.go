package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"conforma/internal/catalog"
	"conforma/internal/project"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/requestcontext"
)

type ProjectServiceSuite struct {
	suite.Suite
	svc *Service
	ctx context.Context
	now time.Time
}

func TestProjectServiceSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceSuite))
}

func (s *ProjectServiceSuite) SetupTest() {
	library, err := catalog.Load()
	s.Require().NoError(err)
	s.svc = NewService(project.NewInMemoryStore(), library, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ProjectServiceSuite) TestCreate() {
	s.Run("creates against a known certification", func() {
		p, err := s.svc.Create(s.ctx, "Acme QMS", "iso9001")
		s.Require().NoError(err)
		s.False(p.ID.IsZero())
		s.Equal("Acme QMS", p.Name)
		s.Equal(id.CertificationID("iso9001"), p.CertificationID)
		s.Equal(s.now, p.CreatedAt)
		s.Equal(s.now, p.UpdatedAt)
	})

	s.Run("accepts a certification with an empty catalog", func() {
		_, err := s.svc.Create(s.ctx, "ISMS rollout", "iso27001")
		s.Require().NoError(err)
	})

	s.Run("rejects an unknown certification", func() {
		_, err := s.svc.Create(s.ctx, "Acme QMS", "iso14001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects an empty name", func() {
		_, err := s.svc.Create(s.ctx, "", "iso9001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("rejects a name over 200 characters", func() {
		_, err := s.svc.Create(s.ctx, strings.Repeat("x", 201), "iso9001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("name length counts characters, not bytes", func() {
		_, err := s.svc.Create(s.ctx, strings.Repeat("ü", 200), "iso9001")
		s.Require().NoError(err)

		_, err = s.svc.Create(s.ctx, strings.Repeat("ü", 201), "iso9001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *ProjectServiceSuite) TestGet() {
	created, err := s.svc.Create(s.ctx, "Acme QMS", "iso9001")
	s.Require().NoError(err)

	s.Run("returns the created project", func() {
		p, err := s.svc.Get(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, p.ID)
		s.Equal("Acme QMS", p.Name)
	})

	s.Run("unknown project", func() {
		_, err := s.svc.Get(s.ctx, id.ProjectID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ProjectServiceSuite) TestList() {
	first, err := s.svc.Create(s.ctx, "First", "iso9001")
	s.Require().NoError(err)
	second, err := s.svc.Create(requestcontext.WithTime(s.ctx, s.now.Add(time.Minute)), "Second", "iso9001")
	s.Require().NoError(err)

	projects, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal(first.ID, projects[0].ID)
	s.Equal(second.ID, projects[1].ID)
}
