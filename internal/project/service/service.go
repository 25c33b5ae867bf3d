// Package service orchestrates project lifecycle operations around the
// catalog: creation against a known certification, lookup, and listing.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"conforma/internal/catalog"
	"conforma/internal/project"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/platform/sentinel"
	"conforma/pkg/requestcontext"
)

// Service coordinates the project store with the certification catalog.
type Service struct {
	projects project.Store
	library  *catalog.Library
	logger   *slog.Logger
}

func NewService(projects project.Store, library *catalog.Library, logger *slog.Logger) *Service {
	return &Service{projects: projects, library: library, logger: logger}
}

// Create registers a new project against an existing certification. A
// certification with an empty catalog is accepted; its statistics are simply
// absent until the catalog ships.
func (s *Service) Create(ctx context.Context, name string, certID id.CertificationID) (*project.Project, error) {
	if _, ok := s.library.Certification(certID); !ok {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown certification %q", certID)
	}

	now := requestcontext.Now(ctx)
	p, err := project.New(id.ProjectID(uuid.New()), name, certID, now)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "project already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create project")
	}

	s.logger.InfoContext(ctx, "project created",
		slog.String("project_id", p.ID.String()),
		slog.String("certification", certID.String()),
	)
	return p, nil
}

// Get returns one project by id.
func (s *Service) Get(ctx context.Context, projectID id.ProjectID) (*project.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load project")
	}
	return p, nil
}

// List returns all projects in creation order.
func (s *Service) List(ctx context.Context) ([]*project.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list projects")
	}
	return projects, nil
}
