// Package service orchestrates the evaluation lifecycle: reads with
// default-record semantics, the transactional save path that derives
// changelog entries from a field diff, changelog queries, and the
// statistics aggregation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"conforma/internal/catalog"
	"conforma/internal/changelog"
	"conforma/internal/evaluation"
	"conforma/internal/evaluation/metrics"
	"conforma/internal/project"
	"conforma/internal/stats"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/platform/sentinel"
	"conforma/pkg/requestcontext"
)

// Changelog pagination bounds. The cap keeps one page from dragging an entire
// multi-year audit trail through a single response.
const (
	defaultChangelogLimit = 50
	maxChangelogLimit     = 500
)

// Publisher forwards committed changelog entries to an external audit feed.
// Publish must not block the request path and must never fail the save.
type Publisher interface {
	Publish(ctx context.Context, entries []changelog.Entry)
}

// Service coordinates project and changelog stores around the catalog. All
// writes for one save run inside a single StoreTx transaction.
type Service struct {
	projects  project.Store
	changelog changelog.Store
	library   *catalog.Library
	storeTx   StoreTx
	metrics   *metrics.Metrics
	logger    *slog.Logger
	feed      Publisher
	tracer    trace.Tracer

	// Per-certification projections, built once at construction. The library
	// is immutable after load, so these never go stale.
	flattened map[id.CertificationID][]catalog.FlattenedRequirement
	indexes   map[id.CertificationID]map[string]catalog.FlattenedRequirement
}

type Option func(*Service)

// WithAuditFeed attaches an external audit feed publisher. Without it, saves
// still commit; only the feed forwarding is skipped.
func WithAuditFeed(p Publisher) Option {
	return func(s *Service) { s.feed = p }
}

func NewService(
	projects project.Store,
	changelogStore changelog.Store,
	library *catalog.Library,
	storeTx StoreTx,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		projects:  projects,
		changelog: changelogStore,
		library:   library,
		storeTx:   storeTx,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("conforma/evaluation"),
		flattened: make(map[id.CertificationID][]catalog.FlattenedRequirement),
		indexes:   make(map[id.CertificationID]map[string]catalog.FlattenedRequirement),
	}
	for _, cert := range library.Certifications() {
		s.flattened[cert.ID] = catalog.Flatten(cert)
		s.indexes[cert.ID] = catalog.RequirementIndex(cert)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetEvaluation returns the stored evaluation for one requirement, or the
// default not_evaluated record when none was ever saved. Unknown projects and
// requirement ids outside the project's catalog are not_found errors; an
// unsaved evaluation is not.
func (s *Service) GetEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) (evaluation.Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.Get")
	defer span.End()

	if _, err := s.resolveRequirement(ctx, projectID, requirementID); err != nil {
		return evaluation.Evaluation{}, err
	}
	stored, err := s.projects.GetEvaluation(ctx, projectID, requirementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return evaluation.Evaluation{}, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return evaluation.Evaluation{}, dErrors.Wrap(err, dErrors.CodeInternal, "load evaluation")
	}
	if stored == nil {
		return evaluation.Default(), nil
	}
	return *stored, nil
}

// SaveEvaluation replaces one requirement's evaluation wholesale and records
// the derived field changes in the changelog, atomically. The status timeline
// is carried forward from the stored record; client-supplied history is
// discarded. Returns the record as persisted.
//
// Concurrent saves are last-write-wins: the loser's values are overwritten in
// the evaluation but its changelog entries survive, so the audit trail still
// shows both writes.
func (s *Service) SaveEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID, incoming evaluation.Evaluation) (evaluation.Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.Save")
	defer span.End()
	start := time.Now()

	incoming.Normalize()
	if err := incoming.Validate(); err != nil {
		return evaluation.Evaluation{}, err
	}
	if _, err := s.resolveRequirement(ctx, projectID, requirementID); err != nil {
		return evaluation.Evaluation{}, err
	}

	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)

	var entries []changelog.Entry
	err := s.storeTx.RunInTx(ctx, projectID, func(ctx context.Context) error {
		prev, err := s.projects.GetEvaluation(ctx, projectID, requirementID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "project not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load previous evaluation")
		}

		// Diff against the stored record, never against what the client
		// believes was there.
		changes := evaluation.Diff(prev, &incoming)
		evaluation.CarryHistory(prev, &incoming, now)

		if err := s.projects.SaveEvaluation(ctx, projectID, requirementID, incoming, now); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "project not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "save evaluation")
		}

		if len(changes) == 0 {
			return nil
		}
		entries = make([]changelog.Entry, 0, len(changes))
		for _, change := range changes {
			entries = append(entries, changelog.Entry{
				ID:               uuid.New(),
				ProjectID:        projectID,
				RequirementID:    requirementID,
				ActorID:          actor.ID,
				ActorDisplayName: actor.DisplayName,
				Field:            change.Field,
				OldValue:         change.OldValue,
				NewValue:         change.NewValue,
				CreatedAt:        now,
			})
		}
		if err := s.changelog.Append(ctx, entries); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "append changelog")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return evaluation.Evaluation{}, err
	}

	s.metrics.ObserveSave(start)
	s.metrics.IncrementEvaluationsSaved()
	s.metrics.AddChangelogEntries(len(entries))
	s.logger.InfoContext(ctx, "evaluation saved",
		slog.String("project_id", projectID.String()),
		slog.String("requirement_id", requirementID.String()),
		slog.String("status", string(incoming.Status)),
		slog.Int("changes", len(entries)),
	)

	// Feed forwarding happens after commit and outlives the request.
	if s.feed != nil && len(entries) > 0 {
		s.feed.Publish(context.WithoutCancel(ctx), entries)
	}
	return incoming, nil
}

// ProjectChangelog returns one page of a project's changelog, most recent
// first, plus the true unpaginated total. Limits are clamped to
// [1, maxChangelogLimit]; zero or negative means the default page size.
func (s *Service) ProjectChangelog(ctx context.Context, projectID id.ProjectID, limit, offset int) ([]changelog.Entry, int, error) {
	ctx, span := s.tracer.Start(ctx, "changelog.ListByProject")
	defer span.End()

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = defaultChangelogLimit
	}
	if limit > maxChangelogLimit {
		limit = maxChangelogLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, total, err := s.changelog.ListByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "list project changelog")
	}
	return entries, total, nil
}

// RequirementChangelog returns the full audit history for one requirement,
// oldest first.
func (s *Service) RequirementChangelog(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) ([]changelog.Entry, error) {
	ctx, span := s.tracer.Start(ctx, "changelog.ListByRequirement")
	defer span.End()

	if _, err := s.resolveRequirement(ctx, projectID, requirementID); err != nil {
		return nil, err
	}
	entries, err := s.changelog.ListByRequirement(ctx, projectID, requirementID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list requirement changelog")
	}
	return entries, nil
}

// Stats aggregates compliance statistics over the project's full catalog.
// Returns (nil, nil) when the certification has an empty catalog: the caller
// must render "no data available", not zero compliance.
func (s *Service) Stats(ctx context.Context, projectID id.ProjectID) (*stats.ProjectStats, error) {
	ctx, span := s.tracer.Start(ctx, "stats.Compute")
	defer span.End()

	p, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	flattened, ok := s.flattened[p.CertificationID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "certification %q is not available", p.CertificationID)
	}
	evaluations, err := s.projects.Evaluations(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load evaluations")
	}
	s.metrics.IncrementStatsComputed()
	return stats.Compute(flattened, evaluations), nil
}

func (s *Service) findProject(ctx context.Context, projectID id.ProjectID) (*project.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load project")
	}
	return p, nil
}

// resolveRequirement checks the project exists and the requirement id belongs
// to the project's certification catalog.
func (s *Service) resolveRequirement(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) (*project.Project, error) {
	p, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	index, ok := s.indexes[p.CertificationID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "certification %q is not available", p.CertificationID)
	}
	if _, ok := index[string(requirementID)]; !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "requirement %q is not part of certification %q", requirementID, p.CertificationID)
	}
	return p, nil
}
