package project

import (
	"context"
	"time"

	"conforma/internal/evaluation"
	id "conforma/pkg/domain"
)

// Store persists projects and the evaluations document each project carries.
// Implementations return sentinel errors (pkg/platform/sentinel); services
// translate them into domain errors.
//
// Implementations must honor a transaction carried in the context
// (pkg/platform/tx): the read-previous/write-new evaluation sequence runs
// inside one transaction together with the changelog inserts.
type Store interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, projectID id.ProjectID) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	// GetEvaluation returns the stored evaluation for one requirement, or
	// (nil, nil) when the requirement was never saved. sentinel.ErrNotFound
	// means the project itself does not exist.
	GetEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) (*evaluation.Evaluation, error)
	// Evaluations returns the project's full evaluations document keyed by
	// requirement id, for statistics aggregation.
	Evaluations(ctx context.Context, projectID id.ProjectID) (map[string]evaluation.Evaluation, error)
	// SaveEvaluation replaces one requirement's evaluation wholesale and
	// touches the project's updatedAt.
	SaveEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID, eval evaluation.Evaluation, now time.Time) error
}
