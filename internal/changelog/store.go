package changelog

import (
	"context"

	id "conforma/pkg/domain"
)

// Store persists changelog entries. Append-only: no update or delete
// operations exist by design.
//
// Implementations must honor a transaction carried in the context
// (pkg/platform/tx) so entries commit atomically with the evaluation write
// that produced them.
type Store interface {
	// Append persists entries in the given order.
	Append(ctx context.Context, entries []Entry) error
	// ListByProject returns one page of a project's entries ordered
	// most-recent-first, plus the true unpaginated total.
	ListByProject(ctx context.Context, projectID id.ProjectID, limit, offset int) ([]Entry, int, error)
	// ListByRequirement returns the full history for one requirement,
	// oldest-first.
	ListByRequirement(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) ([]Entry, error)
}
